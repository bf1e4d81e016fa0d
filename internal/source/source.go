// Package source loads the JSON input document of a conversion run.
// It handles .json, .json.gz and .json.xz files and tolerates a leading
// byte order mark.
package source

import (
	"bytes"
	"compress/gzip"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/FocuswithJustin/versetable/core/errors"
	"github.com/FocuswithJustin/versetable/core/jsondoc"
	"github.com/FocuswithJustin/versetable/internal/validation"
)

// Compression names the container an input file was stored in.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionXZ   Compression = "xz"
)

// headerSize is how many leading bytes are sniffed for the file type.
const headerSize = 512

// Document is a decoded input file.
type Document struct {
	Path        string
	Root        any   // decoded with jsondoc
	Size        int64 // bytes on disk
	Digest      string
	Compression Compression
}

// CompressionFor reports the compression implied by a file name. The
// extension is matched case-insensitively, like the file type check.
func CompressionFor(path string) Compression {
	switch validation.FileTypeFor(path) {
	case validation.FileTypeXZ:
		return CompressionXZ
	case validation.FileTypeGzip:
		return CompressionGzip
	default:
		return CompressionNone
	}
}

// Digest returns the hex BLAKE3-256 digest of data.
func Digest(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Load reads and decodes the document at path.
func Load(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewInputNotFound(path, nil)
		}
		return nil, errors.NewIO("stat", path, err)
	}
	if info.IsDir() {
		return nil, errors.NewIO("read", path, fmt.Errorf("is a directory"))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}

	if _, err := validation.CheckFileType(data[:min(len(data), headerSize)], path); err != nil {
		return nil, errors.NewIO("validate", path, err)
	}

	comp := CompressionFor(path)
	r, err := decompress(bytes.NewReader(data), comp)
	if err != nil {
		return nil, errors.NewIO("decompress", path, err)
	}

	root, err := jsondoc.Decode(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	if err != nil {
		return nil, errors.NewParse("JSON", path, err)
	}

	return &Document{
		Path:        path,
		Root:        root,
		Size:        int64(len(data)),
		Digest:      Digest(data),
		Compression: comp,
	}, nil
}

func decompress(r io.Reader, comp Compression) (io.Reader, error) {
	switch comp {
	case CompressionXZ:
		xzr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("xz reader: %w", err)
		}
		return xzr, nil
	case CompressionGzip:
		gzr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		return gzr, nil
	default:
		return r, nil
	}
}
