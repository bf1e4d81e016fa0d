// Package validation checks user-supplied paths, identifiers and file
// contents before a conversion run touches them.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// Limits on user-supplied names.
const (
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
	// MaxIdentifierLength is the maximum allowed SQL identifier length.
	MaxIdentifierLength = 64
)

// Common validation errors.
var (
	ErrEmptyPath         = errors.New("path cannot be empty")
	ErrPathTooLong       = errors.New("path too long")
	ErrInvalidCharacter  = errors.New("invalid character in path")
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrFileTypeMismatch  = errors.New("file type mismatch")
)

// ValidatePath checks a path for emptiness, length limits and control characters.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}

	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}

	// Check for null bytes
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: null byte not allowed", ErrInvalidCharacter)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}

	return nil
}

// ValidateIdentifier checks that name can be spliced into SQL as a bare
// identifier: an ASCII letter or underscore followed by letters, digits or
// underscores. Reserved "sqlite_" names are rejected.
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidIdentifier)
	}
	if len(name) > MaxIdentifierLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidIdentifier, MaxIdentifierLength)
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return fmt.Errorf("%w: %q at offset %d", ErrInvalidIdentifier, r, i)
		}
	}
	if strings.HasPrefix(strings.ToLower(name), "sqlite_") {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidIdentifier, name)
	}
	return nil
}

// FileType represents a detected file type.
type FileType string

const (
	FileTypeGzip    FileType = "gzip"
	FileTypeXZ      FileType = "xz"
	FileTypeSQLite  FileType = "sqlite"
	FileTypeJSON    FileType = "json"
	FileTypeUnknown FileType = "unknown"
)

// magicBytes defines magic byte signatures for file type detection.
var magicBytes = []struct {
	fileType FileType
	magic    []byte
}{
	{FileTypeGzip, []byte{0x1f, 0x8b}},
	{FileTypeXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}},
	{FileTypeSQLite, []byte("SQLite format 3\x00")},
}

// CheckFileType verifies that header, the leading bytes of a file, agrees
// with the type its name claims. Content that cannot be identified is
// accepted; a recognized container under the wrong extension is not.
func CheckFileType(header []byte, filename string) (FileType, error) {
	detected := DetectFileType(header)
	expected := FileTypeFor(filename)

	switch {
	case detected == expected:
		return detected, nil
	case detected == FileTypeUnknown:
		if expected == FileTypeJSON && len(header) > 0 && !isLikelyText(header) && !hasBOM(header) {
			return FileTypeUnknown, fmt.Errorf("%w: %s does not look like text", ErrFileTypeMismatch, filename)
		}
		return expected, nil
	case expected == FileTypeUnknown:
		return detected, nil
	default:
		return FileTypeUnknown, fmt.Errorf("%w: extension suggests %s but content is %s",
			ErrFileTypeMismatch, expected, detected)
	}
}

// DetectFileType detects a file type from its magic bytes.
func DetectFileType(buf []byte) FileType {
	for _, sig := range magicBytes {
		if bytes.HasPrefix(buf, sig.magic) {
			return sig.fileType
		}
	}
	return FileTypeUnknown
}

// FileTypeFor determines the expected file type from a filename extension.
func FileTypeFor(filename string) FileType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xz":
		return FileTypeXZ
	case ".gz":
		return FileTypeGzip
	case ".sqlite", ".db", ".sqlite3":
		return FileTypeSQLite
	case ".json":
		return FileTypeJSON
	default:
		return FileTypeUnknown
	}
}

// hasBOM reports a UTF-8 or UTF-16 byte order mark.
func hasBOM(buf []byte) bool {
	return bytes.HasPrefix(buf, []byte{0xef, 0xbb, 0xbf}) ||
		bytes.HasPrefix(buf, []byte{0xfe, 0xff}) ||
		bytes.HasPrefix(buf, []byte{0xff, 0xfe})
}

// isLikelyText checks if the buffer contains likely text content.
func isLikelyText(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}

	// Null bytes are a strong indicator of binary content
	if bytes.IndexByte(buf, 0) != -1 {
		return false
	}

	printable := 0
	control := 0
	for _, b := range buf {
		if b >= 0x20 && b <= 0x7e || b == '\t' || b == '\n' || b == '\r' {
			printable++
		} else if b < 0x20 {
			control++
		}
		// bytes >= 0x7f are UTF-8 sequences and count as neither
	}

	return printable > 0 && float64(printable)/float64(printable+control) > 0.95
}
