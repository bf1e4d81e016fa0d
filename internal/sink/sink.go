// Package sink writes normalized verse records to an output table.
package sink

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/FocuswithJustin/versetable/core/errors"
	"github.com/FocuswithJustin/versetable/core/verse"
	"github.com/FocuswithJustin/versetable/internal/validation"
)

// Format selects the output table format.
type Format string

const (
	// FormatAuto picks the format from the output file extension.
	FormatAuto   Format = "auto"
	FormatCSV    Format = "csv"
	FormatSQLite Format = "sqlite"
)

// DefaultTable is the SQLite table name used when none is given.
const DefaultTable = "verses"

// Header is the CSV header row.
var Header = append([]string{"id"}, verse.Fields...)

// Writer persists a full record set to one destination.
type Writer interface {
	// Write replaces the destination contents with records.
	Write(ctx context.Context, records []verse.Record) error
	// Path returns the destination path.
	Path() string
	// Format returns the concrete format written.
	Format() Format
}

// Options configures a Writer.
type Options struct {
	// Table is the SQLite table name. Ignored for CSV.
	Table string
}

// ParseFormat converts a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatCSV, FormatSQLite:
		return f, nil
	default:
		return FormatAuto, fmt.Errorf("unknown output format %q (want auto, csv or sqlite)", s)
	}
}

// FormatFor infers the output format from a file name.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatCSV
	}
}

// New returns the Writer for format at path.
func New(format Format, path string, opts Options) (Writer, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, errors.Wrap(err, "invalid output path")
	}
	if format == FormatAuto || format == "" {
		format = FormatFor(path)
	}

	switch format {
	case FormatCSV:
		return &CSVWriter{path: path}, nil
	case FormatSQLite:
		table := opts.Table
		if table == "" {
			table = DefaultTable
		}
		if err := validation.ValidateIdentifier(table); err != nil {
			return nil, errors.Wrapf(err, "invalid table name %q", table)
		}
		return &SQLiteWriter{path: path, table: table}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
