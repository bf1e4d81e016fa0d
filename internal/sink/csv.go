package sink

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/FocuswithJustin/versetable/core/errors"
	"github.com/FocuswithJustin/versetable/core/verse"
)

// ctxCheckInterval is how many rows are written between cancellation checks.
const ctxCheckInterval = 1024

// Seams for failure tests.
var (
	osCreateTemp = os.CreateTemp
	osRename     = os.Rename
)

// CSVWriter writes records as comma-separated values with a header row.
// The file is written beside the destination and renamed into place, so a
// failed write leaves any previous file untouched.
type CSVWriter struct {
	path string
}

// NewCSV returns a CSVWriter for path.
func NewCSV(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Path implements Writer.
func (w *CSVWriter) Path() string { return w.path }

// Format implements Writer.
func (w *CSVWriter) Format() Format { return FormatCSV }

// Write implements Writer.
func (w *CSVWriter) Write(ctx context.Context, records []verse.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := osCreateTemp(filepath.Dir(w.path), ".versetable-*.csv")
	if err != nil {
		return errors.NewIO("create", w.path, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := tmp.Chmod(0644); err != nil {
		return errors.NewIO("chmod", tmpPath, err)
	}

	cw := csv.NewWriter(tmp)
	if err := cw.Write(Header); err != nil {
		return errors.NewIO("write", w.path, err)
	}

	row := make([]string, len(Header))
	for i, rec := range records {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		row[0] = strconv.Itoa(rec.ID)
		row[1] = rec.Book
		row[2] = rec.Chapter.String()
		row[3] = rec.Verse.String()
		row[4] = rec.Text
		if err := cw.Write(row); err != nil {
			return errors.NewIO("write", w.path, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.NewIO("write", w.path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.NewIO("close", tmpPath, err)
	}
	if err := osRename(tmpPath, w.path); err != nil {
		return errors.NewIO("rename", w.path, err)
	}
	committed = true
	return nil
}
