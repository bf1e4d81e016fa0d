// Package pipeline runs one JSON to table conversion: load, detect,
// flatten, normalize and write.
package pipeline

import (
	"context"
	"time"

	"github.com/FocuswithJustin/versetable/core/errors"
	"github.com/FocuswithJustin/versetable/core/verse"
	"github.com/FocuswithJustin/versetable/internal/logging"
	"github.com/FocuswithJustin/versetable/internal/sink"
	"github.com/FocuswithJustin/versetable/internal/source"
)

// Defaults used by the CLI.
const (
	DefaultInput   = "Bible_English_Version.json"
	DefaultOutput  = "bible_verses.csv"
	DefaultPreview = 5
)

// Options configures a conversion run.
type Options struct {
	Input  string
	Output string
	Format sink.Format
	// Table is the SQLite table name; empty means sink.DefaultTable.
	Table string
	// Preview is how many leading records to return in Result.Preview.
	Preview int
}

// Result summarizes a completed run.
type Result struct {
	RunID       string
	Shape       verse.Shape
	Rows        int
	Output      string
	Format      sink.Format
	InputDigest string
	InputSize   int64
	Compression source.Compression
	Preview     []verse.Record
	Duration    time.Duration
}

// Run converts opts.Input into opts.Output. Every check happens before the
// writer runs, so a failed run creates no output file.
func Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	runID := logging.NewRunID()
	ctx = logging.WithRunID(ctx, runID)

	w, err := sink.New(opts.Format, opts.Output, sink.Options{Table: opts.Table})
	if err != nil {
		logging.ConversionFailed(ctx, "configure", err)
		return nil, err
	}

	shape, doc, err := Detect(ctx, opts.Input)
	if err != nil {
		return nil, err
	}

	_, rows, err := verse.Flatten(doc.Root)
	if err != nil {
		logging.ConversionFailed(ctx, "flatten", err, failureDetails(err, "shape", shape.String())...)
		return nil, err
	}
	logging.DebugContext(ctx, "flattened", "shape", shape.String(), "rows", len(rows))

	records := verse.Normalize(rows)
	nullChapters, nullVerses := countNulls(records)
	logging.DebugContext(ctx, "normalized", "rows", len(records),
		"null_chapters", nullChapters, "null_verses", nullVerses)
	if nullChapters > 0 || nullVerses > 0 {
		logging.WarnContext(ctx, "non-integer chapter or verse values written as empty",
			"null_chapters", nullChapters, "null_verses", nullVerses)
	}

	if err := ctx.Err(); err != nil {
		logging.ConversionFailed(ctx, "normalize", err)
		return nil, err
	}

	writeStart := time.Now()
	if err := w.Write(ctx, records); err != nil {
		logging.ConversionFailed(ctx, "write", err, "path", w.Path())
		return nil, err
	}
	logging.RowsWritten(ctx, w.Path(), string(w.Format()), len(records), time.Since(writeStart))

	return &Result{
		RunID:       runID,
		Shape:       shape,
		Rows:        len(records),
		Output:      w.Path(),
		Format:      w.Format(),
		InputDigest: doc.Digest,
		InputSize:   doc.Size,
		Compression: doc.Compression,
		Preview:     head(records, opts.Preview),
		Duration:    time.Since(start),
	}, nil
}

// Detect loads path and classifies its root.
func Detect(ctx context.Context, path string) (verse.Shape, *source.Document, error) {
	doc, err := source.Load(path)
	if err != nil {
		logging.ConversionFailed(ctx, "load", err, "path", path)
		return verse.ShapeUnknown, nil, err
	}
	logging.InputLoaded(ctx, doc.Path, doc.Size, doc.Digest, "compression", string(doc.Compression))

	shape, err := verse.DetectShape(doc.Root)
	if err != nil {
		logging.ConversionFailed(ctx, "detect", err, "path", path)
		return shape, doc, err
	}
	logging.ShapeDetected(ctx, path, shape.String())
	return shape, doc, nil
}

// failureDetails appends the fields a MissingFieldsError names to args.
func failureDetails(err error, args ...any) []any {
	var mf *errors.MissingFieldsError
	if errors.As(err, &mf) {
		args = append(args, "missing", mf.Missing, "observed", mf.Observed)
	}
	return args
}

func countNulls(records []verse.Record) (chapters, verses int) {
	for _, rec := range records {
		if !rec.Chapter.Valid {
			chapters++
		}
		if !rec.Verse.Valid {
			verses++
		}
	}
	return chapters, verses
}

func head(records []verse.Record, n int) []verse.Record {
	if n <= 0 {
		return nil
	}
	return records[:min(n, len(records))]
}
