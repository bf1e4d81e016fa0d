package sink

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/FocuswithJustin/versetable/core/errors"
	"github.com/FocuswithJustin/versetable/core/sqlite"
	"github.com/FocuswithJustin/versetable/core/verse"
)

// SQLiteWriter writes records into a single table of a SQLite database.
// An existing table of the same name is dropped first; other tables in the
// database are left alone.
type SQLiteWriter struct {
	path  string
	table string
}

// Path implements Writer.
func (w *SQLiteWriter) Path() string { return w.path }

// Format implements Writer.
func (w *SQLiteWriter) Format() Format { return FormatSQLite }

// Table returns the destination table name.
func (w *SQLiteWriter) Table() string { return w.table }

// Write implements Writer.
func (w *SQLiteWriter) Write(ctx context.Context, records []verse.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	db, err := sqlite.Open(w.path)
	if err != nil {
		return errors.NewIO("open", w.path, err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewIO("begin", w.path, err)
	}
	defer tx.Rollback()

	// Table names cannot be bound; New validates them as plain identifiers.
	schema := []string{
		fmt.Sprintf(`DROP TABLE IF EXISTS %s`, w.table),
		fmt.Sprintf(`CREATE TABLE %s (
		id INTEGER PRIMARY KEY,
		book TEXT NOT NULL,
		chapter INTEGER,
		verse INTEGER,
		text TEXT NOT NULL
	)`, w.table),
		fmt.Sprintf(`CREATE INDEX %s_ref_index ON %s (book, chapter, verse)`, w.table, w.table),
	}
	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.NewIO("create table", w.path, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (id, book, chapter, verse, text) VALUES (?, ?, ?, ?, ?)`, w.table))
	if err != nil {
		return errors.NewIO("prepare", w.path, err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, rec.Book, nullInt(rec.Chapter), nullInt(rec.Verse), rec.Text); err != nil {
			return errors.NewIO("insert", w.path, errors.Wrapf(err, "row %d (%s %s:%s)",
				rec.ID, rec.Book, rec.Chapter, rec.Verse))
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewIO("commit", w.path, err)
	}
	return nil
}

func nullInt(n verse.NullInt) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n.Int), Valid: n.Valid}
}
