package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	apperrors "github.com/FocuswithJustin/versetable/core/errors"
	"github.com/FocuswithJustin/versetable/core/sqlite"
	"github.com/FocuswithJustin/versetable/core/verse"
	"github.com/FocuswithJustin/versetable/internal/logging"
	"github.com/FocuswithJustin/versetable/internal/sink"
	"github.com/FocuswithJustin/versetable/internal/source"
)

const nestedBible = `{
  "John": {"3": {"16": "For God so loved the world", "17": "For God sent not his Son"}},
  "Genesis": {
    "2": {"1": "Thus the heavens and the earth were finished"},
    "1": {"2": "And the earth was without form", "1": "In the beginning"}
  }
}`

const listBible = `[
  {"Book": "John", "Chapter": "3", "Verse": 16, "Text": "For God so loved the world"},
  {"Book": "Genesis", "Chapter": "1", "Verse": "1", "Text": "In the beginning"},
  {"Book": "Genesis", "Chapter": "", "Verse": 2, "Text": "No chapter"}
]`

func writeInput(t *testing.T, name, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	return rows
}

func TestRunNestedToCSV(t *testing.T) {
	input := writeInput(t, "Bible_English_Version.json", nestedBible)
	output := filepath.Join(t.TempDir(), "bible_verses.csv")

	res, err := Run(context.Background(), Options{Input: input, Output: output, Preview: 2})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := [][]string{
		{"id", "book", "chapter", "verse", "text"},
		{"0", "Genesis", "1", "1", "In the beginning"},
		{"1", "Genesis", "1", "2", "And the earth was without form"},
		{"2", "Genesis", "2", "1", "Thus the heavens and the earth were finished"},
		{"3", "John", "3", "16", "For God so loved the world"},
		{"4", "John", "3", "17", "For God sent not his Son"},
	}
	if got := readCSV(t, output); !reflect.DeepEqual(got, want) {
		t.Errorf("output = %q\nwant %q", got, want)
	}

	if res.Shape != verse.ShapeNested || res.Rows != 5 || res.Format != sink.FormatCSV {
		t.Errorf("result = %+v", res)
	}
	if len(res.Preview) != 2 || res.Preview[0].Text != "In the beginning" {
		t.Errorf("Preview = %+v", res.Preview)
	}
	if res.InputDigest != source.Digest([]byte(nestedBible)) || res.InputSize != int64(len(nestedBible)) {
		t.Errorf("input digest/size = %s/%d", res.InputDigest, res.InputSize)
	}
	if res.RunID == "" || res.Output != output {
		t.Errorf("RunID = %q, Output = %q", res.RunID, res.Output)
	}
}

func TestRunListToCSV(t *testing.T) {
	input := writeInput(t, "list.json", listBible)
	output := filepath.Join(t.TempDir(), "out.csv")

	res, err := Run(context.Background(), Options{Input: input, Output: output, Format: sink.FormatCSV})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Shape != verse.ShapeList || res.Preview != nil {
		t.Errorf("result = %+v", res)
	}

	want := [][]string{
		{"id", "book", "chapter", "verse", "text"},
		{"0", "Genesis", "1", "1", "In the beginning"},
		{"1", "Genesis", "", "2", "No chapter"},
		{"2", "John", "3", "16", "For God so loved the world"},
	}
	if got := readCSV(t, output); !reflect.DeepEqual(got, want) {
		t.Errorf("output = %q\nwant %q", got, want)
	}
}

func TestRunToSQLite(t *testing.T) {
	input := writeInput(t, "bible.json", nestedBible)
	output := filepath.Join(t.TempDir(), "bible.db")

	res, err := Run(context.Background(), Options{Input: input, Output: output, Table: "kjv", Preview: DefaultPreview})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Format != sink.FormatSQLite || len(res.Preview) != 5 {
		t.Errorf("result = %+v", res)
	}

	db, err := sqlite.Open(output)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT count(*) FROM kjv`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Errorf("table has %d rows, want 5", n)
	}
	var book string
	if err := db.QueryRow(`SELECT book FROM kjv WHERE id = 4`).Scan(&book); err != nil {
		t.Fatal(err)
	}
	if book != "John" {
		t.Errorf("last row book = %q, want John", book)
	}
}

func TestRunFailuresLeaveNoOutput(t *testing.T) {
	tests := []struct {
		name    string
		input   func(t *testing.T) string
		table   string
		output  string
		wantErr error
	}{
		{
			name: "missing input",
			input: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "Bible_English_Version.json")
			},
			wantErr: apperrors.ErrNotFound,
		},
		{
			name: "missing verse field",
			input: func(t *testing.T) string {
				return writeInput(t, "list.json", `[{"book": "John", "chapter": 3, "text": "For God so loved"}]`)
			},
			wantErr: apperrors.ErrInvalidInput,
		},
		{
			name: "empty nested document",
			input: func(t *testing.T) string {
				return writeInput(t, "empty.json", `{"Genesis": {}, "Exodus": "not an object"}`)
			},
			wantErr: apperrors.ErrEmptyFlatten,
		},
		{
			name: "scalar root",
			input: func(t *testing.T) string {
				return writeInput(t, "scalar.json", `"In the beginning"`)
			},
			wantErr: apperrors.ErrUnsupported,
		},
		{
			name: "bad chapter label",
			input: func(t *testing.T) string {
				return writeInput(t, "bad.json", `{"Genesis": {"one": {"1": "In the beginning"}}}`)
			},
			wantErr: apperrors.ErrCoercion,
		},
		{
			name: "bad table name",
			input: func(t *testing.T) string {
				return writeInput(t, "bible.json", nestedBible)
			},
			table:  "verses; DROP TABLE verses",
			output: "bible.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name := tt.output
			if name == "" {
				name = "bible_verses.csv"
			}
			output := filepath.Join(t.TempDir(), name)

			_, err := Run(context.Background(), Options{Input: tt.input(t), Output: output, Table: tt.table})
			if err == nil {
				t.Fatal("Run() expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Run() error = %v, want %v", err, tt.wantErr)
			}
			if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
				t.Errorf("output %s exists after failed run", output)
			}
		})
	}
}

func TestRunCancelled(t *testing.T) {
	input := writeInput(t, "bible.json", nestedBible)
	output := filepath.Join(t.TempDir(), "bible_verses.csv")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, Options{Input: input, Output: output}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("output exists after cancelled run")
	}
}

func TestRunLogsCarryRunID(t *testing.T) {
	var buf bytes.Buffer
	logging.InitLoggerTo(&buf, logging.LevelDebug, logging.FormatJSON)
	defer logging.InitLoggerTo(os.Stderr, logging.LevelInfo, logging.FormatText)

	input := writeInput(t, "bible.json", nestedBible)
	res, err := Run(context.Background(), Options{Input: input, Output: filepath.Join(t.TempDir(), "out.csv")})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"input_loaded", "shape_detected", "rows_written", res.RunID} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want verse.Shape
	}{
		{"nested", nestedBible, verse.ShapeNested},
		{"list", listBible, verse.ShapeList},
		{"empty list", `[]`, verse.ShapeList},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shape, doc, err := Detect(context.Background(), writeInput(t, "in.json", tt.doc))
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			if shape != tt.want || doc == nil {
				t.Errorf("Detect() = %s, %v; want %s", shape, doc, tt.want)
			}
		})
	}

	if _, _, err := Detect(context.Background(), writeInput(t, "n.json", `42`)); !errors.Is(err, apperrors.ErrUnsupported) {
		t.Errorf("Detect(number) error = %v, want ErrUnsupported", err)
	}
}

func TestRunLogsStagesAndNullCounts(t *testing.T) {
	var buf bytes.Buffer
	logging.InitLoggerTo(&buf, logging.LevelDebug, logging.FormatJSON)
	defer logging.InitLoggerTo(os.Stderr, logging.LevelInfo, logging.FormatText)

	input := writeInput(t, "list.json", listBible)
	if _, err := Run(context.Background(), Options{Input: input, Output: filepath.Join(t.TempDir(), "out.csv")}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		`"msg":"flattened"`,
		`"msg":"normalized"`,
		`"rows":3`,
		`"null_chapters":1`,
		`"null_verses":0`,
		`"level":"WARN"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestRunLogsMissingFields(t *testing.T) {
	var buf bytes.Buffer
	logging.InitLoggerTo(&buf, logging.LevelDebug, logging.FormatJSON)
	defer logging.InitLoggerTo(os.Stderr, logging.LevelInfo, logging.FormatText)

	input := writeInput(t, "list.json", `[{"bookName": "John", "chapter": 3, "content": "For God so loved"}]`)
	if _, err := Run(context.Background(), Options{Input: input, Output: filepath.Join(t.TempDir(), "out.csv")}); err == nil {
		t.Fatal("Run() expected error")
	}

	out := buf.String()
	for _, want := range []string{`"stage":"flatten"`, `"missing":["verse"]`, `"observed":["book","chapter","text"]`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
