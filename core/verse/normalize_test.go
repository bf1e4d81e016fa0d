package verse

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalizeSortOrder(t *testing.T) {
	rows := []Row{
		{Book: "B", Chapter: 2, Verse: 1, Text: "x"},
		{Book: "A", Chapter: 1, Verse: 5, Text: "y"},
		{Book: "A", Chapter: 1, Verse: 1, Text: "z"},
	}

	want := []Record{
		{ID: 0, Book: "A", Chapter: Int(1), Verse: Int(1), Text: "z"},
		{ID: 1, Book: "A", Chapter: Int(1), Verse: Int(5), Text: "y"},
		{ID: 2, Book: "B", Chapter: Int(2), Verse: Int(1), Text: "x"},
	}
	if got := Normalize(rows); !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %+v, want %+v", got, want)
	}
}

func TestNormalizeNumericNotLexical(t *testing.T) {
	rows := []Row{
		{Book: "Psalms", Chapter: "10", Verse: "2", Text: "c"},
		{Book: "Psalms", Chapter: json.Number("9"), Verse: "10", Text: "b"},
		{Book: "Psalms", Chapter: "9", Verse: "9", Text: "a"},
	}

	got := Normalize(rows)
	var texts []string
	for _, r := range got {
		texts = append(texts, r.Text)
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(texts, want) {
		t.Errorf("order = %v, want %v", texts, want)
	}
}

func TestNormalizeNullChapterSortsLast(t *testing.T) {
	rows := []Row{
		{Book: "John", Chapter: "not-a-number", Verse: 1, Text: "null chapter"},
		{Book: "John", Chapter: 21, Verse: 25, Text: "last real"},
		{Book: "John", Chapter: 1, Verse: 1, Text: "first"},
		{Book: "Acts", Chapter: nil, Verse: 1, Text: "other book"},
	}

	got := Normalize(rows)
	want := []Record{
		{ID: 0, Book: "Acts", Verse: Int(1), Text: "other book"},
		{ID: 1, Book: "John", Chapter: Int(1), Verse: Int(1), Text: "first"},
		{ID: 2, Book: "John", Chapter: Int(21), Verse: Int(25), Text: "last real"},
		{ID: 3, Book: "John", Verse: Int(1), Text: "null chapter"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %+v, want %+v", got, want)
	}
}

func TestNormalizeNullVerseSortsLast(t *testing.T) {
	rows := []Row{
		{Book: "Jude", Chapter: 1, Verse: "?", Text: "b"},
		{Book: "Jude", Chapter: 1, Verse: 25, Text: "a"},
	}
	got := Normalize(rows)
	if got[0].Text != "a" || got[1].Verse.Valid {
		t.Errorf("Normalize() = %+v, want null verse last", got)
	}
}

func TestNormalizeMissingBookSortsLast(t *testing.T) {
	rows := []Row{
		{BookMissing: true, Chapter: 1, Verse: 1, Text: "orphan"},
		{Book: "Zechariah", Chapter: 1, Verse: 1, Text: "z"},
		{Book: "", Chapter: 1, Verse: 1, Text: "empty name"},
	}
	got := Normalize(rows)
	var texts []string
	for _, r := range got {
		texts = append(texts, r.Text)
	}
	if want := []string{"empty name", "z", "orphan"}; !reflect.DeepEqual(texts, want) {
		t.Errorf("order = %v, want %v", texts, want)
	}
}

func TestNormalizeIDsAreContiguous(t *testing.T) {
	var rows []Row
	for i := 0; i < 100; i++ {
		rows = append(rows, Row{Book: string(rune('A' + i%7)), Chapter: i % 5, Verse: 100 - i})
	}
	got := Normalize(rows)
	if len(got) != len(rows) {
		t.Fatalf("len = %d, want %d", len(got), len(rows))
	}
	for i, r := range got {
		if r.ID != i {
			t.Fatalf("record %d has ID %d", i, r.ID)
		}
		if i > 0 {
			prev := got[i-1]
			if prev.Book > r.Book || (prev.Book == r.Book && prev.Chapter.Int > r.Chapter.Int) {
				t.Fatalf("records %d and %d out of order: %+v %+v", i-1, i, prev, r)
			}
		}
	}
}

func TestNormalizeStableForEqualKeys(t *testing.T) {
	rows := []Row{
		{Book: "Ruth", Chapter: 1, Verse: 1, Text: "first"},
		{Book: "Ruth", Chapter: "1", Verse: "01", Text: "second"},
	}
	got := Normalize(rows)
	if got[0].Text != "first" || got[1].Text != "second" {
		t.Errorf("Normalize() reordered equal keys: %+v", got)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	if got := Normalize(nil); len(got) != 0 {
		t.Errorf("Normalize(nil) = %v, want empty", got)
	}
}
