package verse

import (
	"cmp"
	"slices"
	"strings"
)

// Normalize coerces chapter and verse numbers, sorts the rows by
// (book, chapter, verse) and numbers them from zero in that order.
// Rows without a book and null numbers sort after real values. Equal keys
// keep their input order.
func Normalize(rows []Row) []Record {
	type keyed struct {
		rec    Record
		noBook bool
	}

	ks := make([]keyed, len(rows))
	for i, r := range rows {
		ks[i] = keyed{
			rec: Record{
				Book:    r.Book,
				Chapter: CoerceInt(r.Chapter),
				Verse:   CoerceInt(r.Verse),
				Text:    r.Text,
			},
			noBook: r.BookMissing,
		}
	}

	slices.SortStableFunc(ks, func(a, b keyed) int {
		if a.noBook != b.noBook {
			if a.noBook {
				return 1
			}
			return -1
		}
		if c := strings.Compare(a.rec.Book, b.rec.Book); c != 0 {
			return c
		}
		if c := compareNull(a.rec.Chapter, b.rec.Chapter); c != 0 {
			return c
		}
		return compareNull(a.rec.Verse, b.rec.Verse)
	})

	out := make([]Record, len(ks))
	for i, k := range ks {
		k.rec.ID = i
		out[i] = k.rec
	}
	return out
}

// compareNull orders valid values numerically and nulls last.
func compareNull(a, b NullInt) int {
	switch {
	case a.Valid && b.Valid:
		return cmp.Compare(a.Int, b.Int)
	case a.Valid:
		return -1
	case b.Valid:
		return 1
	default:
		return 0
	}
}
