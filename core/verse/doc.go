// Package verse flattens scripture JSON documents into verse tables.
//
// Two document shapes are understood:
//
//   - List: an array of verse objects whose field names may use any of the
//     spellings in the alias table (see Aliases).
//   - Nested: an object of book -> chapter -> verse -> text.
//
// DetectShape picks the shape once, FlattenList or FlattenNested produce
// unsorted Rows, and Normalize coerces chapter and verse numbers, sorts by
// (book, chapter, verse) and assigns ids.
//
// The two paths coerce numbers differently. A nested document stores chapter
// and verse numbers as object keys, so an unparseable key is fatal
// (CoercionError). A list document carries them as ordinary values, and
// Normalize turns unparseable values into null numbers that sort last.
package verse
