package verse

import (
	"github.com/FocuswithJustin/versetable/core/errors"
	"github.com/FocuswithJustin/versetable/core/jsondoc"
)

// FlattenNested walks a book -> chapter -> verse -> text document.
//
// Books and chapters whose values are not objects are skipped silently
// (metadata keys, for example). Chapter and verse keys must parse as
// integers; the first one that does not aborts the walk with a
// CoercionError. A document that yields no verses at all is an
// EmptyFlattenError.
func FlattenNested(root *jsondoc.Object) ([]Row, error) {
	var rows []Row

	for _, book := range root.Keys {
		chapters, ok := root.Values[book].(*jsondoc.Object)
		if !ok {
			continue
		}

		for _, chapterLabel := range chapters.Keys {
			verses, ok := chapters.Values[chapterLabel].(*jsondoc.Object)
			if !ok || verses.Len() == 0 {
				continue
			}

			chapter, err := ParseLabel(chapterLabel)
			if err != nil {
				return nil, &errors.CoercionError{Book: book, Chapter: chapterLabel, Field: FieldChapter, Err: err}
			}

			for _, verseLabel := range verses.Keys {
				verse, err := ParseLabel(verseLabel)
				if err != nil {
					return nil, &errors.CoercionError{
						Book:    book,
						Chapter: chapterLabel,
						Verse:   verseLabel,
						Field:   FieldVerse,
						Err:     err,
					}
				}
				rows = append(rows, Row{
					Book:    book,
					Chapter: chapter,
					Verse:   verse,
					Text:    ScalarString(verses.Values[verseLabel]),
				})
			}
		}
	}

	if len(rows) == 0 {
		return nil, &errors.EmptyFlattenError{Books: root.Len()}
	}
	return rows, nil
}
