package verse

import "maps"

// aliases maps alternate field spellings onto canonical names. Matching is
// case-sensitive.
var aliases = map[string]string{
	"Book":      FieldBook,
	"book_name": FieldBook,
	"bookName":  FieldBook,

	"Chapter":       FieldChapter,
	"chapterNumber": FieldChapter,

	"Verse":       FieldVerse,
	"verseNumber": FieldVerse,

	"Text":      FieldText,
	"verseText": FieldText,
	"content":   FieldText,
}

// Aliases returns a copy of the alias table (alternate name -> canonical name).
func Aliases() map[string]string {
	return maps.Clone(aliases)
}

// Canonical reports the canonical column a field name stands for. Canonical
// names map to themselves; unrecognized names report false.
func Canonical(name string) (string, bool) {
	switch name {
	case FieldBook, FieldChapter, FieldVerse, FieldText:
		return name, true
	}
	c, ok := aliases[name]
	return c, ok
}

// renamed is the column name after alias resolution.
func renamed(name string) string {
	if c, ok := aliases[name]; ok {
		return c
	}
	return name
}
