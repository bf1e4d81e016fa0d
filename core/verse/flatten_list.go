package verse

import (
	"github.com/FocuswithJustin/versetable/core/errors"
	"github.com/FocuswithJustin/versetable/core/jsondoc"
)

// FlattenList maps an array of verse objects onto canonical Rows.
//
// Columns are resolved once for the whole document, not per record: the
// column for each canonical field is the canonical name itself when any
// record uses it, otherwise the first alias seen. A record that spells a
// field with a different alias than the chosen column has no value for it.
// Unrecognized columns are dropped.
func FlattenList(items []any) ([]Row, error) {
	records := make([]*jsondoc.Object, 0, len(items))
	var columns []string
	seen := make(map[string]bool)

	for i, item := range items {
		if item == nil {
			continue
		}
		obj, ok := item.(*jsondoc.Object)
		if !ok {
			return nil, &errors.UnsupportedShapeError{Type: jsondoc.TypeName(item), Index: i}
		}
		records = append(records, obj)
		for _, k := range obj.Keys {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}

	source, err := resolveColumns(columns)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(records))
	for _, obj := range records {
		book, _ := obj.Get(source[FieldBook])
		chapter, _ := obj.Get(source[FieldChapter])
		verse, _ := obj.Get(source[FieldVerse])
		text, _ := obj.Get(source[FieldText])

		rows = append(rows, Row{
			Book:        ScalarString(book),
			BookMissing: book == nil,
			Chapter:     chapter,
			Verse:       verse,
			Text:        ScalarString(text),
		})
	}
	return rows, nil
}

// resolveColumns picks the input column backing each canonical field.
func resolveColumns(columns []string) (map[string]string, error) {
	source := make(map[string]string, len(Fields))
	for _, col := range columns {
		if c, ok := Canonical(col); ok && c == col {
			source[c] = col
		}
	}
	for _, col := range columns {
		c, ok := aliases[col]
		if !ok {
			continue
		}
		if _, taken := source[c]; !taken {
			source[c] = col
		}
	}

	var missing []string
	for _, f := range Fields {
		if _, ok := source[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) == 0 {
		return source, nil
	}

	observed := make([]string, 0, len(columns))
	dup := make(map[string]bool, len(columns))
	for _, col := range columns {
		name := renamed(col)
		if !dup[name] {
			dup[name] = true
			observed = append(observed, name)
		}
	}
	return nil, &errors.MissingFieldsError{Missing: missing, Observed: observed}
}
