package verse

import "strconv"

// Canonical column names.
const (
	FieldBook    = "book"
	FieldChapter = "chapter"
	FieldVerse   = "verse"
	FieldText    = "text"
)

// Fields lists the canonical columns in output order.
var Fields = []string{FieldBook, FieldChapter, FieldVerse, FieldText}

// Shape identifies the layout of an input document.
type Shape int

const (
	ShapeUnknown Shape = iota
	// ShapeList is an array of verse objects.
	ShapeList
	// ShapeNested is an object of book -> chapter -> verse -> text.
	ShapeNested
)

func (s Shape) String() string {
	switch s {
	case ShapeList:
		return "list"
	case ShapeNested:
		return "nested"
	default:
		return "unknown"
	}
}

// Row is a flattened verse before normalization. Chapter and Verse hold
// whatever scalar the input carried.
type Row struct {
	Book        string
	BookMissing bool // the source row had no book value
	Chapter     any
	Verse       any
	Text        string
}

// NullInt is an integer that may be absent.
type NullInt struct {
	Int   int
	Valid bool
}

// Int returns a valid NullInt holding n.
func Int(n int) NullInt {
	return NullInt{Int: n, Valid: true}
}

// String renders the value, or "" when it is null.
func (n NullInt) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.Itoa(n.Int)
}

// Record is one row of the final table.
type Record struct {
	ID      int
	Book    string
	Chapter NullInt
	Verse   NullInt
	Text    string
}
