// Package errors provides the error taxonomy for versetable.
// Every failure is fatal to a conversion run; callers distinguish kinds with
// errors.Is against the sentinels or errors.As against the typed errors.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common cases
var (
	// ErrNotFound indicates the input artifact does not exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates malformed or incomplete input
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupported indicates an input shape the converter does not handle
	ErrUnsupported = errors.New("unsupported")
	// ErrEmptyFlatten indicates a nested document produced no verses
	ErrEmptyFlatten = errors.New("no records found")
	// ErrCoercion indicates a chapter or verse label is not an integer
	ErrCoercion = errors.New("coercion failed")
)

// InputNotFoundError reports a missing input file.
type InputNotFoundError struct {
	Path string
	Err  error // Underlying error, if any
}

func (e *InputNotFoundError) Error() string {
	return fmt.Sprintf("input not found: %s", e.Path)
}

func (e *InputNotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// UnsupportedShapeError reports a JSON value whose type cannot be flattened.
// Index is the array position of the offending element, or -1 for the root.
type UnsupportedShapeError struct {
	Type  string // JSON type name (e.g., "string", "number")
	Index int
}

func (e *UnsupportedShapeError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("unsupported JSON list element %d: %s (want object)", e.Index, e.Type)
	}
	return fmt.Sprintf("unsupported JSON top-level type: %s (want array or object)", e.Type)
}

func (e *UnsupportedShapeError) Unwrap() error {
	return ErrUnsupported
}

// MissingFieldsError reports canonical fields that no column of a
// list-shaped document could supply.
type MissingFieldsError struct {
	Missing  []string // Canonical names, in canonical order
	Observed []string // Column names after alias resolution
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("could not find required fields in JSON list format: missing [%s]; columns seen [%s]",
		strings.Join(e.Missing, ", "), strings.Join(e.Observed, ", "))
}

func (e *MissingFieldsError) Unwrap() error {
	return ErrInvalidInput
}

// EmptyFlattenError reports a nested document without a single verse.
type EmptyFlattenError struct {
	Books int // Top-level keys inspected
}

func (e *EmptyFlattenError) Error() string {
	return fmt.Sprintf("nested JSON structure could not be flattened: no records found in %d top-level entries", e.Books)
}

func (e *EmptyFlattenError) Unwrap() error {
	return ErrEmptyFlatten
}

// CoercionError reports a chapter or verse label that is not a base-10 integer.
type CoercionError struct {
	Book    string
	Chapter string // Chapter label as written
	Verse   string // Verse label as written; empty when the chapter failed
	Field   string // "chapter" or "verse"
	Err     error  // Underlying parse error, if any
}

func (e *CoercionError) Error() string {
	label := e.Chapter
	if e.Field == "verse" {
		label = e.Verse
	}
	return fmt.Sprintf("invalid %s label %q in %s %s", e.Field, label, e.Book, e.ref())
}

func (e *CoercionError) ref() string {
	if e.Field == "verse" {
		return e.Chapter + ":" + e.Verse
	}
	return "chapter " + e.Chapter
}

func (e *CoercionError) Unwrap() error {
	if e.Err != nil {
		return errors.Join(ErrCoercion, e.Err)
	}
	return ErrCoercion
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents a parsing or deserialization error
type ParseError struct {
	Format string // Format being parsed (e.g., "JSON")
	Path   string // File path, if applicable
	Err    error  // Underlying decoder error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %v", e.Format, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to parse %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// Helper functions for creating common errors

// NewInputNotFound creates an InputNotFoundError
func NewInputNotFound(path string, err error) *InputNotFoundError {
	return &InputNotFoundError{Path: path, Err: err}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewParse creates a ParseError
func NewParse(format, path string, err error) *ParseError {
	return &ParseError{
		Format: format,
		Path:   path,
		Err:    err,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
