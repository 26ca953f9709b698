package errors

import (
	stderrors "errors"
	"fmt"
)

// Sentinel errors. Match with Is; the concrete error usually carries more
// context (see SchemaError and AppError).
var (
	ErrSchema            = stderrors.New("schema error")
	ErrUnsupportedFormat = stderrors.New("unsupported file format")
	ErrSheetNotFound     = stderrors.New("sheet not found")
	ErrNoInputFiles      = stderrors.New("no spreadsheet files found")
)

// Is, As and New mirror the standard library so callers importing this
// package as apperrors do not need a second errors import.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target interface{}) bool { return stderrors.As(err, target) }

func New(message string) error { return stderrors.New(message) }

// SchemaError reports an input table that cannot be transformed: too few
// columns, a duplicate or empty column name, or a non-numeric value in a beta
// column. Row is the 1-based spreadsheet row (the header is row 1); zero when
// the problem is not tied to a row.
type SchemaError struct {
	Column string
	Row    int
	Value  string
	Reason string
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	switch {
	case e.Column != "" && e.Row > 0:
		return fmt.Sprintf("schema error: column %q row %d: %s (value %q)", e.Column, e.Row, e.Reason, e.Value)
	case e.Column != "":
		return fmt.Sprintf("schema error: column %q: %s", e.Column, e.Reason)
	case e.Row > 0:
		return fmt.Sprintf("schema error: row %d: %s", e.Row, e.Reason)
	default:
		return fmt.Sprintf("schema error: %s", e.Reason)
	}
}

// Unwrap makes errors.Is(err, ErrSchema) true for every SchemaError.
func (e *SchemaError) Unwrap() error {
	return ErrSchema
}

// NewSchemaError creates a schema error that is not tied to a cell.
func NewSchemaError(reason string) *SchemaError {
	return &SchemaError{Reason: reason}
}

// NewCellError creates a schema error for a single offending cell.
func NewCellError(column string, row int, value, reason string) *SchemaError {
	return &SchemaError{Column: column, Row: row, Value: value, Reason: reason}
}
