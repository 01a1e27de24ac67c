package flatdb

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by [Store.Write].
var (
	// ErrMissingKey indicates a document without its key field.
	ErrMissingKey = errors.New("document is missing its key field")

	// ErrInvalidKey indicates a document key that cannot be mapped to a
	// file path below its table directory.
	ErrInvalidKey = errors.New("invalid document key")
)

// HeaderError indicates that a document header could not be parsed as a
// JSON object. The offending header text is preserved verbatim so the
// broken file can be found by searching for it.
type HeaderError struct {
	// Raw is the header text that failed to parse.
	Raw string

	// Err is the underlying parse error.
	Err error
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("could not decode header JSON %q: %v", e.Raw, e.Err)
}

// Unwrap returns the underlying error for use with [errors.Is] and [errors.As].
func (e *HeaderError) Unwrap() error {
	return e.Err
}

// StructuralError indicates a document that violates the line-oriented
// legacy grammar, for example a file whose first non-empty line is not
// the opening delimiter.
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string {
	return e.Reason
}

// Error is the uniform error type returned by [Store.Read] and
// [Store.Write] for failures tied to a specific document.
//
// Provides structured document context (Table, Key) appended to error
// messages. The underlying error message appears first, followed by the
// document context:
//
//	could not decode header JSON "{bad": unexpected end of JSON input (table=articles key=broken.md)
//
// Use [errors.As] to extract structured fields:
//
//	var dErr *flatdb.Error
//	if errors.As(err, &dErr) {
//	    fmt.Printf("failed for %s in table %s\n", dErr.Key, dErr.Table)
//	}
type Error struct {
	// Table is the name of the table the document belongs to.
	Table string

	// Key is the document key (its table-relative path), when known.
	Key string

	// Err is the underlying cause.
	Err error
}

// Error formats as "<cause> (table=X key=Y)".
func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	cause := e.cause()
	suffix := e.suffix()

	if suffix == "" {
		return cause
	}

	if cause == "" {
		return suffix
	}

	return cause + " " + suffix
}

// Unwrap returns the underlying error for use with [errors.Is] and [errors.As].
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.Err
}

// suffix builds the "(table=X key=Y)" portion.
func (e *Error) suffix() string {
	var parts []string

	if e.Table != "" {
		parts = append(parts, "table="+e.Table)
	}

	if e.Key != "" {
		parts = append(parts, "key="+e.Key)
	}

	if len(parts) == 0 {
		return ""
	}

	return "(" + strings.Join(parts, " ") + ")"
}

// cause returns the underlying error message.
func (e *Error) cause() string {
	if e.Err == nil {
		return ""
	}

	return e.Err.Error()
}

// withContext attaches document context at API boundaries and returns *Error.
// If err is already *Error, missing fields are filled in-place (existing values preserved).
func withContext(err error, table string, key string) error {
	if err == nil {
		return nil
	}

	existing := &Error{}
	if errors.As(err, &existing) {
		if existing.Table == "" && table != "" {
			existing.Table = table
		}

		if existing.Key == "" && key != "" {
			existing.Key = key
		}

		return existing
	}

	return &Error{Table: table, Key: key, Err: err}
}
