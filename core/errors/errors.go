// Package errors provides the error kinds shared by the resolver, search,
// cross-reference and commentary packages.
//
// Every typed error unwraps to one sentinel so callers can branch with
// errors.Is on the kind and use errors.As when they need the detail.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for each failure kind
var (
	// ErrUnresolvedReference indicates no book alias or reference pattern matched
	ErrUnresolvedReference = errors.New("unresolved reference")
	// ErrOutOfRange indicates a chapter or verse beyond a book's published bounds
	ErrOutOfRange = errors.New("out of range")
	// ErrUnknownVersion indicates no corpus is loaded for a requested version
	ErrUnknownVersion = errors.New("unknown version")
	// ErrInvalidQuery indicates empty text, unknown mode or a malformed expression
	ErrInvalidQuery = errors.New("invalid query")
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
)

// ReferenceError reports a reference string that could not be resolved.
type ReferenceError struct {
	Input  string // Text as supplied by the caller
	Reason string // Why resolution failed
}

func (e *ReferenceError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unresolved reference %q: %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("unresolved reference %q", e.Input)
}

func (e *ReferenceError) Unwrap() error {
	return ErrUnresolvedReference
}

// RangeError reports a chapter or verse number outside a book's bounds.
type RangeError struct {
	Book    string // Canonical book abbreviation
	Field   string // "chapter" or "verse"
	Chapter int
	Value   int // Offending number
	Max     int // Largest accepted number
}

func (e *RangeError) Error() string {
	if e.Field == "verse" {
		return fmt.Sprintf("%s %d: verse %d out of range (1-%d)", e.Book, e.Chapter, e.Value, e.Max)
	}
	return fmt.Sprintf("%s: %s %d out of range (1-%d)", e.Book, e.Field, e.Value, e.Max)
}

func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}

// VersionError reports a request for a version with no loaded corpus.
type VersionError struct {
	Version string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("unknown version %q", e.Version)
}

func (e *VersionError) Unwrap() error {
	return ErrUnknownVersion
}

// QueryError reports a search query rejected before dispatch.
type QueryError struct {
	Field   string // Offending field (e.g., "text", "mode", "page")
	Message string // Human-readable error message
	Err     error  // Underlying error, if any (e.g., regexp syntax error)
}

func (e *QueryError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid query %s: %s", e.Field, msg)
	}
	return fmt.Sprintf("invalid query: %s", msg)
}

// Unwrap exposes both the kind and the cause.
func (e *QueryError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidQuery, e.Err}
	}
	return []error{ErrInvalidQuery}
}

// NotFoundError represents a resource not found error with context
type NotFoundError struct {
	Resource string // Type of resource (e.g., "verse", "commentary")
	ID       string // Identifier of the resource
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string // Field name that failed validation
	Value   string // Value that failed validation (may be redacted)
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "open")
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

// ParseError represents a parsing error in an import file
type ParseError struct {
	Format  string // Format being parsed (e.g., "zefania", "csv")
	Path    string // File path, if applicable
	Line    int    // Line or record number, 0 if unknown
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	loc := e.Path
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	if loc != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, loc, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// Helper functions for creating common errors

// NewUnresolved creates a ReferenceError
func NewUnresolved(input, reason string) *ReferenceError {
	return &ReferenceError{Input: input, Reason: reason}
}

// NewChapterRange creates a RangeError for a chapter number
func NewChapterRange(book string, chapter, max int) *RangeError {
	return &RangeError{Book: book, Field: "chapter", Chapter: chapter, Value: chapter, Max: max}
}

// NewVerseRange creates a RangeError for a verse number
func NewVerseRange(book string, chapter, verse, max int) *RangeError {
	return &RangeError{Book: book, Field: "verse", Chapter: chapter, Value: verse, Max: max}
}

// NewUnknownVersion creates a VersionError
func NewUnknownVersion(version string) *VersionError {
	return &VersionError{Version: version}
}

// NewInvalidQuery creates a QueryError
func NewInvalidQuery(field, message string) *QueryError {
	return &QueryError{Field: field, Message: message}
}

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// NewValidation creates a ValidationError
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
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
func NewParse(format, path string, line int, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Path:    path,
		Line:    line,
		Message: message,
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

// Code returns the stable machine-readable code for err's kind.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnresolvedReference):
		return "UNRESOLVED_REFERENCE"
	case errors.Is(err, ErrOutOfRange):
		return "OUT_OF_RANGE"
	case errors.Is(err, ErrUnknownVersion):
		return "UNKNOWN_VERSION"
	case errors.Is(err, ErrInvalidQuery):
		return "INVALID_QUERY"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrInvalidInput):
		return "INVALID_INPUT"
	default:
		return "INTERNAL_ERROR"
	}
}
