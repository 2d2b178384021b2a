package errors

import "fmt"

// Category represents the type of error.
type Category string

const (
	CategoryManifest Category = "manifest"
	CategoryRoutes   Category = "routes"
	CategoryConfig   Category = "config"
	CategoryServer   Category = "server"
	CategoryCLI      Category = "cli"
	CategoryExport   Category = "export"
)

// Location represents a file location.
type Location struct {
	File string
	Line int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Line > 0 {
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	}
	return l.File
}

// WaymarkError is a structured error with a code, suggestions, and
// documentation links.
type WaymarkError struct {
	// Code is a unique error identifier (e.g., "E120").
	Code string

	// Category is the error type (manifest, config, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the file the error refers to, if any.
	Location *Location

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *WaymarkError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *WaymarkError) Unwrap() error {
	return e.Wrapped
}

// WithLocation records the file the error refers to.
func (e *WaymarkError) WithLocation(file string, line int) *WaymarkError {
	e.Location = &Location{File: file, Line: line}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *WaymarkError) WithSuggestion(s string) *WaymarkError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *WaymarkError) WithDetail(d string) *WaymarkError {
	e.Detail = d
	return e
}

// Wrap wraps another error. The wrapped error's message is appended to
// the detail so it is never lost in terminal output.
func (e *WaymarkError) Wrap(err error) *WaymarkError {
	e.Wrapped = err
	if err != nil && e.Detail == "" {
		e.Detail = err.Error()
	}
	return e
}

// New creates a WaymarkError from a registered error code.
func New(code string) *WaymarkError {
	template, ok := registry[code]
	if !ok {
		return &WaymarkError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &WaymarkError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new WaymarkError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *WaymarkError {
	return &WaymarkError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a WaymarkError.
func FromError(err error, code string) *WaymarkError {
	if err == nil {
		return nil
	}
	if we, ok := err.(*WaymarkError); ok {
		return we
	}
	return New(code).Wrap(err)
}
