// Package errors provides structured setup errors for the navgen code generator.
//
// Every failure navgen reports is a setup error: the annotated source is
// malformed relative to the navigation model, and re-running will not help.
// This package defines error codes and a single [Error] type that enable:
//   - Machine-readable error codes for tests and the CLI exit summary
//   - Attribution to the originating declaration and source position
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes mirror the failure taxonomy of the generator stages:
//   - graph membership and graph shape (AMBIGUOUS_OR_MISSING_GRAPH_MEMBERSHIP,
//     INVALID_START_DESTINATION_COUNT, DUPLICATE_ROUTE, NAV_GRAPH_CYCLE)
//   - navigation arguments (MANDATORY_ARG_ON_START_DESTINATION, DELEGATE_CONFLICT,
//     UNRESOLVED_PARAMETER_TYPE, UNRESOLVED_DEFAULT_VALUE, UNKNOWN_NAV_TYPE)
//   - deep links (ILLEGAL_DEEP_LINK_PLACEHOLDER_POSITION,
//     ILLEGAL_MANDATORY_COMPLEX_ARG_IN_DEEP_LINK)
//   - build shape (MISSING_OPTIONAL_MODULE_DEPENDENCY)
//   - inputs and outputs (INVALID_FEED, INVALID_CONFIG, EMIT_FAILED)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDelegateConflict, "delegate %s has ineligible field %s", d, f).
//	    At(screen.QualifiedName, screen.Position)
//	if errors.Is(err, errors.ErrCodeDelegateConflict) {
//	    // Handle
//	}
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the setup-error taxonomy.
const (
	// Graph membership and shape
	ErrCodeGraphMembership      Code = "AMBIGUOUS_OR_MISSING_GRAPH_MEMBERSHIP"
	ErrCodeStartDestinationArgs Code = "MANDATORY_ARG_ON_START_DESTINATION"
	ErrCodeStartCount           Code = "INVALID_START_DESTINATION_COUNT"
	ErrCodeDuplicateRoute       Code = "DUPLICATE_ROUTE"
	ErrCodeNavGraphCycle        Code = "NAV_GRAPH_CYCLE"

	// Navigation arguments
	ErrCodeDelegateConflict      Code = "DELEGATE_CONFLICT"
	ErrCodeUnresolvedType        Code = "UNRESOLVED_PARAMETER_TYPE"
	ErrCodeUnresolvedDefault     Code = "UNRESOLVED_DEFAULT_VALUE"
	ErrCodeUnknownNavType        Code = "UNKNOWN_NAV_TYPE"
	ErrCodeMissingModule         Code = "MISSING_OPTIONAL_MODULE_DEPENDENCY"
	ErrCodeDeepLinkPlaceholder   Code = "ILLEGAL_DEEP_LINK_PLACEHOLDER_POSITION"
	ErrCodeDeepLinkMandatoryArg  Code = "ILLEGAL_MANDATORY_COMPLEX_ARG_IN_DEEP_LINK"
	ErrCodeInvalidFeed           Code = "INVALID_FEED"
	ErrCodeInvalidConfig         Code = "INVALID_CONFIG"
	ErrCodeEmitFailed            Code = "EMIT_FAILED"
	ErrCodeInvalidRouteArguments Code = "INVALID_ROUTE_ARGUMENTS"
)

// Position is a location inside an annotated source file.
type Position struct {
	File string `json:"file" toml:"file"`
	Line int    `json:"line,omitempty" toml:"line"`
}

// String renders the position as file:line, or just the file when the line is unknown.
func (p Position) String() string {
	if p.File == "" {
		return ""
	}
	if p.Line <= 0 {
		return p.File
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// Error is a structured setup error with a code, attribution and optional cause.
type Error struct {
	Code        Code     // Machine-readable error code
	Message     string   // Human-readable message
	Declaration string   // Qualified name of the offending declaration (optional)
	Position    Position // Source position of the declaration (optional)
	SourceLine  string   // The offending source line, when it could be read (optional)
	Cause       error    // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	if e.Declaration != "" {
		fmt.Fprintf(&b, "'%s': ", e.Declaration)
	}
	b.WriteString(e.Message)
	if pos := e.Position.String(); pos != "" {
		fmt.Fprintf(&b, " (%s)", pos)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// At attributes the error to a declaration and position and returns it.
// Attribution already present is kept, so the innermost stage wins.
func (e *Error) At(declaration string, pos Position) *Error {
	if e.Declaration == "" {
		e.Declaration = declaration
	}
	if e.Position.File == "" {
		e.Position = pos
	}
	return e
}

// WithSourceLine attaches the offending source line for diagnostics.
func (e *Error) WithSourceLine(line string) *Error {
	e.SourceLine = strings.TrimSpace(line)
	return e
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain (including joined errors) looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) && e.Code == code {
		return true
	}
	for _, inner := range joined(err) {
		if Is(inner, code) {
			return true
		}
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Declaration != "" {
			return fmt.Sprintf("%s: %s", e.Declaration, e.Message)
		}
		return e.Message
	}
	return err.Error()
}

// Flatten returns every *Error contained in err, descending into joined errors.
// Errors that carry no *Error are returned as-is.
func Flatten(err error) []error {
	if err == nil {
		return nil
	}
	if inner := joined(err); len(inner) > 0 {
		var out []error
		for _, e := range inner {
			out = append(out, Flatten(e)...)
		}
		return out
	}
	return []error{err}
}

func joined(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return nil
}
