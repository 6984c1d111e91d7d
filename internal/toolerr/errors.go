// Package toolerr defines the error kinds adapters raise and the registry
// maps to structured MCP tool errors, per spec.md §7. No Go stack trace
// ever crosses the MCP boundary — only Kind and a short message do.
package toolerr

import "fmt"

// Kind is one of the eight closed failure modes an adapter can report.
type Kind string

const (
	InvalidInput      Kind = "InvalidInput"
	UpstreamNetwork   Kind = "UpstreamNetwork"
	UpstreamStatus    Kind = "UpstreamStatus"
	UpstreamParse     Kind = "UpstreamParse"
	UpstreamTimeout   Kind = "UpstreamTimeout"
	ConversionFailure Kind = "ConversionFailure"
	NotFound          Kind = "NotFound"
	InternalError     Kind = "InternalError"
)

// Error is the typed error every adapter returns instead of a bare error
// string, grounded on connectivity/errors.go's one-struct-per-failure-mode
// style (ErrServiceNotFound, ErrCallTimeout, ErrCircuitOpen...).
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error with no underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error carrying a lower-level cause. The cause's own error
// text is never forwarded verbatim to the caller unless message already
// includes what the caller needs — callers should write a short, non-leaky
// message themselves.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// As extracts a *Error from err, or reports ok=false if err isn't one.
func As(err error) (*Error, bool) {
	te, ok := err.(*Error)
	return te, ok
}

// KindOf returns the Kind of err if it is a *Error, else InternalError —
// used by the registry when mapping an adapter error to a tool error.
func KindOf(err error) Kind {
	if te, ok := As(err); ok {
		return te.Kind
	}
	return InternalError
}
