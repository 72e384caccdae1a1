package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wippyai/vssetup/com"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseInit      Phase = "init"      // COM runtime initialisation
	PhaseCreate    Phase = "create"    // CoCreateInstance of the service
	PhaseQuery     Phase = "query"     // property and accessor calls
	PhaseEnumerate Phase = "enumerate" // instance enumeration
	PhaseMarshal   Phase = "marshal"   // argument and result conversion
	PhaseRelease   Phase = "release"   // handle release
	PhaseConfig    Phase = "config"    // configuration loading
	PhaseExec      Phase = "exec"      // external installer processes
)

// Kind categorizes the error
type Kind string

const (
	KindHRESULT        Kind = "hresult"
	KindNilPointer     Kind = "nil_pointer"
	KindUnexpected     Kind = "unexpected"
	KindInvalidInput   Kind = "invalid_input"
	KindClosed         Kind = "closed"
	KindNotFound       Kind = "not_found"
	KindNotInitialized Kind = "not_initialized"
	KindUnsupported    Kind = "unsupported"
	KindInvalidData    Kind = "invalid_data"
)

// Error is the structured error type used throughout the binding
type Error struct {
	Value     any
	Cause     error
	Phase     Phase
	Kind      Kind
	Interface string
	Method    string
	Detail    string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Interface != "" || e.Method != "" {
		b.WriteString(" at ")
		b.WriteString(e.Interface)
		if e.Interface != "" && e.Method != "" {
			b.WriteByte('.')
		}
		b.WriteString(e.Method)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// HRESULT returns the native code carried by the error chain.
func (e *Error) HRESULT() com.HRESULT {
	return com.CodeOf(e)
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Interface sets the COM interface name
func (b *Builder) Interface(name string) *Builder {
	b.err.Interface = name
	return b
}

// Method sets the COM method name
func (b *Builder) Method(name string) *Builder {
	b.err.Method = name
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Code sets a native result code as the cause
func (b *Builder) Code(hr com.HRESULT) *Builder {
	b.err.Cause = hr
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Call creates an error for a failed COM method call. hr is kept unchanged.
func Call(phase Phase, iface, method string, hr com.HRESULT) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindHRESULT,
		Interface: iface,
		Method:    method,
		Cause:     hr,
	}
}

// NilPointer creates an error for a call that succeeded without producing
// the object it promised. The cause is E_POINTER.
func NilPointer(phase Phase, iface, method string) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindNilPointer,
		Interface: iface,
		Method:    method,
		Detail:    "success without result",
		Cause:     com.E_POINTER,
	}
}

// Unexpected creates an error for a service response that breaks its own
// contract. The cause is E_UNEXPECTED.
func Unexpected(phase Phase, iface, method, detail string) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindUnexpected,
		Interface: iface,
		Method:    method,
		Detail:    detail,
		Cause:     com.E_UNEXPECTED,
	}
}

// InvalidInput creates an invalid input error. The cause is E_INVALIDARG.
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
		Cause:  com.E_INVALIDARG,
	}
}

// Closed creates an error for use of a released handle. The cause is RO_E_CLOSED.
func Closed(iface string) *Error {
	return &Error{
		Phase:     PhaseQuery,
		Kind:      KindClosed,
		Interface: iface,
		Detail:    "handle already released",
		Cause:     com.RO_E_CLOSED,
	}
}

// NotInitialized creates a not-initialized error
func NotInitialized(phase Phase, component string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
		Cause:  cause,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// IsClosed reports whether err reports use of a released handle.
func IsClosed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindClosed
}

// IsCode reports whether the chain of err carries exactly hr.
func IsCode(err error, hr com.HRESULT) bool {
	var got com.HRESULT
	return errors.As(err, &got) && got == hr
}
