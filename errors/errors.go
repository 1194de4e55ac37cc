package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in module processing the error occurred
type Phase string

const (
	PhaseLoad     Phase = "load"     // opening the artifact
	PhaseResolve  Phase = "resolve"  // symbol resolution
	PhaseDecode   Phase = "decode"   // import blob decoding
	PhaseCall     Phase = "call"     // native function invocation
	PhaseRegistry Phase = "registry" // loader registration and lookup
)

// Kind categorizes the error
type Kind string

const (
	KindLoadFailed         Kind = "load_failed"
	KindMissingSymbol      Kind = "missing_symbol"
	KindUnregisteredLoader Kind = "unregistered_loader"
	KindMalformedBlob      Kind = "malformed_blob"
	KindNativeCall         Kind = "native_call"
	KindRegistration       Kind = "registration"
	KindInvalidInput       Kind = "invalid_input"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Symbol string
	Key    string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Symbol != "" {
		b.WriteString(" symbol ")
		b.WriteString(strconv.Quote(e.Symbol))
	}

	if e.Key != "" {
		b.WriteString(" key ")
		b.WriteString(strconv.Quote(e.Key))
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

// Symbol sets the offending symbol name
func (b *Builder) Symbol(name string) *Builder {
	b.err.Symbol = name
	return b
}

// Key sets the offending registry key
func (b *Builder) Key(key string) *Builder {
	b.err.Key = key
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
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

// LoadFailed creates an artifact open failure carrying the platform diagnostic
func LoadFailed(path string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindLoadFailed,
		Detail: fmt.Sprintf("load dynamic library %q", path),
		Cause:  cause,
	}
}

// MissingSymbol creates a fatal missing-symbol error for a required symbol
func MissingSymbol(symbol, detail string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindMissingSymbol,
		Symbol: symbol,
		Detail: detail,
	}
}

// UnregisteredLoader reports an import blob entry whose type tag has no
// registered loader. Unrecoverable without registering the loader and
// reloading the artifact.
func UnregisteredLoader(tag, key string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindUnregisteredLoader,
		Key:    key,
		Detail: fmt.Sprintf("no loader for sub-module type %q", tag),
	}
}

// MalformedBlob creates an import blob consistency error
func MalformedBlob(detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindMalformedBlob,
		Detail: detail,
	}
}

// NativeCall creates a per-call failure from a nonzero native status.
// message is the text recovered from the last-error channel; it may be empty
// when the artifact did not populate it.
func NativeCall(status int32, message string) *Error {
	detail := message
	if detail == "" {
		detail = fmt.Sprintf("native call returned status %d", status)
	}
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindNativeCall,
		Detail: detail,
	}
}

// Registration creates a loader registration error
func Registration(key string, cause error) *Error {
	return &Error{
		Phase: PhaseRegistry,
		Kind:  KindRegistration,
		Key:   key,
		Cause: cause,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
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
