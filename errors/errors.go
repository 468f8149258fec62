package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseConfig Phase = "config" // codec assembly and configuration resolution
	PhaseEncode Phase = "encode" // value to bytes
	PhaseDecode Phase = "decode" // bytes to value
)

// Kind categorizes the error
type Kind string

const (
	KindOutOfSpace    Kind = "out_of_space"
	KindOutOfRange    Kind = "out_of_range"
	KindInvalidConfig Kind = "invalid_config"
	KindDuplicateTag  Kind = "duplicate_tag"
	KindNotFound      Kind = "not_found"
	KindUnsupported   Kind = "unsupported"
	KindTypeMismatch  Kind = "type_mismatch"
	KindParse         Kind = "parse"
)

// Sentinels for errors.Is. A target without a Phase matches on Kind alone.
var (
	ErrOutOfSpace = &Error{Kind: KindOutOfSpace}
	ErrOutOfRange = &Error{Kind: KindOutOfRange}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	GoType   string
	WireType string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.WireType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.WireType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", wire type ")
			b.WriteString(e.WireType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("wire type ")
			b.WriteString(e.WireType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.WireType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
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
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
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

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// WireType sets the wire representation name
func (b *Builder) WireType(t string) *Builder {
	b.err.WireType = t
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

// OutOfSpace creates an error for a buffer shorter than the required size
func OutOfSpace(phase Phase, wireType string, need, have int) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindOutOfSpace,
		WireType: wireType,
		Detail:   fmt.Sprintf("need %d bytes, buffer has %d", need, have),
		Value:    have,
	}
}

// OutOfRange creates an error for a value with no valid representation
func OutOfRange(phase Phase, wireType string, value any) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindOutOfRange,
		WireType: wireType,
		Detail:   fmt.Sprintf("value %v is out of range", value),
		Value:    value,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, wireType string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Path:     path,
		GoType:   goType,
		WireType: wireType,
	}
}

// InvalidConfig creates a construction-time configuration error
func InvalidConfig(path []string, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindInvalidConfig,
		Path:   path,
		Detail: detail,
	}
}

// Unsupported creates an unsupported type error
func Unsupported(path []string, what string) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindUnsupported,
		Path:   path,
		Detail: what,
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

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindParse,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}

// WithPath returns err with elem prepended to its field path. Errors that are
// not *Error are returned unchanged. The original error is not modified.
func WithPath(err error, elem string) error {
	e, ok := err.(*Error)
	if !ok {
		return err
	}
	cp := *e
	cp.Path = make([]string, 0, len(e.Path)+1)
	cp.Path = append(cp.Path, elem)
	cp.Path = append(cp.Path, e.Path...)
	return &cp
}

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}
