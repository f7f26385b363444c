package errors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in the pipeline the error occurred
type Phase string

const (
	PhaseDecode    Phase = "decode"    // binary container decoding
	PhaseInterpret Phase = "interpret" // section and operator translation
	PhaseMerge     Phase = "merge"     // unit aggregation
	PhaseCodegen   Phase = "codegen"   // assembly text rendering
	PhaseLoad      Phase = "load"      // module loading outside the core
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidData            Kind = "invalid_data"
	KindUnsupportedSection     Kind = "unsupported_section"
	KindUnsupportedInstruction Kind = "unsupported_instruction"
	KindUnsupportedType        Kind = "unsupported_type"
	KindInternal               Kind = "internal"
)

// NoOffset marks an error that is not tied to a byte position.
const NoOffset = -1

// Error is the structured error type used throughout the translator
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
	Offset int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Offset >= 0 {
		b.WriteString(" at offset ")
		b.WriteString(strconv.Itoa(e.Offset))
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
			Phase:  phase,
			Kind:   kind,
			Offset: NoOffset,
		},
	}
}

// Path sets the location path, e.g. "global", "3"
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Offset sets the byte offset
func (b *Builder) Offset(offset int) *Builder {
	b.err.Offset = offset
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

// Convenience constructors for the error kinds of the pipeline

// Decode creates a decode error for malformed or truncated module bytes
func Decode(offset int, detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidData,
		Offset: offset,
		Detail: detail,
		Cause:  cause,
	}
}

// UnsupportedSection creates an error for a section kind without an interpreter
func UnsupportedSection(kind string) *Error {
	return &Error{
		Phase:  PhaseInterpret,
		Kind:   KindUnsupportedSection,
		Offset: NoOffset,
		Detail: fmt.Sprintf("unsupported section kind %q", kind),
		Value:  kind,
	}
}

// UnsupportedInstruction creates an error for an operator without a target mapping
func UnsupportedInstruction(name string, offset int) *Error {
	return &Error{
		Phase:  PhaseInterpret,
		Kind:   KindUnsupportedInstruction,
		Offset: offset,
		Detail: fmt.Sprintf("unsupported instruction %q", name),
		Value:  name,
	}
}

// UnsupportedType creates an error for a value type without a target mapping
func UnsupportedType(name string) *Error {
	return &Error{
		Phase:  PhaseInterpret,
		Kind:   KindUnsupportedType,
		Offset: NoOffset,
		Detail: fmt.Sprintf("unsupported type %s", name),
		Value:  name,
	}
}

// Internal creates an internal consistency error. These indicate a defect,
// never a property of the input.
func Internal(phase Phase, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInternal,
		Offset: NoOffset,
		Detail: detail,
	}
}

// InvalidEntry wraps a failure of one entry of a section, identified by index.
// When the cause is already structured its kind is kept.
func InvalidEntry(section string, index int, cause error) *Error {
	kind := KindInvalidData
	offset := NoOffset
	var e *Error
	if errors.As(cause, &e) {
		kind = e.Kind
		offset = e.Offset
	}
	return &Error{
		Phase:  PhaseInterpret,
		Kind:   kind,
		Path:   []string{section, strconv.Itoa(index)},
		Offset: offset,
		Detail: fmt.Sprintf("%s entry %d", section, index),
		Value:  index,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Offset: NoOffset,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates a module loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Offset: NoOffset,
		Detail: detail,
		Cause:  cause,
	}
}

// KindOf returns the kind of the first structured error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

func hasKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsDecode reports whether err is, or wraps, a decode error.
func IsDecode(err error) bool {
	return errors.Is(err, &Error{Phase: PhaseDecode, Kind: KindInvalidData})
}

// IsUnsupportedSection reports whether err is an unsupported section error.
func IsUnsupportedSection(err error) bool { return hasKind(err, KindUnsupportedSection) }

// IsUnsupportedInstruction reports whether err is an unsupported instruction error.
func IsUnsupportedInstruction(err error) bool { return hasKind(err, KindUnsupportedInstruction) }

// IsUnsupportedType reports whether err is an unsupported type error.
func IsUnsupportedType(err error) bool { return hasKind(err, KindUnsupportedType) }

// IsInternal reports whether err is an internal consistency error.
func IsInternal(err error) bool { return hasKind(err, KindInternal) }
