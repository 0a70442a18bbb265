package diagnostic

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

//go:generate go tool stringer -type=Kind -trimprefix=Kind -output=kind_string.go

// Kind classifies a structuring failure.
type Kind int

const (
	_ Kind = iota

	KindMissingField           // a required field is absent from the input mapping
	KindEmptyRequiredField     // a required field holds an empty value
	KindTypeMismatch           // the input value has the wrong shape for the target type
	KindWildcatNestingMismatch // a wildcat field received a non-mapping that is not an instance
	KindInvalidValue           // a field or record validator rejected the value
)

var (
	ErrMissingField           = errors.New("missing required field")
	ErrEmptyRequiredField     = errors.New("empty required field")
	ErrTypeMismatch           = errors.New("type mismatch")
	ErrWildcatNestingMismatch = errors.New("wildcat nesting mismatch")
	ErrInvalidValue           = errors.New("invalid value")
)

// Sentinel returns the error value errors.Is matches for the kind.
func (k Kind) Sentinel() error {
	switch k {
	case KindMissingField:
		return ErrMissingField
	case KindEmptyRequiredField:
		return ErrEmptyRequiredField
	case KindTypeMismatch:
		return ErrTypeMismatch
	case KindWildcatNestingMismatch:
		return ErrWildcatNestingMismatch
	case KindInvalidValue:
		return ErrInvalidValue
	}

	return nil
}

// FieldError is a single structuring failure.
type FieldError struct {
	Kind Kind
	// Type is the type being structured when the failure happened.
	Type reflect.Type
	// Field is the declared field name, empty when the whole value is at fault.
	Field string
	// Value is the offending input.
	Value any
	// Err is the underlying cause, if any.
	Err error
	// Suggestions are input keys that look like misspellings of Field.
	Suggestions []string

	trace
}

func (e *FieldError) Error() string {
	var b strings.Builder

	b.WriteString(e.Kind.Sentinel().Error())

	if e.Field != "" {
		fmt.Fprintf(&b, " %q", e.Field)
		if e.Type != nil {
			fmt.Fprintf(&b, " of %s", TypeName(e.Type))
		}
	} else if e.Type != nil {
		fmt.Fprintf(&b, ": cannot structure %s into %s", FormatItem(e.Value), TypeName(e.Type))
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	if len(e.Suggestions) > 0 {
		quoted := make([]string, len(e.Suggestions))
		for i, s := range e.Suggestions {
			quoted[i] = fmt.Sprintf("%q", s)
		}

		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(quoted, " or "))
	}

	return b.String()
}

func (e *FieldError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.Sentinel()}
	}

	return []error{e.Kind.Sentinel(), e.Err}
}

// ValidationError groups child failures of one structuring call. In detailed
// mode each child is a *LocatedError naming the field, index or key it came
// from. In basic mode it wraps the single error that stopped structuring.
type ValidationError struct {
	Message string
	Type    reflect.Type
	Errors  []error
	// Detailed is false for the wrapper produced in basic mode.
	Detailed bool

	trace
}

// NewValidationError groups children under a message. The result inherits the
// trace of the first traced child so the type path survives the grouping.
func NewValidationError(message string, t reflect.Type, children []error) *ValidationError {
	e := &ValidationError{Message: message, Type: t, Errors: children, Detailed: true}

	for _, child := range children {
		if frames := innermostFirst(child); len(frames) > 0 {
			e.frames = frames
			break
		}
	}

	return e
}

// Simple wraps a single error from basic-mode structuring, so callers see the
// same error family whichever mode is active. Errors already in the family
// are returned unchanged.
func Simple(err error, t reflect.Type) error {
	if err == nil {
		return nil
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return err
	}

	e := &ValidationError{
		Message: "While structuring " + TypeName(t),
		Type:    t,
		Errors:  []error{err},
	}
	e.frames = innermostFirst(err)

	return e
}

func (e *ValidationError) Error() string {
	children := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		children = append(children, err.Error())
	}

	suffix := "s"
	if len(e.Errors) == 1 {
		suffix = ""
	}

	return fmt.Sprintf("%s (%d sub-error%s): %s", e.Message, len(e.Errors), suffix, strings.Join(children, "; "))
}

func (e *ValidationError) Unwrap() []error {
	return e.Errors
}

// Leaves flattens the error tree into the failures that are not groups.
func (e *ValidationError) Leaves() []error {
	var res []error

	for _, child := range e.Errors {
		inner := child
		if located, ok := child.(*LocatedError); ok {
			inner = located.Err
		}

		var group *ValidationError

		if errors.As(inner, &group) {
			res = append(res, group.Leaves()...)
			continue
		}

		res = append(res, child)
	}

	return res
}

// LocatedError attaches the position within the parent value that a child
// failure came from.
type LocatedError struct {
	Location string
	Err      error
}

// AtField, AtIndex and AtKey build locations for struct fields, sequence
// elements and mapping entries.
func AtField(name string, err error) error { return &LocatedError{fmt.Sprintf("field %q", name), err} }

func AtIndex(i int, err error) error { return &LocatedError{fmt.Sprintf("index %d", i), err} }

func AtKey(key any, err error) error { return &LocatedError{"key " + FormatItem(key), err} }

func (e *LocatedError) Error() string {
	return "@ " + e.Location + ": " + e.Err.Error()
}

func (e *LocatedError) Unwrap() error {
	return e.Err
}

// IsStructuring reports whether err belongs to the structuring error family.
func IsStructuring(err error) bool {
	var (
		fe *FieldError
		ve *ValidationError
	)

	return errors.As(err, &fe) || errors.As(err, &ve)
}

// TypeName is the short name used in messages and type paths.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	if t.Name() != "" {
		return t.Name()
	}

	return t.String()
}

// FormatItem renders an input value for messages.
func FormatItem(item any) string {
	switch v := item.(type) {
	case nil:
		return "nil"
	case string:
		return fmt.Sprintf("%q", v)
	}

	return fmt.Sprintf("%v", item)
}
