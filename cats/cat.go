package cats

import (
	"fmt"
	"reflect"

	"typecats/convert"
	"typecats/record"
)

// Cat is a record type declared on a converter. Its Struc, TryStruc and
// Unstruc use that converter and report failures to the registry of the
// declaration.
type Cat[T any] struct {
	conv *convert.Converter
	reg  *Registry
	decl record.Declaration
	desc *record.Descriptor
}

type declaration struct {
	conv *convert.Converter
	reg  *Registry
	decl record.Declaration
}

// Option configures a declaration.
type Option func(*declaration)

// AllowEmpties lets required fields hold empty values.
func AllowEmpties() Option {
	return func(d *declaration) { d.decl.AllowEmpties = true }
}

// WithConverter binds the Cat to c instead of the default converter.
func WithConverter(c *convert.Converter) Option {
	return func(d *declaration) { d.conv = c }
}

// WithRegistry patches the converter through r and reports failures to it.
func WithRegistry(r *Registry) Option {
	return func(d *declaration) { d.reg = r }
}

// FieldValidator adds validators to the field with the given mapping key.
// They run in order, before the non-empty check.
func FieldValidator(name string, validators ...record.Validator) Option {
	return func(d *declaration) {
		if d.decl.Validators == nil {
			d.decl.Validators = make(map[string][]record.Validator)
		}

		d.decl.Validators[name] = append(d.decl.Validators[name], validators...)
	}
}

// DefaultValue makes a field optional. The value is structured into the
// field type when it is not of that type already.
func DefaultValue(name string, value any) Option {
	return func(d *declaration) { d.setDefault(name, record.Default{Value: value}) }
}

// DefaultFactory makes a field optional with a default built on every use.
func DefaultFactory(name string, factory func() any) Option {
	return func(d *declaration) { d.setDefault(name, record.Default{Factory: factory}) }
}

// Literal marks a defaulted field as a literal: structuring rejects any other
// value and stripping keeps it.
func Literal(name string) Option {
	return func(d *declaration) {
		if d.decl.Literals == nil {
			d.decl.Literals = make(map[string]bool)
		}

		d.decl.Literals[name] = true
	}
}

func (d *declaration) setDefault(name string, def record.Default) {
	if d.decl.Defaults == nil {
		d.decl.Defaults = make(map[string]record.Default)
	}

	d.decl.Defaults[name] = def
}

// Declare declares T, which must be a struct, as a record.
func Declare[T any](opts ...Option) (*Cat[T], error) {
	d := declaration{reg: defaultRegistry}
	for _, opt := range opts {
		opt(&d)
	}

	if d.conv == nil {
		d.conv = defaultConverter
	}

	cat := &Cat[T]{reg: d.reg, decl: d.decl}
	if err := cat.SetConverter(d.conv); err != nil {
		return nil, err
	}

	return cat, nil
}

// MustDeclare is Declare for package-level declarations; it panics on error.
func MustDeclare[T any](opts ...Option) *Cat[T] {
	cat, err := Declare[T](opts...)
	if err != nil {
		panic(err)
	}

	return cat
}

// SetConverter rebinds the Cat to c, declaring the record there and patching
// c through the registry of the Cat.
func (cat *Cat[T]) SetConverter(c *convert.Converter) error {
	t := reflect.TypeFor[T]()
	if !record.IsRecordType(t) {
		return fmt.Errorf("declare %v: %w", t, record.ErrNotAStruct)
	}

	desc, err := c.Catalog().Declare(t, cat.decl)
	if err != nil {
		return fmt.Errorf("declare %s: %w", t, err)
	}

	cat.reg.Patch(c)
	cat.conv = c
	cat.desc = desc

	return nil
}

func (cat *Cat[T]) Converter() *convert.Converter { return cat.conv }

func (cat *Cat[T]) Registry() *Registry { return cat.reg }

func (cat *Cat[T]) Descriptor() *record.Descriptor { return cat.desc }

func (cat *Cat[T]) IsWildcat() bool { return cat.desc.IsWildcat() }

// Struc structures data into a T.
func (cat *Cat[T]) Struc(data any) (T, error) {
	return struc[T](cat.conv, cat.reg, data)
}

// TryStruc structures data into a T, reporting false instead of failing.
func (cat *Cat[T]) TryStruc(data any) (T, bool) {
	return tryStruc[T](cat.conv, cat.reg, data)
}

func (cat *Cat[T]) Unstruc(v T, opts ...UnstrucOption) map[string]any {
	res, _ := unstruc(cat.conv, v, opts).(map[string]any)
	return res
}
