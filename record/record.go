package record

import (
	"reflect"
	"slices"
)

// Variant tells plain records from wildcats.
type Variant int

const (
	VariantPlain Variant = iota
	VariantWildcat
)

func (v Variant) String() string {
	if v == VariantWildcat {
		return "wildcat"
	}

	return "plain"
}

// Validator checks a field value after structuring. Returning an error fails
// the structuring of the whole record.
type Validator func(value any) error

// Default is the value used when a field is missing from the input.
type Default struct {
	// Value is the raw default. Values that are not already of the field type
	// are structured into it, so YAML literals from tags work for any field.
	Value any
	// Factory, when set, produces a fresh raw default on every use.
	Factory func() any
	// Zero means the zero value of the field type.
	Zero bool
}

// Raw returns the unconverted default.
func (d *Default) Raw() any {
	if d.Factory != nil {
		return d.Factory()
	}

	return d.Value
}

// Field is one declared field of a record.
type Field struct {
	// Name is the mapping key.
	Name   string
	GoName string
	Index  []int
	Type   reflect.Type
	// Default is nil for required fields.
	Default *Default
	// Literal fields must equal their default and are never stripped.
	Literal    bool
	Validators []Validator
}

func (f *Field) Required() bool {
	return f.Default == nil
}

func (f Field) clone() Field {
	f.Index = slices.Clone(f.Index)
	f.Validators = slices.Clone(f.Validators)

	if f.Default != nil {
		d := *f.Default
		f.Default = &d
	}

	return f
}

// Descriptor is the record view of a struct type.
type Descriptor struct {
	Type    reflect.Type
	Variant Variant
	Fields  []Field
	// ExtrasIndex locates the embedded Extras of a wildcat.
	ExtrasIndex []int
	// Declared is set for types declared through a Catalog, as opposed to
	// structs described on first use.
	Declared bool
	// SelfValidating records implement Validate() error.
	SelfValidating bool

	byName map[string]int
}

func (d *Descriptor) IsWildcat() bool {
	return d.Variant == VariantWildcat
}

// Field looks a field up by its mapping key.
func (d *Descriptor) Field(name string) (*Field, bool) {
	i, ok := d.byName[name]
	if !ok {
		return nil, false
	}

	return &d.Fields[i], true
}

// Names lists the mapping keys of the declared fields in declaration order.
func (d *Descriptor) Names() []string {
	names := make([]string, len(d.Fields))
	for i := range d.Fields {
		names[i] = d.Fields[i].Name
	}

	return names
}

// Extras returns the extras store of rv, which must be an addressable value
// of the descriptor type, or nil for plain records.
func (d *Descriptor) Extras(rv reflect.Value) *Extras {
	if !d.IsWildcat() {
		return nil
	}

	return rv.FieldByIndex(d.ExtrasIndex).Addr().Interface().(*Extras)
}

// ExtrasOf is Extras for values that may not be addressable; the returned
// store must not be modified.
func (d *Descriptor) ExtrasOf(rv reflect.Value) Extras {
	if !d.IsWildcat() {
		return Extras{}
	}

	return rv.FieldByIndex(d.ExtrasIndex).Interface().(Extras)
}

func (d *Descriptor) clone() *Descriptor {
	res := *d
	res.ExtrasIndex = slices.Clone(d.ExtrasIndex)
	res.Fields = make([]Field, len(d.Fields))

	for i := range d.Fields {
		res.Fields[i] = d.Fields[i].clone()
	}

	return &res
}

func (d *Descriptor) index() {
	d.byName = make(map[string]int, len(d.Fields))
	for i := range d.Fields {
		d.byName[d.Fields[i].Name] = i
	}
}
