package convert

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"typecats/diagnostic"
	"typecats/internal/match"
	"typecats/record"
)

var ErrLiteralMismatch = errors.New("literal field does not match its value")

// suggestions is the number of "did you mean" keys attached to a missing
// field.
const suggestions = 2

// Mapping reads the string-keyed entries of any map. The second result is
// false when data is not a map.
func Mapping(data any) (map[string]any, bool) {
	switch m := data.(type) {
	case map[string]any:
		return m, true
	case nil:
		return nil, false
	}

	dv := reflect.ValueOf(data)
	if dv.Kind() != reflect.Map {
		return nil, false
	}

	res := make(map[string]any, dv.Len())

	iter := dv.MapRange()
	for iter.Next() {
		if key, ok := iter.Key().Interface().(string); ok {
			res[key] = iter.Value().Interface()
		} else if iter.Key().Kind() == reflect.String {
			res[iter.Key().String()] = iter.Value().Interface()
		}
	}

	return res, true
}

// StructureFields is the built-in structuring of records: every declared
// field is read from the mapping, missing fields take their defaults, literal
// fields are checked, then field validators and the record's own Validate
// method run. Undeclared keys are ignored.
func (c *Converter) StructureFields(data any, t reflect.Type) (reflect.Value, error) {
	d, err := c.catalog.Describe(t)
	if err != nil {
		return reflect.Value{}, err
	}

	m, ok := Mapping(data)
	if !ok {
		kind := diagnostic.KindTypeMismatch
		if d.IsWildcat() || isRecordValue(data) {
			kind = diagnostic.KindWildcatNestingMismatch
		}

		return reflect.Value{}, &diagnostic.FieldError{Kind: kind, Type: t, Value: data}
	}

	out := reflect.New(t).Elem()
	col := collector{detailed: c.detailed}

	for i := range d.Fields {
		f := &d.Fields[i]
		locate := func(err error) error { return diagnostic.AtField(f.Name, err) }

		value, err := c.structureField(f, m, d, t)
		if err == nil {
			out.FieldByIndex(f.Index).Set(value)
			err = c.validateField(f, value, t)
		}

		if err != nil {
			if stop, err := col.add(err, locate); stop {
				return reflect.Value{}, err
			}
		}
	}

	if err := col.result(t); err != nil {
		return reflect.Value{}, err
	}

	if d.SelfValidating {
		if err := out.Addr().Interface().(interface{ Validate() error }).Validate(); err != nil {
			return reflect.Value{}, &diagnostic.FieldError{Kind: diagnostic.KindInvalidValue, Type: t, Value: data, Err: err}
		}
	}

	return out, nil
}

func (c *Converter) structureField(f *record.Field, m map[string]any, d *record.Descriptor, t reflect.Type) (reflect.Value, error) {
	raw, present := m[f.Name]
	if !present {
		if f.Required() {
			return reflect.Value{}, &diagnostic.FieldError{
				Kind:        diagnostic.KindMissingField,
				Type:        t,
				Field:       f.Name,
				Suggestions: match.Suggest(f.Name, undeclaredKeys(m, d), suggestions),
			}
		}

		return c.Default(f)
	}

	value, err := c.StructureValue(raw, f.Type)
	if err != nil {
		return reflect.Value{}, err
	}

	if f.Literal {
		def, err := c.Default(f)
		if err != nil {
			return reflect.Value{}, err
		}

		if !record.ValueEqual(value, def) {
			return reflect.Value{}, &diagnostic.FieldError{
				Kind:  diagnostic.KindInvalidValue,
				Type:  t,
				Field: f.Name,
				Value: raw,
				Err:   fmt.Errorf("%w: want %s", ErrLiteralMismatch, diagnostic.FormatItem(def.Interface())),
			}
		}
	}

	return value, nil
}

func (c *Converter) validateField(f *record.Field, value reflect.Value, t reflect.Type) error {
	for _, validate := range f.Validators {
		err := validate(value.Interface())
		if err == nil {
			continue
		}

		var fe *diagnostic.FieldError
		if errors.As(err, &fe) && fe.Field == "" {
			fe.Field = f.Name
			fe.Type = t

			return fe
		}

		return &diagnostic.FieldError{Kind: diagnostic.KindInvalidValue, Type: t, Field: f.Name, Value: value.Interface(), Err: err}
	}

	return nil
}

// Default evaluates the default of a field into a value of the field type.
// Factories are called once per evaluation.
func (c *Converter) Default(f *record.Field) (reflect.Value, error) {
	if f.Default == nil {
		return reflect.Value{}, fmt.Errorf("field %q has no default", f.Name)
	}

	if f.Default.Zero {
		return reflect.Zero(f.Type), nil
	}

	raw := f.Default.Raw()

	// values already of the field type are used as they are, collections
	// excepted so instances never share them
	if rv := reflect.ValueOf(raw); rv.IsValid() && rv.Type() == f.Type {
		switch rv.Kind() {
		case reflect.Slice, reflect.Map:
		default:
			return rv, nil
		}
	}

	return c.StructureValue(raw, f.Type)
}

// UnstructureFields is the built-in unstructuring of records: every declared
// field under its mapping key. Extras of wildcats are not included.
func (c *Converter) UnstructureFields(v reflect.Value, s Scope) map[string]any {
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}

	d, err := c.catalog.Describe(v.Type())
	if err != nil {
		return nil
	}

	res := make(map[string]any, len(d.Fields))
	for i := range d.Fields {
		f := &d.Fields[i]
		res[f.Name] = c.UnstructureValue(v.FieldByIndex(f.Index), s)
	}

	return res
}

func (c *Converter) unstructureRecord(v reflect.Value, s Scope) any {
	return c.UnstructureFields(v, s)
}

func undeclaredKeys(m map[string]any, d *record.Descriptor) []string {
	var keys []string

	for key := range m {
		if _, ok := d.Field(key); !ok {
			keys = append(keys, key)
		}
	}

	slices.Sort(keys)

	return keys
}

func isRecordValue(data any) bool {
	t := reflect.TypeOf(data)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return record.IsRecordType(t)
}
