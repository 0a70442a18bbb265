package record

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"typecats/diagnostic"
)

var (
	ErrDeclaredKey = errors.New("key is a declared field")
	ErrKeyNotFound = errors.New("key not found")
	ErrNotWildcat  = errors.New("not a wildcat")
)

// KeyError is returned by item access on a wildcat.
type KeyError struct {
	Key  string
	Type reflect.Type
	// Declared is set when the key names a declared field, which item access
	// never reads or writes.
	Declared bool
}

func (e *KeyError) Error() string {
	if e.Declared {
		return fmt.Sprintf("key %q is a declared field of %s; use the struct field instead",
			e.Key, diagnostic.TypeName(e.Type))
	}

	return fmt.Sprintf("key %q not found in %s", e.Key, diagnostic.TypeName(e.Type))
}

func (e *KeyError) Unwrap() error {
	if e.Declared {
		return ErrDeclaredKey
	}

	return ErrKeyNotFound
}

// IsWildcat accepts a reflect.Type, a value or a pointer to a value.
func IsWildcat(v any) bool {
	t, ok := v.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(v)
	}

	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if !IsRecordType(t) {
		return false
	}

	d, err := Shape(t)

	return err == nil && d.IsWildcat()
}

// wildcatOf resolves w to its struct value and descriptor. Mutating callers
// need a pointer.
func wildcatOf(w any, mutable bool) (reflect.Value, *Descriptor, error) {
	rv := reflect.ValueOf(w)

	switch {
	case rv.Kind() == reflect.Pointer && !rv.IsNil():
		rv = rv.Elem()
	case mutable, !rv.IsValid(), rv.Kind() == reflect.Pointer:
		return reflect.Value{}, nil, fmt.Errorf("%w: need a non-nil pointer, got %T", ErrNotWildcat, w)
	}

	if !IsWildcat(rv.Type()) {
		return reflect.Value{}, nil, fmt.Errorf("%w: %T", ErrNotWildcat, w)
	}

	d, err := Shape(rv.Type())

	return rv, d, err
}

// GetItem reads an undeclared key.
func GetItem(w any, key string) (any, error) {
	rv, d, err := wildcatOf(w, false)
	if err != nil {
		return nil, err
	}

	if _, ok := d.Field(key); ok {
		return nil, &KeyError{Key: key, Type: d.Type, Declared: true}
	}

	v, ok := d.ExtrasOf(rv).Extra(key)
	if !ok {
		return nil, &KeyError{Key: key, Type: d.Type}
	}

	return v, nil
}

// SetItem stores value under an undeclared key.
func SetItem(w any, key string, value any) error {
	return Update(w, map[string]any{key: value})
}

// DelItem removes an undeclared key.
func DelItem(w any, key string) error {
	rv, d, err := wildcatOf(w, true)
	if err != nil {
		return err
	}

	if _, ok := d.Field(key); ok {
		return &KeyError{Key: key, Type: d.Type, Declared: true}
	}

	extras := d.Extras(rv)
	if _, ok := extras.Extra(key); !ok {
		return &KeyError{Key: key, Type: d.Type}
	}

	extras.del(key)

	return nil
}

// Update stores every entry of kv as an undeclared key. Nothing is stored
// when any key names a declared field.
func Update(w any, kv map[string]any) error {
	rv, d, err := wildcatOf(w, true)
	if err != nil {
		return err
	}

	for key := range kv {
		if _, ok := d.Field(key); ok {
			return &KeyError{Key: key, Type: d.Type, Declared: true}
		}
	}

	extras := d.Extras(rv)
	for key, value := range kv {
		extras.set(key, value)
	}

	return nil
}

// EnrichStructured copies every key of source that is not a declared field
// into the extras of rv, values unchanged. rv must be addressable.
func EnrichStructured(rv reflect.Value, source map[string]any, d *Descriptor) {
	if !d.IsWildcat() {
		return
	}

	extras := d.Extras(rv)
	for key, value := range source {
		if _, ok := d.Field(key); !ok {
			extras.set(key, value)
		}
	}
}

// EnrichUnstructured merges the extras of rv into out, each value passed
// through unstructure. Keys already in out win.
func EnrichUnstructured(rv reflect.Value, out map[string]any, d *Descriptor, unstructure func(any) any) {
	if !d.IsWildcat() {
		return
	}

	for key, value := range d.ExtrasOf(rv).All() {
		if _, ok := out[key]; ok {
			continue
		}

		out[key] = unstructure(value)
	}
}

// CopyWildcat returns a shallow copy of the wildcat held by rv (a value or a
// pointer) whose extras no longer share storage with the original.
func CopyWildcat(rv reflect.Value, d *Descriptor) reflect.Value {
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}

	res := reflect.New(d.Type).Elem()
	res.Set(rv)

	if d.IsWildcat() {
		d.Extras(res).clone()
	}

	return res
}

// Truthy is the negation of Falsy for any value.
func Truthy(v any) bool {
	return !Falsy(reflect.ValueOf(v))
}

// Equal compares two records: declared fields and extras alike.
func Equal(a, b any) bool {
	return ValueEqual(reflect.ValueOf(a), reflect.ValueOf(b))
}

// Repr renders a record as Type{key:value ...}, followed by +Wildcat{...}
// when it holds extras.
func Repr(v any) string {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}

	if !rv.IsValid() || !IsRecordType(rv.Type()) {
		return fmt.Sprintf("%v", v)
	}

	d, err := Shape(rv.Type())
	if err != nil {
		return fmt.Sprintf("%v", v)
	}

	var b strings.Builder

	b.WriteString(diagnostic.TypeName(d.Type))
	b.WriteByte('{')

	for i := range d.Fields {
		if i > 0 {
			b.WriteByte(' ')
		}

		f := &d.Fields[i]
		b.WriteString(f.Name)
		b.WriteByte(':')
		b.WriteString(reprValue(rv.FieldByIndex(f.Index)))
	}

	b.WriteByte('}')

	if extras := d.ExtrasOf(rv); extras.Len() > 0 {
		b.WriteString("+Wildcat{")

		first := true
		for key, value := range extras.All() {
			if !first {
				b.WriteString(", ")
			}

			first = false

			fmt.Fprintf(&b, "%q: %s", key, diagnostic.FormatItem(value))
		}

		b.WriteByte('}')
	}

	return b.String()
}

func reprValue(rv reflect.Value) string {
	if rv.Kind() == reflect.Struct && IsRecordType(rv.Type()) {
		return Repr(rv.Interface())
	}

	return diagnostic.FormatItem(rv.Interface())
}
