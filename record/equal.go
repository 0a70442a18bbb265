package record

import (
	"reflect"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// ValueEqual compares two values structurally. Decimals compare by value,
// timestamps by instant, and nil collections equal empty ones.
func ValueEqual(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}

	if a.Type() != b.Type() {
		return false
	}

	switch a.Type() {
	case decimalType:
		da, db := a.Interface().(apd.Decimal), b.Interface().(apd.Decimal)
		return da.Cmp(&db) == 0
	case timeType:
		return a.Interface().(time.Time).Equal(b.Interface().(time.Time))
	case extrasType:
		ea, eb := a.Interface().(Extras), b.Interface().(Extras)
		return ValueEqual(reflect.ValueOf(ea.Map()), reflect.ValueOf(eb.Map()))
	}

	switch a.Kind() {
	case reflect.Pointer, reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}

		return ValueEqual(a.Elem(), b.Elem())

	case reflect.Slice, reflect.Array:
		if a.Len() != b.Len() {
			return false
		}

		for i := range a.Len() {
			if !ValueEqual(a.Index(i), b.Index(i)) {
				return false
			}
		}

		return true

	case reflect.Map:
		if a.Len() != b.Len() {
			return false
		}

		iter := a.MapRange()
		for iter.Next() {
			other := b.MapIndex(iter.Key())
			if !other.IsValid() || !ValueEqual(iter.Value(), other) {
				return false
			}
		}

		return true

	case reflect.Struct:
		for i := range a.NumField() {
			// embedded records of unexported types still hold declared fields
			if f := a.Type().Field(i); !f.IsExported() && !(f.Anonymous && f.Type.Kind() == reflect.Struct) {
				continue
			}

			if !ValueEqual(a.Field(i), b.Field(i)) {
				return false
			}
		}

		return true

	case reflect.Func:
		return a.IsNil() && b.IsNil()
	}

	return a.Equal(b)
}
