package record

import (
	"reflect"
	"time"

	"github.com/cockroachdb/apd/v3"

	"typecats/diagnostic"
	"typecats/primitive"
)

var (
	decimalType = reflect.TypeFor[apd.Decimal]()
	timeType    = reflect.TypeFor[time.Time]()
)

// requireNonEmpty appends NonEmpty to the validators of every required field
// whose type has an empty value. Validators already on the field run first.
func requireNonEmpty(d *Descriptor) {
	for i := range d.Fields {
		f := &d.Fields[i]
		if !f.Required() || primitive.NeverEmpty(f.Type) {
			continue
		}

		f.Validators = append(f.Validators, NonEmpty)
	}
}

// NonEmpty rejects empty values: empty strings and collections, nil pointers
// and interfaces, and falsy wildcats.
func NonEmpty(value any) error {
	if Falsy(reflect.ValueOf(value)) {
		return &diagnostic.FieldError{Kind: diagnostic.KindEmptyRequiredField, Value: value}
	}

	return nil
}

// Falsy reports whether a value counts as empty. Zero numbers and false are
// falsy; plain records and timestamps never are; a wildcat is falsy when it
// has no extras and all of its declared fields are falsy.
func Falsy(rv reflect.Value) bool {
	if !rv.IsValid() {
		return true
	}

	switch rv.Type() {
	case decimalType:
		d := rv.Interface().(apd.Decimal)
		return d.IsZero()
	case timeType:
		return false
	}

	switch rv.Kind() {
	case reflect.Interface:
		return rv.IsNil() || Falsy(rv.Elem())
	case reflect.Pointer:
		// a pointer to a record is as falsy as the record
		return rv.IsNil() || (IsRecordType(rv.Type().Elem()) && Falsy(rv.Elem()))
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		return rv.Len() == 0
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	case reflect.Func:
		return rv.IsNil()
	case reflect.Struct:
		return !truthyRecord(rv)
	}

	return false
}

func truthyRecord(rv reflect.Value) bool {
	d, err := Shape(rv.Type())
	if err != nil || !d.IsWildcat() || !IsRecordType(rv.Type()) {
		return true
	}

	if d.ExtrasOf(rv).Len() > 0 {
		return true
	}

	for i := range d.Fields {
		if !Falsy(rv.FieldByIndex(d.Fields[i].Index)) {
			return true
		}
	}

	return false
}
