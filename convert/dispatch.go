package convert

import (
	"encoding"
	"reflect"

	"typecats/primitive"
	"typecats/record"
)

type DispatcherEnum int

const (
	DispatcherUnknown DispatcherEnum = iota
	DispatcherScalar
	DispatcherText
	DispatcherInterface
	DispatcherPointer
	DispatcherSlice
	DispatcherSet
	DispatcherMap
	DispatcherRecord

	// DispatcherTotal is a constant that represents the total number of kinds defined
	DispatcherTotal = int(iota)
)

var (
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	emptyStructType     = reflect.TypeFor[struct{}]()
)

// Dispatch picks the built-in handling for a target type.
func Dispatch(t reflect.Type) DispatcherEnum {
	if t == nil {
		return DispatcherUnknown
	}

	switch primitive.FromReflectType(t) {
	case primitive.KindTime, primitive.KindDuration, primitive.KindDecimal:
		return DispatcherScalar
	}

	if t.Kind() != reflect.Interface && t.Kind() != reflect.Pointer &&
		reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return DispatcherText
	}

	if primitive.FromReflectType(t) != 0 {
		return DispatcherScalar
	}

	switch t.Kind() {
	case reflect.Interface:
		return DispatcherInterface
	case reflect.Pointer:
		return DispatcherPointer
	case reflect.Slice, reflect.Array:
		return DispatcherSlice
	case reflect.Map:
		if t.Elem() == emptyStructType {
			return DispatcherSet
		}

		return DispatcherMap
	case reflect.Struct:
		if record.IsRecordType(t) {
			return DispatcherRecord
		}
	}

	return DispatcherUnknown
}
