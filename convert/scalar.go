package convert

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/go-viper/mapstructure/v2"

	"typecats/primitive"
	"typecats/utils"
)

var (
	ErrCoercionNotAllowed = errors.New("coercion not allowed")
	ErrLossyNumber        = errors.New("number does not fit without loss")
	ErrInvalidEnum        = errors.New("not a valid value of the enum")
)

var basicTypes = map[primitive.KindEnum]reflect.Type{
	primitive.KindInt:     reflect.TypeFor[int](),
	primitive.KindInt8:    reflect.TypeFor[int8](),
	primitive.KindInt16:   reflect.TypeFor[int16](),
	primitive.KindInt32:   reflect.TypeFor[int32](),
	primitive.KindInt64:   reflect.TypeFor[int64](),
	primitive.KindUint:    reflect.TypeFor[uint](),
	primitive.KindUint8:   reflect.TypeFor[uint8](),
	primitive.KindUint16:  reflect.TypeFor[uint16](),
	primitive.KindUint32:  reflect.TypeFor[uint32](),
	primitive.KindUint64:  reflect.TypeFor[uint64](),
	primitive.KindFloat32: reflect.TypeFor[float32](),
	primitive.KindFloat64: reflect.TypeFor[float64](),
	primitive.KindBool:    reflect.TypeFor[bool](),
	primitive.KindString:  reflect.TypeFor[string](),
}

type validEnum interface {
	IsValid() bool
}

func (c *Converter) structureScalar(data any, t reflect.Type) (reflect.Value, error) {
	dv := reflect.ValueOf(data)
	if !dv.IsValid() {
		return reflect.Value{}, mismatch(data, t, nil)
	}

	if dv.Type() == t {
		return checkEnum(dv, data, t)
	}

	from, to := primitive.BaseKind(dv.Type()), primitive.BaseKind(t)
	if from == 0 || to == 0 {
		return reflect.Value{}, mismatch(data, t, nil)
	}

	if err := c.allowCoercion(dv, from, to, t); err != nil {
		return reflect.Value{}, mismatch(data, t, err)
	}

	out, err := coerce(dv, from, to, t)
	if err != nil {
		return reflect.Value{}, mismatch(data, t, err)
	}

	return checkEnum(out, data, t)
}

func (c *Converter) allowCoercion(dv reflect.Value, from, to primitive.KindEnum, t reflect.Type) error {
	if from == to {
		// same representation, only the type name differs
		if from == primitive.KindString && !c.coercions.Has(primitive.CategoryEnumString) {
			return fmt.Errorf("%w: %s into %s", ErrCoercionNotAllowed, primitive.CategoryEnumString, t)
		}

		return nil
	}

	category := primitive.Categorize(from, to)
	if c.coercions.Has(category) {
		return nil
	}

	// numbers that happen to fit are safe
	if category == primitive.CategoryUnsafeNumber && c.coercions.Has(primitive.CategorySafeNumber) {
		if fitsLosslessly(dv, t) {
			return nil
		}

		return fmt.Errorf("%w: %v into %s", ErrLossyNumber, dv.Interface(), t)
	}

	return fmt.Errorf("%w: %s into %s", ErrCoercionNotAllowed, category, t)
}

func coerce(dv reflect.Value, from, to primitive.KindEnum, t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t)

	switch {
	case from == to:
		out.Elem().Set(dv.Convert(t))
		return out.Elem(), nil

	case to == primitive.KindDecimal:
		d, err := toDecimal(dv)
		if err != nil {
			return reflect.Value{}, err
		}

		out.Elem().Set(reflect.ValueOf(*d))

		return out.Elem(), nil

	case from == primitive.KindDecimal:
		return fromDecimal(dv.Interface().(apd.Decimal), to, t)

	case to == primitive.KindBool && from == primitive.KindString:
		b, err := parseTextualBool(dv.String())
		if err != nil {
			return reflect.Value{}, err
		}

		out.Elem().SetBool(b)

		return out.Elem(), nil

	case to == primitive.KindString && from == primitive.KindBool:
		out.Elem().SetString(strconv.FormatBool(dv.Bool()))
		return out.Elem(), nil

	case to == primitive.KindTime && from.IsInteger():
		out.Elem().Set(reflect.ValueOf(time.Unix(toInt64(dv), 0).UTC()))
		return out.Elem(), nil

	case from == primitive.KindTime && to.IsInteger():
		return out.Elem(), setInt(out.Elem(), dv.Interface().(time.Time).Unix())

	case from == primitive.KindTime && to == primitive.KindString:
		out.Elem().SetString(dv.Interface().(time.Time).Format(time.RFC3339Nano))
		return out.Elem(), nil

	case to == primitive.KindDuration && from.IsFloat():
		out.Elem().SetInt(int64(dv.Float() * float64(time.Second)))
		return out.Elem(), nil

	case from == primitive.KindDuration && to.IsFloat():
		out.Elem().SetFloat(time.Duration(dv.Int()).Seconds())
		return out.Elem(), nil

	case from == primitive.KindDuration && to == primitive.KindString:
		out.Elem().SetString(time.Duration(dv.Int()).String())
		return out.Elem(), nil
	}

	// the rest is what mapstructure already knows: numbers between each
	// other and from text, textual time and duration, numeric booleans
	config := &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
			mapstructure.StringToTimeDurationHookFunc(),
		),
		WeaklyTypedInput: true,
		Result:           out.Interface(),
	}

	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return reflect.Value{}, err
	}

	if err := decoder.Decode(dv.Convert(basicOrSelf(from, dv.Type())).Interface()); err != nil {
		return reflect.Value{}, err
	}

	return out.Elem(), nil
}

// basicOrSelf strips the name of an enum-like source type so decoders see the
// plain representation.
func basicOrSelf(kind primitive.KindEnum, t reflect.Type) reflect.Type {
	if basic, ok := basicTypes[kind]; ok {
		return basic
	}

	return t
}

func checkEnum(v reflect.Value, data any, t reflect.Type) (reflect.Value, error) {
	if enum, ok := v.Interface().(validEnum); ok && !enum.IsValid() {
		return reflect.Value{}, mismatch(data, t, ErrInvalidEnum)
	}

	return v, nil
}

func parseTextualBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "y", "t", "1":
		return true, nil
	case "false", "no", "off", "n", "f", "0":
		return false, nil
	}

	return false, fmt.Errorf("%q is not a boolean", s)
}

func toInt64(dv reflect.Value) int64 {
	if dv.CanUint() {
		return int64(dv.Uint())
	}

	return dv.Int()
}

func setInt(out reflect.Value, i int64) error {
	switch {
	case out.CanInt():
		if out.OverflowInt(i) {
			return ErrLossyNumber
		}

		out.SetInt(i)
	case out.CanUint():
		if i < 0 || out.OverflowUint(uint64(i)) {
			return ErrLossyNumber
		}

		out.SetUint(uint64(i))
	}

	return nil
}

// fitsLosslessly reports whether this particular number survives conversion
// into t unchanged.
func fitsLosslessly(dv reflect.Value, t reflect.Type) bool {
	out := reflect.New(t).Elem()

	switch {
	case dv.CanInt():
		i := dv.Int()

		switch {
		case out.CanInt():
			return !out.OverflowInt(i)
		case out.CanUint():
			return i >= 0 && !out.OverflowUint(uint64(i))
		case out.CanFloat():
			return intFitsFloat(float64(i), t) && int64(float64(i)) == i
		}

	case dv.CanUint():
		u := dv.Uint()

		switch {
		case out.CanInt():
			return u <= math.MaxInt64 && !out.OverflowInt(int64(u))
		case out.CanUint():
			return !out.OverflowUint(u)
		case out.CanFloat():
			return intFitsFloat(float64(u), t) && uint64(float64(u)) == u
		}

	case dv.CanFloat():
		f := dv.Float()

		switch {
		case out.CanFloat():
			return t.Kind() == reflect.Float64 || float64(float32(f)) == f
		case f != math.Trunc(f):
			return false
		case out.CanInt():
			return utils.IsInRange(math.MinInt64, f, math.MaxInt64) && !out.OverflowInt(int64(f))
		case out.CanUint():
			return utils.IsInRange(0, f, math.MaxUint64) && !out.OverflowUint(uint64(f))
		}
	}

	return false
}

func intFitsFloat(f float64, t reflect.Type) bool {
	if t.Kind() == reflect.Float32 {
		return float64(float32(f)) == f
	}

	return true
}

func toDecimal(dv reflect.Value) (*apd.Decimal, error) {
	d := new(apd.Decimal)

	switch {
	case dv.Kind() == reflect.String:
		if _, _, err := d.SetString(dv.String()); err != nil {
			return nil, err
		}
	case dv.CanInt():
		d.SetInt64(dv.Int())
	case dv.CanUint():
		if _, _, err := d.SetString(strconv.FormatUint(dv.Uint(), 10)); err != nil {
			return nil, err
		}
	case dv.CanFloat():
		if _, err := d.SetFloat64(dv.Float()); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("cannot read a decimal from %s", dv.Type())
	}

	return d, nil
}

func fromDecimal(d apd.Decimal, to primitive.KindEnum, t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()

	switch {
	case to == primitive.KindString:
		out.SetString(d.String())
	case to.IsFloat():
		f, err := d.Float64()
		if err != nil {
			return reflect.Value{}, err
		}

		out.SetFloat(f)
	case to.IsInteger():
		i, err := d.Int64()
		if err != nil {
			return reflect.Value{}, err
		}

		if err := setInt(out, i); err != nil {
			return reflect.Value{}, err
		}
	default:
		return reflect.Value{}, fmt.Errorf("cannot write a decimal into %s", t)
	}

	return out, nil
}

func (c *Converter) unstructureScalar(v reflect.Value, _ Scope) any {
	switch x := v.Interface().(type) {
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case time.Duration:
		return x.String()
	case apd.Decimal:
		return x.String()
	}

	// enums leave as their plain representation
	if basic, ok := basicTypes[primitive.BaseKind(v.Type())]; ok && v.Type() != basic {
		return v.Convert(basic).Interface()
	}

	return v.Interface()
}

func (c *Converter) structureText(data any, t reflect.Type) (reflect.Value, error) {
	dv := reflect.ValueOf(data)
	if dv.IsValid() && dv.Type() == t {
		return dv, nil
	}

	var text []byte

	switch x := data.(type) {
	case string:
		text = []byte(x)
	case []byte:
		text = x
	default:
		return reflect.Value{}, mismatch(data, t, nil)
	}

	out := reflect.New(t)
	if err := out.Interface().(interface{ UnmarshalText([]byte) error }).UnmarshalText(text); err != nil {
		return reflect.Value{}, mismatch(data, t, err)
	}

	return out.Elem(), nil
}

func (c *Converter) unstructureText(v reflect.Value, s Scope) any {
	if v.Type().Implements(textMarshalerType) {
		text, err := v.Interface().(interface{ MarshalText() ([]byte, error) }).MarshalText()
		if err == nil {
			return string(text)
		}
	}

	return passThrough(v, s)
}
