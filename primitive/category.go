package primitive

import (
	"fmt"
	"strings"
)

// CategoryEnum is a set of scalar coercions a converter is allowed to apply
// when the source value is not already of the target kind.
type CategoryEnum int

type ConversionPair struct {
	From, To KindEnum
}

const (
	CategorySafeNumber   CategoryEnum = 1 << iota // int, uint, float without precision loss
	CategoryUnsafeNumber                          // int, uint, float with precision loss
	CategoryTextNumber                            // int, uint, float <-> string: textual number representation
	CategoryNumericBool                           // int <-> bool: 0, 1 representation of boolean values
	CategoryTextualBool                           // string <-> bool: yes, no, on, off, true, false representation of boolean values
	CategoryDatetime                              // string(RFC3339Nano) <-> time.Time: textual date and time representation
	CategoryTimestamp                             // int(Unix seconds) <-> time.Time: Unix timestamp representation
	CategoryDuration                              // string(2h45m) <-> time.Duration: textual duration representation
	CategoryNanoseconds                           // int(nanoseconds) <-> time.Duration: numerical (integer) duration representation
	CategorySeconds                               // float(seconds) <-> time.Duration: numerical (floating-point) duration representation
	CategoryEnumString                            // string <-> enum: plain strings into named string types
	CategoryDecimal                               // number or string <-> apd.Decimal

	CategoryAll  = (1 << iota) - 1 // all categories combined
	CategoryNone = 0               // no categories selected

	// CategoryDefault is what a converter allows unless configured otherwise:
	// lossless numbers (JSON float64 into ints when integral), textual
	// datetimes and durations, enum strings and decimals.
	CategoryDefault = CategorySafeNumber | CategoryDatetime | CategoryDuration |
		CategoryEnumString | CategoryDecimal
)

var categoryNames = []struct {
	cat  CategoryEnum
	name string
}{
	{CategorySafeNumber, "safe_number"},
	{CategoryUnsafeNumber, "unsafe_number"},
	{CategoryTextNumber, "text_number"},
	{CategoryNumericBool, "numeric_bool"},
	{CategoryTextualBool, "textual_bool"},
	{CategoryDatetime, "datetime"},
	{CategoryTimestamp, "timestamp"},
	{CategoryDuration, "duration"},
	{CategoryNanoseconds, "nanoseconds"},
	{CategorySeconds, "seconds"},
	{CategoryEnumString, "enum_string"},
	{CategoryDecimal, "decimal"},
}

// ParseCategories turns category names (as used in configuration files) into
// a combined set. "all" and "none" are accepted as well.
func ParseCategories(names []string) (CategoryEnum, error) {
	var res CategoryEnum

	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		switch name {
		case "":
			continue
		case "all":
			res |= CategoryAll
			continue
		case "none":
			continue
		case "default":
			res |= CategoryDefault
			continue
		}

		found := false
		for _, cn := range categoryNames {
			if cn.name == name {
				res |= cn.cat
				found = true
				break
			}
		}

		if !found {
			return 0, fmt.Errorf("unknown coercion category %q", name)
		}
	}

	return res, nil
}

// Names lists the names of every category in the set.
func (c CategoryEnum) Names() []string {
	var names []string
	for _, cn := range categoryNames {
		if c&cn.cat != 0 {
			names = append(names, cn.name)
		}
	}

	return names
}

func (c CategoryEnum) String() string {
	if c == CategoryNone {
		return "none"
	}

	return strings.Join(c.Names(), "|")
}

// Has reports whether every category of other is in c.
func (c CategoryEnum) Has(other CategoryEnum) bool {
	return other != CategoryNone && c&other == other
}

// Categorize reports the category a conversion between two kinds belongs to,
// or CategoryNone when the kinds cannot be converted into each other.
// Same-kind pairs need no category and report CategorySafeNumber for numbers
// and CategoryNone otherwise; callers handle identity first.
func Categorize(from, to KindEnum) CategoryEnum {
	pair := ConversionPair{from, to}

	switch {
	case from.IsNumber() && to.IsNumber():
		if isSafeNumberPair(pair) {
			return CategorySafeNumber
		}

		return CategoryUnsafeNumber

	case from.IsNumber() && to == KindString, from == KindString && to.IsNumber():
		return CategoryTextNumber

	case from.IsInteger() && to == KindBool, from == KindBool && to.IsInteger():
		return CategoryNumericBool

	case from == KindString && to == KindBool, from == KindBool && to == KindString:
		return CategoryTextualBool

	case from == KindString && to == KindTime, from == KindTime && to == KindString:
		return CategoryDatetime

	case from.IsInteger() && to == KindTime, from == KindTime && to.IsInteger():
		return CategoryTimestamp

	case from == KindString && to == KindDuration, from == KindDuration && to == KindString:
		return CategoryDuration

	case from.IsInteger() && from != KindUint64 && to == KindDuration,
		from == KindDuration && to.IsInteger() && to != KindUint64:
		return CategoryNanoseconds

	case from.IsFloat() && to == KindDuration, from == KindDuration && to.IsFloat():
		return CategorySeconds

	case from == KindString && to == KindPrimitiveEnum, from == KindPrimitiveEnum && to == KindString:
		return CategoryEnumString

	case (from.IsNumber() || from == KindString) && to == KindDecimal,
		from == KindDecimal && (to.IsNumber() || to == KindString):
		return CategoryDecimal
	}

	return CategoryNone
}

// Allows reports whether a conversion from one kind to another is permitted.
func (c CategoryEnum) Allows(from, to KindEnum) bool {
	if from == to && from != 0 {
		return true
	}

	return c.Has(Categorize(from, to))
}

// isSafeNumberPair reports whether every value of From fits into To.
func isSafeNumberPair(pair ConversionPair) bool {
	from, to := pair.From, pair.To
	if from == to {
		return true
	}

	switch {
	case from.IsFloat():
		return to == KindFloat64 && from == KindFloat32

	case to.IsFloat():
		// the integer must fit into the mantissa
		mantissa := 24
		if to == KindFloat64 {
			mantissa = 53
		}

		return from.Bits() < mantissa

	case from.IsSigned() && to.IsSigned():
		return to.Bits() >= from.Bits()

	case from.IsUnsigned() && to.IsUnsigned():
		return to.Bits() >= from.Bits()

	case from.IsUnsigned() && to.IsSigned():
		return to.Bits() > from.Bits()
	}

	// signed into unsigned always loses the negative range
	return false
}
