package primitive_test

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typecats/primitive"
)

func Example() {
	type IntEnum int
	type StringEnum string
	type Empty struct{}

	fmt.Println(primitive.FromReflectType(reflect.TypeOf(int(0))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf("")))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(IntEnum(0))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(StringEnum(""))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(time.Duration(0))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(time.Time{})))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(apd.Decimal{})))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(Empty{})))
	// Output:
	// KindInt
	// KindString
	// KindPrimitiveEnum
	// KindPrimitiveEnum
	// KindDuration
	// KindTime
	// KindDecimal
	// KindEnum(0)
}

func TestBaseKind(t *testing.T) {
	type Level int8
	type Flag bool

	assert.Equal(t, primitive.KindInt8, primitive.BaseKind(reflect.TypeFor[Level]()))
	assert.Equal(t, primitive.KindBool, primitive.BaseKind(reflect.TypeFor[Flag]()))
	assert.Equal(t, primitive.KindDuration, primitive.BaseKind(reflect.TypeFor[time.Duration]()))
	assert.Equal(t, primitive.KindEnum(0), primitive.BaseKind(reflect.TypeFor[[]int]()))
	assert.Equal(t, primitive.KindEnum(0), primitive.BaseKind(nil))
}

func TestNeverEmpty(t *testing.T) {
	type Level int

	tests := []struct {
		typ  reflect.Type
		want bool
	}{
		{reflect.TypeFor[int](), true},
		{reflect.TypeFor[float32](), true},
		{reflect.TypeFor[bool](), true},
		{reflect.TypeFor[Level](), true},
		{reflect.TypeFor[apd.Decimal](), true},
		{reflect.TypeFor[time.Duration](), true},
		{reflect.TypeFor[string](), false},
		{reflect.TypeFor[time.Time](), false},
		{reflect.TypeFor[[]int](), false},
		{reflect.TypeFor[*int](), false},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, primitive.NeverEmpty(tt.typ))
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		from, to primitive.KindEnum
		want     primitive.CategoryEnum
	}{
		{primitive.KindInt8, primitive.KindInt64, primitive.CategorySafeNumber},
		{primitive.KindInt64, primitive.KindInt8, primitive.CategoryUnsafeNumber},
		{primitive.KindUint16, primitive.KindInt32, primitive.CategorySafeNumber},
		{primitive.KindInt16, primitive.KindUint64, primitive.CategoryUnsafeNumber},
		{primitive.KindInt32, primitive.KindFloat64, primitive.CategorySafeNumber},
		{primitive.KindInt32, primitive.KindFloat32, primitive.CategoryUnsafeNumber},
		{primitive.KindFloat64, primitive.KindInt, primitive.CategoryUnsafeNumber},
		{primitive.KindFloat32, primitive.KindFloat64, primitive.CategorySafeNumber},
		{primitive.KindString, primitive.KindInt, primitive.CategoryTextNumber},
		{primitive.KindInt, primitive.KindBool, primitive.CategoryNumericBool},
		{primitive.KindString, primitive.KindBool, primitive.CategoryTextualBool},
		{primitive.KindString, primitive.KindTime, primitive.CategoryDatetime},
		{primitive.KindInt64, primitive.KindTime, primitive.CategoryTimestamp},
		{primitive.KindString, primitive.KindDuration, primitive.CategoryDuration},
		{primitive.KindInt64, primitive.KindDuration, primitive.CategoryNanoseconds},
		{primitive.KindUint64, primitive.KindDuration, primitive.CategoryNone},
		{primitive.KindFloat64, primitive.KindDuration, primitive.CategorySeconds},
		{primitive.KindString, primitive.KindPrimitiveEnum, primitive.CategoryEnumString},
		{primitive.KindFloat64, primitive.KindDecimal, primitive.CategoryDecimal},
		{primitive.KindBool, primitive.KindTime, primitive.CategoryNone},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, primitive.Categorize(tt.from, tt.to))
		})
	}
}

func TestCategoryAllows(t *testing.T) {
	allowed := primitive.CategoryDefault

	assert.True(t, allowed.Allows(primitive.KindString, primitive.KindString))
	assert.True(t, allowed.Allows(primitive.KindInt8, primitive.KindInt))
	assert.True(t, allowed.Allows(primitive.KindString, primitive.KindTime))
	assert.False(t, allowed.Allows(primitive.KindString, primitive.KindInt))
	assert.False(t, allowed.Allows(primitive.KindInt, primitive.KindBool))
	assert.False(t, allowed.Allows(primitive.KindBool, primitive.KindTime))
	assert.False(t, primitive.CategoryEnum(primitive.CategoryAll).Allows(primitive.KindBool, primitive.KindTime))
}

func TestParseCategories(t *testing.T) {
	cats, err := primitive.ParseCategories([]string{"safe_number", " Text_Number ", ""})
	require.NoError(t, err)
	assert.Equal(t, primitive.CategorySafeNumber|primitive.CategoryTextNumber, cats)
	assert.Equal(t, "safe_number|text_number", cats.String())

	cats, err = primitive.ParseCategories([]string{"all"})
	require.NoError(t, err)
	assert.Equal(t, primitive.CategoryEnum(primitive.CategoryAll), cats)

	cats, err = primitive.ParseCategories([]string{"default", "unsafe_number"})
	require.NoError(t, err)
	assert.True(t, cats.Has(primitive.CategoryUnsafeNumber|primitive.CategoryDatetime))

	_, err = primitive.ParseCategories([]string{"bogus"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")

	assert.Equal(t, "none", primitive.CategoryEnum(primitive.CategoryNone).String())
}
