package cats_test

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typecats/cats"
	"typecats/convert"
	"typecats/diagnostic"
)

type User struct {
	cats.Wildcat
	Name  string `json:"name"`
	Email string `json:"email" default:""`
}

var users = cats.MustDeclare[User]()

func Example() {
	u, err := users.Struc(map[string]any{"name": "bob", "team": "core"})
	fmt.Println(u.Name, err)

	team, _ := cats.GetItem(u, "team")
	fmt.Println(team)

	fmt.Println(users.Unstruc(u))
	fmt.Println(users.Unstruc(u, cats.WithStripDefaults()))

	_, err = users.Struc(map[string]any{"name": ""})
	fmt.Println(errors.Is(err, diagnostic.ErrEmptyRequiredField))

	_, ok := users.TryStruc(nil)
	fmt.Println(ok)
	// Output:
	// bob <nil>
	// core
	// map[email: name:bob team:core]
	// map[name:bob team:core]
	// true
	// false
}

type point struct {
	X int `json:"x"`
	Y int `json:"y" default:"0"`
}

func TestPackageLevelFunctions(t *testing.T) {
	p, err := cats.Struc[point](map[string]any{"x": 1})
	require.NoError(t, err)
	assert.Equal(t, point{X: 1}, p)

	_, ok := cats.TryStruc[point](map[string]any{"x": "one"})
	assert.False(t, ok)

	p, ok = cats.TryStruc[point](map[string]any{"x": 2, "y": 3})
	assert.True(t, ok)
	assert.Equal(t, point{X: 2, Y: 3}, p)

	assert.Equal(t, map[string]any{"x": 2, "y": 3}, cats.Unstruc(p))
	assert.Equal(t, map[string]any{"x": 2}, cats.UnstrucStripDefaults(point{X: 2}))
	assert.Equal(t, []any{map[string]any{"x": 1}}, cats.Unstruc([]point{{X: 1}}, cats.WithStripDefaults()))

	assert.True(t, cats.DefaultRegistry().IsPatched(cats.DefaultConverter()))
}

func TestSetDetailedValidationMode(t *testing.T) {
	defer cats.SetDetailedValidationMode(true)

	input := map[string]any{"x": "a", "y": "b"}

	_, err := cats.Struc[point](input)

	var ve *diagnostic.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.True(t, ve.Detailed)
	assert.Len(t, ve.Leaves(), 2)

	cats.SetDetailedValidationMode(false)
	assert.False(t, cats.DefaultConverter().DetailedValidation())

	_, err = cats.Struc[point](input)
	require.ErrorAs(t, err, &ve)
	assert.False(t, ve.Detailed)
	assert.Len(t, ve.Errors, 1)
}

type celsius float64

type reading struct {
	Temp celsius `json:"temp"`
}

type shout string

func TestRegisterHelpers(t *testing.T) {
	require.NoError(t, cats.RegisterCaster(func(s string) (celsius, error) {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "C"), 64)
		return celsius(v), err
	}))

	r, err := cats.Struc[reading](map[string]any{"temp": "21.5C"})
	require.NoError(t, err)
	assert.Equal(t, celsius(21.5), r.Temp)

	assert.Error(t, cats.RegisterCaster(42))

	cats.RegisterStrucHook(reflect.TypeFor[shout](), func(data any, _ reflect.Type) (reflect.Value, error) {
		s, ok := data.(string)
		if !ok {
			return reflect.Value{}, &diagnostic.FieldError{Kind: diagnostic.KindTypeMismatch, Value: data}
		}

		return reflect.ValueOf(shout(strings.ToUpper(s))), nil
	})
	cats.RegisterUnstrucHook(reflect.TypeFor[shout](), func(v reflect.Value, _ convert.Scope) any {
		return strings.ToLower(v.String())
	})

	s, err := cats.Struc[shout]("hey")
	require.NoError(t, err)
	assert.Equal(t, shout("HEY"), s)
	assert.Equal(t, "hey", cats.Unstruc(s))

	type loud struct{ V string }

	cats.RegisterStrucHookFunc(
		func(t reflect.Type) bool { return t == reflect.TypeFor[loud]() },
		func(data any, _ reflect.Type) (reflect.Value, error) {
			return reflect.ValueOf(loud{V: fmt.Sprint(data)}), nil
		})
	cats.RegisterUnstrucHookFunc(
		func(t reflect.Type) bool { return t == reflect.TypeFor[loud]() },
		func(v reflect.Value, _ convert.Scope) any { return v.Field(0).String() + "!" })

	l, err := cats.Struc[loud](7)
	require.NoError(t, err)
	assert.Equal(t, "7!", cats.Unstruc(l))
}

func TestPatchConverter(t *testing.T) {
	c := cats.PatchConverter(convert.New())
	assert.True(t, cats.DefaultRegistry().IsPatched(c))

	cat, err := cats.Declare[User](cats.WithConverter(c))
	require.NoError(t, err)

	u, err := cat.Struc(map[string]any{"name": "x", "extra": true})
	require.NoError(t, err)

	extra, err := cats.GetItem(u, "extra")
	require.NoError(t, err)
	assert.Equal(t, true, extra)
}
