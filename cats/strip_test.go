package cats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typecats/cats"
	"typecats/convert"
)

type clean struct {
	S   string `json:"s" default:""`
	I   int    `json:"i" default:"8"`
	Lst []int  `json:"lst" default:"[]"`
}

type cleanWildcat struct {
	cats.Wildcat
	S   string `json:"s" default:""`
	I   int    `json:"i" default:"8"`
	Lst []int  `json:"lst" default:"[]"`
}

type cleanLiteral struct {
	G int    `json:"g"`
	S string `json:"s" default:""`
	A string `json:"a" default:"a" cat:"literal"`
}

type claims struct {
	cats.Wildcat
	HasS string `json:"has_s" default:""`
	HasB bool   `json:"has_b" default:"false"`
}

type org struct {
	cats.Wildcat
	ID         string         `json:"id"`
	All        int            `json:"all" default:"1" cat:"literal"`
	StripMe    map[string]any `json:"strip_me" default:"{}"`
	UserClaims claims         `json:"userClaims" default:"{}"`
}

type nestedDefault struct {
	I int `json:"i" default:"2"`
}

type hasNested struct {
	ID     string        `json:"id"`
	Nested nestedDefault `json:"nested" default:"{}"`
}

func TestStripDefaults(t *testing.T) {
	e := newEnv()
	cat := declare[clean](t, e)

	assert.Equal(t, map[string]any{}, cat.Unstruc(clean{I: 8}, cats.WithStripDefaults()))
	assert.Equal(t, map[string]any{"i": 4, "lst": []any{1}}, cat.Unstruc(clean{I: 4, Lst: []int{1}}, cats.WithStripDefaults()))

	// only when asked for
	assert.Len(t, cat.Unstruc(clean{I: 8}), 3)
}

func TestStripDefaultsKeepsExtras(t *testing.T) {
	e := newEnv()
	cat := declare[cleanWildcat](t, e)

	assert.Equal(t, map[string]any{}, cat.Unstruc(cleanWildcat{I: 8}, cats.WithStripDefaults()))

	wc := cleanWildcat{I: 4, Lst: []int{1}}
	require.NoError(t, cats.SetItem(&wc, "f", 2))

	assert.Equal(t, map[string]any{"i": 4, "lst": []any{1}, "f": 2}, cat.Unstruc(wc, cats.WithStripDefaults()))
}

func TestStripDefaultsKeepsLiterals(t *testing.T) {
	e := newEnv()
	cat := declare[cleanLiteral](t, e)

	assert.Equal(t, map[string]any{"a": "a", "g": 12}, cat.Unstruc(cleanLiteral{G: 12, A: "a"}, cats.WithStripDefaults()))
}

func TestStripDefaultsWithWildcatUnderneath(t *testing.T) {
	e := newEnv()
	orgs := declare[org](t, e)

	// a known key away from its default
	od := map[string]any{"id": "id1", "userClaims": map[string]any{"has_s": "ssss", "random": "a string 1"}}
	o, err := orgs.Struc(od)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"id":         "id1",
		"all":        1,
		"userClaims": map[string]any{"has_s": "ssss", "random": "a string 1"},
	}, orgs.Unstruc(o, cats.WithStripDefaults()))

	// nothing but undeclared keys still differs from the default
	od = map[string]any{"id": "id2", "userClaims": map[string]any{"random": "a string"}}
	o, err = orgs.Struc(od)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"id":         "id2",
		"all":        1,
		"userClaims": map[string]any{"random": "a string"},
	}, orgs.Unstruc(o, cats.WithStripDefaults()))
}

func TestStripDefaultsComparesStructuredDefaults(t *testing.T) {
	e := newEnv()
	cat := declare[hasNested](t, e)

	hd, err := cat.Struc(map[string]any{"id": "ben"})
	require.NoError(t, err)
	assert.Equal(t, 2, hd.Nested.I)
	assert.Equal(t, map[string]any{"id": "ben"}, cat.Unstruc(hd, cats.WithStripDefaults()))
}

func TestStripDefaultsEvaluatesFactoriesOncePerCall(t *testing.T) {
	made := 0

	e := newEnv()
	cat := declare[clean](t, e, cats.DefaultFactory("lst", func() any {
		made++
		return []int{}
	}))

	for want := 1; want <= 3; want++ {
		assert.Equal(t, map[string]any{}, cat.Unstruc(clean{I: 8}, cats.WithStripDefaults()))
		assert.Equal(t, want, made)
	}
}

func TestStripDefaultsFunction(t *testing.T) {
	e := newEnv()
	declare[clean](t, e)

	value := clean{I: 8, S: "x"}
	full := e.conv.Unstructure(value, convert.Scope{}).(map[string]any)

	stripped := cats.StripDefaults(e.conv, full, &value)
	assert.Equal(t, map[string]any{"s": "x"}, stripped)
	assert.Len(t, full, 3)

	assert.Equal(t, full, cats.StripDefaults(e.conv, full, 42))
}

func TestUnstrucStripDefaultsWorksOnUndeclaredRecords(t *testing.T) {
	type strippable struct {
		S   string `json:"s" default:""`
		I   int    `json:"i" default:"8"`
		Lst []int  `json:"lst" default:"[]"`
	}

	assert.Equal(t, map[string]any{}, cats.UnstrucStripDefaults(strippable{I: 8}))
	assert.Equal(t, map[string]any{"i": 4, "lst": []any{1}}, cats.UnstrucStripDefaults(strippable{I: 4, Lst: []int{1}}))
}

func requireStableStrip[T any](t *testing.T, cat *cats.Cat[T], x T) {
	t.Helper()

	first := cat.Unstruc(x, cats.WithStripDefaults())

	again, err := cat.Struc(first)
	require.NoError(t, err)
	assert.Equal(t, first, cat.Unstruc(again, cats.WithStripDefaults()))
}

func TestStripDefaultsIsIdempotent(t *testing.T) {
	e := newEnv()
	cleans := declare[clean](t, e)
	nested := declare[hasNested](t, e)
	orgs := declare[org](t, e)

	requireStableStrip(t, cleans, clean{I: 8})
	requireStableStrip(t, cleans, clean{S: "x", Lst: []int{1}})

	requireStableStrip(t, nested, hasNested{ID: "a", Nested: nestedDefault{I: 2}})
	requireStableStrip(t, nested, hasNested{ID: "b", Nested: nestedDefault{I: 5}})

	for _, od := range []map[string]any{
		{"id": "id1"},
		{"id": "id2", "userClaims": map[string]any{"has_s": "ssss", "random": "a string 1"}},
		{"id": "id3", "userClaims": map[string]any{"has_b": true}, "strip_me": map[string]any{"k": 1}, "extra": []any{1}},
	} {
		o, err := orgs.Struc(od)
		require.NoError(t, err)
		requireStableStrip(t, orgs, o)
	}
}
