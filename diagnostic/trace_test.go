package diagnostic_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typecats/diagnostic"
)

func TestEmbedKeepsIdentity(t *testing.T) {
	leaf := &diagnostic.FieldError{Kind: diagnostic.KindTypeMismatch, Type: reflect.TypeFor[foo](), Value: 4}

	err := diagnostic.Embed(leaf, 4, reflect.TypeFor[foo]())
	assert.Same(t, leaf, err)

	frames := diagnostic.Extract(err)
	require.Len(t, frames, 1)
	assert.Equal(t, 4, frames[0].Item)
	assert.Equal(t, "foo", frames[0].TypeName())
}

func TestEmbedThroughGroups(t *testing.T) {
	input := map[string]any{"x": 1}

	leaf := diagnostic.Embed(
		&diagnostic.FieldError{Kind: diagnostic.KindTypeMismatch, Type: reflect.TypeFor[foo](), Value: 4},
		4, reflect.TypeFor[foo](),
	)
	list := diagnostic.NewValidationError("While structuring [][]foo", reflect.TypeFor[[][]foo](), []error{
		diagnostic.AtIndex(0, leaf),
	})
	outer := diagnostic.NewValidationError("While structuring zap", reflect.TypeFor[zap](), []error{
		diagnostic.AtField("foo_matrix", list),
	})

	err := diagnostic.Embed(outer, input, reflect.TypeFor[zap]())

	assert.Equal(t, []string{"zap", "foo"}, diagnostic.TypePath(err), spew.Sdump(diagnostic.Extract(err)))

	frames := diagnostic.Extract(err)
	assert.Equal(t, input, frames[0].Item)
	assert.Equal(t, 4, frames[1].Item)

	// the leaf trace is untouched by frames added above it
	assert.Equal(t, []string{"foo"}, diagnostic.TypePath(leaf))
}

func TestEmbedForeignError(t *testing.T) {
	cause := errors.New("not in the family")

	err := diagnostic.Embed(cause, "item", reflect.TypeFor[foo]())
	err = diagnostic.Embed(err, map[string]any{}, reflect.TypeFor[zap]())

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause.Error(), err.Error())
	assert.False(t, diagnostic.IsStructuring(err))
	assert.Equal(t, []string{"zap", "foo"}, diagnostic.TypePath(err))

	wrapped := diagnostic.Embed(fmt.Errorf("context: %w", err), nil, reflect.TypeFor[catTest]())
	assert.Equal(t, []string{"catTest", "zap", "foo"}, diagnostic.TypePath(wrapped))
}

func TestExtractEmpty(t *testing.T) {
	assert.Nil(t, diagnostic.Extract(nil))
	assert.Nil(t, diagnostic.Extract(errors.New("plain")))
	assert.NoError(t, diagnostic.Embed(nil, 1, reflect.TypeFor[foo]()))
	assert.Empty(t, diagnostic.TypePath(errors.New("plain")))
}
