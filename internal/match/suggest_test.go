package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank(t *testing.T) {
	keys := []string{"org_nmae", "orgName", "address", "name"}

	ranked := Rank("org_name", keys)
	require.Len(t, ranked, 2)
	assert.Equal(t, "orgName", ranked[0].Key)
	assert.InDelta(t, 1.0, ranked[0].Score, 0.001)
	assert.Equal(t, "org_nmae", ranked[1].Key)
}

func TestSuggest(t *testing.T) {
	keys := []string{"colour", "color", "size"}

	assert.Equal(t, []string{"color"}, Suggest("colr", keys, 1))
	assert.Equal(t, []string{"color", "colour"}, Suggest("colr", keys, 5))
	assert.Empty(t, Suggest("weight", keys, 3))
	assert.Empty(t, Suggest("color", nil, 3))
}
