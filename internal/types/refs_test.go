package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefListDecodesMixedEncodings(t *testing.T) {
	raw := []byte(`[
		"abc-123",
		{"_id": "def-456", "product_code": "SKU-1"},
		{"$oid": "ghi-789"},
		{"unrelated": true},
		""
	]`)

	var refs RefList
	require.NoError(t, json.Unmarshal(raw, &refs))

	require.Len(t, refs, 3)
	assert.Equal(t, Ref{ID: "abc-123"}, refs[0])
	assert.Equal(t, Ref{ID: "def-456", Code: "SKU-1"}, refs[1])
	assert.Equal(t, Ref{ID: "ghi-789"}, refs[2])
}

func TestRefListMarshalsCanonical(t *testing.T) {
	refs := RefList{
		{ID: "abc-123"},
		{ID: "def-456", Code: "SKU-1"},
	}

	b, err := json.Marshal(refs)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"_id":"abc-123"},{"_id":"def-456","product_code":"SKU-1"}]`, string(b))
}

func TestParseRefsTolerant(t *testing.T) {
	assert.Nil(t, ParseRefs([]byte(`{"not": "a list"}`)))
	assert.Nil(t, ParseRefs([]byte(`garbage`)))
	assert.Nil(t, ParseRefs(nil))

	refs := ParseRefs([]byte(`["a", "b"]`))
	assert.Equal(t, []string{"a", "b"}, refs.IDs())
}

func TestRefListContainsAndWithout(t *testing.T) {
	refs := RefList{{ID: "a"}, {ID: "b", Code: "SKU-2"}, {ID: "c"}}

	assert.True(t, refs.Contains("b"))
	assert.False(t, refs.Contains("z"))

	trimmed := refs.Without("b")
	assert.Equal(t, []string{"a", "c"}, trimmed.IDs())
	// Original is untouched
	assert.Len(t, refs, 3)
}
