package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NurettinDemirhan/ecopacknav/internal/types"
)

func TestRawJSON(t *testing.T) {
	col := RawJSON([]byte(`["a","b"]`))
	assert.JSONEq(t, `["a","b"]`, string(col.JSON))

	v, err := col.Value()
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestPackagingSetRefsCanonical(t *testing.T) {
	var pkg Packaging
	pkg.SetRefs(types.RefList{{ID: "p1", Code: "SKU-1"}})

	refs := pkg.Refs()
	require.Len(t, refs, 1)
	assert.Equal(t, "p1", refs[0].ID)
	assert.Equal(t, "SKU-1", refs[0].Code)

	// nil resets to an empty list, not null
	pkg.SetRefs(nil)
	assert.JSONEq(t, `[]`, string(pkg.Connections.JSON))
}

func TestPartnerSetConnectionIDsDedupes(t *testing.T) {
	var partner Partner
	partner.SetConnectionIDs([]string{"a", "b", "a", ""})
	assert.Equal(t, []string{"a", "b"}, partner.ConnectionIDs())
}
