package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexStringUnmarshal(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{`"2024"`, "2024"},
		{`2024`, "2024"},
		{`3.5`, "3.5"},
		{`null`, ""},
		{`true`, "true"},
	}

	for _, tc := range cases {
		var f FlexString
		require.NoError(t, json.Unmarshal([]byte(tc.raw), &f), tc.raw)
		assert.Equal(t, tc.want, f.String(), tc.raw)
	}
}

func TestFlexStringFloat64(t *testing.T) {
	v, ok := FlexString("12.5").Float64()
	assert.True(t, ok)
	assert.Equal(t, 12.5, v)

	v, ok = FlexString(" 7 ").Float64()
	assert.True(t, ok)
	assert.Equal(t, 7.0, v)

	_, ok = FlexString("twelve").Float64()
	assert.False(t, ok)

	_, ok = FlexString("").Float64()
	assert.False(t, ok)
}

func TestFlexStringInt(t *testing.T) {
	v, ok := FlexString("2024").Int()
	assert.True(t, ok)
	assert.Equal(t, 2024, v)

	// Whole-number floats are accepted
	v, ok = FlexString("12.0").Int()
	assert.True(t, ok)
	assert.Equal(t, 12, v)

	_, ok = FlexString("12.5").Int()
	assert.False(t, ok)

	_, ok = FlexString("abc").Int()
	assert.False(t, ok)
}
