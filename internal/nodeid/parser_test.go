// internal/nodeid/parser_test.go
package nodeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name       string
		raw        string
		expectErr  bool
		expectedID ID
	}{
		{name: "zero", raw: "0", expectedID: 0},
		{name: "multi digit", raw: "42", expectedID: 42},
		{name: "surrounding whitespace", raw: " 7 ", expectedID: 7},
		{name: "error - empty string", raw: "", expectErr: true},
		{name: "error - negative", raw: "-1", expectErr: true},
		{name: "error - not a number", raw: "main", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := Parse(tc.raw)

			if tc.expectErr {
				require.Error(t, err)
				assert.Equal(t, None, id)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedID, id)
		})
	}
}

func TestParseList(t *testing.T) {
	ids, err := ParseList("3, 0,7")
	require.NoError(t, err)
	assert.Equal(t, []ID{3, 0, 7}, ids)

	ids, err = ParseList("")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = ParseList("1,,2")
	require.Error(t, err)
}

func TestID_RoundTrip(t *testing.T) {
	for _, id := range []ID{0, 1, 99, 1024} {
		t.Run(id.String(), func(t *testing.T) {
			parsed, err := Parse(id.String())
			require.NoError(t, err)
			assert.Equal(t, id, parsed)
			assert.True(t, parsed.Valid())
		})
	}
	assert.False(t, None.Valid())
}

func TestSort(t *testing.T) {
	assert.Equal(t, []ID{0, 2, 5}, Sort([]ID{5, 0, 2}))
}

func TestUnique(t *testing.T) {
	testCases := []struct {
		name string
		in   []ID
		want []ID
	}{
		{"empty", nil, []ID{}},
		{"no repeats", []ID{3, 1, 2}, []ID{3, 1, 2}},
		{"repeats keep first position", []ID{2, 0, 2, 1, 0}, []ID{2, 0, 1}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := append([]ID(nil), tc.in...)
			assert.Equal(t, tc.want, Unique(in))
			assert.Equal(t, tc.in, in, "input must be left untouched")
		})
	}
}
