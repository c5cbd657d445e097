package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_RoundTrip(t *testing.T) {
	items, ok := Items(List(1, "two", true))
	require.True(t, ok)
	assert.Equal(t, []any{1, "two", true}, items)

	empty, ok := Items(List())
	require.True(t, ok)
	assert.Empty(t, empty)

	_, ok = Items(Ctor("Just", 1))
	assert.False(t, ok)
}

func TestArray_Levels(t *testing.T) {
	testCases := []struct {
		name   string
		n      int
		height int
	}{
		{"empty", 0, 0},
		{"one table", 32, 0},
		{"two levels", 33, 1},
		{"three levels", 32*32 + 1, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			items := make([]any, tc.n)
			for i := range items {
				items[i] = i
			}

			arr := Array(items...)
			assert.Equal(t, tc.height, arr["height"])

			got, err := Elements(arr)
			require.NoError(t, err)
			assert.Equal(t, tc.n, len(got))
			if tc.n > 0 {
				assert.Equal(t, items, got)
			}
		})
	}
}

func TestDict_InOrder(t *testing.T) {
	pairs := []Pair{{"a", 1}, {"b", 2}, {"c", 3}, {"d", 4}}

	got, err := Pairs(Dict(pairs...))
	require.NoError(t, err)
	assert.Equal(t, pairs, got)

	empty, err := Pairs(Dict())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSet_UnitValues(t *testing.T) {
	got, err := Pairs(Set(1, 2))
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, p := range got {
		assert.True(t, IsUnit(p.Value))
	}
}

func TestPosIndex(t *testing.T) {
	testCases := []struct {
		key  string
		want int
		ok   bool
	}{
		{"_0", 0, true},
		{"_12", 12, true},
		{"_", 0, false},
		{"_x", 0, false},
		{"ctor", 0, false},
		{"_-1", 0, false},
	}
	for _, tc := range testCases {
		t.Run(tc.key, func(t *testing.T) {
			got, ok := PosIndex(tc.key)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestShadow(t *testing.T) {
	rec := Record(map[string]any{"x": 3})
	Shadow(rec, "x", 1)
	Shadow(rec, "x", 2)

	assert.Equal(t, map[string]any{"x": []any{1, 2}}, rec[KeyBucket])
}

func TestTuple(t *testing.T) {
	tag, ok := Tag(Tuple(1, 2))
	require.True(t, ok)
	assert.Equal(t, "_Tuple2", tag)
	assert.True(t, IsUnit(Tuple()))
}
