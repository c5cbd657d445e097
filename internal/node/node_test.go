package node

import (
	"testing"

	"github.com/specialistvlad/reactordebug/internal/nodeid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_Classification(t *testing.T) {
	testCases := []struct {
		role     Role
		isInput  bool
		isOutput bool
	}{
		{Internal, false, false},
		{Mailbox, true, false},
		{CoreLibInput, true, false},
		{Main, false, true},
		{OutputPort, false, true},
	}

	for _, tc := range testCases {
		t.Run(tc.role.String(), func(t *testing.T) {
			assert.Equal(t, tc.isInput, tc.role.IsInput())
			assert.Equal(t, tc.isOutput, tc.role.IsOutput())

			parsed, ok := ParseRole(tc.role.String())
			require.True(t, ok)
			assert.Equal(t, tc.role, parsed)
		})
	}

	_, ok := ParseRole("bogus")
	assert.False(t, ok)
}

func TestNewShape(t *testing.T) {
	nodes := []Node{
		{ID: 0, Name: "clicks", Role: Mailbox, Kids: []nodeid.ID{1}},
		{ID: 1, Name: "count", Role: Internal, Kids: []nodeid.ID{2, 3}},
		{ID: 2, Name: "main", Role: Main},
		{ID: 3, Name: "port", Role: OutputPort},
	}

	shape := NewShape(nodes)

	require.True(t, shape.HasMain)
	assert.Equal(t, nodeid.ID(2), shape.MainID)
	assert.Equal(t, []nodeid.ID{0, 1, 2, 3}, shape.IDs())
	assert.Equal(t, []nodeid.ID{2, 3}, shape.WithRole(Main, OutputPort))

	id, ok := shape.Lookup("count")
	require.True(t, ok)
	assert.Equal(t, nodeid.ID(1), id)

	// The shape holds its own copy of kid lists.
	nodes[1].Kids[0] = 99
	assert.Equal(t, []nodeid.ID{2, 3}, shape.Nodes[1].Kids)
}

func TestNewShape_NoMain(t *testing.T) {
	shape := NewShape([]Node{{ID: 0, Name: "in", Role: CoreLibInput}})
	assert.False(t, shape.HasMain)
	assert.Equal(t, nodeid.None, shape.MainID)

	_, ok := shape.Lookup("missing")
	assert.False(t, ok)
}
