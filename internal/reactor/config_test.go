package reactor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/reactordebug/internal/config"
	"github.com/specialistvlad/reactordebug/internal/graph"
	reactorhcl "github.com/specialistvlad/reactordebug/internal/hcl"
	"github.com/specialistvlad/reactordebug/internal/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const todoHCL = `
program "todo" {}

input "add" {
  initial = ""
}

input "ticks" {
  kind  = "every"
  every = "1h"
}

node "items" {
  kind    = "foldp"
  sources = ["add"]
  initial = []
  expr    = concat(state, [event])
  watch   = "items"
}

node "summary" {
  kind    = "map"
  sources = ["items"]
  expr    = format("%d items", length(items))
}

output "main" {
  source = "summary"
}

output "raw" {
  source = "items"
}
`

func TestFromConfig(t *testing.T) {
	// --- Arrange ---
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "todo.hcl")
	require.NoError(t, os.WriteFile(path, []byte(todoHCL), 0o644))

	cfg, err := reactorhcl.NewLoader().LoadProgram(ctx, path)
	require.NoError(t, err)

	p, err := FromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "todo", p.Name())

	var watched []cty.Value
	inst := instantiate(t, p, graph.Host{Watch: func(tag string, v any) {
		watched = append(watched, v.(cty.Value))
	}})

	// --- Act ---
	_, err = inst.SendTo(ctx, "add", cty.StringVal("milk"))
	require.NoError(t, err)
	_, err = inst.SendTo(ctx, "add", cty.StringVal("eggs"))
	require.NoError(t, err)

	// --- Assert ---
	summary := valueOf(t, inst, "main").(cty.Value)
	assert.Equal(t, "2 items", summary.AsString())

	raw := valueOf(t, inst, "raw").(cty.Value)
	require.Equal(t, 2, raw.LengthInt())
	assert.Len(t, watched, 2)

	ticks := valueOf(t, inst, "ticks").(cty.Value)
	assert.True(t, ticks.Equals(cty.Zero).True())

	roles := map[string]node.Role{}
	for _, n := range inst.EnumerateNodes(ctx) {
		roles[n.Name] = n.Role
	}
	assert.Equal(t, map[string]node.Role{
		"add":     node.Mailbox,
		"ticks":   node.CoreLibInput,
		"items":   node.Internal,
		"summary": node.Internal,
		"main":    node.Main,
		"raw":     node.OutputPort,
	}, roles)
}

func TestFromConfig_Invalid(t *testing.T) {
	_, err := FromConfig(&config.Program{
		Name:   "broken",
		Inputs: []*config.Input{{Name: "in", Kind: config.InputMailbox}},
		Nodes:  []*config.Node{{Name: "n", Kind: config.NodeMap, Sources: []string{"in"}}},
	})
	assert.ErrorContains(t, err, "missing expr")
}
