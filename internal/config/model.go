package config

import (
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// InputKind selects how an input node receives values.
type InputKind string

const (
	// InputMailbox is an input user code sends messages to.
	InputMailbox InputKind = "mailbox"
	// InputCore is an input driven by the runtime, e.g. a port or a device.
	InputCore InputKind = "input"
	// InputEvery is a core input that receives the playing time on a fixed
	// period.
	InputEvery InputKind = "every"
)

// NodeKind selects how a derived node computes its value.
type NodeKind string

const (
	// NodeMap recomputes from the current values of its sources.
	NodeMap NodeKind = "map"
	// NodeFoldp folds each new source value into an accumulated state.
	NodeFoldp NodeKind = "foldp"
)

// Program is the unified, format-agnostic representation of a reactive
// program definition.
type Program struct {
	Name    string
	Inputs  []*Input
	Nodes   []*Node
	Outputs []*Output
}

// Input is the format-agnostic representation of an `input` block.
type Input struct {
	Name    string
	Kind    InputKind
	Initial cty.Value
	Every   time.Duration
}

// Node is the format-agnostic representation of a `node` block.
type Node struct {
	Name    string
	Kind    NodeKind
	Sources []string
	// Initial is the starting state of a foldp node. Map nodes ignore it.
	Initial cty.Value
	// Expr computes the node value. Map expressions see every source by
	// name. Foldp expressions see `event` and `state`.
	Expr hcl.Expression
	// Watch, when set, flags every recomputed value under this tag.
	Watch string
}

// Output is the format-agnostic representation of an `output` block. The
// output named "main" is the program's main output.
type Output struct {
	Name   string
	Source string
}

// MainOutput is the name of the program's primary output.
const MainOutput = "main"

// Script is an ordered list of events to send to a running program.
type Script struct {
	Sends []*Send
}

// Send is the format-agnostic representation of a `send` block.
type Send struct {
	Input string
	Value cty.Value
	// Delay is how long to wait before sending.
	Delay time.Duration
}

// Validate checks names are unique and every reference resolves.
func (p *Program) Validate() error {
	names := make(map[string]string)
	declare := func(kind, name string) error {
		if name == "" {
			return fmt.Errorf("%s with empty name", kind)
		}
		if prev, ok := names[name]; ok {
			return fmt.Errorf("%s %q conflicts with %s of the same name", kind, name, prev)
		}
		names[name] = kind
		return nil
	}

	for _, in := range p.Inputs {
		if err := declare("input", in.Name); err != nil {
			return err
		}
		switch in.Kind {
		case InputMailbox, InputCore:
		case InputEvery:
			if in.Every <= 0 {
				return fmt.Errorf("input %q: every must be a positive duration", in.Name)
			}
		default:
			return fmt.Errorf("input %q: unknown kind %q", in.Name, in.Kind)
		}
	}
	for _, n := range p.Nodes {
		if err := declare("node", n.Name); err != nil {
			return err
		}
		switch n.Kind {
		case NodeMap:
			if len(n.Sources) == 0 {
				return fmt.Errorf("node %q: map needs at least one source", n.Name)
			}
		case NodeFoldp:
			if len(n.Sources) != 1 {
				return fmt.Errorf("node %q: foldp needs exactly one source", n.Name)
			}
		default:
			return fmt.Errorf("node %q: unknown kind %q", n.Name, n.Kind)
		}
		if n.Expr == nil {
			return fmt.Errorf("node %q: missing expr", n.Name)
		}
	}
	for _, n := range p.Nodes {
		for _, src := range n.Sources {
			if _, ok := names[src]; !ok {
				return fmt.Errorf("node %q: unknown source %q", n.Name, src)
			}
		}
	}

	// Outputs become graph nodes too, so they share the namespace. Sources
	// are resolved first so an output can never mirror another output.
	for _, out := range p.Outputs {
		if _, ok := names[out.Source]; !ok {
			return fmt.Errorf("output %q: unknown source %q", out.Name, out.Source)
		}
	}
	outputs := make(map[string]struct{})
	for _, out := range p.Outputs {
		if _, dup := outputs[out.Name]; dup {
			return fmt.Errorf("duplicate output %q", out.Name)
		}
		outputs[out.Name] = struct{}{}
		if err := declare("output", out.Name); err != nil {
			return err
		}
	}
	return nil
}
