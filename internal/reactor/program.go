package reactor

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/reactordebug/internal/config"
	"github.com/specialistvlad/reactordebug/internal/graph"
	"github.com/specialistvlad/reactordebug/internal/node"
)

// MapFunc computes a map node from its source values, in source order.
type MapFunc func(args ...any) (any, error)

// FoldFunc folds a source value into the accumulated state.
type FoldFunc func(event, state any) (any, error)

type kind int

const (
	kindInput kind = iota
	kindMap
	kindFoldp
	kindOutput
)

type def struct {
	name    string
	kind    kind
	role    node.Role
	sources []string
	initial any
	every   time.Duration
	mapFn   MapFunc
	foldFn  FoldFunc
	watch   string
}

// Program is a reactive program definition. It implements graph.Program;
// every Instantiate call produces an independent instance.
type Program struct {
	name   string
	defs   []*def
	byName map[string]*def
	tick   func(time.Duration) any
	shapes [][]string
}

var _ graph.Program = (*Program)(nil)

// NewProgram starts an empty program definition. Builder methods panic on
// duplicate names since that is a programming error.
func NewProgram(name string) *Program {
	return &Program{
		name:   name,
		byName: make(map[string]*def),
		tick:   millis,
	}
}

func millis(d time.Duration) any {
	return float64(d) / float64(time.Millisecond)
}

// Name implements graph.Program.
func (p *Program) Name() string { return p.name }

// Mailbox adds an input node user code sends messages to.
func (p *Program) Mailbox(name string, initial any) *Program {
	return p.add(&def{name: name, kind: kindInput, role: node.Mailbox, initial: initial})
}

// Input adds a runtime driven input node.
func (p *Program) Input(name string, initial any) *Program {
	return p.add(&def{name: name, kind: kindInput, role: node.CoreLibInput, initial: initial})
}

// Every adds an input that receives the playing time every period.
func (p *Program) Every(name string, period time.Duration) *Program {
	return p.add(&def{name: name, kind: kindInput, role: node.CoreLibInput, initial: p.tick(0), every: period})
}

// Map adds a node computed by fn from the given sources.
func (p *Program) Map(name string, fn MapFunc, sources ...string) *Program {
	return p.add(&def{name: name, kind: kindMap, role: node.Internal, sources: sources, mapFn: fn})
}

// Foldp adds a node whose state starts at initial and is folded with fn
// every time source fires.
func (p *Program) Foldp(name string, initial any, fn FoldFunc, source string) *Program {
	return p.add(&def{name: name, kind: kindFoldp, role: node.Internal, sources: []string{source}, initial: initial, foldFn: fn})
}

// Expr adds a map node computed by an HCL expression over its sources.
func (p *Program) Expr(name, src string, sources ...string) *Program {
	return p.Map(name, exprMap(mustParse(name, src), sources), sources...)
}

// FoldExpr adds a foldp node computed by an HCL expression over `event`
// and `state`.
func (p *Program) FoldExpr(name string, initial any, src, source string) *Program {
	return p.Foldp(name, initial, exprFold(mustParse(name, src)), source)
}

// Output exposes source under name. The output named "main" is the
// program's main node.
func (p *Program) Output(name, source string) *Program {
	role := node.OutputPort
	if name == config.MainOutput {
		role = node.Main
	}
	return p.add(&def{name: name, kind: kindOutput, role: role, sources: []string{source}})
}

// Watch flags every value recomputed by the named node under tag.
func (p *Program) Watch(name, tag string) *Program {
	d, ok := p.byName[name]
	if !ok {
		panic(fmt.Sprintf("reactor: watch on unknown node %q", name))
	}
	d.watch = tag
	return p
}

// InternalShape declares a record field set the runtime uses internally,
// so debuggers never show such values as user records.
func (p *Program) InternalShape(fields ...string) *Program {
	p.shapes = append(p.shapes, append([]string(nil), fields...))
	return p
}

func (p *Program) add(d *def) *Program {
	if _, exists := p.byName[d.name]; exists {
		panic(fmt.Sprintf("reactor: duplicate node name %q", d.name))
	}
	p.defs = append(p.defs, d)
	p.byName[d.name] = d
	return p
}

// Instantiate implements graph.Program.
func (p *Program) Instantiate(ctx context.Context, host graph.Host) (graph.Adapter, error) {
	return newInstance(ctx, p, host)
}

func mustParse(name, src string) hcl.Expression {
	expr, diags := hclsyntax.ParseExpression([]byte(src), name, hcl.InitialPos)
	if diags.HasErrors() {
		panic(fmt.Sprintf("reactor: node %q: %s", name, diags.Error()))
	}
	return expr
}
