package reactor

import (
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/reactordebug/internal/config"
	reactorhcl "github.com/specialistvlad/reactordebug/internal/hcl"
	"github.com/zclconf/go-cty/cty"
)

// FromConfig builds a program from a format-agnostic definition. Values of
// the resulting program are cty values, including the timestamps delivered
// to every inputs.
func FromConfig(cfg *config.Program) (*Program, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid program %q: %w", cfg.Name, err)
	}

	p := NewProgram(cfg.Name)
	p.tick = func(d time.Duration) any {
		return cty.NumberFloatVal(float64(d) / float64(time.Millisecond))
	}

	for _, in := range cfg.Inputs {
		switch in.Kind {
		case config.InputMailbox:
			p.Mailbox(in.Name, in.Initial)
		case config.InputCore:
			p.Input(in.Name, in.Initial)
		case config.InputEvery:
			p.Every(in.Name, in.Every)
			p.byName[in.Name].initial = in.Initial
		}
	}

	for _, n := range cfg.Nodes {
		switch n.Kind {
		case config.NodeMap:
			p.Map(n.Name, exprMap(n.Expr, n.Sources), n.Sources...)
		case config.NodeFoldp:
			p.Foldp(n.Name, n.Initial, exprFold(n.Expr), n.Sources[0])
		}
		if n.Watch != "" {
			p.Watch(n.Name, n.Watch)
		}
	}

	for _, out := range cfg.Outputs {
		p.Output(out.Name, out.Source)
	}
	return p, nil
}

func exprMap(expr hcl.Expression, names []string) MapFunc {
	conv := reactorhcl.NewConverter()
	return func(args ...any) (any, error) {
		vars := make(map[string]cty.Value, len(args))
		for i, arg := range args {
			v, err := conv.ToCtyValue(arg)
			if err != nil {
				return nil, fmt.Errorf("source %q: %w", names[i], err)
			}
			vars[names[i]] = v
		}
		return eval(expr, vars)
	}
}

func exprFold(expr hcl.Expression) FoldFunc {
	conv := reactorhcl.NewConverter()
	return func(event, state any) (any, error) {
		ev, err := conv.ToCtyValue(event)
		if err != nil {
			return nil, fmt.Errorf("event: %w", err)
		}
		st, err := conv.ToCtyValue(state)
		if err != nil {
			return nil, fmt.Errorf("state: %w", err)
		}
		return eval(expr, map[string]cty.Value{"event": ev, "state": st})
	}
}

func eval(expr hcl.Expression, vars map[string]cty.Value) (any, error) {
	v, diags := expr.Value(reactorhcl.EvalContext(vars))
	if diags.HasErrors() {
		return nil, diags
	}
	return v, nil
}
