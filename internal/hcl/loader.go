package hcl

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/reactordebug/internal/config"
	"github.com/specialistvlad/reactordebug/internal/ctxlog"
	"github.com/specialistvlad/reactordebug/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

type parsedFile struct {
	path string
	root fileRoot
}

// LoadProgram merges the program blocks of every file under paths. Send
// blocks are ignored so a program file may carry a demo script.
func (l *Loader) LoadProgram(ctx context.Context, paths ...string) (*config.Program, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL program loader started.", "path_count", len(paths))

	files, err := l.parse(ctx, paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %v", paths)
	}

	program := &config.Program{}
	for _, f := range files {
		if f.root.Program != nil {
			if program.Name != "" && program.Name != f.root.Program.Name {
				return nil, fmt.Errorf("%s: program %q conflicts with program %q", f.path, f.root.Program.Name, program.Name)
			}
			program.Name = f.root.Program.Name
		}
		for _, in := range f.root.Inputs {
			translated, err := translateInput(in)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.path, err)
			}
			program.Inputs = append(program.Inputs, translated)
		}
		for _, n := range f.root.Nodes {
			translated, err := translateNode(n)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.path, err)
			}
			program.Nodes = append(program.Nodes, translated)
		}
		for _, out := range f.root.Outputs {
			program.Outputs = append(program.Outputs, &config.Output{Name: out.Name, Source: out.Source})
		}
	}
	if program.Name == "" {
		program.Name = strings.TrimSuffix(filepath.Base(files[0].path), ".hcl")
	}

	if err := program.Validate(); err != nil {
		return nil, fmt.Errorf("invalid program %q: %w", program.Name, err)
	}

	logger.Debug("HCL program loading complete.", "program", program.Name, "inputs", len(program.Inputs), "nodes", len(program.Nodes), "outputs", len(program.Outputs))
	return program, nil
}

// LoadScript collects the send blocks of every file under paths.
func (l *Loader) LoadScript(ctx context.Context, paths ...string) (*config.Script, error) {
	files, err := l.parse(ctx, paths)
	if err != nil {
		return nil, err
	}

	script := &config.Script{}
	for _, f := range files {
		for _, s := range f.root.Sends {
			translated, err := translateSend(s)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.path, err)
			}
			script.Sends = append(script.Sends, translated)
		}
	}
	ctxlog.FromContext(ctx).Debug("HCL script loading complete.", "sends", len(script.Sends))
	return script, nil
}

func (l *Loader) parse(ctx context.Context, paths []string) ([]parsedFile, error) {
	hclFiles, err := fsutil.CollectFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	out := make([]parsedFile, 0, len(hclFiles))
	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		out = append(out, parsedFile{path: file, root: root})
	}
	return out, nil
}

func translateInput(in *inputBlock) (*config.Input, error) {
	kind := config.InputKind(in.Kind)
	if kind == "" {
		kind = config.InputMailbox
	}

	initial, err := evalConst(in.Initial)
	if err != nil {
		return nil, fmt.Errorf("input %q: initial: %w", in.Name, err)
	}

	every, err := parseDuration(in.Every)
	if err != nil {
		return nil, fmt.Errorf("input %q: every: %w", in.Name, err)
	}
	if kind == config.InputEvery && initial.IsNull() {
		initial = cty.Zero
	}

	return &config.Input{Name: in.Name, Kind: kind, Initial: initial, Every: every}, nil
}

func translateNode(n *nodeBlock) (*config.Node, error) {
	initial, err := evalConst(n.Initial)
	if err != nil {
		return nil, fmt.Errorf("node %q: initial: %w", n.Name, err)
	}
	return &config.Node{
		Name:    n.Name,
		Kind:    config.NodeKind(n.Kind),
		Sources: n.Sources,
		Initial: initial,
		Expr:    n.Expr,
		Watch:   n.Watch,
	}, nil
}

func translateSend(s *sendBlock) (*config.Send, error) {
	v, err := evalConst(s.Value)
	if err != nil {
		return nil, fmt.Errorf("send %q: value: %w", s.Input, err)
	}
	delay, err := parseDuration(s.Delay)
	if err != nil {
		return nil, fmt.Errorf("send %q: delay: %w", s.Input, err)
	}
	return &config.Send{Input: s.Input, Value: v, Delay: delay}, nil
}

// evalConst evaluates an expression that may only use functions. A missing
// optional attribute evaluates to null.
func evalConst(expr hcl.Expression) (cty.Value, error) {
	if expr == nil {
		return cty.NullVal(cty.DynamicPseudoType), nil
	}
	v, diags := expr.Value(EvalContext(nil))
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	return v, nil
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
