package reactor

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/specialistvlad/reactordebug/internal/ctxlog"
	"github.com/specialistvlad/reactordebug/internal/graph"
	"github.com/specialistvlad/reactordebug/internal/inmemorystore"
	"github.com/specialistvlad/reactordebug/internal/inmemorytopology"
	"github.com/specialistvlad/reactordebug/internal/node"
	"github.com/specialistvlad/reactordebug/internal/nodeid"
	"github.com/specialistvlad/reactordebug/internal/timers"
	"github.com/zclconf/go-cty/cty"
)

// ErrDisposed is returned for events sent to a disposed instance.
var ErrDisposed = errors.New("reactor instance disposed")

// Instance is a live program graph. It implements graph.Adapter and
// graph.ShapeHinter.
type Instance struct {
	program *Program
	graph   *graph.Manager
	host    graph.Host
	ownsQ   bool
	runCtx  context.Context

	ids  map[string]nodeid.ID
	defs map[nodeid.ID]*def
	srcs map[nodeid.ID][]nodeid.ID

	// applyMu serializes propagation. It is never held while calling the
	// interceptor, which may itself call ApplyEvent.
	applyMu sync.Mutex

	mu          sync.Mutex
	interceptor graph.Interceptor
	tickers     map[nodeid.ID]*timers.Handle
	disposed    bool
}

var (
	_ graph.Adapter     = (*Instance)(nil)
	_ graph.ShapeHinter = (*Instance)(nil)
)

func newInstance(ctx context.Context, p *Program, host graph.Host) (*Instance, error) {
	logger := ctxlog.FromContext(ctx)

	inst := &Instance{
		program: p,
		graph:   graph.New(inmemorytopology.New(), inmemorystore.New()),
		host:    host,
		runCtx:  context.WithoutCancel(ctx),
		ids:     make(map[string]nodeid.ID, len(p.defs)),
		defs:    make(map[nodeid.ID]*def, len(p.defs)),
		srcs:    make(map[nodeid.ID][]nodeid.ID, len(p.defs)),
		tickers: make(map[nodeid.ID]*timers.Handle),
	}
	if inst.host.Timers == nil {
		inst.host.Timers = timers.NewQueue()
		inst.ownsQ = true
	}
	if inst.host.Clock == nil {
		inst.host.Clock = timers.NewClock()
	}

	for i, d := range p.defs {
		id := nodeid.ID(i)
		inst.ids[d.name] = id
		inst.defs[id] = d
		if err := inst.graph.AddNode(ctx, node.Node{ID: id, Name: d.name, Role: d.role}, nil); err != nil {
			return nil, fmt.Errorf("program %q: %w", p.name, err)
		}
	}

	for i, d := range p.defs {
		id := nodeid.ID(i)
		for _, src := range d.sources {
			srcID, ok := inst.ids[src]
			if !ok {
				return nil, fmt.Errorf("program %q: node %q has unknown source %q", p.name, d.name, src)
			}
			inst.srcs[id] = append(inst.srcs[id], srcID)
			if err := inst.graph.AddEdge(ctx, srcID, id); err != nil {
				return nil, fmt.Errorf("program %q: %w", p.name, err)
			}
		}
	}

	if err := inst.graph.Seal(ctx); err != nil {
		return nil, fmt.Errorf("program %q: %w", p.name, err)
	}
	if err := inst.initialize(ctx); err != nil {
		return nil, fmt.Errorf("program %q: %w", p.name, err)
	}

	inst.mu.Lock()
	for id, d := range inst.defs {
		if d.every > 0 {
			inst.scheduleLocked(id, d.every)
		}
	}
	inst.mu.Unlock()

	logger.Debug("Program instantiated.", "program", p.name, "nodes", len(p.defs))
	return inst, nil
}

// initialize sets every node to its starting value. Inputs and foldp nodes
// start at their declared initial value; map nodes and outputs are
// computed from their sources.
func (i *Instance) initialize(ctx context.Context) error {
	for _, id := range i.graph.Order() {
		d := i.defs[id]
		var v any
		switch d.kind {
		case kindInput, kindFoldp:
			v = d.initial
		case kindMap:
			args := make([]any, len(i.srcs[id]))
			for n, src := range i.srcs[id] {
				args[n], _ = i.graph.Value(ctx, src)
			}
			computed, err := d.mapFn(args...)
			if err != nil {
				return fmt.Errorf("node %q: initial value: %w", d.name, err)
			}
			v = computed
		case kindOutput:
			v, _ = i.graph.Value(ctx, i.srcs[id][0])
		}
		if err := i.graph.SetValue(ctx, id, v); err != nil {
			return err
		}
	}
	return nil
}

// ID resolves a node name.
func (i *Instance) ID(name string) (nodeid.ID, bool) {
	id, ok := i.ids[name]
	return id, ok
}

// EnumerateNodes implements graph.Adapter.
func (i *Instance) EnumerateNodes(ctx context.Context) []node.Node {
	return i.graph.AllNodes(ctx)
}

// Value implements graph.Adapter.
func (i *Instance) Value(ctx context.Context, id nodeid.ID) (any, bool) {
	return i.graph.Value(ctx, id)
}

// SetValue implements graph.Adapter.
func (i *Instance) SetValue(ctx context.Context, id nodeid.ID, v any) error {
	return i.graph.SetValue(ctx, id, v)
}

// InternalShapes implements graph.ShapeHinter.
func (i *Instance) InternalShapes() [][]string {
	return i.program.shapes
}

// InstallInterceptor implements graph.Adapter.
func (i *Instance) InstallInterceptor(hook graph.Interceptor) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.interceptor = hook
}

// Send delivers an external event to input id. With an interceptor
// installed the interceptor decides whether the event is accepted.
func (i *Instance) Send(ctx context.Context, id nodeid.ID, v any) (bool, error) {
	if d, ok := i.defs[id]; !ok || d.kind != kindInput {
		return false, fmt.Errorf("node '%s' is not an input", id)
	}

	i.mu.Lock()
	if i.disposed {
		i.mu.Unlock()
		return false, ErrDisposed
	}
	hook := i.interceptor
	i.mu.Unlock()

	if hook != nil {
		return hook(ctx, id, v), nil
	}
	if _, err := i.ApplyEvent(ctx, id, v); err != nil {
		return false, err
	}
	return true, nil
}

// SendTo is Send addressed by input name.
func (i *Instance) SendTo(ctx context.Context, name string, v any) (bool, error) {
	id, ok := i.ids[name]
	if !ok {
		return false, fmt.Errorf("unknown input %q", name)
	}
	return i.Send(ctx, id, v)
}

// ApplyEvent implements graph.Adapter. All new values are computed before
// any is stored, so a failing node leaves the graph untouched.
func (i *Instance) ApplyEvent(ctx context.Context, id nodeid.ID, v any) (bool, error) {
	d, ok := i.defs[id]
	if !ok || d.kind != kindInput {
		return false, fmt.Errorf("node '%s' is not an input", id)
	}

	i.applyMu.Lock()
	defer i.applyMu.Unlock()

	staged := map[nodeid.ID]any{id: v}
	read := func(n nodeid.ID) any {
		if sv, ok := staged[n]; ok {
			return sv
		}
		cur, _ := i.graph.Value(ctx, n)
		return cur
	}

	old, _ := i.graph.Value(ctx, id)
	changed := !sameValue(old, v)

	type flag struct {
		tag   string
		value any
	}
	var flagged []flag

	for _, nid := range i.graph.Order() {
		nd := i.defs[nid]
		if nd.kind == kindInput || !i.fired(nid, staged) {
			continue
		}

		var next any
		switch nd.kind {
		case kindMap:
			args := make([]any, len(i.srcs[nid]))
			for n, src := range i.srcs[nid] {
				args[n] = read(src)
			}
			out, err := nd.mapFn(args...)
			if err != nil {
				return false, fmt.Errorf("node %q: %w", nd.name, err)
			}
			next = out
		case kindFoldp:
			state, _ := i.graph.Value(ctx, nid)
			out, err := nd.foldFn(read(i.srcs[nid][0]), state)
			if err != nil {
				return false, fmt.Errorf("node %q: %w", nd.name, err)
			}
			next = out
		case kindOutput:
			next = read(i.srcs[nid][0])
		}

		prev, _ := i.graph.Value(ctx, nid)
		if !sameValue(prev, next) {
			changed = true
		}
		staged[nid] = next
		if nd.watch != "" {
			flagged = append(flagged, flag{tag: nd.watch, value: next})
		}
	}

	for nid, sv := range staged {
		if err := i.graph.SetValue(ctx, nid, sv); err != nil {
			return false, err
		}
	}
	if i.host.Watch != nil {
		for _, f := range flagged {
			i.host.Watch(f.tag, f.value)
		}
	}
	return changed, nil
}

func (i *Instance) fired(id nodeid.ID, staged map[nodeid.ID]any) bool {
	for _, src := range i.srcs[id] {
		if _, ok := staged[src]; ok {
			return true
		}
	}
	return false
}

// scheduleLocked arms the next tick of an every input. Ticks go through
// Send so a debugger sees them like any other external event.
func (i *Instance) scheduleLocked(id nodeid.ID, period time.Duration) {
	i.tickers[id] = i.host.Timers.AfterFunc(period, func() {
		ctx := i.runCtx
		if _, err := i.Send(ctx, id, i.program.tick(i.host.Clock.Now())); err != nil && !errors.Is(err, ErrDisposed) {
			ctxlog.FromContext(ctx).Error("Timer event failed.", "node", i.defs[id].name, "error", err)
		}

		i.mu.Lock()
		defer i.mu.Unlock()
		if !i.disposed {
			i.scheduleLocked(id, period)
		}
	})
}

// Dispose implements graph.Adapter. It stops every timer the instance
// armed; a second call is a no-op.
func (i *Instance) Dispose(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.disposed {
		return nil
	}
	i.disposed = true
	for id, h := range i.tickers {
		h.Stop()
		delete(i.tickers, id)
	}
	if i.ownsQ {
		i.host.Timers.Stop()
	}
	i.interceptor = nil
	ctxlog.FromContext(ctx).Debug("Program instance disposed.", "program", i.program.name)
	return nil
}

func sameValue(a, b any) bool {
	if av, ok := a.(cty.Value); ok {
		bv, ok := b.(cty.Value)
		return ok && av.RawEquals(bv)
	}
	return reflect.DeepEqual(a, b)
}
