package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/reactordebug/internal/node"
	"github.com/specialistvlad/reactordebug/internal/nodeid"
	"github.com/specialistvlad/reactordebug/internal/session"
)

// InspectRequest selects what Inspect prints.
type InspectRequest struct {
	SessionID string
	// Start and End bound the frame range, inclusive. A negative End means
	// the last frame.
	Start, End int
	// Nodes are node names; empty means every node.
	Nodes []string
}

// Inspect resumes a stored session from its history, pauses it and prints
// the value of the requested nodes at every frame of the range.
func (a *App) Inspect(ctx context.Context, req InspectRequest) error {
	ctx = a.context(ctx)
	a.logger.Debug("App.Inspect method started.", "session", req.SessionID)

	program, err := a.loadProgram(ctx)
	if err != nil {
		return err
	}
	store, err := a.requireStore(ctx)
	if err != nil {
		return err
	}
	defer a.closeStore(store)

	history, err := store.Load(ctx, req.SessionID)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	s, _, err := session.Initialize(ctx, program, history, nil,
		session.WithID(req.SessionID),
		session.WithInterval(a.config.Interval),
		session.WithMetrics(a.metrics),
		session.StartPaused(),
	)
	if err != nil {
		return err
	}
	defer s.Dispose(ctx)

	ids, err := resolveNodes(s.Shape(), req.Nodes)
	if err != nil {
		return err
	}

	end := req.End
	if end < 0 {
		frames, err := s.NumFrames(ctx)
		if err != nil {
			return err
		}
		end = frames - 1
	}

	result, err := s.QueryRange(ctx, req.Start, end, ids)
	if err != nil {
		return fmt.Errorf("querying frames %d..%d: %w", req.Start, end, err)
	}

	fmt.Fprintf(a.outW, "session %s: %d events\n", req.SessionID, len(history))
	for _, nf := range result {
		info := s.Shape().Nodes[nf.NodeID]
		fmt.Fprintf(a.outW, "%s (%s)\n", info.Name, info.Role)
		for _, fv := range nf.Frames {
			fmt.Fprintf(a.outW, "  %d: %s\n", fv.Frame, fv.Value)
		}
	}
	return nil
}

func resolveNodes(shape node.Shape, names []string) ([]nodeid.ID, error) {
	if len(names) == 0 {
		return shape.IDs(), nil
	}

	ids := make([]nodeid.ID, 0, len(names))
	for _, name := range names {
		id, ok := shape.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown node %q", name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Sessions prints the id of every stored session.
func (a *App) Sessions(ctx context.Context) ([]string, error) {
	ctx = a.context(ctx)

	store, err := a.requireStore(ctx)
	if err != nil {
		return nil, err
	}
	defer a.closeStore(store)

	ids, err := store.Sessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	for _, id := range ids {
		fmt.Fprintln(a.outW, id)
	}
	return ids, nil
}
