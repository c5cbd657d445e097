package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/specialistvlad/reactordebug/internal/node"
	"github.com/specialistvlad/reactordebug/internal/nodeid"
	"github.com/specialistvlad/reactordebug/internal/notify"
)

// printer writes one line per notification, naming nodes once the graph
// shape is known.
type printer struct {
	w io.Writer

	mu    sync.Mutex
	names map[nodeid.ID]string
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

func (p *printer) setShape(shape node.Shape) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.names = make(map[nodeid.ID]string, len(shape.Nodes))
	for id, info := range shape.Nodes {
		p.names[id] = info.Name
	}
}

func (p *printer) name(id nodeid.ID) string {
	if name, ok := p.names[id]; ok {
		return name
	}
	return "#" + id.String()
}

func (p *printer) values(values []notify.NodeValue) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%s = %s", p.name(v.NodeID), v.Value)
	}
	return strings.Join(parts, ", ")
}

// Notify implements notify.Sink.
func (p *printer) Notify(ctx context.Context, n notify.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "frame %d: %s <- %s", n.Frame, p.name(n.Event.NodeID), n.Value)
	if len(n.Subscribed) > 0 {
		fmt.Fprintf(&b, " | %s", p.values(n.Subscribed))
	}
	for _, f := range n.Flagged {
		fmt.Fprintf(&b, " [%s: %s]", f.Tag, f.Value)
	}
	b.WriteByte('\n')
	_, err := io.WriteString(p.w, b.String())
	return err
}

// initial prints the subscribed values a session starts with.
func (p *printer) initial(values []notify.NodeValue) {
	if len(values) == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "frame 0: %s\n", p.values(values))
}
