package historystore

import (
	"fmt"
	"time"

	"github.com/specialistvlad/reactordebug/internal/config"
	"github.com/specialistvlad/reactordebug/internal/event"
	"github.com/specialistvlad/reactordebug/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Record is an event in its stored form.
type Record struct {
	Seq    int
	NodeID nodeid.ID
	Time   time.Duration
	// Value is the cty JSON encoding of the event value, wrapped with its
	// type so it decodes without a schema.
	Value []byte
}

// Codec converts events to records and back. Values that are not already
// cty values go through the converter first, so a reloaded history always
// carries cty values.
type Codec struct {
	conv config.Converter
}

// NewCodec creates a codec using conv for non-cty values.
func NewCodec(conv config.Converter) *Codec {
	return &Codec{conv: conv}
}

// Encode turns event seq into a record.
func (c *Codec) Encode(seq int, ev event.Event) (Record, error) {
	v, err := c.conv.ToCtyValue(ev.Value)
	if err != nil {
		return Record{}, fmt.Errorf("event %d: converting value: %w", seq, err)
	}
	v, _ = v.UnmarkDeep()
	if !v.IsWhollyKnown() {
		return Record{}, fmt.Errorf("event %d: value is not fully known", seq)
	}

	raw, err := ctyjson.Marshal(v, cty.DynamicPseudoType)
	if err != nil {
		return Record{}, fmt.Errorf("event %d: encoding value: %w", seq, err)
	}
	return Record{Seq: seq, NodeID: ev.NodeID, Time: ev.Time, Value: raw}, nil
}

// Decode turns a record back into an event.
func (c *Codec) Decode(r Record) (event.Event, error) {
	v, err := ctyjson.Unmarshal(r.Value, cty.DynamicPseudoType)
	if err != nil {
		return event.Event{}, fmt.Errorf("event %d: decoding value: %w", r.Seq, err)
	}
	return event.Event{NodeID: r.NodeID, Value: v, Time: r.Time}, nil
}
