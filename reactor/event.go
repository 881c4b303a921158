// Package reactor turns a journal Reader's lazy, merged sequence into
// strongly-typed events, filtered by msg_type and dispatched to
// registered handlers (spec §4.6).
package reactor

import (
	"github.com/qiubinglin/btrader-go/journal"
	"github.com/qiubinglin/btrader-go/model"
)

// Event is a frame the reactor is about to dispatch: a thin, read-only
// view valid only for the duration of the handler call that receives it.
type Event struct {
	Frame journal.Frame
}

// Tag is the frame's msg_type discriminant.
func (e Event) Tag() model.Tag { return e.Frame.MsgType() }

// Source is the producer Location UID that wrote the frame.
func (e Event) Source() uint32 { return e.Frame.Source() }

// Dest is the destination id the frame was addressed to.
func (e Event) Dest() uint32 { return e.Frame.Dest() }

// GenTime is the frame's publish timestamp.
func (e Event) GenTime() int64 { return e.Frame.GenTime() }

// Payload is the frame's raw message bytes.
func (e Event) Payload() []byte { return e.Frame.Payload() }

// DecodeFixed decodes e's payload as a FIXED message of type T.
func DecodeFixed[T model.Fixed](e Event) T { return model.DecodeFixed[T](e.Payload()) }

// Filter reports whether a tag should be routed to a handler.
type Filter func(model.Tag) bool

// IsTag matches exactly one tag — the `is<Tag>` helper of spec §4.6.
func IsTag(tag model.Tag) Filter {
	return func(t model.Tag) bool { return t == tag }
}

// IsOverMaxTag matches any user-defined custom tag (spec §4.6's
// `over_max_tag` filter), routed to Strategy.OnCustomData rather than a
// typed handler.
func IsOverMaxTag() Filter {
	return func(t model.Tag) bool { return t.IsCustom() }
}

// Handler processes one dispatched Event. It runs to completion before
// the next frame is delivered (spec §4.6 concurrency contract).
type Handler func(Event)
