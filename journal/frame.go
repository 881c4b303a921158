package journal

import (
	"unsafe"

	"github.com/qiubinglin/btrader-go/model"
)

// Frame is a short-lived view into a Page's mmap'd memory (spec §3.5): it
// is valid only until the owning Journal advances past it. Frame is a
// value type so taking one is free; it never owns the underlying mapping.
type Frame struct {
	page   *Page
	offset uint32
}

func (f Frame) header() *frameHeader {
	return (*frameHeader)(unsafe.Pointer(&f.page.data[f.offset]))
}

// HasData reports whether the frame at this position has been committed
// (Length > 0) and carries a real message (MsgType > 0, ie not PageEnd). A
// Frame with no backing page — a stream whose writer hasn't created it yet
// — always reports false instead of dereferencing a nil page.
func (f Frame) HasData() bool {
	if f.page == nil {
		return false
	}
	h := f.header()
	return h.Length > 0 && h.MsgType > 0
}

// isPageEnd reports whether this slot is a committed PageEnd marker. It
// does not go through MsgType(), because TagPageEnd's zero value is
// indistinguishable from an uncommitted slot's zeroed MsgType without
// also checking Length.
func (f Frame) isPageEnd() bool {
	if f.page == nil {
		return false
	}
	h := f.header()
	return h.Length > 0 && h.MsgType == int32(model.TagPageEnd)
}

// Offset is the byte offset of this frame within its page.
func (f Frame) Offset() uint32 { return f.offset }

// FrameLength is the total frame size including its header.
func (f Frame) FrameLength() uint32 { return f.header().Length }

// HeaderLength is sizeof(frameHeader), recorded per-frame for forward
// compatibility with future header versions.
func (f Frame) HeaderLength() uint32 { return f.header().HeaderLength }

// DataLength is the payload size, excluding the header.
func (f Frame) DataLength() uint32 { return f.FrameLength() - f.HeaderLength() }

// GenTime is the frame's publish timestamp.
func (f Frame) GenTime() int64 { return f.header().GenTime }

// TriggerTime is the originating-event timestamp, for latency accounting.
func (f Frame) TriggerTime() int64 { return f.header().TriggerTime }

// MsgType is the frame's msg_type discriminant.
func (f Frame) MsgType() model.Tag { return model.Tag(f.header().MsgType) }

// Source is the producer Location UID that wrote this frame.
func (f Frame) Source() uint32 { return f.header().Source }

// Dest is the destination id this frame was addressed to.
func (f Frame) Dest() uint32 { return f.header().Dest }

// Payload returns the frame's data bytes. The returned slice aliases the
// mmap'd page and must not be retained past the next Journal.Next call.
func (f Frame) Payload() []byte {
	start := f.offset + f.HeaderLength()
	return f.page.data[start : start+f.DataLength()]
}

func (f Frame) setHeaderLength(n uint32)    { f.header().HeaderLength = n }
func (f Frame) setTriggerTime(t int64)      { f.header().TriggerTime = t }
func (f Frame) setMsgType(t model.Tag)      { f.header().MsgType = int32(t) }
func (f Frame) setSource(s uint32)          { f.header().Source = s }
func (f Frame) setDest(d uint32)            { f.header().Dest = d }
func (f Frame) setGenTime(t int64)          { f.header().GenTime = t }

// commit is the frame-visible store rule of spec §4.3: Length is written
// last, after GenTime, so a reader that observes Length > 0 may safely
// read every other field.
func (f Frame) commit(dataLength uint32) {
	f.header().Length = f.HeaderLength() + dataLength
}

// zeroSentinel clears the header immediately following a frame whose
// payload is dataLength bytes, so readers see Length == 0 ("no next frame
// yet") until the writer commits it.
func (f Frame) zeroSentinel(dataLength uint32) {
	next := Frame{page: f.page, offset: f.offset + f.HeaderLength() + dataLength}
	h := next.header()
	*h = frameHeader{}
}
