package journal

import (
	"fmt"
	"time"

	"github.com/qiubinglin/btrader-go/model"
)

// writerMutexTimeout bounds how long OpenFrame will wait for the in-process
// writer lock before giving up (spec §4.3, §7: a stuck writer is fatal, not
// something to block on forever).
const writerMutexTimeout = 30 * time.Second

// Writer is the single producer for one (Location, destination) stream. A
// process must never run two Writers over the same stream; Writer itself
// only serializes concurrent goroutines within this process.
type Writer struct {
	journal *Journal
	sem     chan struct{}

	open    bool
	cur     Frame
	curData uint32

	// startHash folds into CurrentFrameUID's low bits so restarted writers
	// don't replay the same uid for the same (page, frame_ordinal) slot.
	startHash uint32

	indicator WakeupPoster
}

// WakeupPoster is the narrow slice of wakeup.Indicator a Writer needs to
// post to after every CloseFrame (spec §4.3, §4.5). It is declared here
// rather than imported from package wakeup to avoid a cycle: wakeup
// already depends on journal for ObserveHelper's Reader argument.
type WakeupPoster interface {
	Post() error
}

// NewWriter opens (creating if necessary) the stream for (loc, destID) in
// writing mode and seeks to "now". Per spec §9, a writer is never lazy: an
// always-resident mapping is what lets OpenFrame run without touching the
// page cache on every call.
func NewWriter(locator *Locator, loc *Location, destID uint32) (*Writer, error) {
	j := NewJournal(locator, loc, destID, true, false)
	if err := j.SeekToTime(time.Now().UnixNano()); err != nil {
		return nil, err
	}
	startHash := model.HashString(fmt.Sprintf("%d.%d", time.Now().UnixNano(), destID))
	return &Writer{journal: j, sem: make(chan struct{}, 1), startHash: startHash}, nil
}

func (w *Writer) lock() error {
	select {
	case w.sem <- struct{}{}:
		return nil
	case <-time.After(writerMutexTimeout):
		return newTimeoutErr("writer mutex acquisition timed out")
	}
}

func (w *Writer) unlock() { <-w.sem }

// OpenFrame reserves space for a dataLength-byte payload tagged msgType and
// addressed to dest, rolling onto a new page first if the current one
// can't fit it (spec §4.3). The writer lock is held until CloseFrame; the
// caller must fill Frame.Payload() and call CloseFrame before doing
// anything else with this Writer.
func (w *Writer) OpenFrame(msgType model.Tag, dest uint32, dataLength uint32) (Frame, error) {
	if err := w.lock(); err != nil {
		return Frame{}, err
	}
	if w.open {
		w.unlock()
		return Frame{}, newProtocolErr("OpenFrame called while a frame is already open")
	}
	if err := w.ensureRoom(dataLength); err != nil {
		w.unlock()
		return Frame{}, err
	}

	f := w.journal.CurrentFrame()
	now := time.Now().UnixNano()
	f.setHeaderLength(frameHeaderSize)
	f.setMsgType(msgType)
	f.setSource(w.journal.loc.UID)
	f.setDest(dest)
	f.setGenTime(now)
	f.setTriggerTime(now)

	w.cur = f
	w.curData = dataLength
	w.open = true
	return f, nil
}

// AttachIndicator wires the wakeup counter bootstrap created or inherited
// for this writer's (source, destination) stream. CloseFrame posts to it
// once the commit store is visible, so the post happens-after the
// length-store commit rule any waiting consumer relies on (spec §4.5).
func (w *Writer) AttachIndicator(p WakeupPoster) { w.indicator = p }

// Mark writes a payload-less frame tagged msgType and addressed to dest,
// with TriggerTime stamped explicitly at triggerTime rather than "now"
// (spec §4.3). It is how a control signal that carries no payload of its
// own gets published — eg TimeReset, whose two clock samples ride the
// frame header instead: GenTime is the wall-clock sample OpenFrame
// stamps when it opens the frame (CloseFrame does not restamp it),
// TriggerTime is the steady-clock sample the caller passes in here
// (reactor.SteadyNowNanos).
func (w *Writer) Mark(msgType model.Tag, dest uint32, triggerTime int64) error {
	f, err := w.OpenFrame(msgType, dest, 0)
	if err != nil {
		return err
	}
	f.setTriggerTime(triggerTime)
	return w.CloseFrame()
}

// CloseFrame commits the open frame: it zeroes the following frame's header
// (the sentinel a reader polls on) before writing Length last, per the
// store order of spec §4.3. It then bumps the journal's in-page frame
// ordinal, mirroring the original's close_frame→journal_.next() call
// (original_source/core/journal/writer.cpp:67, journal.cpp:19
// page_frame_nb_++): CurrentFrameUID folds that ordinal into order_id, so
// skipping this step would stamp the same order_id on every frame written
// to one page.
func (w *Writer) CloseFrame() error {
	if !w.open {
		return newProtocolErr("CloseFrame called without an open frame")
	}
	f := w.cur
	f.zeroSentinel(w.curData)
	f.commit(w.curData)
	w.journal.page.setLastFramePosition(f.offset)
	w.journal.offset = f.offset + f.FrameLength()
	w.journal.pageFrameNum++
	w.open = false
	w.unlock()
	if w.indicator != nil {
		return w.indicator.Post()
	}
	return nil
}

// Write is the OpenFrame/copy/CloseFrame convenience path for UNFIXED
// payloads and any caller that already has encoded bytes in hand.
func (w *Writer) Write(msgType model.Tag, dest uint32, payload []byte) error {
	f, err := w.OpenFrame(msgType, dest, uint32(len(payload)))
	if err != nil {
		return err
	}
	copy(f.Payload(), payload)
	return w.CloseFrame()
}

// CopyFrame re-publishes an existing frame's payload under this writer's
// identity, preserving its destination — the relay path a reactor uses to
// forward a frame it only consumes (spec §4.6).
func (w *Writer) CopyFrame(src Frame) error {
	return w.Write(src.MsgType(), src.Dest(), src.Payload())
}

// CurrentFrameUID identifies the frame slot this writer is about to fill
// (spec §4.3): the high 32 bits are (source xor dest), which a consumer
// recovers by xor-ing back its own location uid, and the low 32 bits fold
// in the page id, in-page frame ordinal, and this writer's start-time hash
// so distinct writer lifetimes over the same slot never collide. This is
// the canonical order_id stamped by Executor.InsertOrder.
func (w *Writer) CurrentFrameUID() uint64 {
	hi := w.journal.loc.UID ^ w.journal.destID
	lo := (w.journal.page.PageID<<16 | uint32(w.journal.pageFrameNum&0xffff)) ^ w.startHash
	return uint64(hi)<<32 | uint64(lo)
}

// Close releases the writer's current page mapping.
func (w *Writer) Close() error { return w.journal.Close() }

// ensureRoom rolls the journal onto a fresh page, writing a PageEnd
// sentinel frame to close the current one, if dataLength wouldn't leave
// room for a trailing sentinel header (spec §4.3).
func (w *Writer) ensureRoom(dataLength uint32) error {
	page := w.journal.page
	need := frameHeaderSize + dataLength
	if need > page.addressBorder()-pageHeaderSize {
		return newProtocolErr("frame too large for page")
	}
	cur := w.journal.CurrentFrame()
	if cur.offset+need > page.addressBorder() {
		if err := w.writePageEnd(cur); err != nil {
			return err
		}
		if err := w.journal.loadPage(page.PageID + 1); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writePageEnd(f Frame) error {
	now := time.Now().UnixNano()
	f.setHeaderLength(frameHeaderSize)
	f.setMsgType(model.TagPageEnd)
	f.setSource(w.journal.loc.UID)
	f.setDest(w.journal.destID)
	f.setGenTime(now)
	f.setTriggerTime(now)
	f.commit(0)
	w.journal.page.setLastFramePosition(f.offset)
	w.journal.pageFrameNum++
	return nil
}

// WriteFixed encodes a FIXED message via unsafe memcpy and writes it.
func WriteFixed[T model.Fixed](w *Writer, dest uint32, v *T) error {
	return w.Write((*v).MsgTag(), dest, model.EncodeFixed(v))
}
