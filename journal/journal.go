package journal

import (
	"os"

	pkgerrors "github.com/pkg/errors"
)

// Journal binds (location, destination, is_writing, lazy) and tracks the
// current page and current frame cursor for a single append-only stream
// (spec §4.2). Writer and Reader both build on top of a Journal; reading
// consumers never mutate anything except their own cursor.
type Journal struct {
	locator *Locator
	loc     *Location
	destID  uint32
	writing bool
	lazy    bool

	page         *Page
	offset       uint32
	pageFrameNum uint64

	havePending   bool
	pendingPageID uint32
}

// NewJournal constructs an unopened Journal; call SeekToTime to position it
// (0 seeks to the start of the stream).
func NewJournal(locator *Locator, loc *Location, destID uint32, writing, lazy bool) *Journal {
	return &Journal{locator: locator, loc: loc, destID: destID, writing: writing, lazy: lazy}
}

// Location returns the journal's owning Location.
func (j *Journal) Location() *Location { return j.loc }

// Dest returns the journal's destination id.
func (j *Journal) Dest() uint32 { return j.destID }

// CurrentPage returns the page backing the current cursor, or nil if the
// stream has no data yet (the next page a writer will create).
func (j *Journal) CurrentPage() *Page { return j.page }

// CurrentFrame returns a view of the next unread frame. A committed
// PageEnd marker is never surfaced here: the cursor transparently rolls
// onto the next page first. If that page is one the writer hasn't created
// yet, the returned Frame reports HasData() == false (spec §4.8: treated
// as end-of-data, not an error) and the journal retries the load on every
// call until it appears.
func (j *Journal) CurrentFrame() Frame {
	if j.page == nil {
		j.tryLoadPending()
	}
	j.skipPageEnd()
	return Frame{page: j.page, offset: j.offset}
}

// skipPageEnd advances past any run of committed PageEnd markers the
// cursor currently sits on, rolling onto each next page in turn.
func (j *Journal) skipPageEnd() {
	for j.page != nil {
		f := Frame{page: j.page, offset: j.offset}
		if !f.isPageEnd() {
			return
		}
		if err := j.loadPage(j.page.PageID + 1); err != nil {
			return
		}
	}
}

func (j *Journal) tryLoadPending() {
	if !j.havePending {
		return
	}
	p, err := LoadPage(j.locator, j.loc, j.destID, j.pendingPageID, j.writing, j.lazy)
	if err != nil {
		return
	}
	j.page = p
	j.offset = p.firstFrameOffset()
	j.pageFrameNum = 0
	j.havePending = false
}

// Next advances past the current frame, which CurrentFrame guarantees is
// never a PageEnd marker, by current.FrameLength() bytes (spec §4.2). It
// should only be called once CurrentFrame().HasData() has been observed.
func (j *Journal) Next() error {
	if j.page == nil {
		return nil // nothing to advance; CurrentFrame will keep retrying.
	}
	cur := j.CurrentFrame()
	if cur.page == nil {
		return nil
	}
	j.offset += cur.FrameLength()
	j.pageFrameNum++
	j.skipPageEnd()
	return nil
}

// SeekToTime picks a page by begin_time with FindPageID (a scan from the
// newest page back, not a binary search), loads it, and advances until
// frame.gen_time > t (spec §4.2). t == 0 seeks to the start of the stream.
func (j *Journal) SeekToTime(t int64) error {
	pageID, err := FindPageID(j.locator, j.loc, j.destID, t)
	if err != nil {
		return err
	}
	if err := j.loadPage(pageID); err != nil {
		return err
	}
	for j.page != nil && j.page.IsFull() && j.page.EndTime() <= t {
		if err := j.loadPage(j.page.PageID + 1); err != nil {
			return err
		}
	}
	for j.CurrentFrame().HasData() && j.CurrentFrame().GenTime() <= t {
		if err := j.Next(); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the current page mapping, if any.
func (j *Journal) Close() error {
	if j.page != nil {
		err := j.page.Release()
		j.page = nil
		return err
	}
	return nil
}

// loadPage loads pageID as the journal's current page. In read mode, a
// page file that doesn't exist yet is not an error (spec §4.8): the
// journal enters a pending state and CurrentFrame retries the load lazily.
func (j *Journal) loadPage(pageID uint32) error {
	if j.page != nil && j.page.PageID == pageID {
		return nil
	}
	if j.page != nil {
		_ = j.page.Release()
		j.page = nil
	}
	p, err := LoadPage(j.locator, j.loc, j.destID, pageID, j.writing, j.lazy)
	if err != nil {
		if !j.writing && os.IsNotExist(pkgerrors.Cause(err)) {
			j.havePending = true
			j.pendingPageID = pageID
			return nil
		}
		return err
	}
	j.page = p
	j.offset = p.firstFrameOffset()
	j.pageFrameNum = 0
	j.havePending = false
	return nil
}
