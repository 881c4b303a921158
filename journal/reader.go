package journal

import "sync"

type streamKey struct {
	locUID uint32
	destID uint32
}

// Reader merges every stream it has Join'd into a single time-ordered feed
// by linear-scanning for the minimum gen_time across streams with data
// (spec §4.4). A Reader is not safe for concurrent CurrentFrame/Next calls
// from more than one goroutine at a time; Join/Disjoin may race with them.
type Reader struct {
	locator *Locator
	lazy    bool

	mu      sync.Mutex
	streams map[streamKey]*Journal

	last *Journal
}

// NewReader constructs an empty Reader. lazy controls whether joined
// journals' pages are left to ordinary OS paging (true) or mlocked and
// madvised for random access (false) — see Page.lazy.
func NewReader(locator *Locator, lazy bool) *Reader {
	return &Reader{locator: locator, lazy: lazy, streams: make(map[streamKey]*Journal)}
}

// Join adds (loc, destID) to the merged feed, starting from the beginning
// of the stream. Joining the same stream twice is a no-op.
func (r *Reader) Join(loc *Location, destID uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := streamKey{loc.UID, destID}
	if _, ok := r.streams[key]; ok {
		return nil
	}
	j := NewJournal(r.locator, loc, destID, false, r.lazy)
	if err := j.SeekToTime(0); err != nil {
		return err
	}
	r.streams[key] = j
	return nil
}

// Disjoin removes a single (loc, destID) stream from the merged feed.
func (r *Reader) Disjoin(loc *Location, destID uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := streamKey{loc.UID, destID}
	j, ok := r.streams[key]
	if !ok {
		return nil
	}
	delete(r.streams, key)
	if r.last == j {
		r.last = nil
	}
	return j.Close()
}

// DisjoinChannel removes every destination stream joined under loc, e.g.
// when a strategy drops an entire data channel instead of one broker leg.
func (r *Reader) DisjoinChannel(loc *Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var firstErr error
	for key, j := range r.streams {
		if key.locUID != loc.UID {
			continue
		}
		if err := j.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(r.streams, key)
		if r.last == j {
			r.last = nil
		}
	}
	return firstErr
}

// CurrentFrame returns the not-yet-consumed frame with the smallest
// gen_time across every joined stream, and false if none has data yet.
func (r *Reader) CurrentFrame() (Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best Frame
	var bestJournal *Journal
	found := false
	for _, j := range r.streams {
		f := j.CurrentFrame()
		if !f.HasData() {
			continue
		}
		if !found || f.GenTime() < best.GenTime() {
			best, bestJournal, found = f, j, true
		}
	}
	r.last = bestJournal
	return best, found
}

// Next advances past whichever stream produced the last CurrentFrame.
func (r *Reader) Next() error {
	if _, ok := r.CurrentFrame(); !ok {
		return nil
	}
	r.mu.Lock()
	j := r.last
	r.mu.Unlock()
	if j == nil {
		return nil
	}
	return j.Next()
}

// DataAvailable reports whether any joined stream has an unread frame.
func (r *Reader) DataAvailable() bool {
	_, ok := r.CurrentFrame()
	return ok
}

// SeekToTime repositions every joined stream to the same logical time,
// e.g. when replaying from a checkpoint.
func (r *Reader) SeekToTime(t int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.streams {
		if err := j.SeekToTime(t); err != nil {
			return err
		}
	}
	return nil
}

// Close releases every joined stream's page mapping.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var firstErr error
	for key, j := range r.streams {
		if err := j.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(r.streams, key)
	}
	r.last = nil
	return firstErr
}
