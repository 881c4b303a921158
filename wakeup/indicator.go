// Package wakeup implements the blocking wakeup plane alongside the
// journal data plane (spec §4.5): an eventfd-class counter per writer
// stream and an epoll-class Observer a consumer blocks on instead of
// polling every joined stream.
package wakeup

import (
	"encoding/binary"

	"golang.org/x/sys/unix"
)

// Key identifies one writer's wakeup counter, matching the (source_uid,
// dest_id) pair stamped into every frame that counter corresponds to.
type Key struct {
	SourceUID uint32
	DestID    uint32
}

// Indicator wraps a single eventfd counter. A writer posts to it once per
// CloseFrame; a consumer's Observer polls or epolls its descriptor.
type Indicator struct {
	key Key
	fd  int
}

// NewIndicator creates a fresh, process-local eventfd counter. The
// supervisor creates one per stream (via Registry.GetOrCreate) and shares
// the descriptor with role processes via the FDS env var or the SCM_RIGHTS
// fallback (spec §6.2).
func NewIndicator(key Key) (*Indicator, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return nil, err
	}
	return &Indicator{key: key, fd: fd}, nil
}

// IndicatorFromFD wraps an already-open eventfd descriptor, eg one
// inherited via the FDS env var or received over SCM_RIGHTS.
func IndicatorFromFD(key Key, fd int) *Indicator {
	return &Indicator{key: key, fd: fd}
}

// Key returns the (source_uid, dest_id) this counter corresponds to.
func (ind *Indicator) Key() Key { return ind.key }

// Fd returns the raw eventfd descriptor, for epoll registration.
func (ind *Indicator) Fd() int { return ind.fd }

// Post increments the counter. The writer calls this immediately after
// CloseFrame commits, so the post happens-after the length store a reader
// is waiting on (spec §4.5 ordering guarantee).
func (ind *Indicator) Post() error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], 1)
	_, err := unix.Write(ind.fd, buf[:])
	if err != nil && err != unix.EAGAIN {
		return err
	}
	return nil
}

// drain consumes the counter's current value. It never fails on EAGAIN:
// a level-triggered epoll wakeup can race another goroutine already
// having drained it.
func (ind *Indicator) drain() {
	var buf [8]byte
	_, _ = unix.Read(ind.fd, buf[:])
}

// Close releases the underlying descriptor.
func (ind *Indicator) Close() error { return unix.Close(ind.fd) }
