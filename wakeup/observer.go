package wakeup

import (
	"time"

	"golang.org/x/sys/unix"

	"github.com/qiubinglin/btrader-go/journal"
)

// Observer aggregates Indicators with epoll so a consumer can block until
// at least one subscribed stream has new data instead of spinning on
// Reader.DataAvailable (spec §4.5). In polling build mode it degrades to
// exactly that spin, matching the spec's compile-time HP switch.
type Observer struct {
	epfd     int
	pollOnly bool
	byFd     map[int32]*Indicator
}

// NewObserver constructs an Observer. pollOnly corresponds to the spec's
// compile-time polling build: true skips epoll entirely and makes Wait a
// non-blocking check, for environments where epoll isn't available or
// where the lower latency of a tight poll loop is preferred.
func NewObserver(pollOnly bool) (*Observer, error) {
	o := &Observer{pollOnly: pollOnly, byFd: make(map[int32]*Indicator)}
	if pollOnly {
		return o, nil
	}
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	o.epfd = fd
	return o, nil
}

// Add enrolls ind so Wait will return once it has been posted to.
func (o *Observer) Add(ind *Indicator) error {
	o.byFd[int32(ind.fd)] = ind
	if o.pollOnly {
		return nil
	}
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(ind.fd)}
	return unix.EpollCtl(o.epfd, unix.EPOLL_CTL_ADD, ind.fd, &ev)
}

// Remove drops ind from the aggregate wait.
func (o *Observer) Remove(ind *Indicator) error {
	delete(o.byFd, int32(ind.fd))
	if o.pollOnly {
		return nil
	}
	return unix.EpollCtl(o.epfd, unix.EPOLL_CTL_DEL, ind.fd, nil)
}

// Wait blocks up to timeout for at least one enrolled Indicator to have
// been posted to, draining every counter that fired before returning, so
// a subsequent CurrentFrame call is guaranteed to see the committed frame
// (spec §4.5 ordering guarantee). A negative timeout blocks indefinitely.
func (o *Observer) Wait(timeout time.Duration) (bool, error) {
	if o.pollOnly {
		return len(o.byFd) > 0, nil
	}
	if len(o.byFd) == 0 {
		return false, nil
	}
	events := make([]unix.EpollEvent, len(o.byFd))
	msec := -1
	if timeout >= 0 {
		msec = int(timeout / time.Millisecond)
	}
	n, err := unix.EpollWait(o.epfd, events, msec)
	if err != nil {
		if err == unix.EINTR {
			return false, nil
		}
		return false, err
	}
	for i := 0; i < n; i++ {
		if ind, ok := o.byFd[events[i].Fd]; ok {
			ind.drain()
		}
	}
	return n > 0, nil
}

// Close releases the epoll descriptor, if one was created.
func (o *Observer) Close() error {
	if o.pollOnly {
		return nil
	}
	return unix.Close(o.epfd)
}

// ObserveHelper blocks until r has an unread frame or timeout elapses,
// using o's wakeup plane when available and falling back to a tight poll
// of Reader.DataAvailable in polling mode.
func ObserveHelper(o *Observer, r *journal.Reader, timeout time.Duration) (bool, error) {
	if o.pollOnly {
		deadline := time.Now().Add(timeout)
		for {
			if r.DataAvailable() {
				return true, nil
			}
			if timeout >= 0 && time.Now().After(deadline) {
				return false, nil
			}
			time.Sleep(time.Millisecond)
		}
	}
	if _, err := o.Wait(timeout); err != nil {
		return false, err
	}
	return r.DataAvailable(), nil
}
