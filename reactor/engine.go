package reactor

import (
	"time"

	"golang.org/x/sys/unix"

	"github.com/qiubinglin/btrader-go/journal"
	"github.com/qiubinglin/btrader-go/model"
	"github.com/qiubinglin/btrader-go/wakeup"
)

// SteadyNowNanos samples CLOCK_MONOTONIC, whose origin is fixed at boot
// and is therefore comparable across every process on the host (spec §9's
// two-clock design; safe because spec §1 scopes this module to a single
// host). A TimeReset mark's TriggerTime must be one of these readings,
// never a wall-clock timestamp, or a receiving engine's reconstructed
// now_in_nano() will drift by whatever the two clocks have diverged by.
func SteadyNowNanos() int64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return 0
	}
	return unix.TimespecToNsec(ts)
}

// Reactor is implemented by each engine role (MD, TD, CP) to declare its
// subscriptions and any per-iteration hook (spec §4.6).
type Reactor interface {
	// OnSetup runs once before React, for anything that must happen
	// before the first frame can be dispatched.
	OnSetup(e *EventEngine) error
	// React declares this reactor's filter/handler subscriptions via
	// EventEngine.On.
	React(e *EventEngine)
	// OnActive runs once per outer produce-loop iteration, whether or
	// not any stream currently has data — the hook timers are checked
	// from.
	OnActive(e *EventEngine)
}

type subscription struct {
	filter  Filter
	handler Handler
}

// EventEngine is the base every engine role embeds: it owns the merged
// Reader, the wakeup Observer, a set of writers keyed by destination id,
// and the produce loop of spec §4.6.
type EventEngine struct {
	cfg      any
	reader   *journal.Reader
	observer *wakeup.Observer
	writers  map[uint32]*journal.Writer

	subs []subscription

	live         bool
	nowEventTime int64
	endTime      int64
	pollInterval time.Duration

	wallBase   int64
	steadyBase int64
}

// NewEventEngine wires a Reader and Observer into a fresh EventEngine.
// pollInterval bounds how long a single ObserveHelper wait blocks before
// OnActive runs again, so timers fire even while no stream has data.
func NewEventEngine(reader *journal.Reader, observer *wakeup.Observer, pollInterval time.Duration) *EventEngine {
	e := &EventEngine{
		reader:       reader,
		observer:     observer,
		writers:      make(map[uint32]*journal.Writer),
		pollInterval: pollInterval,
		wallBase:     time.Now().UnixNano(),
		steadyBase:   SteadyNowNanos(),
	}
	e.On(IsTag(model.TagTimeReset), e.handleTimeReset)
	return e
}

// handleTimeReset adopts the clock base a TimeReset frame carries. The
// frame is payload-less: TimeReset rides entirely in the frame header,
// GenTime as the wall-clock sample OpenFrame stamped when the frame was
// opened and
// TriggerTime as the steady-clock sample the sender passed to Mark (spec
// §9; SPEC_FULL §4).
func (e *EventEngine) handleTimeReset(ev Event) {
	e.wallBase = ev.GenTime()
	e.steadyBase = ev.TriggerTime()
}

// NowInNano reconstructs wall-clock time from this engine's (wallBase,
// steadyBase) pair and the current steady-clock reading, avoiding the
// jumps a raw wall-clock sample could show across a TimeReset (spec §9
// "Timestamps"): now_in_nano() = base.system_ns + (steady_now -
// base.steady_ns).
func (e *EventEngine) NowInNano() int64 {
	return e.wallBase + (SteadyNowNanos() - e.steadyBase)
}

// SetCfg stores the engine's configuration blob for later retrieval by
// OnSetup/React implementations.
func (e *EventEngine) SetCfg(cfg any) { e.cfg = cfg }

// Cfg returns the configuration blob set by SetCfg.
func (e *EventEngine) Cfg() any { return e.cfg }

// SetEndTime bounds replay: once a frame's gen_time exceeds t, the
// produce loop stops instead of dispatching it. t <= 0 means unbounded.
func (e *EventEngine) SetEndTime(t int64) { e.endTime = t }

// NowEventTime is the largest gen_time observed so far — the engine's
// logical clock (spec §4.6).
func (e *EventEngine) NowEventTime() int64 { return e.nowEventTime }

// AddWriter registers a producer handle under destID.
func (e *EventEngine) AddWriter(destID uint32, w *journal.Writer) { e.writers[destID] = w }

// Writers returns every registered producer handle, keyed by destination.
func (e *EventEngine) Writers() map[uint32]*journal.Writer { return e.writers }

// GetWriter looks up the producer handle for destID.
func (e *EventEngine) GetWriter(destID uint32) (*journal.Writer, bool) {
	w, ok := e.writers[destID]
	return w, ok
}

// On registers a handler for every tag filter matches. Handlers run in
// registration order; more than one may match the same tag.
func (e *EventEngine) On(filter Filter, h Handler) {
	e.subs = append(e.subs, subscription{filter: filter, handler: h})
}

// Stop sets the liveness flag the produce loop checks at its next safe
// point (spec §5 cancellation).
func (e *EventEngine) Stop() { e.live = false }

func (e *EventEngine) dispatch(ev Event) {
	tag := ev.Tag()
	for _, s := range e.subs {
		if s.filter(tag) {
			s.handler(ev)
		}
	}
}

// Run calls r.OnSetup then r.React once, then enters the produce loop
// until Stop is called or SetEndTime's bound is crossed.
func (e *EventEngine) Run(r Reactor) error {
	if err := r.OnSetup(e); err != nil {
		return err
	}
	r.React(e)
	e.live = true
	for e.live {
		r.OnActive(e)
		avail, err := wakeup.ObserveHelper(e.observer, e.reader, e.pollInterval)
		if err != nil {
			return err
		}
		if !avail {
			continue
		}
		if done, err := e.processAvailable(); err != nil || done {
			return err
		}
	}
	return nil
}

// Step is Run's one-shot variant for tests: it runs setup, declares
// subscriptions, fires OnActive once, and drains whatever is already
// available without blocking.
func (e *EventEngine) Step(r Reactor) error {
	if err := r.OnSetup(e); err != nil {
		return err
	}
	r.React(e)
	e.live = true
	r.OnActive(e)
	_, err := e.processAvailable()
	return err
}

func (e *EventEngine) processAvailable() (stopped bool, err error) {
	for e.live && e.reader.DataAvailable() {
		f, ok := e.reader.CurrentFrame()
		if !ok {
			return false, nil
		}
		if e.endTime > 0 && f.GenTime() > e.endTime {
			e.live = false
			return true, nil
		}
		if f.GenTime() > e.nowEventTime {
			e.nowEventTime = f.GenTime()
		}
		e.dispatch(Event{Frame: f})
		if err := e.reader.Next(); err != nil {
			return true, err
		}
	}
	return false, nil
}
