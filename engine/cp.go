package engine

import (
	"fmt"
	"time"

	"github.com/qiubinglin/btrader-go/book"
	"github.com/qiubinglin/btrader-go/journal"
	"github.com/qiubinglin/btrader-go/model"
	"github.com/qiubinglin/btrader-go/reactor"
)

type timerEntry struct {
	at    int64
	fn    func()
	fired bool
}

type intervalEntry struct {
	interval int64
	next     int64
	fn       func()
}

// CPEngine hosts a Strategy and is its own Executor: it owns the Book,
// one order/account-request Writer per TD account, and the MD_REQ
// subscription Writer (spec §4.7.3).
type CPEngine struct {
	locationUID uint32
	book        *book.Book
	strategy    Strategy

	orderWriters map[uint32]*journal.Writer
	mdReqWriter  *journal.Writer

	mdAccountCount  int
	tradingDayCount int

	timers    []timerEntry
	intervals []intervalEntry
}

// NewCPEngine wires a CPEngine for strategy, addressing order/account-req
// writers by account uid and publishing subscriptions through mdReqWriter.
// mdAccountCount folds duplicate TradingDay announcements from every
// configured MD account down to one Strategy.OnTradingDay call.
func NewCPEngine(locationUID uint32, strategy Strategy, orderWriters map[uint32]*journal.Writer, mdReqWriter *journal.Writer, mdAccountCount int) *CPEngine {
	return &CPEngine{
		locationUID:    locationUID,
		book:           book.New(),
		strategy:       strategy,
		orderWriters:   orderWriters,
		mdReqWriter:    mdReqWriter,
		mdAccountCount: mdAccountCount,
	}
}

func (c *CPEngine) OnSetup(e *reactor.EventEngine) error {
	c.strategy.OnSetup(c)
	c.broadcastTimeReset(e)
	return nil
}

// broadcastTimeReset marks every stream this engine produces with a
// TimeReset frame carrying CP's just-sampled (wall, steady) base, so any MD
// or TD process that starts reading this session picks up a base instead of
// defaulting to its own process start time (spec §9 "per-process bases must
// be synchronizable"; SPEC_FULL §4).
func (c *CPEngine) broadcastTimeReset(e *reactor.EventEngine) {
	steady := reactor.SteadyNowNanos()
	for dest, w := range c.orderWriters {
		_ = w.Mark(model.TagTimeReset, dest, steady)
	}
	if c.mdReqWriter != nil {
		_ = c.mdReqWriter.Mark(model.TagTimeReset, c.locationUID, steady)
	}
}

func (c *CPEngine) React(e *reactor.EventEngine) {
	e.On(reactor.IsTag(model.TagTradingDay), func(ev reactor.Event) {
		td := reactor.DecodeFixed[model.TradingDay](ev)
		c.tradingDayCount++
		if c.mdAccountCount <= 0 || c.tradingDayCount%c.mdAccountCount == 0 {
			c.strategy.OnTradingDay(td.GetDate())
		}
	})

	e.On(reactor.IsTag(model.TagBar), func(ev reactor.Event) {
		bar := reactor.DecodeFixed[model.Bar](ev)
		c.book.ApplyBar(bar)
		c.strategy.OnBar(ev.Source(), bar)
	})

	e.On(reactor.IsTag(model.TagQuote), func(ev reactor.Event) {
		c.strategy.OnQuote(ev.Source(), reactor.DecodeFixed[model.Quote](ev))
	})

	e.On(reactor.IsTag(model.TagEntrust), func(ev reactor.Event) {
		c.strategy.OnEntrust(ev.Source(), reactor.DecodeFixed[model.Entrust](ev))
	})

	e.On(reactor.IsTag(model.TagTransaction), func(ev reactor.Event) {
		c.strategy.OnTransaction(ev.Source(), reactor.DecodeFixed[model.Transaction](ev))
	})

	e.On(reactor.IsTag(model.TagTrade), func(ev reactor.Event) {
		trade := reactor.DecodeFixed[model.Trade](ev)
		c.book.ApplyTrade(trade)
		c.strategy.OnTrade(ev.Source(), trade)
	})

	e.On(reactor.IsTag(model.TagOrder), func(ev reactor.Event) {
		order := reactor.DecodeFixed[model.Order](ev)
		c.book.ApplyOrder(order)
		c.strategy.OnOrder(ev.Source(), order)
	})

	e.On(reactor.IsTag(model.TagAsset), func(ev reactor.Event) {
		asset := reactor.DecodeFixed[model.Asset](ev)
		old := c.book.ApplyAsset(asset)
		c.strategy.OnAsset(old, asset)
	})

	e.On(reactor.IsTag(model.TagAssetMargin), func(ev reactor.Event) {
		margin := reactor.DecodeFixed[model.AssetMargin](ev)
		old := c.book.ApplyAssetMargin(margin)
		c.strategy.OnAssetMargin(old, margin)
	})

	e.On(reactor.IsTag(model.TagPositionBook), func(ev reactor.Event) {
		var pb model.PositionBook
		if err := pb.DecodeFrom(ev.Payload()); err != nil {
			return
		}
		c.book.ApplyPositionBook(pb)
	})

	e.On(reactor.IsTag(model.TagBrokerStateUpdate), func(ev reactor.Event) {
		bsu := reactor.DecodeFixed[model.BrokerStateUpdate](ev)
		c.strategy.OnBrokerStateUpdate(bsu.AccountUID, bsu.State)
	})

	e.On(reactor.IsTag(model.TagDeregister), func(ev reactor.Event) {
		dereg := reactor.DecodeFixed[model.Deregister](ev)
		c.strategy.OnDeregister(dereg.LocationUID)
	})

	e.On(reactor.IsTag(model.TagTermination), func(ev reactor.Event) {
		for dest, w := range c.orderWriters {
			_ = w.Mark(model.TagTermination, dest, ev.GenTime())
		}
		if c.mdReqWriter != nil {
			_ = c.mdReqWriter.Mark(model.TagTermination, c.locationUID, ev.GenTime())
		}
		e.Stop()
	})

	e.On(reactor.IsOverMaxTag(), func(ev reactor.Event) {
		c.strategy.OnCustomData(ev.Tag(), ev.Payload())
	})
}

// OnActive fires every timer and interval due at the current wall clock,
// so they run even when no stream currently has data to dispatch.
func (c *CPEngine) OnActive(e *reactor.EventEngine) {
	now := time.Now().UnixNano()

	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.fired && now >= t.at {
			t.fn()
			t.fired = true
			continue
		}
		live = append(live, t)
	}
	c.timers = live

	for i := range c.intervals {
		iv := &c.intervals[i]
		if now >= iv.next {
			iv.fn()
			iv.next = now + iv.interval
		}
	}
}

// Book returns the engine's live position/order/account aggregate.
func (c *CPEngine) Book() *book.Book { return c.book }

// InsertOrder opens an OrderInput frame on accountUID's stream, stamping
// order_id = writer.CurrentFrameUID() and insert_time = now before
// closing it, per spec §4.7.3.
func (c *CPEngine) InsertOrder(accountUID uint32, in model.OrderInput) (uint64, error) {
	w, ok := c.orderWriters[accountUID]
	if !ok {
		return 0, fmt.Errorf("engine: no order writer for account %d", accountUID)
	}
	in.OrderID = w.CurrentFrameUID()
	in.InsertTime = time.Now().UnixNano()
	if err := journal.WriteFixed(w, accountUID, &in); err != nil {
		return 0, err
	}
	c.book.ApplyOrderInput(in)
	return in.OrderID, nil
}

// CancelOrder recovers the account uid from order_id's upper 32 bits and
// writes an OrderCancel to that account's stream.
func (c *CPEngine) CancelOrder(orderID uint64, cancelTime int64) error {
	accountUID := uint32(orderID>>32) ^ c.locationUID
	w, ok := c.orderWriters[accountUID]
	if !ok {
		return fmt.Errorf("engine: no order writer for account %d", accountUID)
	}
	cancel := model.OrderCancel{OrderID: orderID, CancelTime: cancelTime}
	return journal.WriteFixed(w, accountUID, &cancel)
}

// ReqAccountInfo writes an AccountReq to accountUID's stream.
func (c *CPEngine) ReqAccountInfo(accountUID uint32, reqTime int64) error {
	w, ok := c.orderWriters[accountUID]
	if !ok {
		return fmt.Errorf("engine: no order writer for account %d", accountUID)
	}
	req := model.AccountReq{RequestTime: reqTime}
	return journal.WriteFixed(w, accountUID, &req)
}

// Subscribe publishes an MDSubscribe request addressed to mdAccountDest
// through the engine's shared MD_REQ writer.
func (c *CPEngine) Subscribe(mdAccountDest uint32, id uint32, keys []model.InstrumentKey) error {
	sub := model.MDSubscribe{ID: id, Keys: keys}
	return c.mdReqWriter.Write(sub.MsgTag(), mdAccountDest, sub.Encode())
}

// AddTimer schedules fn to run once OnActive observes the wall clock has
// reached at (nanoseconds since epoch).
func (c *CPEngine) AddTimer(at int64, fn func()) {
	c.timers = append(c.timers, timerEntry{at: at, fn: fn})
}

// AddTimeInterval schedules fn to run every interval nanoseconds,
// starting one interval from now.
func (c *CPEngine) AddTimeInterval(interval int64, fn func()) {
	c.intervals = append(c.intervals, intervalEntry{interval: interval, next: time.Now().UnixNano() + interval, fn: fn})
}

var _ Executor = (*CPEngine)(nil)
