package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/qiubinglin/btrader-go/journal"
	"github.com/qiubinglin/btrader-go/model"
	"github.com/qiubinglin/btrader-go/reactor"
	"github.com/qiubinglin/btrader-go/wakeup"
)

type recordingStrategy struct {
	exec      Executor
	bars      []model.Bar
	trades    []model.Trade
	tradeDays []string
}

func (s *recordingStrategy) OnSetup(ex Executor)                               { s.exec = ex }
func (s *recordingStrategy) OnBar(source uint32, bar model.Bar)                { s.bars = append(s.bars, bar) }
func (s *recordingStrategy) OnQuote(source uint32, q model.Quote)              {}
func (s *recordingStrategy) OnEntrust(source uint32, e model.Entrust)          {}
func (s *recordingStrategy) OnTransaction(source uint32, tr model.Transaction) {}
func (s *recordingStrategy) OnTrade(source uint32, t model.Trade)              { s.trades = append(s.trades, t) }
func (s *recordingStrategy) OnOrder(source uint32, o model.Order)              {}
func (s *recordingStrategy) OnTradingDay(day string)                          { s.tradeDays = append(s.tradeDays, day) }
func (s *recordingStrategy) OnAsset(old, current model.Asset)                 {}
func (s *recordingStrategy) OnAssetMargin(old, current model.AssetMargin)     {}
func (s *recordingStrategy) OnBrokerStateUpdate(accountUID uint32, state model.BrokerState) {
}
func (s *recordingStrategy) OnDeregister(locationUID uint32)            {}
func (s *recordingStrategy) OnCustomData(tag model.Tag, payload []byte) {}

func TestCPEngineFoldsTradingDayAcrossMDAccounts(t *testing.T) {
	locator := journal.NewLocator(t.TempDir())
	loc := journal.NewLocation(model.ModeLive, model.ModuleStrategy, "group", "feed")

	w, err := journal.NewWriter(locator, loc, 0)
	require.NoError(t, err)
	defer w.Close()

	var bar model.Bar
	bar.SetInstrumentID("cu2409")
	bar.Close = 99
	require.NoError(t, journal.WriteFixed(w, 0, &bar))

	var td model.TradingDay
	td.SetDate("20260731")
	require.NoError(t, journal.WriteFixed(w, 0, &td))
	require.NoError(t, journal.WriteFixed(w, 0, &td))

	r := journal.NewReader(locator, true)
	require.NoError(t, r.Join(loc, 0))
	defer r.Close()

	o, err := wakeup.NewObserver(true)
	require.NoError(t, err)
	defer o.Close()

	strat := &recordingStrategy{}
	cp := NewCPEngine(1, strat, map[uint32]*journal.Writer{}, w, 2)
	e := reactor.NewEventEngine(r, o, time.Millisecond)
	require.NoError(t, e.Step(cp))

	require.Len(t, strat.bars, 1)
	require.Equal(t, "cu2409", strat.bars[0].GetInstrumentID())
	require.Len(t, strat.tradeDays, 1, "two TradingDay messages must fold into a single notification with mdAccountCount=2")
}

func TestCPEngineInsertOrderStampsOrderID(t *testing.T) {
	locator := journal.NewLocator(t.TempDir())
	loc := journal.NewLocation(model.ModeLive, model.ModuleTD, "group", "acct")

	w, err := journal.NewWriter(locator, loc, 5)
	require.NoError(t, err)
	defer w.Close()

	strat := &recordingStrategy{}
	cp := NewCPEngine(1, strat, map[uint32]*journal.Writer{5: w}, nil, 0)
	strat.OnSetup(cp)

	var in model.OrderInput
	in.SetInstrumentID("cu2409")
	in.Volume = 1
	orderID, err := cp.InsertOrder(5, in)
	require.NoError(t, err)
	require.NotZero(t, orderID)
	require.Contains(t, cp.Book().OrderInputs, orderID)
}

func TestCPEngineInsertOrderAssignsDistinctOrderIDsOnSamePage(t *testing.T) {
	locator := journal.NewLocator(t.TempDir())
	loc := journal.NewLocation(model.ModeLive, model.ModuleTD, "group", "acct")

	w, err := journal.NewWriter(locator, loc, 5)
	require.NoError(t, err)
	defer w.Close()

	strat := &recordingStrategy{}
	cp := NewCPEngine(loc.UID, strat, map[uint32]*journal.Writer{5: w}, nil, 0)
	strat.OnSetup(cp)

	var first model.OrderInput
	first.SetInstrumentID("cu2409")
	first.Volume = 1
	firstID, err := cp.InsertOrder(5, first)
	require.NoError(t, err)

	var second model.OrderInput
	second.SetInstrumentID("cu2409")
	second.Volume = 2
	secondID, err := cp.InsertOrder(5, second)
	require.NoError(t, err)

	require.NotEqual(t, firstID, secondID, "two orders written to the same page must not collide on order_id")
	require.Contains(t, cp.Book().OrderInputs, firstID)
	require.Contains(t, cp.Book().OrderInputs, secondID)

	require.Equal(t, uint32(5), uint32(firstID>>32)^cp.locationUID, "account uid must be recoverable from the first order's order_id")
	require.Equal(t, uint32(5), uint32(secondID>>32)^cp.locationUID, "account uid must be recoverable from the second order's order_id")
}
