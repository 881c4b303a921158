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

type fakeTradeService struct {
	started  bool
	inserted []model.OrderInput
}

func (f *fakeTradeService) Start() error { f.started = true; return nil }
func (f *fakeTradeService) InsertOrder(in model.OrderInput) error {
	f.inserted = append(f.inserted, in)
	return nil
}
func (f *fakeTradeService) CancelOrder(c model.OrderCancel) error   { return nil }
func (f *fakeTradeService) ReqAccountInfo(r model.AccountReq) error { return nil }

func TestTDEngineDropsOrderUntilBrokerReady(t *testing.T) {
	const locationUID = 100
	const accountUID = 5

	locator := journal.NewLocator(t.TempDir())
	reqLoc := journal.NewLocation(model.ModeLive, model.ModuleTD, "group", "acct")
	respLoc := journal.NewLocation(model.ModeLive, model.ModuleTD, "group", "response")

	reqW, err := journal.NewWriter(locator, reqLoc, accountUID)
	require.NoError(t, err)
	defer reqW.Close()

	respW, err := journal.NewWriter(locator, respLoc, 0)
	require.NoError(t, err)
	defer respW.Close()

	orderID := (uint64(accountUID^locationUID) << 32) | 1

	var in model.OrderInput
	in.OrderID = orderID
	in.SetInstrumentID("cu2409")
	require.NoError(t, journal.WriteFixed(reqW, accountUID, &in))

	var bsu model.BrokerStateUpdate
	bsu.AccountUID = accountUID
	bsu.State = model.BrokerReady
	require.NoError(t, journal.WriteFixed(reqW, accountUID, &bsu))

	require.NoError(t, journal.WriteFixed(reqW, accountUID, &in))

	r := journal.NewReader(locator, true)
	require.NoError(t, r.Join(reqLoc, accountUID))
	defer r.Close()

	o, err := wakeup.NewObserver(true)
	require.NoError(t, err)
	defer o.Close()

	svc := &fakeTradeService{}
	td := NewTDEngine(locationUID, map[uint32]TradeService{accountUID: svc}, respW)
	e := reactor.NewEventEngine(r, o, time.Millisecond)
	require.NoError(t, e.Step(td))

	require.Len(t, svc.inserted, 1, "first order must be dropped before the broker reports ready")
	require.Equal(t, orderID, svc.inserted[0].OrderID)
}
