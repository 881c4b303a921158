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

type fakeDataService struct {
	started    bool
	beginTime  int64
	subscribed []model.InstrumentKey
}

func (f *fakeDataService) Start(beginTime int64) error {
	f.started = true
	f.beginTime = beginTime
	return nil
}

func (f *fakeDataService) Subscribe(id uint32, keys []model.InstrumentKey) error {
	f.subscribed = keys
	return nil
}

func TestMDEngineForwardsTradingStartAndSubscribe(t *testing.T) {
	locator := journal.NewLocator(t.TempDir())
	loc := journal.NewLocation(model.ModeLive, model.ModuleMD, "group", "req")

	w, err := journal.NewWriter(locator, loc, 0)
	require.NoError(t, err)
	defer w.Close()

	var start model.TradingStart
	start.BeginTime = 42
	require.NoError(t, journal.WriteFixed(w, 0, &start))

	var key model.InstrumentKey
	key.SetExchangeID("SHFE")
	key.SetInstrumentID("cu2409")
	sub := model.MDSubscribe{ID: 7, Keys: []model.InstrumentKey{key}}
	require.NoError(t, w.Write(sub.MsgTag(), 0, sub.Encode()))

	r := journal.NewReader(locator, true)
	require.NoError(t, r.Join(loc, 0))
	defer r.Close()

	o, err := wakeup.NewObserver(true)
	require.NoError(t, err)
	defer o.Close()

	svc := &fakeDataService{}
	md := NewMDEngine(map[uint32]DataService{7: svc})
	e := reactor.NewEventEngine(r, o, time.Millisecond)
	require.NoError(t, e.Step(md))

	require.True(t, svc.started)
	require.Equal(t, int64(42), svc.beginTime)
	require.Len(t, svc.subscribed, 1)
	require.Equal(t, "cu2409", svc.subscribed[0].GetInstrumentID())
}
