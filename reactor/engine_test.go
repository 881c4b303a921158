package reactor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/qiubinglin/btrader-go/journal"
	"github.com/qiubinglin/btrader-go/model"
	"github.com/qiubinglin/btrader-go/wakeup"
)

type recordingReactor struct {
	bars []model.Bar
}

func (r *recordingReactor) OnSetup(e *EventEngine) error { return nil }

func (r *recordingReactor) React(e *EventEngine) {
	e.On(IsTag(model.TagBar), func(ev Event) {
		r.bars = append(r.bars, DecodeFixed[model.Bar](ev))
	})
}

func (r *recordingReactor) OnActive(e *EventEngine) {}

func TestEventEngineStepDispatchesAndAdvancesClock(t *testing.T) {
	locator := journal.NewLocator(t.TempDir())
	loc := journal.NewLocation(model.ModeLive, model.ModuleMD, "group", "feed")

	w, err := journal.NewWriter(locator, loc, 1)
	require.NoError(t, err)
	defer w.Close()

	var bar model.Bar
	bar.SetInstrumentID("cu2409")
	bar.Close = 123
	require.NoError(t, journal.WriteFixed(w, 1, &bar))

	r := journal.NewReader(locator, true)
	require.NoError(t, r.Join(loc, 1))
	defer r.Close()

	o, err := wakeup.NewObserver(true)
	require.NoError(t, err)
	defer o.Close()

	engine := NewEventEngine(r, o, 10*time.Millisecond)
	rec := &recordingReactor{}
	require.NoError(t, engine.Step(rec))

	require.Len(t, rec.bars, 1)
	require.Equal(t, "cu2409", rec.bars[0].GetInstrumentID())
	require.Greater(t, engine.NowEventTime(), int64(0))
}

func TestIsOverMaxTagMatchesOnlyCustomTags(t *testing.T) {
	filter := IsOverMaxTag()
	require.False(t, filter(model.TagBar))
	require.False(t, filter(model.TagTermination))
	require.True(t, filter(model.TagMaxSize))
	require.True(t, filter(model.TagMaxSize+5))
}
