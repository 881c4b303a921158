package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/qiubinglin/btrader-go/model"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	locator := NewLocator(t.TempDir())
	loc := NewLocation(model.ModeLive, model.ModuleStrategy, "group", "writer")

	w, err := NewWriter(locator, loc, 1)
	require.NoError(t, err)
	defer w.Close()

	in := model.TradingStart{BeginTime: 12345}
	require.NoError(t, WriteFixed(w, 1, &in))

	r := NewReader(locator, true)
	require.NoError(t, r.Join(loc, 1))
	defer r.Close()

	f, ok := r.CurrentFrame()
	require.True(t, ok)
	require.Equal(t, model.TagTradingStart, f.MsgType())

	out := model.DecodeFixed[model.TradingStart](f.Payload())
	require.Equal(t, in.BeginTime, out.BeginTime)

	require.NoError(t, r.Next())
	require.False(t, r.DataAvailable())
}

func TestWriterRollsOverToNextPage(t *testing.T) {
	locator := NewLocator(t.TempDir())
	loc := NewLocation(model.ModeLive, model.ModuleStrategy, "group", "writer")

	w, err := NewWriter(locator, loc, 1)
	require.NoError(t, err)
	defer w.Close()
	require.Equal(t, uint32(1), w.journal.page.PageID)

	// A payload sized so that only the trailing sentinel header still fits
	// after it forces the next OpenFrame to roll onto page 2.
	size := PageSizeFor(loc.Module)
	fill := size - pageHeaderSize - 2*frameHeaderSize
	require.NoError(t, w.Write(model.TagTermination, 1, make([]byte, fill)))
	require.Equal(t, uint32(1), w.journal.page.PageID)

	require.NoError(t, w.Write(model.TagTermination, 1, []byte("rolled")))
	require.Equal(t, uint32(2), w.journal.page.PageID)

	r := NewReader(locator, true)
	require.NoError(t, r.Join(loc, 1))
	defer r.Close()

	f, ok := r.CurrentFrame()
	require.True(t, ok)
	require.Equal(t, fill, f.DataLength())
	require.NoError(t, r.Next())

	f, ok = r.CurrentFrame()
	require.True(t, ok)
	require.Equal(t, "rolled", string(f.Payload()))
}

func TestReaderMergesStreamsByGenTime(t *testing.T) {
	locator := NewLocator(t.TempDir())
	locA := NewLocation(model.ModeLive, model.ModuleMD, "group", "a")
	locB := NewLocation(model.ModeLive, model.ModuleMD, "group", "b")

	wA, err := NewWriter(locator, locA, 1)
	require.NoError(t, err)
	defer wA.Close()
	wB, err := NewWriter(locator, locB, 1)
	require.NoError(t, err)
	defer wB.Close()

	base := time.Now().UnixNano()
	writeMarked(t, wA, base+20, "a-late")
	writeMarked(t, wB, base+10, "b-early")
	writeMarked(t, wA, base+30, "a-later")

	r := NewReader(locator, true)
	require.NoError(t, r.Join(locA, 1))
	require.NoError(t, r.Join(locB, 1))
	defer r.Close()

	var order []string
	for r.DataAvailable() {
		f, ok := r.CurrentFrame()
		require.True(t, ok)
		order = append(order, string(f.Payload()))
		require.NoError(t, r.Next())
	}
	require.Equal(t, []string{"b-early", "a-late", "a-later"}, order)
}

func writeMarked(t *testing.T, w *Writer, genTime int64, payload string) {
	t.Helper()
	f, err := w.OpenFrame(model.TagTermination, 1, uint32(len(payload)))
	require.NoError(t, err)
	f.setGenTime(genTime)
	copy(f.Payload(), payload)
	require.NoError(t, w.CloseFrame())
}

func TestReaderDisjoinChannel(t *testing.T) {
	locator := NewLocator(t.TempDir())
	locA := NewLocation(model.ModeLive, model.ModuleMD, "group", "a")

	wA, err := NewWriter(locator, locA, 1)
	require.NoError(t, err)
	defer wA.Close()
	wA2, err := NewWriter(locator, locA, 2)
	require.NoError(t, err)
	defer wA2.Close()

	require.NoError(t, wA.Write(model.TagTermination, 1, []byte("x")))
	require.NoError(t, wA2.Write(model.TagTermination, 2, []byte("y")))

	r := NewReader(locator, true)
	require.NoError(t, r.Join(locA, 1))
	require.NoError(t, r.Join(locA, 2))
	require.NoError(t, r.DisjoinChannel(locA))
	require.False(t, r.DataAvailable())
}

func TestReaderPendingStreamHasNoData(t *testing.T) {
	locator := NewLocator(t.TempDir())
	loc := NewLocation(model.ModeLive, model.ModuleMD, "group", "never-written")

	r := NewReader(locator, true)
	require.NoError(t, r.Join(loc, 1))
	defer r.Close()

	require.False(t, r.DataAvailable())
}
