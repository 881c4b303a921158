package book

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/qiubinglin/btrader-go/model"
)

func newTrade(id uint64, exch, inst string, price, volume float64, side model.Side, offset model.Offset) model.Trade {
	var t model.Trade
	t.TradeID = id
	t.SetExchangeID(exch)
	t.SetInstrumentID(inst)
	t.Price = price
	t.Volume = volume
	t.Side = side
	t.Offset = offset
	return t
}

func TestApplyTradeWeightedAverageCost(t *testing.T) {
	b := New()
	b.ApplyTrade(newTrade(1, "SHFE", "cu2409", 100, 2, model.SideBuy, model.OffsetOpen))
	b.ApplyTrade(newTrade(2, "SHFE", "cu2409", 110, 3, model.SideBuy, model.OffsetOpen))

	uid := model.HashPair("SHFE", "cu2409")
	pos := b.Long[uid]
	require.NotNil(t, pos)

	wantVolume := decimal.NewFromInt(5)
	wantCost := decimal.NewFromInt(100).Mul(decimal.NewFromInt(2)).
		Add(decimal.NewFromInt(110).Mul(decimal.NewFromInt(3))).
		Div(wantVolume)

	require.True(t, pos.Volume.Equal(wantVolume))
	require.True(t, pos.CostPrice.Equal(wantCost))
}

func TestApplyBarMarksUnrealizedPnl(t *testing.T) {
	b := New()
	b.ApplyTrade(newTrade(1, "SHFE", "cu2409", 100, 2, model.SideBuy, model.OffsetOpen))
	b.ApplyTrade(newTrade(2, "SHFE", "cu2409", 50, 1, model.SideSell, model.OffsetOpen))

	var bar model.Bar
	bar.SetExchangeID("SHFE")
	bar.SetInstrumentID("cu2409")
	bar.Close = 120

	b.ApplyBar(bar)

	uid := model.HashPair("SHFE", "cu2409")
	long := b.Long[uid]
	short := b.Short[uid]
	require.NotNil(t, long)
	require.NotNil(t, short)

	// Long: volume * (close - cost) * +1 = 2 * (120 - 100) = 40.
	require.True(t, long.UnrealizedPnl.Equal(decimal.NewFromInt(40)), long.UnrealizedPnl.String())
	// Short: volume * (close - cost) * -1 = 1 * (120 - 50) * -1 = -70.
	require.True(t, short.UnrealizedPnl.Equal(decimal.NewFromInt(-70)), short.UnrealizedPnl.String())
}

func TestAssetPriceClosedForm(t *testing.T) {
	b := New()
	b.ApplyAsset(model.Asset{Avail: 1000})
	b.ApplyTrade(newTrade(1, "SHFE", "cu2409", 100, 2, model.SideBuy, model.OffsetOpen))

	var bar model.Bar
	bar.SetExchangeID("SHFE")
	bar.SetInstrumentID("cu2409")
	bar.Close = 110
	b.ApplyBar(bar)

	// avail(1000) + cost(100)*volume(2) + unrealized_pnl(2*(110-100)=20) = 1220.
	require.True(t, b.AssetPrice().Equal(decimal.NewFromInt(1220)), b.AssetPrice().String())
}

func TestApplyPositionBookReplacesLegs(t *testing.T) {
	b := New()
	b.ApplyTrade(newTrade(1, "SHFE", "cu2409", 100, 2, model.SideBuy, model.OffsetOpen))

	var p model.Position
	p.SetExchangeID("DCE")
	p.SetInstrumentID("i2409")
	p.Direction = model.DirectionLong
	p.Volume = 5
	p.CostPrice = 4000

	uid := model.HashPair("DCE", "i2409")
	b.ApplyPositionBook(model.PositionBook{Long: map[uint32]model.Position{uid: p}})

	require.Len(t, b.Long, 1)
	pos := b.Long[uid]
	require.NotNil(t, pos)
	require.True(t, pos.Volume.Equal(decimal.NewFromInt(5)))
	require.True(t, pos.CostPrice.Equal(decimal.NewFromInt(4000)))
}
