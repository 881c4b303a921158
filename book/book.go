// Package book implements the compute engine's in-memory bookkeeping
// aggregate: positions, orders, trades, and account state folded from
// trading responses (spec §3.4). None of it is persisted; it is rebuilt
// from PositionBook/Asset/AssetMargin snapshots and Trade fills as the
// engine runs.
package book

import (
	"github.com/shopspring/decimal"

	"github.com/qiubinglin/btrader-go/model"
)

// Position is the Book's decimal-precision view of one (instrument,
// direction) holding. Wire payloads carry float64 (spec §3.2's frame
// format must stay memcpy-able), so conversion to decimal.Decimal happens
// only here, at the Book's ingestion boundary — repeated weighted-average
// cost updates no longer compound float64 rounding error.
type Position struct {
	InstrumentUID   uint32
	Direction       model.Direction
	Volume          decimal.Decimal
	YesterdayVolume decimal.Decimal
	CostPrice       decimal.Decimal
	UnrealizedPnl   decimal.Decimal
	UpdateTime      int64
	TradingDay      string
}

// Book is engine-local (spec §3.5: touched only by the reactor goroutine
// that owns it) and does no locking of its own.
type Book struct {
	Long  map[uint32]*Position
	Short map[uint32]*Position

	Orders      map[uint64]model.Order
	Trades      map[uint64]model.Trade
	OrderInputs map[uint64]model.OrderInput
	Commissions map[uint32]decimal.Decimal
	Instruments map[uint32]model.Instrument

	Asset       model.Asset
	AssetMargin model.AssetMargin
}

// New constructs an empty Book.
func New() *Book {
	return &Book{
		Long:        make(map[uint32]*Position),
		Short:       make(map[uint32]*Position),
		Orders:      make(map[uint64]model.Order),
		Trades:      make(map[uint64]model.Trade),
		OrderInputs: make(map[uint64]model.OrderInput),
		Commissions: make(map[uint32]decimal.Decimal),
		Instruments: make(map[uint32]model.Instrument),
	}
}

// directionOf derives which leg of the book a fill targets from its
// side and open/close intent: buying to open or selling to close both
// target the Long leg; the other two combinations target Short.
func directionOf(side model.Side, offset model.Offset) model.Direction {
	opening := offset == model.OffsetOpen
	buying := side == model.SideBuy
	if buying == opening {
		return model.DirectionLong
	}
	return model.DirectionShort
}

func (b *Book) legs(d model.Direction) map[uint32]*Position {
	if d == model.DirectionShort {
		return b.Short
	}
	return b.Long
}

// ApplyOrderInput records an outbound order request under the id the
// Executor stamped at submission (spec §4.7.3).
func (b *Book) ApplyOrderInput(in model.OrderInput) { b.OrderInputs[in.OrderID] = in }

// ApplyOrder records a broker's order acknowledgement.
func (b *Book) ApplyOrder(o model.Order) { b.Orders[o.OrderID] = o }

// ApplyTrade folds a fill into the position it targets using spec §3.4's
// weighted-average-cost rule: new_cost = (old_volume*old_cost +
// trade_volume*trade_price) / (old_volume+trade_volume), new_volume =
// old_volume + trade_volume.
func (b *Book) ApplyTrade(t model.Trade) {
	b.Trades[t.TradeID] = t

	uid := model.HashPair(t.GetExchangeID(), t.GetInstrumentID())
	dir := directionOf(t.Side, t.Offset)
	legs := b.legs(dir)

	price := decimal.NewFromFloat(t.Price)
	vol := decimal.NewFromFloat(t.Volume)

	pos, ok := legs[uid]
	if !ok {
		pos = &Position{InstrumentUID: uid, Direction: dir}
		legs[uid] = pos
	}

	newVolume := pos.Volume.Add(vol)
	if newVolume.IsZero() {
		pos.CostPrice = decimal.Zero
	} else {
		numerator := pos.Volume.Mul(pos.CostPrice).Add(vol.Mul(price))
		pos.CostPrice = numerator.Div(newVolume)
	}
	pos.Volume = newVolume
	pos.UpdateTime = t.TradeTime
}

// ApplyBar marks every position on bar's instrument to market: for
// direction d, unrealized_pnl = volume * (bar.close - cost_price) *
// sign(d) (spec §3.4).
func (b *Book) ApplyBar(bar model.Bar) {
	uid := model.HashPair(bar.GetExchangeID(), bar.GetInstrumentID())
	closePrice := decimal.NewFromFloat(bar.Close)
	for _, legs := range [...]map[uint32]*Position{b.Long, b.Short} {
		pos, ok := legs[uid]
		if !ok {
			continue
		}
		sign := decimal.NewFromInt(pos.Direction.Sign())
		pos.UnrealizedPnl = pos.Volume.Mul(closePrice.Sub(pos.CostPrice)).Mul(sign)
	}
}

// ApplyAsset replaces the account asset snapshot, returning the value it
// replaced so the reactor can notify the strategy with the old/new pair
// (spec §4.6).
func (b *Book) ApplyAsset(a model.Asset) model.Asset {
	old := b.Asset
	b.Asset = a
	return old
}

// ApplyAssetMargin replaces the account margin snapshot, returning the
// value it replaced.
func (b *Book) ApplyAssetMargin(m model.AssetMargin) model.AssetMargin {
	old := b.AssetMargin
	b.AssetMargin = m
	return old
}

// ApplyPositionBook wholesale-replaces the Book's positions from a synced
// snapshot, converting each wire Position to the Book's decimal form.
func (b *Book) ApplyPositionBook(pb model.PositionBook) {
	b.Long = convertLegs(pb.Long)
	b.Short = convertLegs(pb.Short)
}

func convertLegs(src map[uint32]model.Position) map[uint32]*Position {
	out := make(map[uint32]*Position, len(src))
	for uid, p := range src {
		out[uid] = &Position{
			InstrumentUID:   uid,
			Direction:       p.Direction,
			Volume:          decimal.NewFromFloat(p.Volume),
			YesterdayVolume: decimal.NewFromFloat(p.YesterdayVolume),
			CostPrice:       decimal.NewFromFloat(p.CostPrice),
			UnrealizedPnl:   decimal.NewFromFloat(p.UnrealizedPnl),
			UpdateTime:      p.UpdateTime,
			TradingDay:      p.GetTradingDay(),
		}
	}
	return out
}

// AssetPrice is the closed-form valuation of spec §3.4: asset.avail plus
// every position's cost*volume plus its unrealized P&L.
func (b *Book) AssetPrice() decimal.Decimal {
	total := decimal.NewFromFloat(b.Asset.Avail)
	for _, legs := range [...]map[uint32]*Position{b.Long, b.Short} {
		for _, pos := range legs {
			total = total.Add(pos.CostPrice.Mul(pos.Volume)).Add(pos.UnrealizedPnl)
		}
	}
	return total
}
