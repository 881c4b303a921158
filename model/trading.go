package model

// OrderInput is a new-order request from a strategy to a TD account
// (spec §3.3, §4.7.3). OrderID and InsertTime are stamped by the
// Executor at submission time via Writer.CurrentFrameUID.
type OrderInput struct {
	OrderID      uint64
	InsertTime   int64
	InstrumentID [InstrumentIDLen]byte
	ExchangeID   [ExchangeIDLen]byte
	Price        float64
	Volume       float64
	Side         Side
	Offset       Offset
	OrderType    OrderType
}

func (OrderInput) MsgTag() Tag { return TagOrderInput }

func (o *OrderInput) SetInstrumentID(s string) { packString(o.InstrumentID[:], s) }
func (o OrderInput) GetInstrumentID() string   { return unpackString(o.InstrumentID[:]) }
func (o *OrderInput) SetExchangeID(s string)   { packString(o.ExchangeID[:], s) }
func (o OrderInput) GetExchangeID() string     { return unpackString(o.ExchangeID[:]) }

// OrderCancel requests cancellation of a previously inserted order.
type OrderCancel struct {
	OrderID    uint64
	CancelTime int64
}

func (OrderCancel) MsgTag() Tag { return TagOrderCancel }

// AccountReq asks a broker to report current account state (asset,
// margin, positions).
type AccountReq struct {
	RequestTime int64
}

func (AccountReq) MsgTag() Tag { return TagAccountReq }

// Order is the TD engine's acknowledgement of an order's current state.
type Order struct {
	OrderID      uint64
	InstrumentID [InstrumentIDLen]byte
	ExchangeID   [ExchangeIDLen]byte
	Price        float64
	Volume       float64
	VolumeTraded float64
	Side         Side
	Offset       Offset
	Status       OrderStatus
	UpdateTime   int64
	ErrorMsg     [ErrorMsgLen]byte
}

func (Order) MsgTag() Tag { return TagOrder }

func (o *Order) SetInstrumentID(s string) { packString(o.InstrumentID[:], s) }
func (o Order) GetInstrumentID() string   { return unpackString(o.InstrumentID[:]) }
func (o *Order) SetExchangeID(s string)   { packString(o.ExchangeID[:], s) }
func (o Order) GetExchangeID() string     { return unpackString(o.ExchangeID[:]) }
func (o *Order) SetErrorMsg(s string)     { packString(o.ErrorMsg[:], s) }
func (o Order) GetErrorMsg() string       { return unpackString(o.ErrorMsg[:]) }

// Trade is a single fill reported against an order.
type Trade struct {
	TradeID      uint64
	OrderID      uint64
	InstrumentID [InstrumentIDLen]byte
	ExchangeID   [ExchangeIDLen]byte
	Price        float64
	Volume       float64
	Side         Side
	Offset       Offset
	TradeTime    int64
}

func (Trade) MsgTag() Tag { return TagTrade }

func (t *Trade) SetInstrumentID(s string) { packString(t.InstrumentID[:], s) }
func (t Trade) GetInstrumentID() string   { return unpackString(t.InstrumentID[:]) }
func (t *Trade) SetExchangeID(s string)   { packString(t.ExchangeID[:], s) }
func (t Trade) GetExchangeID() string     { return unpackString(t.ExchangeID[:]) }

// OrderActionResp reports the broker's acceptance or rejection of an
// OrderCancel request.
type OrderActionResp struct {
	OrderID  uint64
	Accepted bool
	ErrorMsg [ErrorMsgLen]byte
}

func (OrderActionResp) MsgTag() Tag { return TagOrderActionResp }

func (r *OrderActionResp) SetErrorMsg(s string) { packString(r.ErrorMsg[:], s) }
func (r OrderActionResp) GetErrorMsg() string    { return unpackString(r.ErrorMsg[:]) }

// Asset is a point-in-time snapshot of account buying power.
type Asset struct {
	UpdateTime     int64
	Avail          float64
	Margin         float64
	FrozenMargin   float64
	AccumulatedFee float64
}

func (Asset) MsgTag() Tag { return TagAsset }

// AssetMargin is a point-in-time margin-requirement snapshot.
type AssetMargin struct {
	UpdateTime   int64
	Margin       float64
	FrozenMargin float64
}

func (AssetMargin) MsgTag() Tag { return TagAssetMargin }

// Position is one side (Long or Short) of an account's holding in an
// instrument, aggregated from Trade fills by the Book (spec §3.4).
type Position struct {
	InstrumentID    [InstrumentIDLen]byte
	ExchangeID      [ExchangeIDLen]byte
	Direction       Direction
	Volume          float64
	YesterdayVolume float64
	CostPrice       float64
	UnrealizedPnl   float64
	UpdateTime      int64
	TradingDay      [DateLen]byte
}

func (Position) MsgTag() Tag { return TagPosition }

func (p *Position) SetInstrumentID(s string) { packString(p.InstrumentID[:], s) }
func (p Position) GetInstrumentID() string   { return unpackString(p.InstrumentID[:]) }
func (p *Position) SetExchangeID(s string)   { packString(p.ExchangeID[:], s) }
func (p Position) GetExchangeID() string     { return unpackString(p.ExchangeID[:]) }
func (p *Position) SetTradingDay(s string)   { packString(p.TradingDay[:], s) }
func (p Position) GetTradingDay() string     { return unpackString(p.TradingDay[:]) }

// UID is the position key used by the Book: a stable hash of
// (exchange, instrument), per spec §3.4.
func (p Position) UID() uint32 { return HashPair(p.GetExchangeID(), p.GetInstrumentID()) }

// HistoryOrder is a single row of an account's historical order ledger.
type HistoryOrder struct {
	Order
	TradingDay [DateLen]byte
}

func (HistoryOrder) MsgTag() Tag { return TagHistoryOrder }

// HistoryTrade is a single row of an account's historical trade ledger.
type HistoryTrade struct {
	Trade
	TradingDay [DateLen]byte
}

func (HistoryTrade) MsgTag() Tag { return TagHistoryTrade }

// RequestHistoryOrderError reports failure to retrieve historical orders.
type RequestHistoryOrderError struct {
	ErrorMsg [ErrorMsgLen]byte
}

func (RequestHistoryOrderError) MsgTag() Tag { return TagRequestHistoryOrderError }

// RequestHistoryTradeError reports failure to retrieve historical trades.
type RequestHistoryTradeError struct {
	ErrorMsg [ErrorMsgLen]byte
}

func (RequestHistoryTradeError) MsgTag() Tag { return TagRequestHistoryTradeError }
