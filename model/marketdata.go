package model

// Quote is a depth snapshot with DepthLevels bid/ask price and volume
// levels (spec §3.3).
type Quote struct {
	InstrumentID [InstrumentIDLen]byte
	ExchangeID   [ExchangeIDLen]byte
	DataTime     int64
	PreClose     float64
	UpperLimit   float64
	LowerLimit   float64
	OpenInterest float64
	LastPrice    float64
	BidPrice     [DepthLevels]float64
	AskPrice     [DepthLevels]float64
	BidVolume    [DepthLevels]float64
	AskVolume    [DepthLevels]float64
}

func (Quote) MsgTag() Tag { return TagQuote }

func (q *Quote) SetInstrumentID(s string) { packString(q.InstrumentID[:], s) }
func (q Quote) GetInstrumentID() string   { return unpackString(q.InstrumentID[:]) }
func (q *Quote) SetExchangeID(s string)   { packString(q.ExchangeID[:], s) }
func (q Quote) GetExchangeID() string     { return unpackString(q.ExchangeID[:]) }

// Entrust is a single tick of the order book's incremental entrust feed
// (a resting order placed or withdrawn on the exchange tape).
type Entrust struct {
	InstrumentID [InstrumentIDLen]byte
	ExchangeID   [ExchangeIDLen]byte
	DataTime     int64
	Price        float64
	Volume       float64
	Side         Side
}

func (Entrust) MsgTag() Tag { return TagEntrust }

func (e *Entrust) SetInstrumentID(s string) { packString(e.InstrumentID[:], s) }
func (e Entrust) GetInstrumentID() string   { return unpackString(e.InstrumentID[:]) }
func (e *Entrust) SetExchangeID(s string)   { packString(e.ExchangeID[:], s) }
func (e Entrust) GetExchangeID() string     { return unpackString(e.ExchangeID[:]) }

// Transaction is a single executed trade on the exchange tape.
type Transaction struct {
	InstrumentID [InstrumentIDLen]byte
	ExchangeID   [ExchangeIDLen]byte
	DataTime     int64
	Price        float64
	Volume       float64
	Side         Side
}

func (Transaction) MsgTag() Tag { return TagTransaction }

func (t *Transaction) SetInstrumentID(s string) { packString(t.InstrumentID[:], s) }
func (t Transaction) GetInstrumentID() string   { return unpackString(t.InstrumentID[:]) }
func (t *Transaction) SetExchangeID(s string)   { packString(t.ExchangeID[:], s) }
func (t Transaction) GetExchangeID() string     { return unpackString(t.ExchangeID[:]) }

// Bar is an OHLCV candle over [StartTime, EndTime).
type Bar struct {
	InstrumentID [InstrumentIDLen]byte
	ExchangeID   [ExchangeIDLen]byte
	StartTime    int64
	EndTime      int64
	Open         float64
	High         float64
	Low          float64
	Close        float64
	Volume       float64
}

func (Bar) MsgTag() Tag { return TagBar }

func (b *Bar) SetInstrumentID(s string) { packString(b.InstrumentID[:], s) }
func (b Bar) GetInstrumentID() string   { return unpackString(b.InstrumentID[:]) }
func (b *Bar) SetExchangeID(s string)   { packString(b.ExchangeID[:], s) }
func (b Bar) GetExchangeID() string     { return unpackString(b.ExchangeID[:]) }

// InstrumentKey identifies a tradable instrument by exchange + local id;
// its UID is the stable hash used throughout the core (spec §3.1).
type InstrumentKey struct {
	InstrumentID [InstrumentIDLen]byte
	ExchangeID   [ExchangeIDLen]byte
}

func (InstrumentKey) MsgTag() Tag { return TagInstrumentKey }

func (k *InstrumentKey) SetInstrumentID(s string) { packString(k.InstrumentID[:], s) }
func (k InstrumentKey) GetInstrumentID() string   { return unpackString(k.InstrumentID[:]) }
func (k *InstrumentKey) SetExchangeID(s string)   { packString(k.ExchangeID[:], s) }
func (k InstrumentKey) GetExchangeID() string     { return unpackString(k.ExchangeID[:]) }

// UID returns the stable 32-bit identity of the instrument (spec §3.1).
func (k InstrumentKey) UID() uint32 {
	return HashPair(k.GetExchangeID(), k.GetInstrumentID())
}

// Instrument carries static reference data for an instrument.
type Instrument struct {
	InstrumentID [InstrumentIDLen]byte
	ExchangeID   [ExchangeIDLen]byte
	ProductID    [ProductIDLen]byte
	PriceTick    float64
	VolumeMultiple float64
}

func (Instrument) MsgTag() Tag { return TagInstrument }

func (i *Instrument) SetInstrumentID(s string) { packString(i.InstrumentID[:], s) }
func (i Instrument) GetInstrumentID() string   { return unpackString(i.InstrumentID[:]) }
func (i *Instrument) SetExchangeID(s string)   { packString(i.ExchangeID[:], s) }
func (i Instrument) GetExchangeID() string     { return unpackString(i.ExchangeID[:]) }
func (i *Instrument) SetProductID(s string)    { packString(i.ProductID[:], s) }
func (i Instrument) GetProductID() string      { return unpackString(i.ProductID[:]) }
