package model

// TradingStart signals the beginning of a trading session. The MD engine
// passes BeginTime to every data service's Start, and the TD engine starts
// every trade service on it (spec §4.7.1). An EventEngine's
// NowEventTime is not seeded from BeginTime; it tracks frame gen_time only.
type TradingStart struct {
	BeginTime int64
}

func (TradingStart) MsgTag() Tag { return TagTradingStart }

// TradingStop signals the end of a trading session.
type TradingStop struct {
	EndTime int64
}

func (TradingStop) MsgTag() Tag { return TagTradingStop }

// TradingDay carries the exchange trading day, folded across MD accounts
// by the CP engine (spec §4.7.3) and forwarded once per N accounts.
type TradingDay struct {
	Date [DateLen]byte
}

func (TradingDay) MsgTag() Tag { return TagTradingDay }

func (t *TradingDay) SetDate(s string) { packString(t.Date[:], s) }
func (t TradingDay) GetDate() string   { return unpackString(t.Date[:]) }

// Termination is broadcast by CP to every writer it owns, when CP itself
// reads one, to coordinate orderly shutdown (spec §4.7, §7); CP's
// broadcast frames carry no payload. It is enqueued like any other frame,
// so it is always strictly ordered behind in-flight frames on the same
// stream (Open Question resolved in DESIGN.md).
type Termination struct {
	Reason [ErrorMsgLen]byte
}

func (Termination) MsgTag() Tag { return TagTermination }

func (t *Termination) SetReason(s string) { packString(t.Reason[:], s) }
func (t Termination) GetReason() string   { return unpackString(t.Reason[:]) }

// BrokerStateUpdate reports a broker adapter's connection state; the TD
// engine only routes requests to accounts whose latest state is Ready
// (spec §4.7.2).
type BrokerStateUpdate struct {
	AccountUID uint32
	State      BrokerState
}

func (BrokerStateUpdate) MsgTag() Tag { return TagBrokerStateUpdate }

// Deregister notifies that a location has unregistered itself (eg a
// strategy or data service tearing down) so that dependents can drop it.
type Deregister struct {
	LocationUID uint32
}

func (Deregister) MsgTag() Tag { return TagDeregister }
