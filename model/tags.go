// Package model defines the wire-visible message families carried on a
// journal stream: their msg_type discriminant, their FIXED (memcpy'able)
// or UNFIXED (self-encoding) framing contract, and the payload layouts
// themselves.
package model

// Tag is the msg_type discriminant stamped into every FrameHeader. Tags are
// assigned densely starting at PageEnd=0 and must match across every
// cooperating process: the ordering below is the canonical, stable one.
type Tag int32

const (
	TagPageEnd Tag = iota
	TagOrderInput
	TagBar
	TagMDSubscribe
	TagOrderCancel
	TagTradingDay
	TagQuote
	TagEntrust
	TagTransaction
	TagOrderActionResp
	TagTrade
	TagAsset
	TagAssetMargin
	TagDeregister
	TagBrokerStateUpdate
	TagTradingStart
	TagTradingStop
	TagInstrumentKey
	TagInstrument
	TagPosition
	TagAccountReq
	TagPositionBook
	TagOrder
	TagHistoryOrder
	TagHistoryTrade
	TagRequestHistoryOrderError
	TagRequestHistoryTradeError
	TagTermination
	// TagTimeReset lets a late-joining engine resynchronize its wall/steady
	// clock base against a running session. It is a core control message,
	// not a user custom tag, so it is assigned the last slot before
	// TagMaxSize.
	TagTimeReset
	// TagMaxSize is the first tag value reserved for user-defined custom
	// events; it is never itself a valid msg_type on a frame in this core.
	TagMaxSize
)

var tagNames = [...]string{
	"PageEnd",
	"OrderInput",
	"Bar",
	"MDSubscribe",
	"OrderCancel",
	"TradingDay",
	"Quote",
	"Entrust",
	"Transaction",
	"OrderActionResp",
	"Trade",
	"Asset",
	"AssetMargin",
	"Deregister",
	"BrokerStateUpdate",
	"TradingStart",
	"TradingStop",
	"InstrumentKey",
	"Instrument",
	"Position",
	"AccountReq",
	"PositionBook",
	"Order",
	"HistoryOrder",
	"HistoryTrade",
	"RequestHistoryOrderError",
	"RequestHistoryTradeError",
	"Termination",
	"TimeReset",
	"TagMaxSize",
}

// String returns the canonical name of the tag, or "Custom" for any tag at
// or beyond TagMaxSize.
func (t Tag) String() string {
	if t >= 0 && t < TagMaxSize {
		return tagNames[t]
	}
	return "Custom"
}

// IsCustom reports whether t is a user-defined event outside the core tag
// table. Custom tags are routed by the CP engine to Strategy.OnCustomData
// rather than to a typed handler.
func (t Tag) IsCustom() bool { return t >= TagMaxSize }
