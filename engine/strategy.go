// Package engine wires the reactor and journal packages into the three
// process roles of spec §4.7: MD (market data), TD (trading), and CP
// (compute/strategy host).
package engine

import (
	"github.com/qiubinglin/btrader-go/book"
	"github.com/qiubinglin/btrader-go/model"
)

// Strategy is user trading logic hosted by the CP engine (spec §4.7.3).
// Every On* method runs to completion before the next event is
// dispatched; none of them may block.
type Strategy interface {
	OnSetup(ex Executor)
	OnBar(source uint32, bar model.Bar)
	OnQuote(source uint32, q model.Quote)
	OnEntrust(source uint32, e model.Entrust)
	OnTransaction(source uint32, tr model.Transaction)
	OnTrade(source uint32, t model.Trade)
	OnOrder(source uint32, o model.Order)
	OnTradingDay(day string)
	OnAsset(old, current model.Asset)
	OnAssetMargin(old, current model.AssetMargin)
	OnBrokerStateUpdate(accountUID uint32, state model.BrokerState)
	OnDeregister(locationUID uint32)
	OnCustomData(tag model.Tag, payload []byte)
}

// Executor is the CP engine's collaborator surface offered to a Strategy
// (spec §4.7.3).
type Executor interface {
	// InsertOrder allocates a writer frame on accountUID's stream,
	// stamps order_id = writer.current_frame_uid() and insert_time =
	// now, and returns the assigned order id.
	InsertOrder(accountUID uint32, in model.OrderInput) (orderID uint64, err error)
	// CancelOrder recovers the account uid from order_id's upper 32
	// bits and writes an OrderCancel to that account's stream.
	CancelOrder(orderID uint64, cancelTime int64) error
	ReqAccountInfo(accountUID uint32, reqTime int64) error
	Subscribe(mdAccountDest uint32, id uint32, keys []model.InstrumentKey) error
	AddTimer(at int64, fn func())
	AddTimeInterval(interval int64, fn func())
	Book() *book.Book
}

// DataService is an external collaborator the MD engine dispatches to,
// one per configured MD account; real adapters consume a specific
// broker's raw feed and are out of this module's scope (spec §4.7.1).
type DataService interface {
	Start(beginTime int64) error
	Subscribe(id uint32, keys []model.InstrumentKey) error
}

// ResponseSink lets a TradeService publish an asynchronous broker
// response onto the shared TD_RESPONSE stream (spec §4.7.2).
type ResponseSink interface {
	PublishFixed(tag model.Tag, payload []byte) error
}

// TradeService is an external collaborator the TD engine dispatches to
// per account; real adapters adapt a specific broker's trading API and
// are out of this module's scope (spec §4.7.2).
type TradeService interface {
	Start() error
	InsertOrder(in model.OrderInput) error
	CancelOrder(c model.OrderCancel) error
	ReqAccountInfo(r model.AccountReq) error
}
