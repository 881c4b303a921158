package engine

import (
	log "github.com/sirupsen/logrus"

	"github.com/qiubinglin/btrader-go/journal"
	"github.com/qiubinglin/btrader-go/model"
	"github.com/qiubinglin/btrader-go/reactor"
)

// tdResponseDest is the destination id every broker response is written
// under on the shared TD_RESPONSE stream (spec §4.7.2, §3.1): there is
// exactly one response stream per TD process, so destination carries no
// extra routing information of its own — it is the fixed TD_RESPONSE role
// tag rather than an account hash.
var tdResponseDest uint32 = model.DestTDResponse.DestinationID()

// TDEngine routes order and account requests to the TradeService adapter
// that owns the addressed account, and republishes every broker response
// onto a single shared stream (spec §4.7.2).
type TDEngine struct {
	locationUID uint32
	services    map[uint32]TradeService
	state       map[uint32]model.BrokerState
	responses   *journal.Writer
}

// NewTDEngine wires a TDEngine whose account_uid recovery uses
// locationUID, over services keyed by account uid, publishing broker
// responses through responses.
func NewTDEngine(locationUID uint32, services map[uint32]TradeService, responses *journal.Writer) *TDEngine {
	return &TDEngine{
		locationUID: locationUID,
		services:    services,
		state:       make(map[uint32]model.BrokerState),
		responses:   responses,
	}
}

// PublishFixed lets a TradeService adapter publish an asynchronous broker
// response (Order, Trade, OrderActionResp, Asset, ...) onto TD_RESPONSE.
func (t *TDEngine) PublishFixed(tag model.Tag, payload []byte) error {
	return t.responses.Write(tag, tdResponseDest, payload)
}

func (t *TDEngine) accountUID(orderID uint64) uint32 {
	return uint32(orderID>>32) ^ t.locationUID
}

func (t *TDEngine) ready(accountUID uint32) bool {
	return t.state[accountUID] == model.BrokerReady
}

func (t *TDEngine) serviceFor(accountUID uint32) (TradeService, bool) {
	if !t.ready(accountUID) {
		log.WithField("account", accountUID).Warn("request dropped: broker not ready")
		return nil, false
	}
	svc, ok := t.services[accountUID]
	if !ok {
		log.WithField("account", accountUID).Warn("request for unconfigured account")
		return nil, false
	}
	return svc, true
}

func (t *TDEngine) OnSetup(e *reactor.EventEngine) error { return nil }

func (t *TDEngine) React(e *reactor.EventEngine) {
	e.On(reactor.IsTag(model.TagOrderInput), func(ev reactor.Event) {
		in := reactor.DecodeFixed[model.OrderInput](ev)
		svc, ok := t.serviceFor(t.accountUID(in.OrderID))
		if !ok {
			return
		}
		if err := svc.InsertOrder(in); err != nil {
			log.WithError(err).Error("insert order failed")
		}
	})

	e.On(reactor.IsTag(model.TagOrderCancel), func(ev reactor.Event) {
		c := reactor.DecodeFixed[model.OrderCancel](ev)
		svc, ok := t.serviceFor(t.accountUID(c.OrderID))
		if !ok {
			return
		}
		if err := svc.CancelOrder(c); err != nil {
			log.WithError(err).Error("cancel order failed")
		}
	})

	e.On(reactor.IsTag(model.TagAccountReq), func(ev reactor.Event) {
		req := reactor.DecodeFixed[model.AccountReq](ev)
		svc, ok := t.serviceFor(ev.Dest())
		if !ok {
			return
		}
		if err := svc.ReqAccountInfo(req); err != nil {
			log.WithError(err).Error("account info request failed")
		}
	})

	e.On(reactor.IsTag(model.TagBrokerStateUpdate), func(ev reactor.Event) {
		bsu := reactor.DecodeFixed[model.BrokerStateUpdate](ev)
		t.state[bsu.AccountUID] = bsu.State
	})

	e.On(reactor.IsTag(model.TagTradingStart), func(ev reactor.Event) {
		for uid, svc := range t.services {
			if err := svc.Start(); err != nil {
				log.WithFields(log.Fields{"account": uid, "error": err}).Error("trade service start failed")
			}
		}
	})

	e.On(reactor.IsTag(model.TagTermination), func(ev reactor.Event) {
		e.Stop()
	})
}

func (t *TDEngine) OnActive(e *reactor.EventEngine) {}
