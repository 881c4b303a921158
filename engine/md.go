package engine

import (
	log "github.com/sirupsen/logrus"

	"github.com/qiubinglin/btrader-go/model"
	"github.com/qiubinglin/btrader-go/reactor"
)

// MDEngine hosts one DataService adapter per configured account,
// relays the control stream's TradingStart/MDSubscribe messages to them,
// and stops on Termination (spec §4.7.1). The adapters themselves own the
// per-account Writers and call Writer.Write(Quote|Bar|...) directly; this
// engine never touches market-data frames.
type MDEngine struct {
	services map[uint32]DataService
}

// NewMDEngine wires an MDEngine over services, keyed by the data-service
// id MDSubscribe.ID addresses.
func NewMDEngine(services map[uint32]DataService) *MDEngine {
	return &MDEngine{services: services}
}

func (m *MDEngine) OnSetup(e *reactor.EventEngine) error { return nil }

func (m *MDEngine) React(e *reactor.EventEngine) {
	e.On(reactor.IsTag(model.TagTradingStart), func(ev reactor.Event) {
		ts := reactor.DecodeFixed[model.TradingStart](ev)
		for id, svc := range m.services {
			if err := svc.Start(ts.BeginTime); err != nil {
				log.WithFields(log.Fields{"service": id, "error": err}).Error("data service start failed")
			}
		}
	})

	e.On(reactor.IsTag(model.TagMDSubscribe), func(ev reactor.Event) {
		var sub model.MDSubscribe
		if err := sub.DecodeFrom(ev.Payload()); err != nil {
			log.WithError(err).Error("malformed MDSubscribe payload")
			return
		}
		svc, ok := m.services[sub.ID]
		if !ok {
			log.WithField("service", sub.ID).Warn("MDSubscribe addressed to unknown data service")
			return
		}
		if err := svc.Subscribe(sub.ID, sub.Keys); err != nil {
			log.WithFields(log.Fields{"service": sub.ID, "error": err}).Error("subscribe failed")
		}
	})

	e.On(reactor.IsTag(model.TagTermination), func(ev reactor.Event) {
		e.Stop()
	})
}

func (m *MDEngine) OnActive(e *reactor.EventEngine) {}
