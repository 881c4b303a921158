package main

import (
	"github.com/qiubinglin/btrader-go/engine"
	"github.com/qiubinglin/btrader-go/model"
)

// noopStrategy satisfies engine.Strategy for a CP process run without a
// real strategy linked in. Strategy implementations are external to this
// module (spec §1); this just keeps the reactor loop answering control
// traffic (TradingDay, Termination, Book updates) when none is supplied.
type noopStrategy struct{}

func (noopStrategy) OnSetup(ex engine.Executor)                                   {}
func (noopStrategy) OnBar(source uint32, bar model.Bar)                           {}
func (noopStrategy) OnQuote(source uint32, q model.Quote)                         {}
func (noopStrategy) OnEntrust(source uint32, e model.Entrust)                     {}
func (noopStrategy) OnTransaction(source uint32, tr model.Transaction)            {}
func (noopStrategy) OnTrade(source uint32, t model.Trade)                         {}
func (noopStrategy) OnOrder(source uint32, o model.Order)                         {}
func (noopStrategy) OnTradingDay(day string)                                      {}
func (noopStrategy) OnAsset(old, current model.Asset)                             {}
func (noopStrategy) OnAssetMargin(old, current model.AssetMargin)                 {}
func (noopStrategy) OnBrokerStateUpdate(accountUID uint32, state model.BrokerState) {}
func (noopStrategy) OnDeregister(locationUID uint32)                             {}
func (noopStrategy) OnCustomData(tag model.Tag, payload []byte)                  {}

var _ engine.Strategy = noopStrategy{}
