// Package bootstrap implements the supervisor-side configuration loading
// and wakeup-descriptor distribution of spec §6.2, plus the per-role
// wiring (spec §4.7) that turns a parsed Config into a running
// reactor.EventEngine: a single JSON configuration enumerates the
// system's mode and output root, the MD/TD accounts whose streams must
// exist, and the strategy this process hosts; each role process resolves
// the same Topology from it independently and only differs in which
// streams it joins and which Writers it owns.
package bootstrap

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/qiubinglin/btrader-go/engine"
	"github.com/qiubinglin/btrader-go/journal"
	"github.com/qiubinglin/btrader-go/reactor"
	"github.com/qiubinglin/btrader-go/wakeup"
)

// pollInterval bounds how long a produce loop iteration blocks on the
// wakeup plane before OnActive runs again, so CP's timers/intervals still
// fire with no traffic on any joined stream.
const pollInterval = 100 * time.Millisecond

// attach looks up the wakeup Indicator reg provisioned for (loc, dest) and
// wires it to w, so CloseFrame posts to it (spec §4.3, §4.5). A missing
// indicator is not fatal: the consumer still sees the stream, because
// ObserveHelper checks Reader.DataAvailable after every Observer wait,
// just with added latency.
func attach(reg *wakeup.Registry, w *journal.Writer, loc *journal.Location, dest uint32) {
	if ind, ok := reg.Lookup(wakeup.Key{SourceUID: loc.UID, DestID: dest}); ok {
		w.AttachIndicator(ind)
	}
}

// joinAndObserve joins (loc, dest) on r and, if reg provisioned a wakeup
// Indicator for it, enrolls it with o so the consumer blocks on the
// wakeup plane instead of a polling spin.
func joinAndObserve(r *journal.Reader, o *wakeup.Observer, reg *wakeup.Registry, loc *journal.Location, dest uint32) error {
	if err := r.Join(loc, dest); err != nil {
		return err
	}
	if ind, ok := reg.Lookup(wakeup.Key{SourceUID: loc.UID, DestID: dest}); ok {
		return o.Add(ind)
	}
	return nil
}

// RunMD runs the MD role process: one Reader joined on CP's MD_REQ
// mailbox stream, dispatching TradingStart/MDSubscribe/Termination to the
// DataService adapters in services (spec §4.7.1). Real adapters are
// supplied by the caller and own their per-account Writer onto the MD
// location themselves (original_source/md/md_engine.cpp); services may be
// empty, in which case the role still runs and answers control traffic
// but forwards no market data.
func RunMD(cfg *Config, reg *wakeup.Registry, services map[uint32]engine.DataService) error {
	topo := BuildTopology(cfg)
	locator := journal.NewLocator(cfg.System.OutputRootPath)

	observer, err := wakeup.NewObserver(false)
	if err != nil {
		return err
	}
	defer observer.Close()

	reader := journal.NewReader(locator, false)
	defer reader.Close()
	if err := joinAndObserve(reader, observer, reg, topo.CPLocation, topo.MDRequestDest); err != nil {
		return err
	}

	md := engine.NewMDEngine(services)
	ee := reactor.NewEventEngine(reader, observer, pollInterval)
	log.WithField("role", RoleMD).Info("running")
	return ee.Run(md)
}

// RunTD runs the TD role process: one Reader joined on every configured
// TD account's stream, a Writer for the shared TD_RESPONSE stream, and
// the TradeService adapters in services (spec §4.7.2). locationUID must
// match the TDLocation's own uid so Executor.CancelOrder's xor recovery
// on the CP side round-trips.
func RunTD(cfg *Config, reg *wakeup.Registry, services map[uint32]engine.TradeService) error {
	topo := BuildTopology(cfg)
	locator := journal.NewLocator(cfg.System.OutputRootPath)

	observer, err := wakeup.NewObserver(false)
	if err != nil {
		return err
	}
	defer observer.Close()

	reader := journal.NewReader(locator, false)
	defer reader.Close()
	for _, acct := range topo.TDAccounts {
		if err := joinAndObserve(reader, observer, reg, topo.TDLocation, acct.DestID()); err != nil {
			return err
		}
	}

	responses, err := journal.NewWriter(locator, topo.CPLocation, topo.TDResponseDest)
	if err != nil {
		return err
	}
	defer responses.Close()
	attach(reg, responses, topo.CPLocation, topo.TDResponseDest)

	td := engine.NewTDEngine(topo.TDLocation.UID, services, responses)
	ee := reactor.NewEventEngine(reader, observer, pollInterval)
	log.WithField("role", RoleTD).Info("running")
	return ee.Run(td)
}

// RunCP runs the CP role process: one order/account-request Writer per
// configured TD account, CP's own MD_REQ subscription Writer, a Reader
// joined on every MD account's live data stream plus CP's TD_RESPONSE
// mailbox, and the hosted strategy (spec §4.7.3).
func RunCP(cfg *Config, reg *wakeup.Registry, strategy engine.Strategy) error {
	topo := BuildTopology(cfg)
	locator := journal.NewLocator(cfg.System.OutputRootPath)

	observer, err := wakeup.NewObserver(false)
	if err != nil {
		return err
	}
	defer observer.Close()

	reader := journal.NewReader(locator, false)
	defer reader.Close()
	for _, acct := range topo.MDAccounts {
		if err := joinAndObserve(reader, observer, reg, topo.MDLocation, acct.DestID()); err != nil {
			return err
		}
	}
	if err := joinAndObserve(reader, observer, reg, topo.CPLocation, topo.TDResponseDest); err != nil {
		return err
	}

	orderWriters := make(map[uint32]*journal.Writer, len(topo.TDAccounts))
	for _, acct := range topo.TDAccounts {
		w, err := journal.NewWriter(locator, topo.TDLocation, acct.DestID())
		if err != nil {
			return err
		}
		defer w.Close()
		attach(reg, w, topo.TDLocation, acct.DestID())
		orderWriters[acct.DestID()] = w
	}

	mdReqWriter, err := journal.NewWriter(locator, topo.CPLocation, topo.MDRequestDest)
	if err != nil {
		return err
	}
	defer mdReqWriter.Close()
	attach(reg, mdReqWriter, topo.CPLocation, topo.MDRequestDest)

	cp := engine.NewCPEngine(topo.TDLocation.UID, strategy, orderWriters, mdReqWriter, len(topo.MDAccounts))
	ee := reactor.NewEventEngine(reader, observer, pollInterval)
	log.WithField("role", RoleCP).Info("running")
	return ee.Run(cp)
}
