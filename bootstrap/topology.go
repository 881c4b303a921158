package bootstrap

import (
	"github.com/qiubinglin/btrader-go/journal"
	"github.com/qiubinglin/btrader-go/model"
)

// Per original_source/core/main_cfg.cpp, a stream's Location is MD or TD
// for the two per-account families (CP writes order input under the TD
// location; MD itself writes market data under the MD location), but the
// two channels that terminate at CP are both hosted under CP's own
// Strategy location regardless of who physically writes the frame: MD_REQ
// (CP writes, MD reads) and TD_RESPONSE (TD writes, CP reads) are CP's own
// mailbox streams. Within one role there is exactly one Location;
// destination ids fan out to accounts or to the two fixed role streams.
const (
	roleGroup = "engine"
	roleName  = "main"
)

// Topology is the set of Locations and destination ids one bootstrap.Config
// resolves to. It is the shared addressing table every role process and the
// supervisor compute identically from the same config.
type Topology struct {
	Mode model.Mode

	MDLocation *journal.Location
	TDLocation *journal.Location
	CPLocation *journal.Location

	// MDAccounts/TDAccounts list each configured account's AccountConfig,
	// in the order the config listed them; AccountConfig.DestID gives its
	// destination id.
	MDAccounts []AccountConfig
	TDAccounts []AccountConfig

	MDRequestDest  uint32
	TDResponseDest uint32
}

// BuildTopology derives the fixed Locations and destination ids for cfg. It
// never fails: Config.validate already rejected anything that would make
// this ambiguous.
func BuildTopology(cfg *Config) *Topology {
	mode := cfg.ModeValue()
	return &Topology{
		Mode:           mode,
		MDLocation:     journal.NewLocation(mode, model.ModuleMD, roleGroup, roleName),
		TDLocation:     journal.NewLocation(mode, model.ModuleTD, roleGroup, roleName),
		CPLocation:     journal.NewLocation(mode, model.ModuleStrategy, roleGroup, roleName),
		MDAccounts:     cfg.MD,
		TDAccounts:     cfg.TD,
		MDRequestDest:  model.DestMDRequest.DestinationID(),
		TDResponseDest: model.DestTDResponse.DestinationID(),
	}
}

// Stream names one (Location, destination) journal addressed by this
// topology, the unit the supervisor provisions one wakeup Indicator for.
type Stream struct {
	Name string // stable key used in the FDS handoff and the Indicator registry
	Loc  *journal.Location
	Dest uint32
}

// Streams enumerates every journal the supervisor must provision a wakeup
// Indicator for: one per MD account, one per TD account, plus the two
// shared role streams.
func (t *Topology) Streams() []Stream {
	streams := make([]Stream, 0, len(t.MDAccounts)+len(t.TDAccounts)+2)
	for _, a := range t.MDAccounts {
		streams = append(streams, Stream{Name: "md." + a.Institution + "." + a.Account, Loc: t.MDLocation, Dest: a.DestID()})
	}
	for _, a := range t.TDAccounts {
		streams = append(streams, Stream{Name: "td." + a.Institution + "." + a.Account, Loc: t.TDLocation, Dest: a.DestID()})
	}
	streams = append(streams, Stream{Name: "md.request", Loc: t.CPLocation, Dest: t.MDRequestDest})
	streams = append(streams, Stream{Name: "td.response", Loc: t.CPLocation, Dest: t.TDResponseDest})
	return streams
}
