package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qiubinglin/btrader-go/model"
)

func testConfig() *Config {
	return &Config{
		System: SystemConfig{Mode: "LIVE", OutputRootPath: "/tmp/btrader"},
		MD:     []AccountConfig{{Institution: "ctp", Account: "md1"}},
		TD:     []AccountConfig{{Institution: "ctp", Account: "td1"}, {Institution: "ctp", Account: "td2"}},
	}
}

func TestBuildTopologyLocationsAreStablePerRole(t *testing.T) {
	topo := BuildTopology(testConfig())

	require.Equal(t, model.ModuleMD, topo.MDLocation.Module)
	require.Equal(t, model.ModuleTD, topo.TDLocation.Module)
	require.Equal(t, model.ModuleStrategy, topo.CPLocation.Module)

	again := BuildTopology(testConfig())
	require.Equal(t, topo.MDLocation.UID, again.MDLocation.UID, "same config must always hash to the same location uid")
	require.Equal(t, topo.TDLocation.UID, again.TDLocation.UID)
	require.Equal(t, topo.CPLocation.UID, again.CPLocation.UID)
}

func TestBuildTopologyMDReqAndTDResponseAreUnderCPLocation(t *testing.T) {
	topo := BuildTopology(testConfig())

	streams := topo.Streams()
	var mdReq, tdResp *Stream
	for i, s := range streams {
		switch s.Name {
		case "md.request":
			mdReq = &streams[i]
		case "td.response":
			tdResp = &streams[i]
		}
	}
	require.NotNil(t, mdReq)
	require.NotNil(t, tdResp)
	require.Equal(t, topo.CPLocation.UID, mdReq.Loc.UID)
	require.Equal(t, topo.CPLocation.UID, tdResp.Loc.UID)
}

func TestStreamsEnumeratesEveryAccountOnce(t *testing.T) {
	topo := BuildTopology(testConfig())
	streams := topo.Streams()
	// 1 md account + 2 td accounts + md.request + td.response
	require.Len(t, streams, 5)

	names := make(map[string]bool)
	for _, s := range streams {
		require.False(t, names[s.Name], "duplicate stream name %s", s.Name)
		names[s.Name] = true
	}
}
