package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qiubinglin/btrader-go/journal"
	"github.com/qiubinglin/btrader-go/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `{
		"system": {"mode": "LIVE", "output_root_path": "/tmp/btrader"},
		"md": [{"institution": "ctp", "account": "md1"}],
		"td": [{"institution": "ctp", "account": "td1"}]
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, model.ModeLive, cfg.ModeValue())
	require.Len(t, cfg.MD, 1)
	require.Len(t, cfg.TD, 1)
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	path := writeConfig(t, `{
		"system": {"mode": "LUDICROUS", "output_root_path": "/tmp/btrader"},
		"md": [{"institution": "ctp", "account": "md1"}]
	}`)
	_, err := Load(path)
	require.Error(t, err)
	var jerr *journal.Error
	require.ErrorAs(t, err, &jerr)
	require.Equal(t, journal.KindConfig, jerr.Kind)
}

func TestLoadRejectsDuplicateAccounts(t *testing.T) {
	path := writeConfig(t, `{
		"system": {"mode": "LIVE", "output_root_path": "/tmp/btrader"},
		"md": [{"institution": "ctp", "account": "md1"}, {"institution": "ctp", "account": "md1"}]
	}`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsEmptyAccountList(t *testing.T) {
	path := writeConfig(t, `{
		"system": {"mode": "LIVE", "output_root_path": "/tmp/btrader"}
	}`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsMissingOutputRoot(t *testing.T) {
	path := writeConfig(t, `{
		"system": {"mode": "LIVE"},
		"md": [{"institution": "ctp", "account": "md1"}]
	}`)
	_, err := Load(path)
	require.Error(t, err)
}
