package bootstrap

import (
	"encoding/json"
	"os"

	"github.com/qiubinglin/btrader-go/journal"
	"github.com/qiubinglin/btrader-go/model"
)

// AccountConfig names one broker account a MD or TD process owns. The
// pair hashes to the stream's destination id (spec §3.1).
type AccountConfig struct {
	Institution string `json:"institution"`
	Account     string `json:"account"`
}

// DestID is journal.DestinationID(Institution, Account).
func (a AccountConfig) DestID() uint32 { return journal.DestinationID(a.Institution, a.Account) }

// StrategyConfig names one strategy plugin the CP engine loads (spec
// §6.2, §9 design note: dynamic loading with a named entry point).
type StrategyConfig struct {
	Path   string `json:"path"`
	Symbol string `json:"symbol"`
}

// SystemConfig carries the run mode and the root directory every
// journal's page files are rooted under (spec §6.2, §6.3).
type SystemConfig struct {
	Mode           string `json:"mode"`
	OutputRootPath string `json:"output_root_path"`
}

// Config is the top-level bootstrap JSON document (spec §6.2).
type Config struct {
	System   SystemConfig     `json:"system"`
	MD       []AccountConfig  `json:"md"`
	TD       []AccountConfig  `json:"td"`
	Strategy []StrategyConfig `json:"strategy"`
}

// Load reads and validates path as a bootstrap Config. Any structural or
// semantic defect is a ConfigError, fatal at startup (spec §7).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, journal.NewConfigError("read config file", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, journal.NewConfigError("parse config JSON", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.System.OutputRootPath == "" {
		return journal.NewConfigError("system.output_root_path is required", nil)
	}
	if _, ok := model.ParseMode(c.System.Mode); !ok {
		return journal.NewConfigError("system.mode must be one of LIVE, DATA, REPLAY, BACKTEST", nil)
	}
	if len(c.MD) == 0 && len(c.TD) == 0 {
		return journal.NewConfigError("config must declare at least one md or td account", nil)
	}
	seen := make(map[uint32]bool)
	for _, a := range c.MD {
		if a.Institution == "" || a.Account == "" {
			return journal.NewConfigError("md account entries require institution and account", nil)
		}
		if d := a.DestID(); seen[d] {
			return journal.NewConfigError("duplicate md account destination id", nil)
		} else {
			seen[d] = true
		}
	}
	seen = make(map[uint32]bool)
	for _, a := range c.TD {
		if a.Institution == "" || a.Account == "" {
			return journal.NewConfigError("td account entries require institution and account", nil)
		}
		if d := a.DestID(); seen[d] {
			return journal.NewConfigError("duplicate td account destination id", nil)
		} else {
			seen[d] = true
		}
	}
	return nil
}

// ModeValue is the parsed model.Mode of System.Mode. validate guarantees
// this always succeeds once Load has returned.
func (c *Config) ModeValue() model.Mode {
	m, _ := model.ParseMode(c.System.Mode)
	return m
}
