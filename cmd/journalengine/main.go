// Command journalengine is the process entry point for every role of
// spec §6.4: run with --role unset, it is the supervisor that provisions
// wakeup descriptors and launches one md, one td, and one cp child
// process against the same config; run with --role set, it is that one
// role, either launched by a supervisor (inheriting descriptors via the
// FDS env var) or standalone (with no wakeup descriptors at all).
package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/qiubinglin/btrader-go/bootstrap"
	"github.com/qiubinglin/btrader-go/engine"
)

var (
	role    string
	cfgPath string
)

func requireNoError(err error) {
	if err != nil {
		log.WithError(err).Error("fatal")
		os.Exit(1)
	}
}

func main() {
	rootCmd.PersistentFlags().StringVar(&role, "role", "", "process role: md, td, or cp (omit to run the supervisor)")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "cfg", "", "path to the bootstrap JSON config")
	rootCmd.MarkPersistentFlagRequired("cfg")

	requireNoError(rootCmd.Execute())
}

var rootCmd = &cobra.Command{
	Use:   "journalengine",
	Short: "journalengine runs the journal bus supervisor and its MD/TD/CP role processes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := bootstrap.Load(cfgPath)
		if err != nil {
			return err
		}

		switch bootstrap.Role(role) {
		case "":
			return runSupervisor(cfg)
		case bootstrap.RoleMD:
			return runRole(cfg, bootstrap.RoleMD)
		case bootstrap.RoleTD:
			return runRole(cfg, bootstrap.RoleTD)
		case bootstrap.RoleCP:
			return runRole(cfg, bootstrap.RoleCP)
		default:
			return fmt.Errorf("unknown --role %q: must be md, td, cp, or omitted", role)
		}
	},
}

// runSupervisor provisions one wakeup Indicator per stream and execs this
// same binary three times, once per role, with the FDS env var set (spec
// §6.2, §6.4). It then waits for all three to exit and reports the first
// non-zero exit as its own.
func runSupervisor(cfg *bootstrap.Config) error {
	topo := bootstrap.BuildTopology(cfg)
	sup, err := bootstrap.NewSupervisor(cfgPath, topo)
	if err != nil {
		return err
	}
	defer sup.Close()

	self, err := os.Executable()
	if err != nil {
		return err
	}
	cmds, err := sup.Launch(self)
	if err != nil {
		return err
	}

	var firstErr error
	for _, c := range cmds {
		if err := c.Wait(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// runRole loads wakeup descriptors inherited via FDS and runs the named
// role's reactor loop until Termination or a fatal error. A role launched
// standalone, with FDS unset, gets an empty registry: no descriptors are
// provisioned, and its Writers and Observer run without wakeup counters.
//
// DataService, TradeService, and Strategy adapters are external
// collaborators out of this module's scope (spec §1); this wiring runs
// the role with none registered, which still answers control traffic
// correctly but forwards no live broker data. A real deployment links in
// its adapters by calling bootstrap.RunMD/RunTD/RunCP directly instead of
// this CLI, passing its own maps and Strategy implementation.
func runRole(cfg *bootstrap.Config, r bootstrap.Role) error {
	topo := bootstrap.BuildTopology(cfg)
	reg, err := bootstrap.LoadFDSFromEnv(topo)
	if err != nil {
		return err
	}
	defer reg.Close()

	switch r {
	case bootstrap.RoleMD:
		return bootstrap.RunMD(cfg, reg, map[uint32]engine.DataService{})
	case bootstrap.RoleTD:
		return bootstrap.RunTD(cfg, reg, map[uint32]engine.TradeService{})
	case bootstrap.RoleCP:
		return bootstrap.RunCP(cfg, reg, noopStrategy{})
	default:
		return fmt.Errorf("unknown role %q", r)
	}
}
