package bootstrap

import (
	"fmt"
	"os"
	"os/exec"

	log "github.com/sirupsen/logrus"

	"github.com/qiubinglin/btrader-go/wakeup"
)

// Role is one of the three process roles a supervisor launches (spec §6.4).
type Role string

const (
	RoleMD Role = "md"
	RoleTD Role = "td"
	RoleCP Role = "cp"
)

var allRoles = []Role{RoleMD, RoleTD, RoleCP}

// Supervisor provisions the wakeup Indicators every stream in a Topology
// needs and launches the three role processes with the FDS handoff set on
// each, mirroring the fork+execvpe sequence of the original supervisor
// (original_source/main/mentor_run.cpp) with exec.Cmd.ExtraFiles standing
// in for inherited descriptors.
type Supervisor struct {
	cfgPath string
	topo    *Topology
	streams []Stream
	reg     *wakeup.Registry
}

// NewSupervisor provisions one Indicator per stream in topo and holds onto
// cfgPath so child processes can be told where to find the same config.
func NewSupervisor(cfgPath string, topo *Topology) (*Supervisor, error) {
	reg := wakeup.NewRegistry()
	streams := topo.Streams()
	for _, s := range streams {
		if _, err := reg.GetOrCreate(s.key()); err != nil {
			_ = reg.Close()
			return nil, fmt.Errorf("provision indicator for %s: %w", s.Name, err)
		}
	}
	return &Supervisor{cfgPath: cfgPath, topo: topo, streams: streams, reg: reg}, nil
}

// Registry exposes the provisioned indicators, for an in-process (single
// binary, multiple goroutines rather than child processes) deployment that
// skips the FDS handoff entirely.
func (s *Supervisor) Registry() *wakeup.Registry { return s.reg }

// Launch execs self (the running binary, re-invoked with --role) once per
// role in allRoles, passing every provisioned Indicator's descriptor via
// ExtraFiles and the FDS env var. It returns once every child has started;
// callers wait on the returned commands themselves.
func (s *Supervisor) Launch(self string) ([]*exec.Cmd, error) {
	files := make([]*os.File, len(s.streams))
	names := make([]string, len(s.streams))
	for i, st := range s.streams {
		ind, ok := s.reg.Lookup(st.key())
		if !ok {
			return nil, fmt.Errorf("stream %s has no provisioned indicator", st.Name)
		}
		files[i] = os.NewFile(uintptr(ind.Fd()), st.Name)
		names[i] = streamKeyName(st)
	}
	childFDs := make([]int, len(files))
	for i := range files {
		childFDs[i] = 3 + i // exec.Cmd.ExtraFiles[i] always lands on fd 3+i in the child.
	}
	fdsEnv := FDSEnv(names, childFDs)

	cmds := make([]*exec.Cmd, 0, len(allRoles))
	for _, role := range allRoles {
		cmd := exec.Command(self, "--role="+string(role), "--cfg="+s.cfgPath)
		cmd.ExtraFiles = files
		cmd.Env = append(os.Environ(), fdsEnv)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Start(); err != nil {
			for _, started := range cmds {
				_ = started.Process.Kill()
			}
			return nil, fmt.Errorf("launch role %s: %w", role, err)
		}
		log.WithFields(log.Fields{"role": role, "pid": cmd.Process.Pid}).Info("role process launched")
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// Close releases every provisioned indicator. The supervisor itself never
// waits on them after handoff; only a child that failed to launch needs
// this called early.
func (s *Supervisor) Close() error { return s.reg.Close() }
