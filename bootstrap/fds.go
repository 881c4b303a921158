package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/qiubinglin/btrader-go/wakeup"
)

// fdsEnvVar is the environment variable the supervisor sets on every role
// process it launches, carrying the wakeup eventfd it inherited for each
// stream named "<name>:<fd>" (spec §6.2).
const fdsEnvVar = "FDS"

// streamKeyName is the stable "<location_uid>_<dest_id>" name a Stream is
// addressed by in the FDS env var, so a supervisor and a freshly-exec'd
// child agree on which descriptor is which. The SCM_RIGHTS path
// (wakeup.SendIndicatorFDs) sends raw (source_uid, dest_id) keys instead.
func streamKeyName(s Stream) string {
	return fmt.Sprintf("%d_%d", s.Loc.UID, s.Dest)
}

func (s Stream) key() wakeup.Key { return wakeup.Key{SourceUID: s.Loc.UID, DestID: s.Dest} }

// encodeFDS builds the "name:fd:name:fd..." string the original supervisor
// exports as FDS, in stream order. names[i] pairs with fds[i].
func encodeFDS(names []string, fds []int) string {
	parts := make([]string, 0, 2*len(names))
	for i, name := range names {
		parts = append(parts, name, strconv.Itoa(fds[i]))
	}
	return strings.Join(parts, ":")
}

// decodeFDS parses an FDS-format string into name/fd pairs. A trailing
// unpaired token is ignored, matching the original parser's `size()-1` loop
// bound.
func decodeFDS(data string) (map[string]int, error) {
	if data == "" {
		return map[string]int{}, nil
	}
	fields := strings.Split(data, ":")
	out := make(map[string]int, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		fd, err := strconv.Atoi(fields[i+1])
		if err != nil {
			return nil, fmt.Errorf("fds: bad descriptor for %q: %w", fields[i], err)
		}
		out[fields[i]] = fd
	}
	return out, nil
}

// LoadFDSFromEnv parses the FDS environment variable a supervisor-launched
// child inherits, returning a Registry of the Indicators whose descriptors
// it named. A child without FDS set (run directly, not via the supervisor)
// gets an empty registry and must provision its own streams.
func LoadFDSFromEnv(topo *Topology) (*wakeup.Registry, error) {
	data, ok := os.LookupEnv(fdsEnvVar)
	if !ok {
		return wakeup.NewRegistry(), nil
	}
	byName, err := decodeFDS(data)
	if err != nil {
		return nil, err
	}
	reg := wakeup.NewRegistry()
	for _, s := range topo.Streams() {
		fd, ok := byName[streamKeyName(s)]
		if !ok {
			continue
		}
		reg.Register(wakeup.IndicatorFromFD(s.key(), fd))
	}
	return reg, nil
}

// FDSEnv renders the FDS environment assignment ("FDS=name:fd:...") a
// supervisor sets on a child's exec.Cmd.Env, given the child-relative fd
// each stream's Indicator landed on (exec.Cmd.ExtraFiles[i] always appears
// as fd 3+i in the child, never the parent's own descriptor number).
func FDSEnv(names []string, childFDs []int) string {
	return fdsEnvVar + "=" + encodeFDS(names, childFDs)
}
