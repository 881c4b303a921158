package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/qiubinglin/btrader-go/model"
)

// Location identifies a logical producer/consumer role: a (mode, module,
// group, name) tuple that hashes to a stable 32-bit UID used as the frame
// source id (spec §3.1).
type Location struct {
	Mode   model.Mode
	Module model.Module
	Group  string
	Name   string
	UID    uint32
}

// NewLocation builds a Location and derives its UID from the canonical
// "<module>/<group>/<name>/<mode>" name, matching the source's uname
// (original_source/core/journal/jlocation.h).
func NewLocation(mode model.Mode, module model.Module, group, name string) *Location {
	uname := fmt.Sprintf("%s/%s/%s/%s", module, group, name, mode)
	return &Location{Mode: mode, Module: module, Group: group, Name: name, UID: model.HashString(uname)}
}

// Locator resolves a Location plus destination id to on-disk paths under a
// single root (spec §6.3).
type Locator struct {
	root string
}

// NewLocator roots the locator at outputRootPath; paths are created lazily
// as journals are written.
func NewLocator(outputRootPath string) *Locator {
	return &Locator{root: outputRootPath}
}

// JournalDir returns (and creates) the directory holding this Location's
// journal page files.
func (l *Locator) JournalDir(loc *Location) (string, error) {
	dir := filepath.Join(l.root, loc.Mode.DirName(), loc.Module.String(), loc.Group, loc.Name,
		"journal", loc.Mode.DirName())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// PagePath returns the path of one page file: "<dest:08x>.<page_id>.journal".
func (l *Locator) PagePath(loc *Location, destID, pageID uint32) (string, error) {
	dir, err := l.JournalDir(loc)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("%08x.%d.journal", destID, pageID)), nil
}

// ListPageIDs returns the sorted page ids already on disk for (loc, destID).
func (l *Locator) ListPageIDs(loc *Location, destID uint32) ([]uint32, error) {
	dir, err := l.JournalDir(loc)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	prefix := fmt.Sprintf("%08x.", destID)
	var ids []uint32
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".journal") {
			continue
		}
		mid := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".journal")
		n, err := strconv.ParseUint(mid, 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint32(n))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// DestinationID hashes (institution, account) into the stable 32-bit id
// used to address a broker journal stream (spec §3.1).
func DestinationID(institution, account string) uint32 {
	return model.HashPair(institution, account)
}
