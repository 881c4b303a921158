package journal

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/qiubinglin/btrader-go/model"
)

// journalVersion must match across every cooperating process (spec §4.1).
// Bumping it invalidates every page already on disk.
const journalVersion uint32 = 1

// pageHeader is the fixed, little-endian, bit-exact page prologue (spec
// §3.2). Field order and width must never change without bumping
// journalVersion.
type pageHeader struct {
	Version           uint32
	PageHeaderLength  uint32
	PageSize          uint32
	FrameHeaderLength uint32
	LastFramePosition uint64
}

// frameHeader precedes every frame's payload (spec §3.2). Length is
// written last by the writer and is the lock-free commit signal a reader
// waits on (spec §4.3).
type frameHeader struct {
	Length      uint32
	HeaderLength uint32
	GenTime     int64
	TriggerTime int64
	MsgType     int32
	Source      uint32
	Dest        uint32
}

var (
	pageHeaderSize  = uint32(unsafe.Sizeof(pageHeader{}))
	frameHeaderSize = uint32(unsafe.Sizeof(frameHeader{}))
)

// PageSizeFor returns the configured page size for a module (spec §3.2):
// 128MiB for MD, 16MiB for TD/Strategy, 1MiB otherwise.
func PageSizeFor(module model.Module) uint32 {
	switch module {
	case model.ModuleMD:
		return 128 << 20
	case model.ModuleTD, model.ModuleStrategy:
		return 16 << 20
	default:
		return 1 << 20
	}
}

// Page is one mmap'd page file: the unit of rollover and allocation
// (spec §3.2, §4.1).
type Page struct {
	Location *Location
	DestID   uint32
	PageID   uint32
	size     uint32
	lazy     bool
	locked   bool
	data     []byte
}

// LoadPage opens or creates the page file for (loc, destID, pageID),
// memory-maps it, and validates or initializes its header (spec §4.1).
// writing selects read/write vs read-only protection; lazy selects
// whether the OS is hinted to keep the mapping resident (lazy=false) or
// left to ordinary paging (lazy=true).
func LoadPage(locator *Locator, loc *Location, destID, pageID uint32, writing, lazy bool) (*Page, error) {
	size := PageSizeFor(loc.Module)
	path, err := locator.PagePath(loc, destID, pageID)
	if err != nil {
		return nil, newJournalErr(path, "resolve page path", err)
	}

	flags := os.O_RDONLY
	if writing {
		flags = os.O_RDWR | os.O_CREATE
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, newJournalErr(path, "open page file", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, newJournalErr(path, "stat page file", err)
	}
	if fi.Size() < int64(size) {
		if !writing {
			return nil, newJournalErr(path, "page file shorter than configured page size", nil)
		}
		if err := f.Truncate(int64(size)); err != nil {
			return nil, newJournalErr(path, "extend page file", err)
		}
	}

	prot := unix.PROT_READ
	if writing {
		prot |= unix.PROT_WRITE
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), prot, unix.MAP_SHARED)
	if err != nil {
		return nil, newJournalErr(path, "mmap page file", err)
	}

	p := &Page{Location: loc, DestID: destID, PageID: pageID, size: size, lazy: lazy, data: data}

	hdr := p.header()
	if hdr.LastFramePosition == 0 {
		if !writing {
			_ = unix.Munmap(data)
			return nil, newJournalErr(path, "page has no header and is not open for writing", nil)
		}
		hdr.Version = journalVersion
		hdr.PageHeaderLength = pageHeaderSize
		hdr.PageSize = size
		hdr.FrameHeaderLength = frameHeaderSize
		hdr.LastFramePosition = uint64(pageHeaderSize)
	}

	switch {
	case hdr.Version != journalVersion:
		_ = unix.Munmap(data)
		return nil, newJournalErr(path, "journal version mismatch", nil)
	case hdr.PageHeaderLength != pageHeaderSize:
		_ = unix.Munmap(data)
		return nil, newJournalErr(path, "page header length mismatch", nil)
	case hdr.PageSize != size:
		_ = unix.Munmap(data)
		return nil, newJournalErr(path, "page size mismatch", nil)
	case hdr.FrameHeaderLength != frameHeaderSize:
		_ = unix.Munmap(data)
		return nil, newJournalErr(path, "frame header length mismatch", nil)
	}

	if !lazy {
		if err := unix.Mlock(data); err == nil {
			p.locked = true
		}
		_ = unix.Madvise(data, unix.MADV_RANDOM)
	}

	return p, nil
}

func (p *Page) header() *pageHeader {
	return (*pageHeader)(unsafe.Pointer(&p.data[0]))
}

// Release flushes pending writes and unmaps the page. Failure to unmap is
// recoverable and surfaced to the caller (spec §4.1).
func (p *Page) Release() error {
	if p.locked {
		_ = unix.Munlock(p.data)
	}
	if err := unix.Munmap(p.data); err != nil {
		return newJournalErr("", "unmap page", err)
	}
	return nil
}

func (p *Page) addressBorder() uint32 { return p.size - frameHeaderSize }

func (p *Page) firstFrameOffset() uint32 { return pageHeaderSize }

func (p *Page) lastFrameOffset() uint32 { return uint32(p.header().LastFramePosition) }

func (p *Page) setLastFramePosition(offset uint32) { p.header().LastFramePosition = uint64(offset) }

// IsFull reports whether the page's last recorded frame leaves no room for
// another header+payload+sentinel before addressBorder.
func (p *Page) IsFull() bool {
	last := Frame{page: p, offset: p.lastFrameOffset()}
	return p.lastFrameOffset()+last.FrameLength() > p.addressBorder()
}

// BeginTime is the gen_time of the page's first frame.
func (p *Page) BeginTime() int64 {
	return (Frame{page: p, offset: p.firstFrameOffset()}).GenTime()
}

// EndTime is the gen_time of the page's last closed frame.
func (p *Page) EndTime() int64 {
	return (Frame{page: p, offset: p.lastFrameOffset()}).GenTime()
}

// FindPageID returns the page whose begin_time is the latest one not after
// t, or the earliest page if t predates every page, or 1 if no pages exist
// yet (spec §4.1).
func FindPageID(locator *Locator, loc *Location, destID uint32, t int64) (uint32, error) {
	ids, err := locator.ListPageIDs(loc, destID)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 1, nil
	}
	if t == 0 {
		return ids[0], nil
	}
	for i := len(ids) - 1; i >= 0; i-- {
		p, err := LoadPage(locator, loc, destID, ids[i], false, true)
		if err != nil {
			continue
		}
		begin := p.BeginTime()
		_ = p.Release()
		if begin <= t {
			return ids[i], nil
		}
	}
	return ids[0], nil
}
