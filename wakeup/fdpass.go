package wakeup

import (
	"encoding/binary"
	"net"

	"golang.org/x/sys/unix"
)

// maxHandoffIndicators bounds a single SCM_RIGHTS message: one page of
// descriptors is far more than a strategy process ever joins at once.
const maxHandoffIndicators = 256

// SendIndicatorFDs passes every Indicator's eventfd to the peer connected
// on conn via SCM_RIGHTS, prefixed by a length-delimited list of
// (source_uid, dest_id) keys in descriptor order. This is the fallback a
// late-joining process uses when it missed the FDS env var handoff at
// launch (spec §6.2).
func SendIndicatorFDs(conn *net.UnixConn, inds []*Indicator) error {
	f, err := conn.File()
	if err != nil {
		return err
	}
	defer f.Close()

	buf := make([]byte, 4+8*len(inds))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(inds)))
	fds := make([]int, len(inds))
	for i, ind := range inds {
		fds[i] = ind.fd
		off := 4 + i*8
		binary.LittleEndian.PutUint32(buf[off:off+4], ind.key.SourceUID)
		binary.LittleEndian.PutUint32(buf[off+4:off+8], ind.key.DestID)
	}
	return unix.Sendmsg(int(f.Fd()), buf, unix.UnixRights(fds...), nil, 0)
}

// RecvIndicatorFDs is the receiving half of SendIndicatorFDs.
func RecvIndicatorFDs(conn *net.UnixConn) ([]*Indicator, error) {
	f, err := conn.File()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, 4+8*maxHandoffIndicators)
	oob := make([]byte, unix.CmsgSpace(4*maxHandoffIndicators))
	n, oobn, _, _, err := unix.Recvmsg(int(f.Fd()), buf, oob, 0)
	if err != nil {
		return nil, err
	}
	if n < 4 {
		return nil, newWakeupErr("short indicator handoff message")
	}
	count := int(binary.LittleEndian.Uint32(buf[0:4]))

	scms, err := unix.ParseSocketControlMessage(oob[:oobn])
	if err != nil {
		return nil, err
	}
	var fds []int
	for _, scm := range scms {
		parsed, err := unix.ParseUnixRights(&scm)
		if err != nil {
			return nil, err
		}
		fds = append(fds, parsed...)
	}
	if len(fds) != count {
		return nil, newWakeupErr("indicator fd count did not match descriptor count")
	}

	inds := make([]*Indicator, count)
	for i := 0; i < count; i++ {
		off := 4 + i*8
		key := Key{
			SourceUID: binary.LittleEndian.Uint32(buf[off : off+4]),
			DestID:    binary.LittleEndian.Uint32(buf[off+4 : off+8]),
		}
		inds[i] = IndicatorFromFD(key, fds[i])
	}
	return inds, nil
}
