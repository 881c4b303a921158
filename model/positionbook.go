package model

import (
	"encoding/binary"
	"fmt"
)

// PositionBook is a full snapshot of an account's positions, keyed by the
// stable instrument UID (spec §3.3, UNFIXED — it holds two maps, so it
// cannot be memcpy'd).
type PositionBook struct {
	Long  map[uint32]Position
	Short map[uint32]Position
}

func (PositionBook) MsgTag() Tag { return TagPositionBook }

// Encode serializes as: u32 longCount, longCount × (u32 key + Position),
// then u32 shortCount, shortCount × (u32 key + Position).
func (pb PositionBook) Encode() []byte {
	psz := int(SizeofFixed[Position]())
	entry := 4 + psz
	buf := make([]byte, 4+len(pb.Long)*entry+4+len(pb.Short)*entry)

	off := 0
	off = encodePositionMap(buf, off, pb.Long, psz)
	off = encodePositionMap(buf, off, pb.Short, psz)
	_ = off
	return buf
}

func encodePositionMap(buf []byte, off int, m map[uint32]Position, psz int) int {
	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(len(m)))
	off += 4
	for k, v := range m {
		binary.LittleEndian.PutUint32(buf[off:off+4], k)
		off += 4
		copy(buf[off:off+psz], EncodeFixed(&v))
		off += psz
	}
	return off
}

// DecodeFrom is the inverse of Encode.
func (pb *PositionBook) DecodeFrom(b []byte) error {
	psz := int(SizeofFixed[Position]())
	off := 0
	var err error
	pb.Long, off, err = decodePositionMap(b, off, psz)
	if err != nil {
		return err
	}
	pb.Short, off, err = decodePositionMap(b, off, psz)
	if err != nil {
		return err
	}
	_ = off
	return nil
}

func decodePositionMap(b []byte, off, psz int) (map[uint32]Position, int, error) {
	if len(b) < off+4 {
		return nil, off, fmt.Errorf("model: PositionBook payload truncated at count")
	}
	count := int(binary.LittleEndian.Uint32(b[off : off+4]))
	off += 4
	m := make(map[uint32]Position, count)
	entry := 4 + psz
	if len(b) < off+count*entry {
		return nil, off, fmt.Errorf("model: PositionBook payload truncated at entries")
	}
	for i := 0; i < count; i++ {
		key := binary.LittleEndian.Uint32(b[off : off+4])
		off += 4
		m[key] = DecodeFixed[Position](b[off : off+psz])
		off += psz
	}
	return m, off, nil
}

var _ Unfixed = (*PositionBook)(nil)
