package model

import (
	"encoding/binary"
	"fmt"
)

// MDSubscribe is a variable-length subscription request: an id plus a list
// of instrument keys (spec §3.3, UNFIXED). It owns its own compact
// encoding rather than being memcpy'd, per the FIXED/UNFIXED framing
// contract (spec §3.3, §9 design note).
type MDSubscribe struct {
	ID   uint32
	Keys []InstrumentKey
}

func (MDSubscribe) MsgTag() Tag { return TagMDSubscribe }

// Encode serializes the request as: u32 id, u32 count, then count ×
// (InstrumentKey raw bytes). InstrumentKey is itself FIXED, so each
// element is memcpy'd in turn inside the UNFIXED envelope.
func (s MDSubscribe) Encode() []byte {
	const keySize = InstrumentIDLen + ExchangeIDLen
	buf := make([]byte, 8+len(s.Keys)*keySize)
	binary.LittleEndian.PutUint32(buf[0:4], s.ID)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(s.Keys)))
	off := 8
	for i := range s.Keys {
		k := s.Keys[i]
		copy(buf[off:off+keySize], EncodeFixed(&k))
		off += keySize
	}
	return buf
}

// DecodeFrom is the inverse of Encode.
func (s *MDSubscribe) DecodeFrom(b []byte) error {
	const keySize = InstrumentIDLen + ExchangeIDLen
	if len(b) < 8 {
		return fmt.Errorf("model: MDSubscribe payload too short (%d bytes)", len(b))
	}
	s.ID = binary.LittleEndian.Uint32(b[0:4])
	count := binary.LittleEndian.Uint32(b[4:8])
	want := 8 + int(count)*keySize
	if len(b) < want {
		return fmt.Errorf("model: MDSubscribe payload truncated (want %d, have %d)", want, len(b))
	}
	s.Keys = make([]InstrumentKey, count)
	off := 8
	for i := 0; i < int(count); i++ {
		s.Keys[i] = DecodeFixed[InstrumentKey](b[off : off+keySize])
		off += keySize
	}
	return nil
}

var (
	_ Unfixed = (*MDSubscribe)(nil)
)
