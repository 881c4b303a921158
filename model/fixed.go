package model

import "unsafe"

// Fixed is implemented by every memcpy'able message family: their Go struct
// layout (all fixed-width scalars and byte arrays, no pointers, strings or
// slices) is written verbatim into a frame's payload bytes. MsgTag reports
// the frame's msg_type discriminant.
type Fixed interface {
	MsgTag() Tag
}

// Unfixed is implemented by message families whose content is variable
// length (spec §3.3): they own their own compact encoding instead of being
// memcpy'd.
type Unfixed interface {
	MsgTag() Tag
	Encode() []byte
	DecodeFrom([]byte) error
}

// EncodeFixed returns a view of v's raw memory. The returned slice aliases
// v and must be copied (eg with the copy builtin) before v goes out of
// scope or is reused; callers never retain it directly.
func EncodeFixed[T Fixed](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}

// DecodeFixed reinterprets b as a T, copying its bytes into a fresh value.
// It panics if b is shorter than sizeof(T), which indicates frame
// corruption the caller should have already rejected.
func DecodeFixed[T Fixed](b []byte) T {
	var v T
	n := unsafe.Sizeof(v)
	if uintptr(len(b)) < n {
		panic("model: short buffer for fixed decode")
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(&v)), n), b[:n])
	return v
}

// SizeofFixed returns the wire size in bytes of a FIXED type T.
func SizeofFixed[T Fixed]() uintptr {
	var v T
	return unsafe.Sizeof(v)
}
