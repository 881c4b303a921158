package model

import "hash/fnv"

// HashString is the stable 32-bit hash used throughout the core to turn
// human-readable identity tuples into dense uint32 UIDs (spec §3.1). It is
// FNV-1a, a simple, dependency-free, collision-resistant-enough hash for
// this purpose; no ecosystem library specializes in "stable string to
// uint32" any better than the standard library's hash/fnv (see DESIGN.md).
func HashString(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}

// HashPair combines two identity components the same way the source
// combines institution/account and exchange/instrument pairs: xor of their
// independent hashes, so that order doesn't matter and partial reuse
// (eg same exchange, different instrument) still spreads well.
func HashPair(a, b string) uint32 {
	return HashString(a) ^ HashString(b)
}

// DestinationFlag builds a destination id for one of the core's two fixed
// role streams (spec §3.1, §4.7): MD-request and the shared TD-response
// stream, as opposed to a per-account broker stream built with HashPair.
type DestinationFlag int8

const (
	DestMDRequest DestinationFlag = iota
	DestTDResponse
)

func (f DestinationFlag) DestinationID() uint32 {
	return HashString([]string{"MD_REQ", "TD_RESPONSE"}[f])
}
