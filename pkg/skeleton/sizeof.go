package skeleton

import "unsafe"

// payloadSizeOf returns unsafe.Sizeof a zero T, the per-event cell size
// the data arena reserves (spec §9, type erasure: the core only ever
// knows a byte count, never T itself).
func payloadSizeOf[T any]() uint64 {
	var zero T
	return uint64(unsafe.Sizeof(zero))
}
