package shmarena

import (
	"sync/atomic"
	"unsafe"
)

// controlHeader is the fixed prefix of every control region (spec §6):
//
//	offset 0  : magic/version
//	offset 8  : skeleton_pid
//
// Both fields are atomics so a subscriber attaching while the publisher is
// still constructing the region observes either the old value or the new
// one, never a torn read.
type controlHeader struct {
	magic       atomic.Uint64
	skeletonPID atomic.Uint32
	_           uint32 // padding to keep the header 8-byte aligned
}

const controlHeaderSize = 16

// InitControlHeader bump-allocates and initializes the control header at
// the start of the region, returning its offset (always 0 for the first
// allocation out of a fresh arena).
func (a *Arena) InitControlHeader(skeletonPID uint32) (Offset, error) {
	off, err := a.Alloc(controlHeaderSize, 8)
	if err != nil {
		return OffsetInvalid, err
	}
	h := a.controlHeaderAt(off)
	h.magic.Store(MagicVersion)
	h.skeletonPID.Store(skeletonPID)
	return off, nil
}

func (a *Arena) controlHeaderAt(off Offset) *controlHeader {
	raw := a.byteAt(off, controlHeaderSize)
	return (*controlHeader)(unsafe.Pointer(&raw[0]))
}

// CheckControlHeader validates the magic/version at off and returns the
// recorded skeleton PID. ok is false if the region was never initialized
// or was built by an incompatible version — the caller must refuse to
// attach further (spec §7, "Version/ABI mismatch").
func (a *Arena) CheckControlHeader(off Offset) (skeletonPID uint32, ok bool) {
	h := a.controlHeaderAt(off)
	if h.magic.Load() != MagicVersion {
		return 0, false
	}
	return h.skeletonPID.Load(), true
}
