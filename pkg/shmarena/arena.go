package shmarena

import (
	"fmt"
	"unsafe"

	"github.com/cuemby/lola/pkg/slotword"
)

// MagicVersion identifies the control-region ABI version. An attaching
// process must refuse to proceed if the region's stored magic does not
// match — spec §7, "Version/ABI mismatch".
const MagicVersion uint64 = 0x4C4F4C41_00000001 // "LOLA" + version 1

// Offset is a byte offset from an Arena's base address. Offsets, not Go
// pointers, are what gets written into shared memory, because two
// processes mapping the same region land at different virtual addresses.
type Offset uint64

// OffsetInvalid is never a valid allocation result.
const OffsetInvalid Offset = ^Offset(0)

// Arena is a bump-allocated view over an already-backing byte slice. It
// never grows; callers size the backing slice up front (Size) and Alloc
// fails once it is exhausted.
type Arena struct {
	buf    []byte
	cursor uint64
}

// New wraps buf as an arena. buf is typically a slice aliasing an mmap'd
// shared-memory region in production, or a plain make([]byte, n) in tests;
// Arena does not care which.
func New(buf []byte) *Arena {
	return &Arena{buf: buf}
}

// Size returns the arena's total capacity in bytes.
func (a *Arena) Size() uint64 { return uint64(len(a.buf)) }

// Used returns the number of bytes allocated so far.
func (a *Arena) Used() uint64 { return a.cursor }

// Alloc bump-allocates size bytes aligned to align (must be a power of
// two) and returns their offset. Only the constructing (publisher) process
// ever calls Alloc; subscribers only resolve offsets that are already
// committed into the control region's index.
func (a *Arena) Alloc(size, align uint64) (Offset, error) {
	aligned := (a.cursor + align - 1) &^ (align - 1)
	if aligned+size > uint64(len(a.buf)) {
		return OffsetInvalid, fmt.Errorf("shmarena: alloc of %d bytes at aligned offset %d exceeds arena size %d", size, aligned, len(a.buf))
	}
	a.cursor = aligned + size
	return Offset(aligned), nil
}

func (a *Arena) byteAt(off Offset, size uint64) []byte {
	end := uint64(off) + size
	if end > uint64(len(a.buf)) || uint64(off) > end {
		panic(fmt.Sprintf("shmarena: offset %d size %d out of bounds (arena size %d)", off, size, len(a.buf)))
	}
	return a.buf[off:end]
}

// AllocSlotWords bump-allocates a contiguous array of n zero-valued slot
// state words (C1) and returns its offset.
func (a *Arena) AllocSlotWords(n int) (Offset, error) {
	return a.Alloc(uint64(n)*8, 8)
}

// SlotWords returns a typed view over n slot state words previously
// allocated at off via AllocSlotWords. The returned slice aliases the
// arena's backing bytes directly: atomic operations on its elements are
// visible to every other mapping of the same bytes.
func (a *Arena) SlotWords(off Offset, n int) []slotword.Word {
	raw := a.byteAt(off, uint64(n)*8)
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*slotword.Word)(unsafe.Pointer(&raw[0])), n)
}

// Bytes returns a raw byte view over size bytes at off, for payload cells
// and other plain-old-data records.
func (a *Arena) Bytes(off Offset, size uint64) []byte {
	return a.byteAt(off, size)
}
