package shmarena

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// indexEntry is one slot of the fixed-capacity open-addressed
// ElementFqId → Offset table that lives at a known offset in every control
// and data region (spec §6, "map { ElementFqId → EventControlOffset }").
//
// occupied is written last, with release ordering, by the single
// constructing process; readers load it first, with acquire ordering,
// before trusting key/offset. This is the same begin/commit discipline the
// rest of the module uses for single-writer/multi-reader shared state.
type indexEntry struct {
	key      uint64
	offset   uint64
	occupied atomic.Uint64 // 0 = empty, 1 = occupied
}

const indexEntrySize = 24 // 3 * 8 bytes; occupied is itself a uint64-backed atomic.

// Index is a fixed-capacity hash map from ElementFqId to Offset, built with
// open addressing (linear probing) directly over arena bytes so that it is
// itself a valid shared-memory record. Only the constructing (publisher)
// process ever calls Put; Get is safe for concurrent readers in other
// processes.
type Index struct {
	entries []indexEntry
}

// AllocIndex bump-allocates a table with room for capacity entries
// (capacity should comfortably exceed the expected number of offered
// elements; Put fails once the table is full).
func (a *Arena) AllocIndex(capacity int) (Offset, error) {
	off, err := a.Alloc(uint64(capacity)*indexEntrySize, 8)
	if err != nil {
		return OffsetInvalid, err
	}
	raw := a.byteAt(off, uint64(capacity)*indexEntrySize)
	entries := unsafe.Slice((*indexEntry)(unsafe.Pointer(&raw[0])), capacity)
	for i := range entries {
		entries[i] = indexEntry{}
	}
	return off, nil
}

// Index returns a typed view over a table previously allocated with
// AllocIndex.
func (a *Arena) Index(off Offset, capacity int) *Index {
	raw := a.byteAt(off, uint64(capacity)*indexEntrySize)
	return &Index{entries: unsafe.Slice((*indexEntry)(unsafe.Pointer(&raw[0])), capacity)}
}

func (ix *Index) slot(key ElementFqId) int {
	h := uint64(key) * 0x9E3779B97F4A7C15 // fibonacci hashing
	return int(h % uint64(len(ix.entries)))
}

// Put inserts key→offset. It is only ever called by the constructing
// process (single writer); concurrent Put calls from multiple goroutines
// within that one process are not supported.
func (ix *Index) Put(key ElementFqId, offset Offset) error {
	n := len(ix.entries)
	start := ix.slot(key)
	for i := 0; i < n; i++ {
		e := &ix.entries[(start+i)%n]
		if e.occupied.Load() == 0 {
			e.key = uint64(key)
			e.offset = uint64(offset)
			e.occupied.Store(1)
			return nil
		}
		if e.key == uint64(key) {
			return fmt.Errorf("shmarena: index already contains key %#x", uint64(key))
		}
	}
	return fmt.Errorf("shmarena: index full (capacity %d)", n)
}

// Get resolves key to its offset. Safe for concurrent use by any number of
// reader processes while the writer is only ever adding new entries (never
// removing or mutating existing ones — LoLa elements are offered for the
// lifetime of the control region).
func (ix *Index) Get(key ElementFqId) (Offset, bool) {
	n := len(ix.entries)
	start := ix.slot(key)
	for i := 0; i < n; i++ {
		e := &ix.entries[(start+i)%n]
		if e.occupied.Load() == 0 {
			return OffsetInvalid, false
		}
		if e.key == uint64(key) {
			return Offset(e.offset), true
		}
	}
	return OffsetInvalid, false
}
