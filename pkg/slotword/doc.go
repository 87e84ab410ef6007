/*
Package slotword implements the packed atomic slot state word (component C1
of the LoLa event data-control plane): one machine word per publication slot
encoding a timestamp and a reference count, shared between a single
publisher process and any number of subscriber processes mapping the same
shared-memory control region.

# Encoding

This build uses the 64-bit variant, split 32/32 — the bit-exact layout two
independently compiled binaries must agree on:

	bits 63..32 : timestamp T
	bits 31..0  : refcount R

	T = 0x00000000          → Invalid (slot empty, never written)
	T = 0xFFFFFFFF          → InWriting (writer has claimed the slot)
	R = 0xFFFFFFFF          → in-writing marker, redundant with T=InWriting

Both sentinels are always written together; IsInWriting reads only T, per
the canonicalization decided in SPEC_FULL.md (the redundant R marker exists
only so the bit layout matches what a second implementation checking R
alone would also observe).

All mutation goes through CAS or a single-writer store-release; there is no
mutex anywhere in this package — every Word is a plain atomic.Uint64.
*/
package slotword
