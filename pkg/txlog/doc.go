/*
Package txlog implements the Transaction Log Set (component C3): the
per-event registry of per-subscriber transaction records that lets a
crashed proxy's outstanding slot references be rolled back safely.

# Why this exists

AllocateNextSlot/ReferenceNextEvent/Dereference on their own cannot tell the
difference between "this subscriber holds slot i" and "this subscriber
crashed halfway through acquiring a reference to slot i". A transaction log
makes that distinction observable: a begin flag is set before the refcount
CAS is attempted, and a commit flag is set only after it succeeds. The Slot
Collector (pkg/collector) reads this state for dead proxies and rolls the
refcount back.

# Write discipline

	acquire: begin := true; fence; refcount++; fence; commit := true
	release: commit := false; fence; refcount--; fence; begin := false

Both flags are plain atomic.Bool — not a single combined word — because the
fence between them is a real memory-ordering requirement, not just a
bit-packing convenience: a recovery sweep running concurrently with a live
acquire/release must observe begin and commit as of two genuinely distinct
points in time.

# Rollback semantics

For a dead proxy, every slot with begin set (whether or not commit is also
set) had exactly one outstanding refcount contribution from that proxy:
  - begin ∧ ¬commit: the refcount CAS may or may not have landed before the
    crash. Pessimistically decrement once — never under-release (I-2) — then
    clear begin.
  - begin ∧ commit: the reference was cleanly held. Decrement once, then
    clear both flags.

Decrementing in both branches is what makes invariant (P-2) — "after
collection, for every dead subscriber, the sum of its contributed
refcounts on all slots is zero" — hold regardless of which branch a given
slot landed in.
*/
package txlog
