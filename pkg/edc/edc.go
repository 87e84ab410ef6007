package edc

import (
	"github.com/cuemby/lola/pkg/slotword"
	"github.com/cuemby/lola/pkg/txlog"
)

// EDC is the lock-free control of N slots for one event.
type EDC struct {
	slots []slotword.Word
	tls   *txlog.Set
}

// New constructs an EDC over slots (already zero-valued, i.e. Invalid) and
// the event's Transaction Log Set.
func New(slots []slotword.Word, tls *txlog.Set) *EDC {
	return &EDC{slots: slots, tls: tls}
}

// SlotCount returns N, the number of control slots.
func (e *EDC) SlotCount() int { return len(e.slots) }

// TransactionLog returns the event's Transaction Log Set.
func (e *EDC) TransactionLog() *txlog.Set { return e.tls }

// AllocateNextSlot scans for a reader-free slot (R == 0) with the smallest
// timestamp — oldest-or-invalid first — and CASes it into InWriting. It
// retries on CAS contention and returns ok=false only when every slot
// currently has at least one reader or is InWriting (R == RMax).
func (e *EDC) AllocateNextSlot() (slot uint32, ok bool) {
	for {
		bestIdx := -1
		var bestT uint32
		for i := range e.slots {
			t, r := e.slots[i].LoadAcquire()
			if r != 0 {
				continue
			}
			if bestIdx == -1 || t < bestT {
				bestIdx = i
				bestT = t
			}
		}
		if bestIdx == -1 {
			return 0, false
		}
		if e.slots[bestIdx].CAS(bestT, 0, slotword.TInWriting, slotword.RMax) {
			return uint32(bestIdx), true
		}
		// Lost the race to another allocation or a late dereference
		// landing exactly on this slot; rescan.
	}
}

// TryAllocateSlot attempts to claim a specific slot index into InWriting,
// rather than letting the LRU scan pick one. It is used by pkg/edcc to keep
// the QM and ASIL controls allocating the same slot index for one
// publication. It returns false (without retrying) if slot currently has
// any reader, or if a concurrent operation changes it before the CAS runs.
func (e *EDC) TryAllocateSlot(slot uint32) bool {
	t, r := e.slots[slot].LoadAcquire()
	if r != 0 {
		return false
	}
	return e.slots[slot].CAS(t, 0, slotword.TInWriting, slotword.RMax)
}

// EventReady completes a publication: slot must currently be InWriting
// (returned by AllocateNextSlot and not yet committed or discarded).
// Publishing stores (timestamp, 0) with release ordering.
func (e *EDC) EventReady(slot uint32, timestamp uint32) {
	t, r := e.slots[slot].LoadAcquire()
	if !slotword.IsInWriting(t) || r != slotword.RMax {
		panic("edc: EventReady called on a slot that is not InWriting")
	}
	e.slots[slot].StoreRelease(timestamp, 0)
}

// Discard abandons a previously allocated slot without publishing.
func (e *EDC) Discard(slot uint32) {
	t, r := e.slots[slot].LoadAcquire()
	if !slotword.IsInWriting(t) || r != slotword.RMax {
		panic("edc: Discard called on a slot that is not InWriting")
	}
	e.slots[slot].StoreRelease(slotword.TInvalid, 0)
}

// ReferenceNextEvent finds the Ready slot with the smallest timestamp in
// (lastSeenTS, upperLimitTS] and atomically bumps its refcount for
// proxyIdx, recording the attempt in the Transaction Log Set before the
// refcount CAS is attempted (so a recovery sweep can never observe a bumped
// refcount without a corresponding begin marker).
func (e *EDC) ReferenceNextEvent(proxyIdx uint32, lastSeenTS, upperLimitTS uint32) (slot uint32, ok bool) {
	for {
		bestIdx := -1
		var bestT, bestR uint32
		for i := range e.slots {
			t, r := e.slots[i].LoadAcquire()
			if !slotword.IsReady(t, r) {
				continue
			}
			if t <= lastSeenTS || t > upperLimitTS {
				continue
			}
			if bestIdx == -1 || t < bestT {
				bestIdx, bestT, bestR = i, t, r
			}
		}
		if bestIdx == -1 {
			return 0, false
		}
		if bestR >= slotword.RMax-1 {
			// At the reserved boundary: refuse the reference rather than
			// let R reach RMax. Other qualifying slots are not tried. In
			// practice this requires an implausible number of concurrent
			// readers on one slot.
			return 0, false
		}

		e.tls.MarkReferenceBegin(proxyIdx, uint32(bestIdx))
		if e.slots[bestIdx].CAS(bestT, bestR, bestT, bestR+1) {
			e.tls.MarkReferenceCommit(proxyIdx, uint32(bestIdx))
			return uint32(bestIdx), true
		}
		// The slot's state moved out from under us (overwritten, or
		// another reader raced in). Undo the tentative begin marker and
		// rescan.
		e.tls.MarkReferenceBeginFailed(proxyIdx, uint32(bestIdx))
	}
}

// Dereference releases proxyIdx's held reference to slot, decrementing the
// refcount and clearing the Transaction Log Set's markers in the
// commit-then-begin order the recovery sweep depends on.
func (e *EDC) Dereference(proxyIdx, slot uint32) {
	e.tls.ClearReferenceCommit(proxyIdx, slot)
	e.decrementRefcount(slot)
	e.tls.ClearReferenceBegin(proxyIdx, slot)
}

// DereferenceForRollback decrements slot's refcount without touching the
// Transaction Log Set. It exists for pkg/collector to pass as the `dec`
// callback to txlog.Set.Rollback, which clears the TLS markers itself.
func (e *EDC) DereferenceForRollback(slot uint32) {
	e.decrementRefcount(slot)
}

func (e *EDC) decrementRefcount(slot uint32) {
	for {
		t, r := e.slots[slot].LoadAcquire()
		if r == 0 {
			panic("edc: refcount would drop below zero")
		}
		if e.slots[slot].CAS(t, r, t, r-1) {
			return
		}
	}
}

// Timestamp returns slot's current timestamp with acquire ordering. It is
// a plain read with no side effects, used by callers (pkg/binding) that
// need to remember which timestamp a ReferenceNextEvent call actually
// landed on without re-deriving it from a second scan.
func (e *EDC) Timestamp(slot uint32) uint32 {
	t, _ := e.slots[slot].LoadAcquire()
	return t
}

// GetNumNewEvents counts Ready slots with a timestamp strictly greater
// than referenceTS. It has no side effects.
func (e *EDC) GetNumNewEvents(referenceTS uint32) int {
	n := 0
	for i := range e.slots {
		t, r := e.slots[i].LoadAcquire()
		if slotword.IsReady(t, r) && t > referenceTS {
			n++
		}
	}
	return n
}

// Stats counts slots currently Ready and slots currently InReading (Ready
// with at least one outstanding reference). It has no side effects; it
// exists for metrics gauges that want a momentary snapshot rather than
// per-operation event counts.
func (e *EDC) Stats() (ready, inReading int) {
	for i := range e.slots {
		t, r := e.slots[i].LoadAcquire()
		if slotword.IsReady(t, r) {
			ready++
			if slotword.IsInReading(t, r) {
				inReading++
			}
		}
	}
	return ready, inReading
}
