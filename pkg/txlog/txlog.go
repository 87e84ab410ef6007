package txlog

import (
	"errors"
	"sync/atomic"

	"github.com/google/uuid"
)

// ErrSlotExhausted is returned by RegisterProxy when every non-skeleton log
// slot is already occupied (spec §4.3.1, "TracingSlotExhausted").
var ErrSlotExhausted = errors.New("txlog: no free transaction log slot")

// Log is one proxy's (or the skeleton's) transaction record for one event.
type Log struct {
	occupied  atomic.Bool
	ownerPID  atomic.Uint32
	sessionID atomic.Value // uuid.UUID, a fresh one per RegisterProxy call

	subscribeBegin  atomic.Bool
	subscribeCommit atomic.Bool

	referenceBegin  []atomic.Bool
	referenceCommit []atomic.Bool
}

func newLog(slotCount int) *Log {
	return &Log{
		referenceBegin:  make([]atomic.Bool, slotCount),
		referenceCommit: make([]atomic.Bool, slotCount),
	}
}

// OwnerPID returns the PID that registered this log entry.
func (l *Log) OwnerPID() uint32 { return l.ownerPID.Load() }

// SessionID returns the uuid minted for this log entry's current
// registration, distinguishing one proxy's lease on a log slot from a
// later proxy that reused the same index (or even the same PID, in the
// unlucky case of PID reuse after a crash) — used only to tag collector
// rollback log lines so an operator can tell two "proxy 3 rolled back"
// events in a log apart; it gates no behavior.
func (l *Log) SessionID() uuid.UUID {
	v, _ := l.sessionID.Load().(uuid.UUID)
	return v
}

// Set is the per-event Transaction Log Set: a fixed-capacity array of
// per-proxy Logs plus one reserved skeleton (producer) log.
type Set struct {
	slotCount     int
	logs          []*Log
	skeletonIndex uint32
}

// SkeletonIndexSentinel is kSkeletonIndexSentinel from spec §3: the
// reserved index recording the producer's own outstanding references.
func (s *Set) SkeletonIndexSentinel() uint32 { return s.skeletonIndex }

// New builds a Transaction Log Set sized for slotCount event slots and
// maxProxies concurrent subscribers, plus the one reserved skeleton entry.
func New(slotCount, maxProxies int) *Set {
	logs := make([]*Log, maxProxies+1)
	for i := range logs {
		logs[i] = newLog(slotCount)
	}
	s := &Set{
		slotCount:     slotCount,
		logs:          logs,
		skeletonIndex: uint32(maxProxies),
	}
	s.logs[s.skeletonIndex].occupied.Store(true)
	return s
}

// RegisterSkeletonTracing returns the fixed skeleton sentinel index; it is
// always available and never exhausted.
func (s *Set) RegisterSkeletonTracing() uint32 { return s.skeletonIndex }

// RegisterProxy allocates a log slot for a newly subscribed proxy owned by
// ownerPID. It returns ErrSlotExhausted if every non-skeleton slot is
// already occupied.
func (s *Set) RegisterProxy(ownerPID uint32) (uint32, error) {
	for i := uint32(0); i < s.skeletonIndex; i++ {
		l := s.logs[i]
		if l.occupied.CompareAndSwap(false, true) {
			l.ownerPID.Store(ownerPID)
			l.sessionID.Store(uuid.New())
			l.subscribeBegin.Store(true)
			l.subscribeCommit.Store(true)
			return i, nil
		}
	}
	return 0, ErrSlotExhausted
}

// UnregisterProxy frees a log slot after its references have all been
// cleared (normal unsubscribe, or after a collector rollback).
func (s *Set) UnregisterProxy(idx uint32) {
	l := s.logs[idx]
	l.subscribeCommit.Store(false)
	l.subscribeBegin.Store(false)
	l.ownerPID.Store(0)
	l.occupied.Store(false)
}

// Log returns the transaction log at idx (a proxy index or the skeleton
// sentinel).
func (s *Set) Log(idx uint32) *Log { return s.logs[idx] }

// IsOccupied reports whether idx currently names a registered proxy.
func (s *Set) IsOccupied(idx uint32) bool { return s.logs[idx].occupied.Load() }

// Capacity returns the number of proxy slots (excluding the skeleton
// sentinel).
func (s *Set) Capacity() int { return int(s.skeletonIndex) }

// MarkReferenceBegin records that idx is about to attempt a reference to
// slot. Must be called before the corresponding EDC refcount CAS.
func (s *Set) MarkReferenceBegin(idx, slot uint32) {
	s.logs[idx].referenceBegin[slot].Store(true)
}

// MarkReferenceCommit records that idx's reference to slot succeeded. Must
// be called only after the corresponding EDC refcount CAS succeeded.
func (s *Set) MarkReferenceCommit(idx, slot uint32) {
	s.logs[idx].referenceCommit[slot].Store(true)
}

// MarkReferenceBeginFailed undoes a begin marker for a reference attempt
// that did not in fact acquire the slot (e.g. the CAS lost a race and the
// caller moved on to a different slot, or the slot stopped qualifying).
func (s *Set) MarkReferenceBeginFailed(idx, slot uint32) {
	s.logs[idx].referenceBegin[slot].Store(false)
}

// ClearReferenceCommit clears idx's commit flag for slot, the first step
// of a normal (non-crash) dereference. Callers invoke ClearReferenceCommit before the Dereference CAS and
// ClearReferenceBegin after, per the write discipline in doc.go.
func (s *Set) ClearReferenceCommit(idx, slot uint32) {
	s.logs[idx].referenceCommit[slot].Store(false)
}

// ClearReferenceBegin clears idx's begin flag for slot, the final step of a
// normal (non-crash) dereference.
func (s *Set) ClearReferenceBegin(idx, slot uint32) {
	s.logs[idx].referenceBegin[slot].Store(false)
}

// HasOutstandingReference reports whether idx's log shows a begin marker
// (committed or not) for slot — i.e. whether a rollback needs to touch it.
func (s *Set) HasOutstandingReference(idx, slot uint32) bool {
	return s.logs[idx].referenceBegin[slot].Load()
}

// CountStaleBeginWithoutCommit counts slots in idx's log with begin set but
// commit not set — the signature of a reference attempt caught mid-flight.
// For a live PID this is either a CAS currently in progress (will clear
// itself) or, if it persists, a crash the PID-liveness oracle cannot see.
// v1 only observes and reports this count; it never rolls back a live PID.
func (s *Set) CountStaleBeginWithoutCommit(idx uint32) int {
	l := s.logs[idx]
	n := 0
	for slot := 0; slot < s.slotCount; slot++ {
		if l.referenceBegin[slot].Load() && !l.referenceCommit[slot].Load() {
			n++
		}
	}
	return n
}

// Rollback walks every slot in idx's log and, for each with an outstanding
// begin marker, invokes dec(slot) exactly once before clearing both flags.
// dec is expected to be the owning EDC's DereferenceForRollback (or an
// equivalent refcount-decrementing callback that leaves the log alone); Rollback itself never touches an EDC
// directly so that txlog has no dependency on pkg/edc.
func (s *Set) Rollback(idx uint32, dec func(slot uint32)) int {
	l := s.logs[idx]
	rolledBack := 0
	for slot := 0; slot < s.slotCount; slot++ {
		if l.referenceBegin[slot].Load() {
			dec(uint32(slot))
			l.referenceCommit[slot].Store(false)
			l.referenceBegin[slot].Store(false)
			rolledBack++
		}
	}
	return rolledBack
}
