package binding

import "github.com/cuemby/lola/pkg/shmarena"

// SkeletonEventBinding is the method set pkg/skeleton needs from a
// publisher-side event binding. LoLaSkeletonBinding is the production
// implementation; internal/fakebinding provides a second one for tests.
type SkeletonEventBinding interface {
	// ElementID returns the fully-qualified identifier of the bound event.
	ElementID() shmarena.ElementFqId

	// Offer is called once by the façade when it offers the event. The
	// LoLa binding resets the event's QM-disconnect gauge and fires the
	// SkeletonEventInit trace point here; allocation does not depend on it.
	Offer()

	// AllocateNextSlot implements the composite allocation policy of spec
	// §4.4.1. disconnectQM is true exactly once, on the call that
	// amputates the QM side.
	AllocateNextSlot() (slot uint32, ok bool, disconnectQM bool)

	// PayloadBytes returns a writable view over slot's payload cell.
	PayloadBytes(slot uint32) []byte

	// NextTimestamp returns the next monotone publication timestamp.
	NextTimestamp() (uint32, error)

	// EventReady commits slot with timestamp.
	EventReady(slot uint32, timestamp uint32)

	// Discard abandons slot without publishing.
	Discard(slot uint32)

	// IsQMDisconnected reports whether the QM half has been amputated.
	IsQMDisconnected() bool

	// StopOffer returns the number of writer-side sample handles still
	// outstanding at the time of the call (spec §9's type-erased sample
	// pointer guard supplement) so the façade can decide whether to log a
	// leak. It does not itself block further allocations.
	StopOffer() (leakedWriterHandles int)
}

// ProxyEventBinding is the method set pkg/proxy needs from a
// subscriber-side event binding.
type ProxyEventBinding interface {
	// ElementID returns the fully-qualified identifier of the bound event.
	ElementID() shmarena.ElementFqId

	// Subscribe admits this proxy under maxSamples, registering a
	// transaction log slot. It returns lolaerr.KindBindingFailure on
	// budget rejection or transaction-log exhaustion.
	Subscribe(maxSamples uint32) error

	// Unsubscribe releases this proxy's admission and transaction log
	// slot. Safe to call at most once per successful Subscribe.
	Unsubscribe()

	// ReferenceNextEvent finds and references the oldest unseen Ready
	// slot after lastSeenTS, returning the slot, its timestamp, and
	// whether one qualified.
	ReferenceNextEvent(lastSeenTS uint32) (slot uint32, timestamp uint32, ok bool)

	// PayloadBytes returns a read view over slot's payload cell.
	PayloadBytes(slot uint32) []byte

	// Dereference releases a reference obtained from ReferenceNextEvent.
	Dereference(slot uint32)

	// GetNumNewEvents counts Ready slots newer than referenceTS.
	GetNumNewEvents(referenceTS uint32) int
}

// FieldBinding is the additional method set pkg/skeleton's and pkg/proxy's
// Field façades need on top of the event bindings above: a single
// validity flag recording whether Update has ever been called (spec
// §7, "Field uninitialized" / SPEC_FULL.md §3). Both SkeletonEventBinding
// and ProxyEventBinding implementations in this repo also implement
// FieldBinding; façades type-assert for it only when wrapping a Field.
type FieldBinding interface {
	MarkInitialized()
	IsInitialized() bool
}
