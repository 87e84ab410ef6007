package tracing

import "github.com/cuemby/lola/pkg/shmarena"

// Point names one of the fixed instrumentation points a façade fires a
// hook at, mirroring the original's trace-point taxonomy for skeleton and
// proxy events without importing any of its transport.
type Point int

const (
	// SkeletonEventInit fires once, from Offer, after the control block
	// has been constructed and is ready to accept allocations.
	SkeletonEventInit Point = iota
	// Send fires after a successful Send (allocate+write+commit).
	Send
	// Subscribe fires after a successful Subscribe.
	Subscribe
	// GetNewSamples fires once per sample a GetNewSamples call delivers
	// to its callback, not once per call.
	GetNewSamples
	// UnsubscribeEvent fires after Unsubscribe releases its budget.
	UnsubscribeEvent
)

func (p Point) String() string {
	switch p {
	case SkeletonEventInit:
		return "SkeletonEventInit"
	case Send:
		return "Send"
	case Subscribe:
		return "Subscribe"
	case GetNewSamples:
		return "GetNewSamples"
	case UnsubscribeEvent:
		return "UnsubscribeEvent"
	default:
		return "Unknown"
	}
}

// HookSet is a façade's tracing attachment point: one optional callback
// per Point, keyed by the element the event pertains to. The zero value
// disables tracing entirely (every Fire call below is then a no-op).
type HookSet struct {
	OnSkeletonEventInit func(id shmarena.ElementFqId)
	OnSend              func(id shmarena.ElementFqId, slot uint32, timestamp uint32)
	OnSubscribe         func(id shmarena.ElementFqId, proxyIdx uint32)
	OnGetNewSamples     func(id shmarena.ElementFqId, proxyIdx uint32, slot uint32)
	OnUnsubscribe       func(id shmarena.ElementFqId, proxyIdx uint32)
}

// FireSkeletonEventInit invokes OnSkeletonEventInit if set.
func (h HookSet) FireSkeletonEventInit(id shmarena.ElementFqId) {
	if h.OnSkeletonEventInit != nil {
		h.OnSkeletonEventInit(id)
	}
}

// FireSend invokes OnSend if set.
func (h HookSet) FireSend(id shmarena.ElementFqId, slot, timestamp uint32) {
	if h.OnSend != nil {
		h.OnSend(id, slot, timestamp)
	}
}

// FireSubscribe invokes OnSubscribe if set.
func (h HookSet) FireSubscribe(id shmarena.ElementFqId, proxyIdx uint32) {
	if h.OnSubscribe != nil {
		h.OnSubscribe(id, proxyIdx)
	}
}

// FireGetNewSamples invokes OnGetNewSamples if set.
func (h HookSet) FireGetNewSamples(id shmarena.ElementFqId, proxyIdx, slot uint32) {
	if h.OnGetNewSamples != nil {
		h.OnGetNewSamples(id, proxyIdx, slot)
	}
}

// FireUnsubscribe invokes OnUnsubscribe if set.
func (h HookSet) FireUnsubscribe(id shmarena.ElementFqId, proxyIdx uint32) {
	if h.OnUnsubscribe != nil {
		h.OnUnsubscribe(id, proxyIdx)
	}
}
