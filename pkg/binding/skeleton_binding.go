package binding

import (
	"github.com/cuemby/lola/pkg/metrics"
	"github.com/cuemby/lola/pkg/shmarena"
)

// LoLaSkeletonBinding is the production SkeletonEventBinding: it drives
// the Event's edcc.Composite directly. Exactly one LoLaSkeletonBinding
// exists per Event (the publisher), matching the "publisher exclusively
// owns construction" rule of spec §3.
type LoLaSkeletonBinding struct {
	ev *Event
}

var _ SkeletonEventBinding = (*LoLaSkeletonBinding)(nil)

// NewLoLaSkeletonBinding wraps ev for the publisher side.
func NewLoLaSkeletonBinding(ev *Event) *LoLaSkeletonBinding {
	return &LoLaSkeletonBinding{ev: ev}
}

// Event exposes the underlying shared object so a proxy binding can be
// constructed against the same Event in-process (see package doc).
func (b *LoLaSkeletonBinding) Event() *Event { return b.ev }

func (b *LoLaSkeletonBinding) ElementID() shmarena.ElementFqId { return b.ev.id }

func (b *LoLaSkeletonBinding) Offer() {
	metrics.QMDisconnected.WithLabelValues(b.ev.metricsName()).Set(0)
	b.ev.hooks.FireSkeletonEventInit(b.ev.id)
}

func (b *LoLaSkeletonBinding) AllocateNextSlot() (slot uint32, ok bool, disconnectQM bool) {
	slot, ok, disconnectQM = b.ev.composite.AllocateNextSlot()
	if ok {
		b.ev.writerGuard.inc()
		if disconnectQM {
			metrics.QMDisconnected.WithLabelValues(b.ev.metricsName()).Set(1)
		}
		b.ev.refreshSlotMetrics()
	}
	return slot, ok, disconnectQM
}

func (b *LoLaSkeletonBinding) PayloadBytes(slot uint32) []byte {
	return b.ev.payloadBytes(slot)
}

func (b *LoLaSkeletonBinding) NextTimestamp() (uint32, error) {
	return b.ev.composite.NextTimestamp()
}

func (b *LoLaSkeletonBinding) EventReady(slot uint32, timestamp uint32) {
	b.ev.composite.EventReady(slot, timestamp)
	b.ev.writerGuard.dec()
	b.ev.hooks.FireSend(b.ev.id, slot, timestamp)
	b.ev.refreshSlotMetrics()
}

func (b *LoLaSkeletonBinding) Discard(slot uint32) {
	b.ev.composite.Discard(slot)
	b.ev.writerGuard.dec()
	b.ev.refreshSlotMetrics()
}

func (b *LoLaSkeletonBinding) IsQMDisconnected() bool { return b.ev.composite.IsQMDisconnected() }

func (b *LoLaSkeletonBinding) StopOffer() (leakedWriterHandles int) {
	return b.ev.writerGuard.count()
}

func (b *LoLaSkeletonBinding) MarkInitialized() { b.ev.MarkInitialized() }
func (b *LoLaSkeletonBinding) IsInitialized() bool { return b.ev.IsInitialized() }
