package binding

import (
	"os"

	"github.com/cuemby/lola/pkg/lolaerr"
	"github.com/cuemby/lola/pkg/shmarena"
	"github.com/cuemby/lola/pkg/slotword"
	"github.com/cuemby/lola/pkg/txlog"
)

// LoLaProxyBinding is the production ProxyEventBinding: it attaches to an
// already-constructed Event (spec §3, "subscribers have mapped read/write
// views") at a chosen quality level and registers itself in that
// quality's Transaction Log Set on Subscribe.
type LoLaProxyBinding struct {
	ev      *Event
	quality shmarena.QualityType

	proxyIdx   uint32
	tls        *txlog.Set
	maxSamples uint32
}

var _ ProxyEventBinding = (*LoLaProxyBinding)(nil)

// NewLoLaProxyBinding attaches to ev at quality. It returns an error if
// quality is ASIL but ev has no ASIL half (spec §6,
// "kInvalidBindingInformation"-equivalent at the façade layer — the
// façade maps this error to that kind).
func NewLoLaProxyBinding(ev *Event, quality shmarena.QualityType) (*LoLaProxyBinding, error) {
	tls := ev.tlsFor(quality)
	if tls == nil {
		return nil, lolaerr.Newf(lolaerr.KindInvalidBindingInformation, "Subscribe", "", "ASIL control requested but this instance has no ASIL half")
	}
	return &LoLaProxyBinding{ev: ev, quality: quality, tls: tls}, nil
}

func (b *LoLaProxyBinding) ElementID() shmarena.ElementFqId { return b.ev.id }

func (b *LoLaProxyBinding) Subscribe(maxSamples uint32) error {
	if ok, reason := b.ev.subCtl.Accept(maxSamples); !ok {
		return lolaerr.Newf(lolaerr.KindBindingFailure, "Subscribe", "", "rejected: %s", reason)
	}
	idx, err := b.tls.RegisterProxy(uint32(os.Getpid()))
	if err != nil {
		b.ev.subCtl.Release(maxSamples)
		return lolaerr.New(lolaerr.KindBindingFailure, "Subscribe", "", err)
	}
	b.proxyIdx = idx
	b.maxSamples = maxSamples
	b.ev.hooks.FireSubscribe(b.ev.id, idx)
	return nil
}

func (b *LoLaProxyBinding) Unsubscribe() {
	b.tls.UnregisterProxy(b.proxyIdx)
	b.ev.subCtl.Release(b.maxSamples)
	b.ev.hooks.FireUnsubscribe(b.ev.id, b.proxyIdx)
}

func (b *LoLaProxyBinding) ReferenceNextEvent(lastSeenTS uint32) (slot uint32, timestamp uint32, ok bool) {
	edc := b.ev.edcFor(b.quality)
	slot, ok = edc.ReferenceNextEvent(b.proxyIdx, lastSeenTS, slotword.TMax)
	if !ok {
		return 0, 0, false
	}
	b.ev.readerGuard.inc()
	b.ev.hooks.FireGetNewSamples(b.ev.id, b.proxyIdx, slot)
	b.ev.refreshSlotMetrics()
	return slot, edc.Timestamp(slot), true
}

func (b *LoLaProxyBinding) PayloadBytes(slot uint32) []byte {
	return b.ev.payloadBytes(slot)
}

func (b *LoLaProxyBinding) Dereference(slot uint32) {
	b.ev.edcFor(b.quality).Dereference(b.proxyIdx, slot)
	b.ev.readerGuard.dec()
	b.ev.refreshSlotMetrics()
}

func (b *LoLaProxyBinding) GetNumNewEvents(referenceTS uint32) int {
	return b.ev.edcFor(b.quality).GetNumNewEvents(referenceTS)
}

func (b *LoLaProxyBinding) MarkInitialized() { b.ev.MarkInitialized() }
func (b *LoLaProxyBinding) IsInitialized() bool { return b.ev.IsInitialized() }
