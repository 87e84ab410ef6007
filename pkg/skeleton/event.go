package skeleton

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/cuemby/lola/pkg/binding"
	"github.com/cuemby/lola/pkg/log"
	"github.com/cuemby/lola/pkg/lolaerr"
	"github.com/cuemby/lola/pkg/metrics"
	"github.com/cuemby/lola/pkg/shmarena"
	"github.com/rs/zerolog"
)

// Event is the publisher-side typed façade over one event, parameterized
// by its plain-old-data sample type T. The zero value is not usable;
// construct with Offer.
type Event[T any] struct {
	b              binding.SkeletonEventBinding
	offered        atomic.Bool
	logger         zerolog.Logger
	onQMDisconnect func()
	name           string
}

// Offer constructs the event's shared control/data object and returns a
// ready-to-use façade. T must be a fixed-size, trivially copyable type
// (no pointers, slices, maps, or interfaces) — the core only ever copies
// unsafe.Sizeof(T) raw bytes in and out of the data arena.
func Offer[T any](cfg Config) (*Event[T], error) {
	bcfg := binding.Config{
		ServiceID:    cfg.ServiceID,
		InstanceID:   cfg.InstanceID,
		ElementID:    cfg.ElementID,
		ElementType:  shmarena.ElementTypeEvent,
		SlotCount:    cfg.SlotCount,
		PayloadSize:  payloadSizeOf[T](),
		MaxProxies:   cfg.MaxProxies,
		ASIL:         cfg.ASIL,
		Subscription: cfg.Subscription,
		Hooks:        cfg.Hooks,
		SkeletonPID:  cfg.pid(),
	}
	ev, err := binding.NewEvent(bcfg)
	if err != nil {
		return nil, lolaerr.New(lolaerr.KindInvalidBindingInformation, "Offer", "", err)
	}
	b := binding.NewLoLaSkeletonBinding(ev)
	return newEvent[T](b, cfg.ServiceID, cfg.InstanceID, cfg.ElementID, cfg.OnQMDisconnect), nil
}

func newEvent[T any](b binding.SkeletonEventBinding, serviceID uint64, instanceID uint16, elementID uint32, onQMDisconnect func()) *Event[T] {
	b.Offer()
	e := &Event[T]{
		b:              b,
		logger:         log.WithEvent(serviceID, instanceID, elementID),
		onQMDisconnect: onQMDisconnect,
		name:           fmt.Sprintf("%d/%d/%d", serviceID, instanceID, elementID),
	}
	e.offered.Store(true)
	return e
}

// Allocate claims a slot for writing and returns a scoped handle whose
// Value() aliases the slot's payload cell directly (no copy). The handle
// must be closed exactly once, via Send or Drop — Go has no destructors,
// so letting it go out of scope without calling either leaks the slot as
// permanently InWriting until the next StopOffer/Offer cycle.
func (e *Event[T]) Allocate() (*SampleAllocateePtr[T], error) {
	if !e.offered.Load() {
		return nil, lolaerr.New(lolaerr.KindNotOffered, "Allocate", "", nil)
	}
	slot, ok, disconnectQM := e.b.AllocateNextSlot()
	if !ok {
		metrics.SlotAllocateFailuresTotal.WithLabelValues(e.name, "qm").Inc()
		return nil, lolaerr.New(lolaerr.KindSampleAllocationFailure, "Allocate", e.name, nil)
	}
	if disconnectQM {
		e.logger.Warn().Msg("QM control disconnected: misbehaving QM consumer starved the safety side")
		if e.onQMDisconnect != nil {
			e.onQMDisconnect()
		}
	}
	return &SampleAllocateePtr[T]{event: e, slot: slot}, nil
}

// Send is the atomic allocate+write+commit convenience path: Allocate,
// copy value into the slot, and Send it in one call.
func (e *Event[T]) Send(value T) error {
	timer := metrics.NewTimer()
	defer timer.ObserveDurationVec(metrics.SendDuration, e.name)

	ptr, err := e.Allocate()
	if err != nil {
		return err
	}
	*ptr.Value() = value
	return ptr.Send()
}

// IsQMDisconnected reports whether the composite has amputated its QM
// half on this event (spec §4.4.1).
func (e *Event[T]) IsQMDisconnected() bool { return e.b.IsQMDisconnected() }

// Event exposes the underlying shared object so a same-process
// pkg/proxy.Subscribe call can attach to it, satisfying proxy's attacher
// interface. Service discovery across real processes is out of this
// module's scope (spec §1); in-process, this is the handoff point.
func (e *Event[T]) Event() *binding.Event {
	return e.b.(interface{ Event() *binding.Event }).Event()
}

// StopOffer tears the event down. It logs (does not fail) if writer
// handles are still outstanding — spec §9's sample pointer guard.
func (e *Event[T]) StopOffer() {
	e.offered.Store(false)
	if leaked := e.b.StopOffer(); leaked > 0 {
		e.logger.Warn().Int("leaked_writer_handles", leaked).Msg("StopOffer with outstanding SampleAllocateePtr handles")
	}
}

// SampleAllocateePtr is the scoped writer handle returned by Allocate
// (spec §9, "Coroutine-like scoped handles").
type SampleAllocateePtr[T any] struct {
	event  *Event[T]
	slot   uint32
	closed bool
}

// Value returns a pointer aliasing the slot's payload cell directly.
// Valid only until Send or Drop is called.
func (p *SampleAllocateePtr[T]) Value() *T {
	bytes := p.event.b.PayloadBytes(p.slot)
	return (*T)(unsafe.Pointer(&bytes[0]))
}

// Send commits the slot with the event's next monotone timestamp. It is
// an error to call Send (or Drop) more than once.
func (p *SampleAllocateePtr[T]) Send() error {
	if p.closed {
		return lolaerr.New(lolaerr.KindInvalidHandle, "Send", "", nil)
	}
	ts, err := p.event.b.NextTimestamp()
	if err != nil {
		p.event.b.Discard(p.slot)
		p.closed = true
		return lolaerr.New(lolaerr.KindBindingFailure, "Send", p.event.name, err)
	}
	p.event.b.EventReady(p.slot, ts)
	p.closed = true
	return nil
}

// Drop abandons the slot without publishing. Safe to call on an
// already-closed handle (no-op), so it can always be deferred
// unconditionally right after Allocate.
func (p *SampleAllocateePtr[T]) Drop() {
	if p.closed {
		return
	}
	p.event.b.Discard(p.slot)
	p.closed = true
}
