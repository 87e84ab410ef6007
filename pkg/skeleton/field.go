package skeleton

import (
	"github.com/cuemby/lola/pkg/binding"
	"github.com/cuemby/lola/pkg/shmarena"
)

// Field is a Field event: an Event pinned to one slot plus a validity
// flag, per SPEC_FULL.md §3's supplement grounded on the original's
// skeleton_field.h. StopOffer before the first Update leaves the field
// permanently invalid for any proxy that never saw an Update either.
type Field[T any] struct {
	ev *Event[T]
	fb binding.FieldBinding
}

// OfferField constructs a field. cfg.SlotCount is ignored and forced to 1.
func OfferField[T any](cfg Config) (*Field[T], error) {
	cfg.SlotCount = 1
	bcfg := binding.Config{
		ServiceID:    cfg.ServiceID,
		InstanceID:   cfg.InstanceID,
		ElementID:    cfg.ElementID,
		ElementType:  shmarena.ElementTypeField,
		SlotCount:    1,
		MaxProxies:   cfg.MaxProxies,
		ASIL:         cfg.ASIL,
		Subscription: cfg.Subscription,
		Hooks:        cfg.Hooks,
		SkeletonPID:  cfg.pid(),
	}
	bcfg.PayloadSize = payloadSizeOf[T]()
	ev, err := binding.NewEvent(bcfg)
	if err != nil {
		return nil, err
	}
	b := binding.NewLoLaSkeletonBinding(ev)
	return &Field[T]{
		ev: newEvent[T](b, cfg.ServiceID, cfg.InstanceID, cfg.ElementID, cfg.OnQMDisconnect),
		fb: b,
	}, nil
}

// Update publishes a new field value and marks it valid for any reader
// that subscribes afterward (or is already waiting).
func (f *Field[T]) Update(value T) error {
	if err := f.ev.Send(value); err != nil {
		return err
	}
	f.fb.MarkInitialized()
	return nil
}

// IsInitialized reports whether Update has ever succeeded.
func (f *Field[T]) IsInitialized() bool { return f.fb.IsInitialized() }

// Event exposes the underlying shared object so pkg/proxy.SubscribeField
// can attach to it, same as Event[T].Event.
func (f *Field[T]) Event() *binding.Event { return f.ev.Event() }

// StopOffer tears the field down, same as Event.StopOffer.
func (f *Field[T]) StopOffer() { f.ev.StopOffer() }
