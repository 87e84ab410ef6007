package proxy

import (
	"unsafe"

	"github.com/cuemby/lola/pkg/binding"
	"github.com/cuemby/lola/pkg/lolaerr"
)

// Field is the subscriber-side typed façade over a Field (spec §7,
// "Field uninitialized"; SPEC_FULL.md §3).
type Field[T any] struct {
	ev *Event[T]
	fb binding.FieldBinding
}

// SubscribeField attaches to a field.
func SubscribeField[T any](a attacher, serviceID uint64, instanceID uint16, elementID uint32, cfg Config) (*Field[T], error) {
	lb, err := binding.NewLoLaProxyBinding(a.Event(), cfg.Quality)
	if err != nil {
		return nil, err
	}
	ev, err := subscribeWith[T](lb, cfg.MaxSamples, serviceID, instanceID, elementID)
	if err != nil {
		return nil, err
	}
	return &Field[T]{ev: ev, fb: lb}, nil
}

// GetValue returns the field's current value. It returns
// kFieldValueIsNotValid if the publisher has never called Update.
//
// Unlike Event.GetNewSamples, GetValue is level-triggered, not
// edge-triggered: it always re-references the field's one slot from
// timestamp 0 rather than advancing a last-seen watermark, so repeated
// calls see the same value until the next Update regardless of how many
// times it has already been read.
func (f *Field[T]) GetValue() (T, error) {
	var zero T
	if !f.fb.IsInitialized() {
		return zero, lolaerr.New(lolaerr.KindFieldValueIsNotValid, "GetValue", f.ev.name, nil)
	}
	slot, _, ok := f.ev.b.ReferenceNextEvent(0)
	if !ok {
		// Initialized but the one slot is momentarily InWriting
		// (an Update is in flight); the caller sees the prior value
		// is unavailable this instant rather than a torn read.
		return zero, lolaerr.New(lolaerr.KindFieldValueIsNotValid, "GetValue", f.ev.name, nil)
	}
	defer f.ev.b.Dereference(slot)
	bytes := f.ev.b.PayloadBytes(slot)
	return *(*T)(unsafe.Pointer(&bytes[0])), nil
}

// Unsubscribe releases this proxy's admission, same as Event.Unsubscribe.
func (f *Field[T]) Unsubscribe() { f.ev.Unsubscribe() }
