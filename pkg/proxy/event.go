package proxy

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/cuemby/lola/pkg/binding"
	"github.com/cuemby/lola/pkg/log"
	"github.com/cuemby/lola/pkg/lolaerr"
	"github.com/cuemby/lola/pkg/metrics"
	"github.com/rs/zerolog"
)

// Event is the subscriber-side typed façade over one event, parameterized
// by the same sample type T its publisher offered with. The zero value
// is not usable; construct with Subscribe.
type Event[T any] struct {
	b          binding.ProxyEventBinding
	subscribed atomic.Bool
	lastSeenTS atomic.Uint32
	maxSamples uint32
	logger     zerolog.Logger
	name       string
}

// Subscribe attaches to a, the published Event[T], admitting this proxy
// under cfg's budget. a is typically obtained from the skeleton's
// binding via a service-discovery lookup out of this module's scope; here
// it is passed directly since that resolution step is an external
// collaborator (spec §1).
func Subscribe[T any](a attacher, serviceID uint64, instanceID uint16, elementID uint32, cfg Config) (*Event[T], error) {
	lb, err := binding.NewLoLaProxyBinding(a.Event(), cfg.Quality)
	if err != nil {
		return nil, err
	}
	return subscribeWith[T](lb, cfg.MaxSamples, serviceID, instanceID, elementID)
}

func subscribeWith[T any](b binding.ProxyEventBinding, maxSamples uint32, serviceID uint64, instanceID uint16, elementID uint32) (*Event[T], error) {
	if err := b.Subscribe(maxSamples); err != nil {
		return nil, err
	}
	e := &Event[T]{
		b:          b,
		maxSamples: maxSamples,
		logger:     log.WithEvent(serviceID, instanceID, elementID),
		name:       fmt.Sprintf("%d/%d/%d", serviceID, instanceID, elementID),
	}
	e.subscribed.Store(true)
	return e, nil
}

// Unsubscribe releases this proxy's admission and transaction log slot.
func (e *Event[T]) Unsubscribe() {
	if !e.subscribed.CompareAndSwap(true, false) {
		return
	}
	e.b.Unsubscribe()
}

// GetNewSamples drives ReferenceNextEvent until no Ready slot newer than
// the last-seen timestamp qualifies or limit samples have been delivered
// (0 means unlimited), invoking callback with each sample and
// Dereferencing immediately after callback returns. It returns the number
// of samples delivered. The view passed to callback is borrowed — it
// aliases the slot's payload cell and is invalid the instant callback
// returns; copy out of it if the value needs to outlive the call.
func (e *Event[T]) GetNewSamples(callback func(*T), limit int) (int, error) {
	if !e.subscribed.Load() {
		return 0, lolaerr.New(lolaerr.KindNotOffered, "GetNewSamples", e.name, nil)
	}
	delivered := 0
	for limit <= 0 || delivered < limit {
		timer := metrics.NewTimer()
		slot, ts, ok := e.b.ReferenceNextEvent(e.lastSeenTS.Load())
		timer.ObserveDurationVec(metrics.ReferenceNextEventDuration, e.name)
		if !ok {
			break
		}
		bytes := e.b.PayloadBytes(slot)
		callback((*T)(unsafe.Pointer(&bytes[0])))
		e.b.Dereference(slot)
		e.lastSeenTS.Store(ts)
		delivered++
	}
	return delivered, nil
}

// GetFreeSampleSlots reports how many more samples this proxy could
// currently pull without blocking — i.e. GetNumNewEvents relative to the
// last timestamp actually consumed.
func (e *Event[T]) GetFreeSampleSlots() int {
	return e.b.GetNumNewEvents(e.lastSeenTS.Load())
}
