package fakebinding

import (
	"sync"

	"github.com/cuemby/lola/pkg/binding"
	"github.com/cuemby/lola/pkg/lolaerr"
	"github.com/cuemby/lola/pkg/shmarena"
)

var (
	_ binding.SkeletonEventBinding = (*Skeleton)(nil)
	_ binding.ProxyEventBinding    = (*Proxy)(nil)
	_ binding.FieldBinding         = (*Skeleton)(nil)
	_ binding.FieldBinding         = (*Proxy)(nil)
)

const (
	tInvalid   uint32 = 0
	tInWriting uint32 = ^uint32(0)
	tMax       uint32 = tInWriting - 1
	rMax       uint32 = ^uint32(0)
)

type slot struct {
	t       uint32
	r       uint32
	payload []byte
}

func isReady(t, r uint32) bool { return t != tInvalid && t != tInWriting && r < rMax }

// Event is the fake's shared state for one event: mutex-guarded slots,
// subscription budget, and per-proxy last-seen bookkeeping, shared
// in-process between one Skeleton and any number of Proxy fakes attached
// to it via Attach.
type Event struct {
	mu sync.Mutex

	id          shmarena.ElementFqId
	cellSize    int
	slots       []slot
	clock       uint32
	qmDisc      bool
	asilPresent bool

	maxSamples        uint32
	maxSubscribers    uint32
	enforceMaxSamples bool
	curSamples        uint32
	curSubscribers    uint32

	nextProxyIdx uint32
	initialized  bool
}

// NewEvent builds a fake event with n slots of cellSize bytes each.
// asilPresent mirrors binding.Config.ASIL: when false, AllocateNextSlot
// never performs the QM-disconnect fallback.
func NewEvent(id shmarena.ElementFqId, n, cellSize int, asilPresent bool, maxSamples, maxSubscribers uint32, enforce bool) *Event {
	return &Event{
		id:                id,
		cellSize:          cellSize,
		slots:             make([]slot, n),
		asilPresent:       asilPresent,
		maxSamples:        maxSamples,
		maxSubscribers:    maxSubscribers,
		enforceMaxSamples: enforce,
	}
}

// Skeleton is the fake SkeletonEventBinding.
type Skeleton struct {
	ev      *Event
	pending map[uint32]bool // slots currently InWriting, allocated by this skeleton
}

// NewSkeleton wraps ev for the publisher side.
func NewSkeleton(ev *Event) *Skeleton {
	return &Skeleton{ev: ev, pending: make(map[uint32]bool)}
}

func (s *Skeleton) ElementID() shmarena.ElementFqId { return s.ev.id }

// Offer is a no-op: the fake binding has no tracing hook seam, matching
// its role as a plain state-machine double for façade tests that don't
// care about tracing.
func (s *Skeleton) Offer() {}

func (s *Skeleton) AllocateNextSlot() (idx uint32, ok bool, disconnectQM bool) {
	s.ev.mu.Lock()
	defer s.ev.mu.Unlock()

	best := -1
	var bestT uint32
	for i := range s.ev.slots {
		if s.ev.slots[i].r != 0 {
			continue
		}
		if best == -1 || s.ev.slots[i].t < bestT {
			best, bestT = i, s.ev.slots[i].t
		}
	}
	if best == -1 {
		if s.ev.asilPresent && !s.ev.qmDisc {
			s.ev.qmDisc = true
			return 0, true, true
		}
		return 0, false, false
	}
	s.ev.slots[best].t = tInWriting
	s.ev.slots[best].r = rMax
	s.pending[uint32(best)] = true
	return uint32(best), true, false
}

func (s *Skeleton) PayloadBytes(idx uint32) []byte {
	s.ev.mu.Lock()
	defer s.ev.mu.Unlock()
	if s.ev.slots[idx].payload == nil {
		s.ev.slots[idx].payload = make([]byte, s.ev.cellSize)
	}
	return s.ev.slots[idx].payload
}

func (s *Skeleton) NextTimestamp() (uint32, error) {
	s.ev.mu.Lock()
	defer s.ev.mu.Unlock()
	s.ev.clock++
	if s.ev.clock >= tInWriting {
		return 0, errTimestampExhausted
	}
	return s.ev.clock, nil
}

func (s *Skeleton) EventReady(idx uint32, ts uint32) {
	s.ev.mu.Lock()
	defer s.ev.mu.Unlock()
	s.ev.slots[idx].t = ts
	s.ev.slots[idx].r = 0
	delete(s.pending, idx)
}

func (s *Skeleton) Discard(idx uint32) {
	s.ev.mu.Lock()
	defer s.ev.mu.Unlock()
	s.ev.slots[idx].t = tInvalid
	s.ev.slots[idx].r = 0
	delete(s.pending, idx)
}

func (s *Skeleton) IsQMDisconnected() bool {
	s.ev.mu.Lock()
	defer s.ev.mu.Unlock()
	return s.ev.qmDisc
}

func (s *Skeleton) StopOffer() (leakedWriterHandles int) {
	s.ev.mu.Lock()
	defer s.ev.mu.Unlock()
	return len(s.pending)
}

func (s *Skeleton) MarkInitialized() {
	s.ev.mu.Lock()
	defer s.ev.mu.Unlock()
	s.ev.initialized = true
}

func (s *Skeleton) IsInitialized() bool {
	s.ev.mu.Lock()
	defer s.ev.mu.Unlock()
	return s.ev.initialized
}

var errTimestampExhausted = lolaerr.Newf(lolaerr.KindBindingFailure, "Send", "", "fake publisher timestamp counter exhausted")

// Proxy is the fake ProxyEventBinding.
type Proxy struct {
	ev            *Event
	idx           uint32
	refs          map[uint32]bool
	lastRequested uint32
}

// Attach registers a new fake subscriber against ev. It does not itself
// check the admission budget — that happens on Subscribe, matching the
// real binding where TLS registration and budget admission are separate
// steps.
func Attach(ev *Event) *Proxy {
	return &Proxy{ev: ev, refs: make(map[uint32]bool)}
}

func (p *Proxy) ElementID() shmarena.ElementFqId { return p.ev.id }

func (p *Proxy) Subscribe(maxSamples uint32) error {
	p.ev.mu.Lock()
	defer p.ev.mu.Unlock()

	if p.ev.curSubscribers >= p.ev.maxSubscribers {
		return lolaerr.Newf(lolaerr.KindBindingFailure, "Subscribe", "", "rejected: subscriber_budget")
	}
	if p.ev.enforceMaxSamples && p.ev.curSamples+maxSamples > p.ev.maxSamples {
		return lolaerr.Newf(lolaerr.KindBindingFailure, "Subscribe", "", "rejected: sample_budget")
	}
	p.ev.curSamples += maxSamples
	p.ev.curSubscribers++
	p.idx = p.ev.nextProxyIdx
	p.ev.nextProxyIdx++
	p.lastRequested = maxSamples
	return nil
}

func (p *Proxy) Unsubscribe() {
	p.ev.mu.Lock()
	defer p.ev.mu.Unlock()
	p.ev.curSamples -= p.lastRequested
	p.ev.curSubscribers--
}

func (p *Proxy) ReferenceNextEvent(lastSeenTS uint32) (idx uint32, ts uint32, ok bool) {
	p.ev.mu.Lock()
	defer p.ev.mu.Unlock()

	best := -1
	var bestT uint32
	for i := range p.ev.slots {
		t, r := p.ev.slots[i].t, p.ev.slots[i].r
		if !isReady(t, r) || t <= lastSeenTS {
			continue
		}
		if best == -1 || t < bestT {
			best, bestT = i, t
		}
	}
	if best == -1 {
		return 0, 0, false
	}
	p.ev.slots[best].r++
	p.refs[uint32(best)] = true
	return uint32(best), bestT, true
}

func (p *Proxy) PayloadBytes(idx uint32) []byte {
	p.ev.mu.Lock()
	defer p.ev.mu.Unlock()
	return p.ev.slots[idx].payload
}

func (p *Proxy) Dereference(idx uint32) {
	p.ev.mu.Lock()
	defer p.ev.mu.Unlock()
	if p.ev.slots[idx].r == 0 {
		panic("fakebinding: refcount would drop below zero")
	}
	p.ev.slots[idx].r--
	delete(p.refs, idx)
}

func (p *Proxy) MarkInitialized() {
	p.ev.mu.Lock()
	defer p.ev.mu.Unlock()
	p.ev.initialized = true
}

func (p *Proxy) IsInitialized() bool {
	p.ev.mu.Lock()
	defer p.ev.mu.Unlock()
	return p.ev.initialized
}

func (p *Proxy) GetNumNewEvents(referenceTS uint32) int {
	p.ev.mu.Lock()
	defer p.ev.mu.Unlock()
	n := 0
	for i := range p.ev.slots {
		if isReady(p.ev.slots[i].t, p.ev.slots[i].r) && p.ev.slots[i].t > referenceTS {
			n++
		}
	}
	return n
}
