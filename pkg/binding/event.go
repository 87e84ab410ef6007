package binding

import (
	"fmt"
	"sync/atomic"

	"github.com/cuemby/lola/pkg/edc"
	"github.com/cuemby/lola/pkg/edcc"
	"github.com/cuemby/lola/pkg/metrics"
	"github.com/cuemby/lola/pkg/shmarena"
	"github.com/cuemby/lola/pkg/subscription"
	"github.com/cuemby/lola/pkg/tracing"
	"github.com/cuemby/lola/pkg/txlog"
)

// Event is the publisher-constructed, dual-arena shared object backing
// one event or field: a data region (payload cells) and a control region
// (header, slot words, subscription budget, transaction logs) per spec
// §4.6. It is the thing LoLaSkeletonBinding and LoLaProxyBinding both
// operate on — the skeleton binding as sole constructor/writer, proxy
// bindings as attached read/write views (spec §3, "Ownership").
type Event struct {
	cfg Config
	id  shmarena.ElementFqId

	dataArena  *shmarena.Arena
	payloadOff shmarena.Offset
	cellSize   uint64

	ctlArena *shmarena.Arena

	composite *edcc.Composite
	qmTLS     *txlog.Set
	asilTLS   *txlog.Set // nil unless cfg.ASIL

	subCtl *subscription.Control

	hooks tracing.HookSet

	writerGuard *sampleGuard
	readerGuard *sampleGuard

	// initialized backs FieldBinding for Field façades: whether Update
	// has ever been called. Unused, and always false, for plain Events.
	initialized atomic.Bool
}

// MarkInitialized implements FieldBinding.
func (e *Event) MarkInitialized() { e.initialized.Store(true) }

// IsInitialized implements FieldBinding.
func (e *Event) IsInitialized() bool { return e.initialized.Load() }

// DataObjectName returns the bit-exact shared-memory object name this
// event's data region would be published under (spec §6).
func (e *Event) DataObjectName() string {
	return shmarena.DataObjectName(e.cfg.ServiceID, e.cfg.InstanceID)
}

// ControlObjectName returns the control object name for quality.
func (e *Event) ControlObjectName(quality shmarena.QualityType) string {
	return shmarena.ControlObjectName(e.cfg.ServiceID, e.cfg.InstanceID, quality)
}

// NewEvent constructs a fresh Event: allocates and initializes both
// arenas, the slot-word arrays, subscription control, and transaction log
// sets, and wires them into an edcc.Composite. Only the publisher ever
// calls NewEvent; subscribers attach to the returned *Event directly (see
// package doc).
func NewEvent(cfg Config) (*Event, error) {
	if cfg.SlotCount < 1 {
		return nil, fmt.Errorf("binding: SlotCount must be >= 1, got %d", cfg.SlotCount)
	}
	if cfg.MaxProxies < 1 {
		return nil, fmt.Errorf("binding: MaxProxies must be >= 1, got %d", cfg.MaxProxies)
	}

	dataSize := uint64(cfg.SlotCount)*cfg.PayloadSize + 64
	dataArena := shmarena.New(make([]byte, dataSize))
	payloadOff, err := dataArena.Alloc(uint64(cfg.SlotCount)*cfg.PayloadSize, 8)
	if err != nil {
		return nil, fmt.Errorf("binding: allocating payload cells: %w", err)
	}

	ctlSize := 4096 + uint64(cfg.SlotCount)*16*3 + uint64(cfg.MaxProxies)*uint64(cfg.SlotCount)*2
	ctlArena := shmarena.New(make([]byte, ctlSize))
	if _, err := ctlArena.InitControlHeader(cfg.SkeletonPID); err != nil {
		return nil, fmt.Errorf("binding: initializing control header: %w", err)
	}

	qmOff, err := ctlArena.AllocSlotWords(cfg.SlotCount)
	if err != nil {
		return nil, fmt.Errorf("binding: allocating QM slot words: %w", err)
	}
	qmEDC := edc.New(ctlArena.SlotWords(qmOff, cfg.SlotCount), txlog.New(cfg.SlotCount, cfg.MaxProxies))

	var asilEDC *edc.EDC
	var asilTLS *txlog.Set
	if cfg.ASIL {
		asilOff, err := ctlArena.AllocSlotWords(cfg.SlotCount)
		if err != nil {
			return nil, fmt.Errorf("binding: allocating ASIL slot words: %w", err)
		}
		asilTLS = txlog.New(cfg.SlotCount, cfg.MaxProxies)
		asilEDC = edc.New(ctlArena.SlotWords(asilOff, cfg.SlotCount), asilTLS)
	}

	subCfg := cfg.Subscription
	if subCfg == (subscription.Config{}) {
		subCfg = subscription.DefaultConfig()
	}

	return &Event{
		cfg:         cfg,
		id:          cfg.elementFqId(),
		dataArena:   dataArena,
		payloadOff:  payloadOff,
		cellSize:    cfg.PayloadSize,
		ctlArena:    ctlArena,
		composite:   edcc.New(qmEDC, asilEDC),
		qmTLS:       qmEDC.TransactionLog(),
		asilTLS:     asilTLS,
		subCtl:      subscription.New(fmt.Sprintf("%x", uint64(cfg.elementFqId())), subCfg),
		hooks:       cfg.Hooks,
		writerGuard: newSampleGuard(),
		readerGuard: newSampleGuard(),
	}, nil
}

func (e *Event) payloadBytes(slot uint32) []byte {
	off := shmarena.Offset(uint64(e.payloadOff) + uint64(slot)*e.cellSize)
	return e.dataArena.Bytes(off, e.cellSize)
}

// tlsFor returns the Transaction Log Set for quality, or nil if quality is
// ASIL but this event has no ASIL half.
func (e *Event) tlsFor(quality shmarena.QualityType) *txlog.Set {
	if quality == shmarena.QualityASIL {
		return e.asilTLS
	}
	return e.qmTLS
}

func (e *Event) edcFor(quality shmarena.QualityType) *edc.EDC {
	if quality == shmarena.QualityASIL {
		return e.composite.ASIL()
	}
	return e.composite.QM()
}

// metricsName returns the "service/instance/element" label this event
// publishes its gauges and counters under, matching the name façades
// compute for the same purpose (pkg/skeleton, pkg/proxy).
func (e *Event) metricsName() string {
	return fmt.Sprintf("%d/%d/%d", e.cfg.ServiceID, e.cfg.InstanceID, e.cfg.ElementID)
}

// refreshSlotMetrics recomputes and publishes the Ready/InReading slot
// gauges for both halves of this event. It is called inline by every
// binding operation that changes slot state, the same way the teacher's
// collector Sets its gauges from a freshly observed count rather than
// incrementing/decrementing them in lockstep with each mutation.
func (e *Event) refreshSlotMetrics() {
	name := e.metricsName()
	ready, inReading := e.composite.QM().Stats()
	metrics.SlotsReady.WithLabelValues(name, "qm").Set(float64(ready))
	metrics.SlotsInReading.WithLabelValues(name, "qm").Set(float64(inReading))
	if asil := e.composite.ASIL(); asil != nil {
		readyA, inReadingA := asil.Stats()
		metrics.SlotsReady.WithLabelValues(name, "asil").Set(float64(readyA))
		metrics.SlotsInReading.WithLabelValues(name, "asil").Set(float64(inReadingA))
	}
}
