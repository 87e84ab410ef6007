package binding

import (
	"github.com/cuemby/lola/pkg/shmarena"
	"github.com/cuemby/lola/pkg/subscription"
	"github.com/cuemby/lola/pkg/tracing"
)

// Config is everything NewEvent needs to construct one event's (or
// field's) full shared object: data region, control region, and the
// composite/TLS/subscription wiring over them. It follows the teacher's
// small-Config-struct-per-constructor pattern (health.Config,
// manager.Config) rather than a single monolithic options type.
type Config struct {
	ServiceID   uint64
	InstanceID  uint16
	ElementID   uint32
	ElementType shmarena.ElementType

	// SlotCount is N, the number of publication slots. Fields pin this
	// to 1 (SPEC_FULL.md §3).
	SlotCount int
	// PayloadSize is the size in bytes of one payload cell, derived by
	// the typed façade from its T via unsafe.Sizeof — binding itself
	// never sees T (spec §9, type erasure).
	PayloadSize uint64

	// MaxProxies bounds concurrent subscribers via the Transaction Log
	// Set's fixed capacity (spec §4.3).
	MaxProxies int

	// ASIL, when true, builds a second (safety-rated) control half
	// alongside the always-present QM half, per spec §4.4.
	ASIL bool

	Subscription subscription.Config
	Hooks        tracing.HookSet

	// SkeletonPID is recorded in the control header (spec §6) so a
	// subscriber — or the slot collector, on publisher restart — can
	// tell whether the original publisher is still alive.
	SkeletonPID uint32
}

// ElementFqId packs the configured identity into the wire format.
func (c Config) elementFqId() shmarena.ElementFqId {
	return shmarena.NewElementFqId(uint16(c.ServiceID), c.InstanceID, c.ElementID, c.ElementType)
}
