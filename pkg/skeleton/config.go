package skeleton

import (
	"os"

	"github.com/cuemby/lola/pkg/subscription"
	"github.com/cuemby/lola/pkg/tracing"
)

// Config is passed to Offer/OfferField. It follows the teacher's small
// per-constructor Config pattern (health.Config, manager.Config) rather
// than functional options.
type Config struct {
	ServiceID  uint64
	InstanceID uint16
	ElementID  uint32

	// SlotCount is N (ignored by OfferField, which always uses 1).
	SlotCount int
	// MaxProxies bounds concurrent subscribers (spec §4.3).
	MaxProxies int
	// ASIL builds the safety-rated control half alongside QM (spec §4.4).
	ASIL bool

	Subscription subscription.Config
	Hooks        tracing.HookSet

	// OnQMDisconnect, if set, is invoked exactly once — synchronously,
	// from the Allocate/Send call that performs the amputation — when
	// the composite gives up on the QM half (spec §4.4.1 step 3). The
	// caller is expected to tell service discovery to stop offering the
	// QM half (out of scope for this module, spec §1).
	OnQMDisconnect func()

	// SkeletonPID overrides the PID recorded in the control header
	// (spec §6). Zero means "use this process's real PID", the only
	// sensible value outside of tests.
	SkeletonPID uint32
}

func (c Config) pid() uint32 {
	if c.SkeletonPID != 0 {
		return c.SkeletonPID
	}
	return uint32(os.Getpid())
}
