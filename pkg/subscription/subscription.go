package subscription

import (
	"sync/atomic"

	"github.com/cuemby/lola/pkg/metrics"
)

// Config configures one event's subscription budget.
type Config struct {
	MaxSamples        uint32
	MaxSubscribers    uint32
	EnforceMaxSamples bool
}

// DefaultConfig returns a generous budget (256 samples, 32 subscribers,
// sample budget enforced), matching what an event gets if Offer is never
// given an explicit Config.
func DefaultConfig() Config {
	return Config{
		MaxSamples:        256,
		MaxSubscribers:    32,
		EnforceMaxSamples: true,
	}
}

// Rejection names why accept refused a subscribe request.
type Rejection int

const (
	// Accepted means accept succeeded; never actually returned as a
	// Rejection value but kept so zero-value Rejection prints sensibly.
	Accepted Rejection = iota
	// RejectedSampleBudget means current_samples + requested would exceed
	// max_samples under enforcement.
	RejectedSampleBudget
	// RejectedSubscriberBudget means current_subscribers already equals
	// max_subscribers.
	RejectedSubscriberBudget
)

func (r Rejection) String() string {
	switch r {
	case RejectedSampleBudget:
		return "sample_budget"
	case RejectedSubscriberBudget:
		return "subscriber_budget"
	default:
		return "accepted"
	}
}

// Control is one event's admission budget (spec §4.7).
type Control struct {
	cfg Config

	currentSamples     atomic.Uint32
	currentSubscribers atomic.Uint32

	eventName string
}

// New builds a Control for event eventName, used only as a metrics label.
func New(eventName string, cfg Config) *Control {
	return &Control{cfg: cfg, eventName: eventName}
}

// CurrentSamples returns the number of samples currently admitted across
// all subscribers.
func (c *Control) CurrentSamples() uint32 { return c.currentSamples.Load() }

// CurrentSubscribers returns the number of currently admitted subscribers.
func (c *Control) CurrentSubscribers() uint32 { return c.currentSubscribers.Load() }

// Accept evaluates a subscribe(requestedSamples) request against the
// budget and, on success, admits it by incrementing both counters. It is
// safe for concurrent use; a race between two Accept calls near the
// boundary resolves by CAS retry so at most one wins when only one can fit.
func (c *Control) Accept(requestedSamples uint32) (ok bool, reason Rejection) {
	for {
		curSamples := c.currentSamples.Load()
		curSubs := c.currentSubscribers.Load()

		if curSubs >= c.cfg.MaxSubscribers {
			metrics.SubscriptionRejectionsTotal.WithLabelValues(c.eventName, RejectedSubscriberBudget.String()).Inc()
			return false, RejectedSubscriberBudget
		}
		if c.cfg.EnforceMaxSamples && curSamples+requestedSamples > c.cfg.MaxSamples {
			metrics.SubscriptionRejectionsTotal.WithLabelValues(c.eventName, RejectedSampleBudget.String()).Inc()
			return false, RejectedSampleBudget
		}

		if !c.currentSamples.CompareAndSwap(curSamples, curSamples+requestedSamples) {
			continue
		}
		if !c.currentSubscribers.CompareAndSwap(curSubs, curSubs+1) {
			// Lost the subscriber-count race after already reserving
			// samples; undo and retry from scratch.
			c.currentSamples.Add(^uint32(requestedSamples - 1)) // -requestedSamples
			continue
		}

		metrics.SubscribersCurrent.WithLabelValues(c.eventName).Set(float64(curSubs + 1))
		metrics.SamplesCurrent.WithLabelValues(c.eventName).Set(float64(curSamples + requestedSamples))
		return true, Accepted
	}
}

// Release undoes a prior successful Accept (the unsubscribe path),
// decrementing both counters by requestedSamples and one subscriber.
func (c *Control) Release(requestedSamples uint32) {
	newSamples := c.currentSamples.Add(^uint32(requestedSamples - 1))
	newSubs := c.currentSubscribers.Add(^uint32(0)) // -1
	metrics.SubscribersCurrent.WithLabelValues(c.eventName).Set(float64(newSubs))
	metrics.SamplesCurrent.WithLabelValues(c.eventName).Set(float64(newSamples))
}
