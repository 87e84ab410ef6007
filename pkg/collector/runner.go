package collector

import (
	"context"
	"time"

	"github.com/cuemby/lola/pkg/log"
	"github.com/rs/zerolog"
)

// EventSource supplies the current set of offered events to sweep. A
// publisher registers one event per Offer call and unregisters on
// StopOffer, so the runner always sweeps whatever is live right now.
type EventSource func() []Event

// Runner drives periodic collection (spec §4.5(ii)), the way the
// teacher's reconciler drives its reconcile loop on a ticker.
type Runner struct {
	registry *Registry
	source   EventSource
	interval time.Duration
	logger   zerolog.Logger
	stopCh   chan struct{}
}

// NewRunner builds a Runner that sweeps source's events every interval.
func NewRunner(registry *Registry, source EventSource, interval time.Duration) *Runner {
	return &Runner{
		registry: registry,
		source:   source,
		interval: interval,
		logger:   log.WithComponent("collector"),
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep loop in a background goroutine.
func (r *Runner) Start() {
	go r.run()
}

// Stop halts the periodic sweep loop.
func (r *Runner) Stop() {
	close(r.stopCh)
}

func (r *Runner) run() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info().Dur("interval", r.interval).Msg("slot collector started")

	for {
		select {
		case <-ticker.C:
			n, err := r.registry.SweepAll(context.Background(), r.source())
			if err != nil {
				r.logger.Error().Err(err).Msg("collector sweep failed")
				continue
			}
			if n > 0 {
				r.logger.Info().Int("proxies_reclaimed", n).Msg("collector sweep reclaimed dead proxies")
			}
		case <-r.stopCh:
			r.logger.Info().Msg("slot collector stopped")
			return
		}
	}
}
