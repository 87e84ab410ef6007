package collector

import (
	"context"

	"github.com/cuemby/lola/pkg/log"
	"github.com/cuemby/lola/pkg/metrics"
	"github.com/cuemby/lola/pkg/txlog"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Oracle reports whether a PID is still alive. Satisfied by
// internal/liveness.Oracle; declared locally so this package does not
// depend on an internal package's export surface directly in its API.
type Oracle interface {
	IsAlive(pid uint32) bool
}

// Event names one event's Transaction Log Set and the refcount-decrement
// callback that undoes its outstanding references (normally
// (*edc.EDC).DereferenceForRollback).
type Event struct {
	Name string
	TLS  *txlog.Set
	Dec  func(slot uint32)
}

// Sweeper runs the per-event rollback sweep of spec §4.5 against one
// event's Transaction Log Set.
type Sweeper struct {
	oracle Oracle
	logger zerolog.Logger
}

// NewSweeper builds a Sweeper backed by oracle.
func NewSweeper(oracle Oracle) *Sweeper {
	return &Sweeper{oracle: oracle, logger: log.WithComponent("collector")}
}

// Sweep walks ev's registered proxies. For every proxy whose owner PID is
// no longer alive it rolls back the proxy's outstanding references and
// frees its log slot. Live proxies holding a stale begin∧¬commit pair are
// only counted, never touched (v1 requires PID death to act). It returns
// the number of proxies rolled back.
func (s *Sweeper) Sweep(ev Event) int {
	rolledBack := 0
	for idx := uint32(0); idx < uint32(ev.TLS.Capacity()); idx++ {
		if !ev.TLS.IsOccupied(idx) {
			continue
		}
		log := ev.TLS.Log(idx)
		pid := log.OwnerPID()
		sessionID := log.SessionID()
		if s.oracle.IsAlive(pid) {
			if n := ev.TLS.CountStaleBeginWithoutCommit(idx); n > 0 {
				metrics.StaleTransactionsObservedTotal.WithLabelValues(ev.Name).Add(float64(n))
				s.logger.Warn().
					Str("event", ev.Name).
					Uint32("proxy_idx", idx).
					Uint32("pid", pid).
					Int("stale_count", n).
					Msg("live proxy has stale begin-without-commit references, leaving in place")
			}
			continue
		}

		n := ev.TLS.Rollback(idx, ev.Dec)
		ev.TLS.UnregisterProxy(idx)
		if n > 0 {
			s.logger.Info().
				Str("event", ev.Name).
				Uint32("proxy_idx", idx).
				Uint32("pid", pid).
				Str("session_id", sessionID.String()).
				Int("slots_released", n).
				Msg("rolled back dead proxy's outstanding references")
			metrics.CollectorRollbacksTotal.WithLabelValues(ev.Name).Inc()
		}
		rolledBack++
	}
	return rolledBack
}

// Registry fans Sweep out across every offered event concurrently,
// mirroring the teacher's reconciler loop but parallel per event since
// events share no state.
type Registry struct {
	sweeper     *Sweeper
	concurrency int
}

// NewRegistry builds a Registry that runs at most concurrency sweeps at
// once (0 or negative means unbounded).
func NewRegistry(oracle Oracle, concurrency int) *Registry {
	return &Registry{sweeper: NewSweeper(oracle), concurrency: concurrency}
}

// SweepAll runs one collection pass across every event in events,
// concurrently, and reports the aggregate number of proxies rolled back.
// It times the whole pass into CollectorSweepDuration.
func (r *Registry) SweepAll(ctx context.Context, events []Event) (int, error) {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.CollectorSweepDuration)

	g, _ := errgroup.WithContext(ctx)
	if r.concurrency > 0 {
		g.SetLimit(r.concurrency)
	}

	counts := make([]int, len(events))
	for i, ev := range events {
		i, ev := i, ev
		g.Go(func() error {
			counts[i] = r.sweeper.Sweep(ev)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	return total, nil
}
