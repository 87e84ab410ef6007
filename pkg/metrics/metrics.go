package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Allocation metrics
	SlotAllocateFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lola_slot_allocate_failures_total",
			Help: "Total number of AllocateNextSlot calls that found no free slot, by event and quality",
		},
		[]string{"event", "quality"},
	)

	SlotsReady = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lola_slots_ready",
			Help: "Number of slots currently in the Ready state, by event and quality",
		},
		[]string{"event", "quality"},
	)

	SlotsInReading = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lola_slots_in_reading",
			Help: "Number of slots currently referenced by at least one subscriber, by event and quality",
		},
		[]string{"event", "quality"},
	)

	// Composite (EDCC) metrics
	QMDisconnected = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lola_qm_disconnected",
			Help: "Whether the QM control has been disconnected on this event (1) or not (0)",
		},
		[]string{"event"},
	)

	// Subscription metrics
	SubscriptionRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lola_subscription_rejections_total",
			Help: "Total number of rejected subscribe requests, by event and reason",
		},
		[]string{"event", "reason"},
	)

	SubscribersCurrent = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lola_subscribers_current",
			Help: "Current number of admitted subscribers, by event",
		},
		[]string{"event"},
	)

	SamplesCurrent = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lola_samples_current",
			Help: "Current number of admitted sample slots, by event",
		},
		[]string{"event"},
	)

	// Transaction log / collector metrics
	CollectorRollbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lola_collector_rollbacks_total",
			Help: "Total number of proxy transaction-log rollbacks performed by the slot collector, by event",
		},
		[]string{"event"},
	)

	CollectorSweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lola_collector_sweep_duration_seconds",
			Help:    "Time taken for one slot collector sweep across all offered events",
			Buckets: prometheus.DefBuckets,
		},
	)

	StaleTransactionsObservedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lola_stale_transactions_observed_total",
			Help: "Total number of begin-without-commit transactions observed against a still-live PID (not rolled back)",
		},
		[]string{"event"},
	)

	// Send and ReferenceNextEvent latency
	SendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lola_send_duration_seconds",
			Help:    "Time taken for Allocate+copy+EventReady, by event",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"event"},
	)

	ReferenceNextEventDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lola_reference_next_event_duration_seconds",
			Help:    "Time taken for one ReferenceNextEvent call, by event",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"event"},
	)
)

func init() {
	prometheus.MustRegister(SlotAllocateFailuresTotal)
	prometheus.MustRegister(SlotsReady)
	prometheus.MustRegister(SlotsInReading)
	prometheus.MustRegister(QMDisconnected)
	prometheus.MustRegister(SubscriptionRejectionsTotal)
	prometheus.MustRegister(SubscribersCurrent)
	prometheus.MustRegister(SamplesCurrent)
	prometheus.MustRegister(CollectorRollbacksTotal)
	prometheus.MustRegister(CollectorSweepDuration)
	prometheus.MustRegister(StaleTransactionsObservedTotal)
	prometheus.MustRegister(SendDuration)
	prometheus.MustRegister(ReferenceNextEventDuration)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
