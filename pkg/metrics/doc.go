/*
Package metrics provides Prometheus metrics for the LoLa event data-control
plane.

Metrics are package-level Prometheus collectors registered with the
default registry at init. pkg/binding, pkg/subscription, pkg/collector and
the façades (pkg/skeleton, pkg/proxy) update them directly; pkg/edc and
pkg/edcc record nothing themselves.

	┌──────────────────── METRICS SYSTEM ──────────────────────┐
	│  Allocation:  lola_slot_allocate_failures_total           │
	│               lola_slots_ready / lola_slots_in_reading     │
	│  Composite:   lola_qm_disconnected                         │
	│  Subscription: lola_subscription_rejections_total          │
	│                lola_subscribers_current                    │
	│  Collector:   lola_collector_rollbacks_total                │
	│               lola_stale_transactions_observed_total        │
	│  Latency:     lola_send_duration_seconds                   │
	│               lola_reference_next_event_duration_seconds    │
	└────────────────────────────────────────────────────────────┘

Handler exposes the registry over HTTP for a Prometheus scraper; wiring the
handler into an HTTP server is left to the caller (the core has no server of
its own).
*/
package metrics
