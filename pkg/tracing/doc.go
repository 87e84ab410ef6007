/*
Package tracing implements the typed callback-hook seam spec §1 promises
("the core exposes typed callback hooks; trace export is external") and
SPEC_FULL.md §3 names as a supplemented feature grounded on the original
repository's ITracingRuntimeBinding / tracing filter-config seam.

No trace transport lives here — HookSet is a set of optional callbacks the
LoLa bindings in pkg/binding invoke at fixed points; the façades pass a
HookSet through at Offer time. The zero value is
the correct "tracing disabled" default: every Fire* helper no-ops when its
callback is nil.
*/
package tracing
