/*
Package edc implements the Event Data Control (component C2): lock-free,
single-producer/multi-consumer control of the N slots backing one event.

EDC owns no memory itself — it is handed a []slotword.Word slice (whose
backing storage may be a plain Go slice in tests, or bytes aliasing a
shared-memory arena in production via pkg/shmarena) and a *txlog.Set for the
event's transaction log. Every method here is either a bounded CAS retry
loop or a single atomic operation; nothing blocks, sleeps, or yields, and
there is no mutex in this package.

# Timestamp ownership

EDC does not generate timestamps itself — EventReady takes one as a
parameter, per spec §4.2.2. Clock, also in this package, is the monotone
counter a publisher (pkg/skeleton) or composite (pkg/edcc) uses to produce
them; see Clock's doc comment for the overflow policy decided in
SPEC_FULL.md's Open Question resolutions.
*/
package edc
