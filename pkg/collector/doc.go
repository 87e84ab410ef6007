/*
Package collector implements the Slot Collector (component C5): the
crash-recovery sweep that reclaims refcounts leaked by subscribers that
died mid-reference.

A Sweeper runs the per-event algorithm of spec §4.5 against one event's
Transaction Log Set: for every registered proxy whose owning PID is no
longer alive, roll back its outstanding references (txlog.Set.Rollback)
and free its log slot. A Registry fans this out across every offered
event concurrently, bounded by an errgroup.Group limit, the way the
teacher's pkg/reconciler walks every node and container on a ticker but
parallelized per event instead of processed serially, since events share
no state and a slow event must not delay recovery on the others.

v1 only acts on dead PIDs (step 2 of §4.5); a live PID stuck in a stale
begin∧¬commit pair is logged via StaleTransactionsObservedTotal and left
alone, matching the Open Question resolution recorded in SPEC_FULL.md §0.
*/
package collector
