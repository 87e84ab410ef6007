/*
Package fakebinding is the "mock/in-process" binding SPEC_FULL.md §3 and
the original's proxy_binding_factory test doubles call for: a second
implementation of binding.SkeletonEventBinding / binding.ProxyEventBinding
that reproduces the same observable state machine as pkg/binding's LoLa
implementation with a single mutex instead of lock-free CAS loops, so
façade-level tests can drive edge cases (budget rejection, QM
misbehavior, tracing-hook firing) without any shmarena/slotword machinery
in the loop.

It is not a stub: Allocate/Send/Subscribe/GetNewSamples semantics match
spec §4 exactly (LRU slot reuse, ready/in-writing/refcount states,
composite "safety wins" disconnection, subscription budget). What it
deliberately does not reproduce is lock-freedom — every method takes the
shared mutex — which is the one property a single-process façade test has
no way to observe anyway.
*/
package fakebinding
