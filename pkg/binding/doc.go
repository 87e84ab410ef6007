/*
Package binding defines the façade-facing binding interfaces (component
C8's "Dynamic dispatch" design note, §9) and ships the one production
implementation: LoLaSkeletonBinding / LoLaProxyBinding, which wire together
every lower component — shmarena, slotword, edc, edcc, txlog, subscription
— into the single per-event shared object spec §4.6 describes.

SkeletonEventBinding and ProxyEventBinding expose exactly the method set
pkg/skeleton and pkg/proxy call; a second implementation
(internal/fakebinding) satisfies the same interfaces without any of the
arena/CAS machinery, for façade-level tests that want to drive edge cases
(rejection policies, tracing hooks) without standing up real slot state.

# Process model

In production, a publisher process constructs an Event (NewEvent) inside
an already-mapped shared-memory region and subscriber processes Attach to
the same bytes at independent virtual addresses — mapping itself is out of
scope (spec §1) and handled by an external collaborator before Event ever
sees the bytes. This package's tests (and pkg/skeleton's, pkg/proxy's)
model "two processes" as a skeleton binding and proxy bindings sharing one
in-process Event, which is
equivalent from this package's point of view: it only ever sees typed
Go values layered over []byte, and never knows or cares whether those
bytes are process-local or mmap'd.
*/
package binding
