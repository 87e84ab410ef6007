/*
Package skeleton implements the publisher-side typed façade of component
C8: Event[T], a thin generic wrapper over a binding.SkeletonEventBinding
that turns Offer/Allocate/Send/StopOffer into typed operations, plus
Field[T], the "N=1 + validity flag" specialization SPEC_FULL.md §3
supplements from the original's skeleton_field.h.

The façade owns no slot-state logic itself — every allocation, timestamp,
and commit decision is delegated to the binding. What lives here is
type erasure at the boundary (turning a T value into the raw bytes a
binding.PayloadBytes view exposes, spec §9) and the RAII-shaped
SampleAllocateePtr[T] scoped handle, which Go's lack of destructors means
callers must explicitly close (Send or Drop) rather than relying on
scope exit — every Allocate call's doc comment says so.
*/
package skeleton
