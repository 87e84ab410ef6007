/*
Package edcc implements the Event Data Control Composite (component C4):
the dual (QM + optional ASIL) publisher-side control used for mixed
criticality deployments, enforcing "safety wins" when the QM side is
starved by a misbehaving consumer.

A Composite owns exactly one Clock (pkg/edc), so a single publication gets
one timestamp applied identically to both controls when both are present —
never two independently-advancing clocks that could disagree.

Reader-side quality selection (spec §4.4.3) is not mediated here: a proxy
attaches to whichever *edc.EDC it cares about directly, so an ASIL reader is
provably unaffected by a QM disconnect.
*/
package edcc
