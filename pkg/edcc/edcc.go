package edcc

import (
	"sync/atomic"

	"github.com/cuemby/lola/pkg/edc"
)

// Composite wraps the always-present QM control and an optional ASIL
// control behind the "safety wins" allocation policy of spec §4.4.1.
type Composite struct {
	qm       *edc.EDC
	asil     *edc.EDC // nil when this deployment has no ASIL half
	clock    *edc.Clock
	ignoreQM atomic.Bool
}

// New builds a Composite. Pass a nil asil for a QM-only deployment.
func New(qm, asil *edc.EDC) *Composite {
	return &Composite{qm: qm, asil: asil, clock: edc.NewClock()}
}

// QM returns the quality-managed control.
func (c *Composite) QM() *edc.EDC { return c.qm }

// ASIL returns the safety-rated control, or nil if this composite has none.
func (c *Composite) ASIL() *edc.EDC { return c.asil }

// NextTimestamp returns the next monotone timestamp shared by both
// controls for one publication.
func (c *Composite) NextTimestamp() (uint32, error) { return c.clock.Next() }

// IsQMDisconnected reports whether the QM control has been amputated after
// starving the ASIL side (spec §4.4.1 step 3).
func (c *Composite) IsQMDisconnected() bool { return c.ignoreQM.Load() }

// AllocateNextSlot implements spec §4.4.1. disconnectQM is true exactly
// once — on the call that performs the QM→ASIL-authoritative transition —
// so a caller can invoke StopOffer(QM) exactly once (seed scenario 3).
func (c *Composite) AllocateNextSlot() (slot uint32, ok bool, disconnectQM bool) {
	if c.ignoreQM.Load() {
		s, ok := c.asil.AllocateNextSlot()
		return s, ok, false
	}

	qmSlot, qmOK := c.qm.AllocateNextSlot()
	if qmOK {
		if c.asil == nil {
			return qmSlot, true, false
		}
		if c.asil.TryAllocateSlot(qmSlot) {
			return qmSlot, true, false
		}
		// ASIL could not take the same index QM just claimed; abandon the
		// QM side's tentative allocation and fall through to making ASIL
		// authoritative, same as if QM had failed outright.
		c.qm.Discard(qmSlot)
	}

	if c.asil == nil {
		// No ASIL to fall back to: QM is simply out of free slots.
		return 0, false, false
	}

	asilSlot, asilOK := c.asil.AllocateNextSlot()
	if !asilOK {
		// Fatal for this publication: spec §4.4.1 step 4.
		return 0, false, false
	}
	transitioned := c.ignoreQM.CompareAndSwap(false, true)
	return asilSlot, true, transitioned
}

// EventReady applies timestamp to both controls when ASIL is present and
// QM is not currently disconnected, or to the single authoritative control
// otherwise.
func (c *Composite) EventReady(slot uint32, timestamp uint32) {
	if !c.ignoreQM.Load() {
		c.qm.EventReady(slot, timestamp)
	}
	if c.asil != nil {
		c.asil.EventReady(slot, timestamp)
	}
}

// Discard is the symmetric abandon path for AllocateNextSlot.
func (c *Composite) Discard(slot uint32) {
	if !c.ignoreQM.Load() {
		c.qm.Discard(slot)
	}
	if c.asil != nil {
		c.asil.Discard(slot)
	}
}

// Send is the atomic allocate+write+commit façade helper: it allocates a
// slot, lets write populate the payload at the returned index, and then
// commits with EventReady. If write returns an error the slot is
// discarded instead of committed.
func (c *Composite) Send(write func(slot uint32) error) (disconnectQM bool, err error) {
	slot, ok, disconnectQM := c.AllocateNextSlot()
	if !ok {
		return disconnectQM, ErrSampleAllocationFailure
	}
	if werr := write(slot); werr != nil {
		c.Discard(slot)
		return disconnectQM, werr
	}
	ts, err := c.NextTimestamp()
	if err != nil {
		c.Discard(slot)
		return disconnectQM, err
	}
	c.EventReady(slot, ts)
	return disconnectQM, nil
}
