package edcc

import (
	"testing"

	"github.com/cuemby/lola/pkg/edc"
	"github.com/cuemby/lola/pkg/slotword"
	"github.com/cuemby/lola/pkg/txlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEDC(n int) *edc.EDC {
	return edc.New(make([]slotword.Word, n), txlog.New(n, 4))
}

func TestAllocateNextSlotQMOnly(t *testing.T) {
	c := New(newEDC(5), nil)
	slot, ok, disconnect := c.AllocateNextSlot()
	require.True(t, ok)
	assert.False(t, disconnect)
	assert.False(t, c.IsQMDisconnected())
	_ = slot
}

func TestAllocateNextSlotBothSucceedSameIndex(t *testing.T) {
	c := New(newEDC(4), newEDC(4))
	slot, ok, disconnect := c.AllocateNextSlot()
	require.True(t, ok)
	assert.False(t, disconnect)

	ts, err := c.NextTimestamp()
	require.NoError(t, err)
	c.EventReady(slot, ts)

	assert.Equal(t, ts, c.QM().Timestamp(slot))
	assert.Equal(t, ts, c.ASIL().Timestamp(slot))
	assert.Equal(t, 1, c.QM().GetNumNewEvents(0))
	assert.Equal(t, 1, c.ASIL().GetNumNewEvents(0))
}

func TestQMExhaustionWithNoASILFails(t *testing.T) {
	// N=5 QM-only, no subscribers: allocate five times holding pointers,
	// sixth allocate fails (seed scenario 2, QM-only half).
	c := New(newEDC(5), nil)
	for i := 0; i < 5; i++ {
		slot, ok, _ := c.AllocateNextSlot()
		require.True(t, ok)
		ts, _ := c.NextTimestamp()
		c.EventReady(slot, ts)
	}
	// Hold references on all 5 slots so none becomes reusable. Advance
	// past each referenced timestamp so every slot gets one reference.
	lastSeen := uint32(0)
	for i := 0; i < 5; i++ {
		slot, ok := c.QM().ReferenceNextEvent(uint32(i), lastSeen, slotword.TMax)
		require.True(t, ok)
		lastSeen = c.QM().Timestamp(slot)
	}
	_, ok, disconnect := c.AllocateNextSlot()
	assert.False(t, ok)
	assert.False(t, disconnect)
}

func TestQMDisconnectWhenQMStarvedButASILHasRoom(t *testing.T) {
	// Seed scenario 3: ASIL deployment, N=5. Misbehaving QM consumer holds
	// all QM refcounts; publisher Send succeeds via ASIL; QM gets
	// disconnected exactly once.
	c := New(newEDC(5), newEDC(5))
	for i := 0; i < 5; i++ {
		slot, ok, disconnect := c.AllocateNextSlot()
		require.True(t, ok)
		assert.False(t, disconnect)
		ts, _ := c.NextTimestamp()
		c.EventReady(slot, ts)
	}
	// Simulate the misbehaving QM consumer: reference every QM slot and
	// never release.
	lastSeen := uint32(0)
	for i := 0; i < 5; i++ {
		slot, ok := c.QM().ReferenceNextEvent(uint32(i), lastSeen, slotword.TMax)
		require.True(t, ok)
		lastSeen = c.QM().Timestamp(slot)
	}

	require.False(t, c.IsQMDisconnected())

	slot, ok, disconnect := c.AllocateNextSlot()
	require.True(t, ok, "ASIL side must still be able to publish")
	assert.True(t, disconnect, "disconnectQM must fire exactly on the transition")
	assert.True(t, c.IsQMDisconnected())

	ts, err := c.NextTimestamp()
	require.NoError(t, err)
	c.EventReady(slot, ts)
	assert.Equal(t, 1, c.ASIL().GetNumNewEvents(ts-1))

	// A subsequent allocation must not report disconnect again (T-6:
	// monotone false→true, never reverts, and the caller only reacts once).
	_, ok, disconnect2 := c.AllocateNextSlot()
	// No ASIL slot holds a reference (the misbehaving consumer only
	// referenced QM slots), so this succeeds via ASIL without firing a
	// second disconnect signal.
	require.True(t, ok)
	assert.False(t, disconnect2)
}

func TestASILExhaustionIsFatal(t *testing.T) {
	// Step 4: QM fails (starved) and ASIL is also exhausted -> (None, _).
	c := New(newEDC(2), newEDC(2))
	for i := 0; i < 2; i++ {
		slot, ok, _ := c.AllocateNextSlot()
		require.True(t, ok)
		ts, _ := c.NextTimestamp()
		c.EventReady(slot, ts)
	}
	// Hold references on every QM and every ASIL slot.
	lastQM, lastASIL := uint32(0), uint32(0)
	for i := 0; i < 2; i++ {
		qmSlot, ok := c.QM().ReferenceNextEvent(uint32(i), lastQM, slotword.TMax)
		require.True(t, ok)
		lastQM = c.QM().Timestamp(qmSlot)
		asilSlot, ok := c.ASIL().ReferenceNextEvent(uint32(i), lastASIL, slotword.TMax)
		require.True(t, ok)
		lastASIL = c.ASIL().Timestamp(asilSlot)
	}

	_, ok, disconnect := c.AllocateNextSlot()
	assert.False(t, ok)
	assert.False(t, disconnect)
	assert.False(t, c.IsQMDisconnected())
}

func TestSendHelperDiscardsOnWriteError(t *testing.T) {
	c := New(newEDC(2), nil)
	disconnect, err := c.Send(func(slot uint32) error {
		return assertErrBoom
	})
	assert.ErrorIs(t, err, assertErrBoom)
	assert.False(t, disconnect)

	// The slot must have been discarded, not left InWriting.
	slot, ok := c.QM().AllocateNextSlot()
	require.True(t, ok)
	assert.Equal(t, uint32(0), slot)
}

var assertErrBoom = &boomError{}

type boomError struct{}

func (*boomError) Error() string { return "boom" }
