package fakebinding

import (
	"testing"

	"github.com/cuemby/lola/pkg/shmarena"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func id() shmarena.ElementFqId {
	return shmarena.NewElementFqId(1, 1, 1, shmarena.ElementTypeEvent)
}

func TestSendReceiveRoundTrip(t *testing.T) {
	ev := NewEvent(id(), 5, 8, false, 10, 4, true)
	skel := NewSkeleton(ev)
	proxy := Attach(ev)
	require.NoError(t, proxy.Subscribe(10))

	slot, ok, _ := skel.AllocateNextSlot()
	require.True(t, ok)
	copy(skel.PayloadBytes(slot), []byte("hello!!!"))
	ts, err := skel.NextTimestamp()
	require.NoError(t, err)
	skel.EventReady(slot, ts)

	gotSlot, gotTS, ok := proxy.ReferenceNextEvent(0)
	require.True(t, ok)
	assert.Equal(t, slot, gotSlot)
	assert.Equal(t, ts, gotTS)
	assert.Equal(t, "hello!!!", string(proxy.PayloadBytes(gotSlot)))
	proxy.Dereference(gotSlot)
}

func TestSlotExhaustion(t *testing.T) {
	ev := NewEvent(id(), 2, 1, false, 10, 4, true)
	skel := NewSkeleton(ev)

	for i := 0; i < 2; i++ {
		slot, ok, _ := skel.AllocateNextSlot()
		require.True(t, ok)
		ts, _ := skel.NextTimestamp()
		skel.EventReady(slot, ts)
	}
	proxy := Attach(ev)
	require.NoError(t, proxy.Subscribe(10))
	var lastSeen uint32
	for i := 0; i < 2; i++ {
		_, ts, ok := proxy.ReferenceNextEvent(lastSeen)
		require.True(t, ok)
		lastSeen = ts
	}

	_, ok, disconnect := skel.AllocateNextSlot()
	assert.False(t, ok)
	assert.False(t, disconnect)
}

func TestSubscriberBudgetRejection(t *testing.T) {
	ev := NewEvent(id(), 5, 1, false, 100, 3, true)
	for i := 0; i < 3; i++ {
		require.NoError(t, Attach(ev).Subscribe(1))
	}
	err := Attach(ev).Subscribe(1)
	assert.Error(t, err)
}

func TestSampleBudgetRejectionWhenEnforced(t *testing.T) {
	ev := NewEvent(id(), 5, 1, false, 5, 10, true)
	require.NoError(t, Attach(ev).Subscribe(3))
	err := Attach(ev).Subscribe(3)
	assert.Error(t, err)
}

func TestSampleBudgetIgnoredWhenNotEnforced(t *testing.T) {
	ev := NewEvent(id(), 5, 1, false, 5, 10, false)
	require.NoError(t, Attach(ev).Subscribe(3))
	require.NoError(t, Attach(ev).Subscribe(3))
}

func TestUnsubscribeReturnsBudget(t *testing.T) {
	ev := NewEvent(id(), 5, 1, false, 5, 10, true)
	p := Attach(ev)
	require.NoError(t, p.Subscribe(3))
	p.Unsubscribe()
	require.NoError(t, Attach(ev).Subscribe(3))
}

func TestQMDisconnectOnStarvation(t *testing.T) {
	ev := NewEvent(id(), 5, 1, true, 100, 4, true)
	skel := NewSkeleton(ev)
	proxy := Attach(ev)
	require.NoError(t, proxy.Subscribe(10))

	for i := 0; i < 5; i++ {
		slot, ok, disconnect := skel.AllocateNextSlot()
		require.True(t, ok)
		assert.False(t, disconnect)
		ts, _ := skel.NextTimestamp()
		skel.EventReady(slot, ts)
	}
	var lastSeen uint32
	for i := 0; i < 5; i++ {
		_, ts, ok := proxy.ReferenceNextEvent(lastSeen)
		require.True(t, ok)
		lastSeen = ts
	}

	require.False(t, skel.IsQMDisconnected())
	_, ok, disconnect := skel.AllocateNextSlot()
	require.True(t, ok)
	assert.True(t, disconnect)
	assert.True(t, skel.IsQMDisconnected())
}

func TestFieldInitializedFlag(t *testing.T) {
	ev := NewEvent(id(), 1, 4, false, 10, 2, true)
	skel := NewSkeleton(ev)
	proxy := Attach(ev)
	require.NoError(t, proxy.Subscribe(1))

	assert.False(t, proxy.IsInitialized())
	skel.MarkInitialized()
	assert.True(t, proxy.IsInitialized())
}
