package collector

import (
	"context"
	"testing"

	"github.com/cuemby/lola/pkg/edc"
	"github.com/cuemby/lola/pkg/slotword"
	"github.com/cuemby/lola/pkg/txlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOracle struct {
	dead map[uint32]bool
}

func (f *fakeOracle) IsAlive(pid uint32) bool { return !f.dead[pid] }

func newRefEDC(n, maxProxies int) (*edc.EDC, *txlog.Set) {
	tls := txlog.New(n, maxProxies)
	return edc.New(make([]slotword.Word, n), tls), tls
}

func TestSweepRollsBackDeadProxyOnly(t *testing.T) {
	e, tls := newRefEDC(4, 4)

	slot, ok := e.AllocateNextSlot()
	require.True(t, ok)
	e.EventReady(slot, 1)

	deadIdx, err := tls.RegisterProxy(111)
	require.NoError(t, err)
	aliveIdx, err := tls.RegisterProxy(222)
	require.NoError(t, err)

	_, ok = e.ReferenceNextEvent(deadIdx, 0, slotword.TMax)
	require.True(t, ok)

	oracle := &fakeOracle{dead: map[uint32]bool{111: true}}
	s := NewSweeper(oracle)

	n := s.Sweep(Event{Name: "ev", TLS: tls, Dec: e.DereferenceForRollback})
	assert.Equal(t, 1, n)

	assert.False(t, tls.IsOccupied(deadIdx))
	assert.True(t, tls.IsOccupied(aliveIdx))

	// The dead proxy's reference must have been released: no slot is
	// left InReading, and the alive proxy can still reference the same
	// slot.
	_, inReading := e.Stats()
	assert.Equal(t, 0, inReading)
	newIdx, ok2 := e.ReferenceNextEvent(aliveIdx, 0, slotword.TMax)
	require.True(t, ok2)
	assert.Equal(t, slot, newIdx)
}

func TestSweepLeavesLiveProxyAlone(t *testing.T) {
	e, tls := newRefEDC(2, 2)
	slot, ok := e.AllocateNextSlot()
	require.True(t, ok)
	e.EventReady(slot, 1)

	idx, err := tls.RegisterProxy(42)
	require.NoError(t, err)
	_, ok = e.ReferenceNextEvent(idx, 0, slotword.TMax)
	require.True(t, ok)

	oracle := &fakeOracle{dead: map[uint32]bool{}}
	s := NewSweeper(oracle)

	n := s.Sweep(Event{Name: "ev", TLS: tls, Dec: e.DereferenceForRollback})
	assert.Equal(t, 0, n)
	assert.True(t, tls.IsOccupied(idx))
}

func TestSweepAllAggregatesAcrossEvents(t *testing.T) {
	e1, tls1 := newRefEDC(2, 2)
	e2, tls2 := newRefEDC(2, 2)

	s1, _ := e1.AllocateNextSlot()
	e1.EventReady(s1, 1)
	s2, _ := e2.AllocateNextSlot()
	e2.EventReady(s2, 1)

	idx1, _ := tls1.RegisterProxy(100)
	idx2, _ := tls2.RegisterProxy(200)
	_, ok := e1.ReferenceNextEvent(idx1, 0, slotword.TMax)
	require.True(t, ok)
	_, ok = e2.ReferenceNextEvent(idx2, 0, slotword.TMax)
	require.True(t, ok)

	oracle := &fakeOracle{dead: map[uint32]bool{100: true, 200: true}}
	registry := NewRegistry(oracle, 4)

	total, err := registry.SweepAll(context.Background(), []Event{
		{Name: "e1", TLS: tls1, Dec: e1.DereferenceForRollback},
		{Name: "e2", TLS: tls2, Dec: e2.DereferenceForRollback},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}
