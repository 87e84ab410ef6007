package txlog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterProxyAndSkeletonSentinel(t *testing.T) {
	s := New(4, 2)
	assert.Equal(t, uint32(2), s.SkeletonIndexSentinel())
	assert.True(t, s.IsOccupied(s.SkeletonIndexSentinel()))

	idx1, err := s.RegisterProxy(111)
	require.NoError(t, err)
	idx2, err := s.RegisterProxy(222)
	require.NoError(t, err)
	assert.NotEqual(t, idx1, idx2)

	_, err = s.RegisterProxy(333)
	assert.ErrorIs(t, err, ErrSlotExhausted)
}

func TestUnregisterProxyFreesSlot(t *testing.T) {
	s := New(4, 1)
	idx, err := s.RegisterProxy(1)
	require.NoError(t, err)

	s.UnregisterProxy(idx)
	assert.False(t, s.IsOccupied(idx))

	idx2, err := s.RegisterProxy(2)
	require.NoError(t, err)
	assert.Equal(t, idx, idx2)
}

func TestReferenceBeginCommitLifecycle(t *testing.T) {
	s := New(4, 1)
	idx, err := s.RegisterProxy(1)
	require.NoError(t, err)

	s.MarkReferenceBegin(idx, 2)
	assert.True(t, s.HasOutstandingReference(idx, 2))

	s.MarkReferenceCommit(idx, 2)
	s.ClearReferenceCommit(idx, 2)
	s.ClearReferenceBegin(idx, 2)
	assert.False(t, s.HasOutstandingReference(idx, 2))
}

func TestRollbackDecrementsOncePerOutstandingReference(t *testing.T) {
	s := New(4, 1)
	idx, err := s.RegisterProxy(1)
	require.NoError(t, err)

	// Slot 0: clean begin+commit (normal held reference).
	s.MarkReferenceBegin(idx, 0)
	s.MarkReferenceCommit(idx, 0)
	// Slot 1: begin only (crashed mid-acquire).
	s.MarkReferenceBegin(idx, 1)
	// Slot 2: untouched.

	var decremented []uint32
	n := s.Rollback(idx, func(slot uint32) {
		decremented = append(decremented, slot)
	})

	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []uint32{0, 1}, decremented)
	assert.False(t, s.HasOutstandingReference(idx, 0))
	assert.False(t, s.HasOutstandingReference(idx, 1))
}

func TestRegisterProxyMintsDistinctSessionIDs(t *testing.T) {
	s := New(4, 2)
	idx1, err := s.RegisterProxy(111)
	require.NoError(t, err)
	first := s.Log(idx1).SessionID()
	assert.NotEqual(t, uuid.Nil, first)

	s.UnregisterProxy(idx1)
	idx2, err := s.RegisterProxy(111) // same PID reusing the same slot
	require.NoError(t, err)
	second := s.Log(idx2).SessionID()

	assert.Equal(t, idx1, idx2)
	assert.NotEqual(t, first, second, "a fresh registration must mint a new session id even if the slot and PID are reused")
}

func TestRollbackIsIdempotentNoOutstandingReferences(t *testing.T) {
	s := New(4, 1)
	idx, err := s.RegisterProxy(1)
	require.NoError(t, err)

	n := s.Rollback(idx, func(slot uint32) {
		t.Fatalf("dec should not be called, slot %d has no outstanding reference", slot)
	})
	assert.Equal(t, 0, n)
}
