package shmarena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNames(t *testing.T) {
	assert.Equal(t, "lola-data-000000000000002a-00007", DataObjectName(42, 7))
	assert.Equal(t, "lola-ctl-000000000000002a-00007", ControlObjectName(42, 7, QualityQM))
	assert.Equal(t, "lola-ctl-000000000000002a-00007-b", ControlObjectName(42, 7, QualityASIL))
}

func TestElementFqIdRoundTrip(t *testing.T) {
	id := NewElementFqId(12, 3456, 789012, ElementTypeField)
	assert.Equal(t, uint16(12), id.ServiceID())
	assert.Equal(t, uint16(3456), id.InstanceID())
	assert.Equal(t, uint32(789012), id.ElementID())
	assert.Equal(t, ElementTypeField, id.ElementType())
}

func TestArenaAllocBumpsCursorAndAligns(t *testing.T) {
	a := New(make([]byte, 1024))
	off1, err := a.Alloc(3, 8)
	require.NoError(t, err)
	assert.Equal(t, Offset(0), off1)

	off2, err := a.Alloc(8, 8)
	require.NoError(t, err)
	assert.Equal(t, Offset(8), off2, "second alloc must be 8-byte aligned even though the first only used 3 bytes")
}

func TestArenaAllocFailsWhenExhausted(t *testing.T) {
	a := New(make([]byte, 16))
	_, err := a.Alloc(8, 8)
	require.NoError(t, err)
	_, err = a.Alloc(16, 8)
	assert.Error(t, err)
}

func TestSlotWordsAliasArenaBytes(t *testing.T) {
	a := New(make([]byte, 256))
	off, err := a.AllocSlotWords(4)
	require.NoError(t, err)

	words := a.SlotWords(off, 4)
	require.Len(t, words, 4)
	words[2].StoreRelease(99, 1)

	// A second view constructed independently over the same bytes must
	// see the write, proving the slots genuinely alias shared memory
	// rather than a private copy.
	words2 := a.SlotWords(off, 4)
	tt, r := words2[2].LoadAcquire()
	assert.Equal(t, uint32(99), tt)
	assert.Equal(t, uint32(1), r)
}

func TestIndexPutGet(t *testing.T) {
	a := New(make([]byte, 4096))
	off, err := a.AllocIndex(16)
	require.NoError(t, err)
	ix := a.Index(off, 16)

	id1 := NewElementFqId(1, 1, 100, ElementTypeEvent)
	id2 := NewElementFqId(1, 1, 200, ElementTypeEvent)

	require.NoError(t, ix.Put(id1, 64))
	require.NoError(t, ix.Put(id2, 128))

	got, ok := ix.Get(id1)
	require.True(t, ok)
	assert.Equal(t, Offset(64), got)

	got, ok = ix.Get(id2)
	require.True(t, ok)
	assert.Equal(t, Offset(128), got)

	_, ok = ix.Get(NewElementFqId(9, 9, 9, ElementTypeEvent))
	assert.False(t, ok)
}

func TestIndexPutDuplicateKeyErrors(t *testing.T) {
	a := New(make([]byte, 4096))
	off, err := a.AllocIndex(8)
	require.NoError(t, err)
	ix := a.Index(off, 8)

	id := NewElementFqId(1, 1, 1, ElementTypeEvent)
	require.NoError(t, ix.Put(id, 16))
	assert.Error(t, ix.Put(id, 32))
}

func TestIndexFullErrors(t *testing.T) {
	a := New(make([]byte, 4096))
	off, err := a.AllocIndex(2)
	require.NoError(t, err)
	ix := a.Index(off, 2)

	require.NoError(t, ix.Put(NewElementFqId(1, 1, 1, ElementTypeEvent), 1))
	require.NoError(t, ix.Put(NewElementFqId(1, 1, 2, ElementTypeEvent), 2))
	assert.Error(t, ix.Put(NewElementFqId(1, 1, 3, ElementTypeEvent), 3))
}

func TestControlHeaderRoundTripAndMismatch(t *testing.T) {
	a := New(make([]byte, 256))
	off, err := a.InitControlHeader(4242)
	require.NoError(t, err)

	pid, ok := a.CheckControlHeader(off)
	require.True(t, ok)
	assert.EqualValues(t, 4242, pid)

	// Simulate an uninitialized region elsewhere in the same arena.
	other, err := a.Alloc(controlHeaderSize, 8)
	require.NoError(t, err)
	_, ok = a.CheckControlHeader(other)
	assert.False(t, ok)
}
