package slotword

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordZeroValueIsInvalid(t *testing.T) {
	var w Word
	tt, r := w.LoadAcquire()
	assert.True(t, IsInvalid(tt))
	assert.Equal(t, uint32(0), r)
	assert.False(t, IsReady(tt, r))
}

func TestStoreReleaseLoadAcquireRoundTrip(t *testing.T) {
	var w Word
	w.StoreRelease(42, 0)
	tt, r := w.LoadAcquire()
	assert.Equal(t, uint32(42), tt)
	assert.Equal(t, uint32(0), r)
	assert.True(t, IsReady(tt, r))
	assert.False(t, IsInReading(tt, r))
}

func TestCASSucceedsOnMatchingExpected(t *testing.T) {
	var w Word
	w.StoreRelease(TInvalid, 0)
	ok := w.CAS(TInvalid, 0, TInWriting, RMax)
	assert.True(t, ok)
	tt, r := w.LoadAcquire()
	assert.True(t, IsInWriting(tt))
	assert.Equal(t, RMax, r)
}

func TestCASFailsOnStaleExpected(t *testing.T) {
	var w Word
	w.StoreRelease(5, 0)
	ok := w.CAS(TInvalid, 0, TInWriting, RMax)
	assert.False(t, ok)
	tt, r := w.LoadAcquire()
	assert.Equal(t, uint32(5), tt)
	assert.Equal(t, uint32(0), r)
}

func TestStatePredicates(t *testing.T) {
	tests := []struct {
		name        string
		t, r        uint32
		invalid     bool
		inWriting   bool
		ready       bool
		inReading   bool
	}{
		{"invalid", TInvalid, 0, true, false, false, false},
		{"in writing", TInWriting, RMax, false, true, false, false},
		{"ready no readers", 7, 0, false, false, true, false},
		{"ready with readers", 7, 3, false, false, true, true},
		{"ready at max minus one", 7, RMax - 1, false, false, true, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.invalid, IsInvalid(tc.t))
			assert.Equal(t, tc.inWriting, IsInWriting(tc.t))
			assert.Equal(t, tc.ready, IsReady(tc.t, tc.r))
			assert.Equal(t, tc.inReading, IsInReading(tc.t, tc.r))
		})
	}
}

func TestConcurrentCASOnlyOneWinner(t *testing.T) {
	var w Word
	w.StoreRelease(TInvalid, 0)

	const attempts = 64
	wins := make(chan bool, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			wins <- w.CAS(TInvalid, 0, TInWriting, RMax)
		}()
	}

	winCount := 0
	for i := 0; i < attempts; i++ {
		if <-wins {
			winCount++
		}
	}
	assert.Equal(t, 1, winCount)
}
