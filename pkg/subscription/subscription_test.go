package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcceptWithinBudget(t *testing.T) {
	c := New("ev", Config{MaxSamples: 5, MaxSubscribers: 3, EnforceMaxSamples: true})
	ok, reason := c.Accept(3)
	require.True(t, ok)
	assert.Equal(t, Accepted, reason)
	assert.Equal(t, uint32(3), c.CurrentSamples())
	assert.Equal(t, uint32(1), c.CurrentSubscribers())
}

func TestOversubscriptionRejectedWhenEnforced(t *testing.T) {
	// (B-3 counterpart) max_samples=5, enforce=true: subscribe(3) ok,
	// subscribe(3) rejected.
	c := New("ev", Config{MaxSamples: 5, MaxSubscribers: 10, EnforceMaxSamples: true})
	ok, _ := c.Accept(3)
	require.True(t, ok)
	ok, reason := c.Accept(3)
	assert.False(t, ok)
	assert.Equal(t, RejectedSampleBudget, reason)
}

func TestUnenforcedSampleBudgetAllowsOversubscription(t *testing.T) {
	// (B-3) enforce_max_samples=false, max_samples=5: subscribe(3)+subscribe(3)
	// both succeed.
	c := New("ev", Config{MaxSamples: 5, MaxSubscribers: 10, EnforceMaxSamples: false})
	ok1, _ := c.Accept(3)
	ok2, _ := c.Accept(3)
	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, uint32(6), c.CurrentSamples())
}

func TestMaxSubscribersRejectsFourth(t *testing.T) {
	// (B-2) max_subscribers=3: four sequential subscribe(1) calls, the
	// fourth rejected.
	c := New("ev", Config{MaxSamples: 100, MaxSubscribers: 3, EnforceMaxSamples: true})
	for i := 0; i < 3; i++ {
		ok, _ := c.Accept(1)
		require.True(t, ok)
	}
	ok, reason := c.Accept(1)
	assert.False(t, ok)
	assert.Equal(t, RejectedSubscriberBudget, reason)
}

func TestReleaseFreesBudgetForAnotherSubscriber(t *testing.T) {
	c := New("ev", Config{MaxSamples: 5, MaxSubscribers: 1, EnforceMaxSamples: true})
	ok, _ := c.Accept(3)
	require.True(t, ok)

	ok, _ = c.Accept(1)
	require.False(t, ok, "subscriber budget already exhausted")

	c.Release(3)
	assert.Equal(t, uint32(0), c.CurrentSamples())
	assert.Equal(t, uint32(0), c.CurrentSubscribers())

	ok, _ = c.Accept(2)
	assert.True(t, ok)
}
