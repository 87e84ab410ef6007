package edc

import (
	"errors"
	"sync/atomic"

	"github.com/cuemby/lola/pkg/slotword"
)

// ErrTimestampExhausted is returned by Clock.Next once the monotone
// counter reaches one below slotword.TInWriting. The publisher must
// StopOffer and re-Offer (which rebuilds the control block and resets the
// counter) to recover; see SPEC_FULL.md for why wraparound was rejected in
// favor of failing closed.
var ErrTimestampExhausted = errors.New("edc: publisher timestamp counter exhausted, re-offer required")

// Clock is a publisher's monotone logical-timestamp counter. It is safe
// for use by a single publisher process; it is never read or mutated by
// subscribers.
type Clock struct {
	next atomic.Uint32
}

// NewClock returns a Clock whose first Next() call yields 1 — timestamp 0
// is reserved (slotword.TInvalid).
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next monotone timestamp, or ErrTimestampExhausted if
// the counter has already reached slotword.TMax. Once exhausted, the
// counter is never advanced again — every subsequent call keeps returning
// ErrTimestampExhausted instead of wrapping past TMax into the reserved
// sentinels, which is the whole point of failing closed (SPEC_FULL.md §0).
func (c *Clock) Next() (uint32, error) {
	for {
		cur := c.next.Load()
		if cur >= slotword.TMax {
			return 0, ErrTimestampExhausted
		}
		next := cur + 1
		if c.next.CompareAndSwap(cur, next) {
			return next, nil
		}
	}
}
