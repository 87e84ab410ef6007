package edcc

import "errors"

// ErrSampleAllocationFailure is returned by Send when no slot could be
// allocated on any control (spec §7, "Slot exhaustion").
var ErrSampleAllocationFailure = errors.New("edcc: no free slot available")
