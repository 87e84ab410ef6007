package binding

import "sync/atomic"

// sampleGuard is the type-erased sample pointer guard SPEC_FULL.md §3
// grounds on the original's type_erased_sample_ptrs_guard_test.cpp: a
// bookkeeping counter of currently-outstanding handles for one event.
// StopOffer reports the writer-side count; the reader-side count is kept
// up to date but nothing reads it.
type sampleGuard struct {
	outstanding atomic.Int64
}

func newSampleGuard() *sampleGuard { return &sampleGuard{} }

func (g *sampleGuard) inc() { g.outstanding.Add(1) }
func (g *sampleGuard) dec() { g.outstanding.Add(-1) }
func (g *sampleGuard) count() int { return int(g.outstanding.Load()) }
