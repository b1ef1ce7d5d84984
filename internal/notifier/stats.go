package notifier

import (
	"fmt"
	"sync/atomic"
)

// Stats tallies how the processed events ended.
// All methods are safe for concurrent use.
type Stats struct {
	received  int64
	submitted int64
	skipped   int64
	failed    int64
}

// Received returns the number of events that entered the pipeline.
func (s *Stats) Received() int64 {
	return atomic.LoadInt64(&s.received)
}

// Submitted returns the number of descriptors accepted by the catalog.
func (s *Stats) Submitted() int64 {
	return atomic.LoadInt64(&s.submitted)
}

// Skipped returns the number of events the pipeline had nothing to do for.
func (s *Stats) Skipped() int64 {
	return atomic.LoadInt64(&s.skipped)
}

// Failed returns the number of events that ended in error.
func (s *Stats) Failed() int64 {
	return atomic.LoadInt64(&s.failed)
}

// String stringifies the counters.
func (s *Stats) String() string {
	return fmt.Sprintf("received=%d submitted=%d skipped=%d failed=%d",
		s.Received(), s.Submitted(), s.Skipped(), s.Failed())
}

func (s *Stats) event() {
	atomic.AddInt64(&s.received, 1)
}

func (s *Stats) outcome(o Outcome, err error) {
	switch {
	case err != nil:
		atomic.AddInt64(&s.failed, 1)
	case o == OutcomeSubmitted:
		atomic.AddInt64(&s.submitted, 1)
	default:
		atomic.AddInt64(&s.skipped, 1)
	}
}
