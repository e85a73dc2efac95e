package domain

import "time"

// RunStats holds the counters accumulated over one import run. Counters
// only ever increase; the struct is emitted exactly once at run end.
type RunStats struct {
	ItemsSeen       int64
	HeaderInserts   int64
	HeaderSkips     int64
	DetailInserts   int64
	DetailSkips     int64
	DistinctHeaders int64
	StartTime       time.Time
	EndTime         time.Time
}

// OrdersImported reports how many header rows made it into staging.
func (s *RunStats) OrdersImported() int64 {
	return s.HeaderInserts
}

// Empty reports whether the export job returned no order lines at all.
// An empty result set is a clean outcome, not a failure.
func (s *RunStats) Empty() bool {
	return s.ItemsSeen == 0
}
