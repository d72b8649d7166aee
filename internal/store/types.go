package store

import "time"

// Counters are the per-run totals reported by the filter.
type Counters struct {
	Records     int64
	KeyEvents   int64
	Passthrough int64
	Forwarded   int64
	Suppressed  int64
	Synthesized int64
}

// Run is one execution of the filter.
type Run struct {
	ID         int64
	PID        int
	Version    string
	StartedAt  time.Time
	EndedAt    time.Time // zero while running or after an unclean exit
	Counters   Counters
	ExitReason string
}

// Finished reports whether the run recorded an end.
func (r *Run) Finished() bool {
	return !r.EndedAt.IsZero()
}

// Duration is the wall time of a finished run.
func (r *Run) Duration() time.Duration {
	if !r.Finished() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}
