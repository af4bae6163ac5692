package fontatlas

import "time"

// monotonicNow and recordElapsed implement §5's "elapsed time measured
// against a monotonic clock" build-timing requirement. time.Now() is
// already monotonic-clock-backed on every platform Go supports, so no
// separate monotonic source is needed (matching the stdlib-only ambient
// concerns noted in DESIGN.md).
func monotonicNow() time.Time {
	return time.Now()
}

// recordElapsed writes the milliseconds elapsed since start into out, if
// out is non-nil.
func recordElapsed(out *int64, start time.Time) {
	if out == nil {
		return
	}
	*out = time.Since(start).Milliseconds()
}
