package utils

import (
	"math"
	"time"
)

// ToDuration converts a whole number of seconds from config into a time.Duration.
func ToDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

// ToDurationMs converts a whole number of milliseconds into a time.Duration.
func ToDurationMs(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// maxDurationMs is the largest millisecond count a time.Duration can hold.
const maxDurationMs = math.MaxInt64 / int64(time.Millisecond)

// DeadlineFromMs returns the absolute deadline ms milliseconds after now.
// A non-positive ms, or one too large for a time.Duration, yields the zero
// time, meaning "no deadline".
func DeadlineFromMs(now time.Time, ms int64) time.Time {
	if ms <= 0 || ms > maxDurationMs {
		return time.Time{}
	}
	return now.Add(time.Duration(ms) * time.Millisecond)
}
