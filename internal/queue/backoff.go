package queue

import "time"

// BackoffDuration returns the exponential backoff delay before attempt
// number attempt (1-indexed) of a job is allowed to run again: base,
// 2*base, 4*base, ... Attempt numbers below 1 are treated as 1.
func BackoffDuration(attempt int, base time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
	}
	return d
}
