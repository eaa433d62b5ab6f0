package queue

import "errors"

var (
	// ErrJobNotFound is returned when a jobId has no corresponding hash
	// in the backing store, e.g. complete/fail called for a job that
	// was already evicted by retention.
	ErrJobNotFound = errors.New("queue: job not found")

	// ErrNoJobAvailable reports an empty waiting list. Store.NextJob
	// does not return it: it keeps polling until a job arrives, Drain
	// is called, or ctx ends.
	ErrNoJobAvailable = errors.New("queue: no job available")

	// ErrDraining is returned by Enqueue/NextJob once Drain has been
	// called and the queue is shutting down.
	ErrDraining = errors.New("queue: draining")
)
