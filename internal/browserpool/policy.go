package browserpool

import "time"

// shouldRecycle reports whether a browser that has just completed its
// usesAfterRelease-th borrow should be closed instead of returned to
// the idle set.
func shouldRecycle(usesAfterRelease, maxUses int) bool {
	return usesAfterRelease >= maxUses
}

// shouldReap reports whether an idle browser past cutoff should be
// destroyed, given the pool would still have at least min instances
// left afterwards.
func shouldReap(lastIdle, cutoff time.Time, total, min int) bool {
	return total > min && lastIdle.Before(cutoff)
}
