// Package timing attributes wall-clock time to the phases of a solver step.
package timing

import "time"

// A Clock tells the current wall-clock time. Durations are measured as the
// difference of two readings, so implementations must be monotonic.
type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// WallClock returns a Clock backed by time.Now, whose readings carry the
// monotonic clock.
func WallClock() Clock {
	return wallClock{}
}
