package canvas

import "time"

// SystemClock is the production Clock, grounded on the teacher's
// internal/mode/shared/clock.go RealClock pattern: a zero-size type
// wrapping time.Now so tests can substitute a fixed clock instead.
type SystemClock struct{}

// NowUnix returns the current Unix timestamp.
func (SystemClock) NowUnix() int64 { return time.Now().Unix() }
