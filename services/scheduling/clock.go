package scheduling

import "time"

// Clock supplies "now" so past-cutoff logic is testable.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return realClock{} }

// FixedClock always reports the same instant. Test helper.
type FixedClock struct{ T time.Time }

func (c FixedClock) Now() time.Time { return c.T }

// minuteOfDay truncates an instant to whole minutes from midnight. Seconds
// and smaller are ignored so slot comparisons don't flicker at boundaries.
func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
