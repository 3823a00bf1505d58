package insights

import "time"

// Window is a half-open time interval [Start, End) used to bucket engagement
// samples. All weekly arithmetic goes through here so the boundary semantics
// are defined once.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window (inclusive start,
// exclusive end).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

const week = 7 * 24 * time.Hour

// CurrentWeek returns the window [now - 7d, now)
func CurrentWeek(now time.Time) Window {
	return Window{Start: now.Add(-week), End: now}
}

// PreviousWeek returns the window [now - 14d, now - 7d)
func PreviousWeek(now time.Time) Window {
	return Window{Start: now.Add(-2 * week), End: now.Add(-week)}
}
