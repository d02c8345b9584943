package stats

import (
	"time"

	"github.com/berrylearn/badge-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// WINDOW COUNTERS
// Classify raw submission instants into time-of-day, day-of-week, and
// calendar-date buckets. Windows are independent: Night and EarlyMorning are
// disjoint by construction, but a submission can simultaneously land in
// Weekend and a special-date window.
// ══════════════════════════════════════════════════════════════════════════════

// Window identifies one submission-time classifier.
type Window string

const (
	// WindowNight - local hour >= 22 or < 3.
	WindowNight Window = "night"

	// WindowEarlyMorning - local hour in [3, 7).
	WindowEarlyMorning Window = "early_morning"

	// WindowWeekend - local Saturday or Sunday.
	WindowWeekend Window = "weekend"

	// WindowUnluckyDay - local Friday the 13th.
	WindowUnluckyDay Window = "unlucky_day"

	// WindowNewYearsDay - local January 1st.
	WindowNewYearsDay Window = "new_years_day"
)

// Windows lists all classifiers in a stable order.
func Windows() []Window {
	return []Window{WindowNight, WindowEarlyMorning, WindowWeekend, WindowUnluckyDay, WindowNewYearsDay}
}

// Matches reports whether the instant falls inside the window in loc.
func (w Window) Matches(t time.Time, loc *time.Location) bool {
	switch w {
	case WindowNight:
		hour := timeutil.HourIn(t, loc)
		return hour >= 22 || hour < 3
	case WindowEarlyMorning:
		hour := timeutil.HourIn(t, loc)
		return hour >= 3 && hour < 7
	case WindowWeekend:
		return timeutil.IsWeekendIn(t, loc)
	case WindowUnluckyDay:
		return timeutil.IsFridayThe13thIn(t, loc)
	case WindowNewYearsDay:
		return timeutil.IsNewYearsDayIn(t, loc)
	default:
		return false
	}
}

// CountInWindow scans the submission instants once and returns how many fall
// inside the window. The input need not be sorted or deduplicated.
func CountInWindow(times []time.Time, loc *time.Location, w Window) int {
	count := 0
	for _, t := range times {
		if w.Matches(t, loc) {
			count++
		}
	}
	return count
}

// HasAtLeastInWindow reports whether at least minimum submissions fall
// inside the window.
func HasAtLeastInWindow(times []time.Time, loc *time.Location, w Window, minimum int) bool {
	return CountInWindow(times, loc, w) >= minimum
}
