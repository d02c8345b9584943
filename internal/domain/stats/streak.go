package stats

import (
	"time"

	"github.com/berrylearn/badge-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// STREAK ANALYZER
// Consumes the ascending activity-day sequence produced by ActivityDays.
// All comparisons use calendar-day ordinals in the learner's time zone, so a
// 23-hour or 25-hour DST day still counts as exactly one day.
// ══════════════════════════════════════════════════════════════════════════════

// LongestStreak returns the longest historical run of consecutive activity
// days in the ascending sequence. A single activity day is a streak of 1.
// Empty input returns 0.
func LongestStreak(days []time.Time, loc *time.Location) int {
	if len(days) == 0 {
		return 0
	}

	longest := 1
	run := 1
	previous := timeutil.DayOrdinal(days[0], loc)

	for _, day := range days[1:] {
		ordinal := timeutil.DayOrdinal(day, loc)
		switch ordinal - previous {
		case 0:
			// Same-day duplicate, the run is unchanged.
		case 1:
			run++
			if run > longest {
				longest = run
			}
		default:
			// Any gap (or out-of-order entry) breaks the run.
			run = 1
		}
		previous = ordinal
	}

	return longest
}

// HasStreakOfDays reports whether the learner ever had a streak of at least
// minimumDays consecutive activity days.
func HasStreakOfDays(days []time.Time, loc *time.Location, minimumDays int) bool {
	return LongestStreak(days, loc) >= minimumDays
}

// CurrentStreak returns the length of the streak that is still alive as of
// today (learner-local). If the most recent activity day is more than one
// calendar day before today, the streak is broken and the result is 0.
// Empty input returns 0.
func CurrentStreak(days []time.Time, loc *time.Location, now time.Time) int {
	if len(days) == 0 {
		return 0
	}

	latest := timeutil.DayOrdinal(days[len(days)-1], loc)
	today := timeutil.DayOrdinal(now, loc)
	if today-latest > 1 {
		return 0
	}

	// Walk backwards counting consecutive one-day steps, skipping same-day
	// duplicates, and stopping (not resetting) at the first gap.
	streak := 1
	previous := latest
	for i := len(days) - 2; i >= 0; i-- {
		ordinal := timeutil.DayOrdinal(days[i], loc)
		switch previous - ordinal {
		case 0:
			// Duplicate of the same day.
		case 1:
			streak++
		default:
			return streak
		}
		previous = ordinal
	}

	return streak
}
