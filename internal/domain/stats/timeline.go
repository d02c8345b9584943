// Package stats derives behavioral signals from a learner's submission log:
// the activity-day timeline, day streaks, and time-window submission counts.
// Everything here is a pure computation over in-memory data; empty or sparse
// input always degrades to "no signal", never to an error.
package stats

import (
	"sort"
	"time"

	"github.com/berrylearn/badge-hub/internal/domain/learner"
	"github.com/berrylearn/badge-hub/internal/domain/shared"
	"github.com/berrylearn/badge-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// TIMELINE EXTRACTOR
// Flattens the lesson → assignment → records log into flat, time-zone-correct
// instant and calendar-day sequences the analyzers consume.
// ══════════════════════════════════════════════════════════════════════════════

// SubmissionTimes returns every valid submission instant in the log,
// unordered. Records without a timestamp are skipped (malformed input is
// a caller logging concern, never fatal here).
func SubmissionTimes(log learner.SubmissionLog) []time.Time {
	var times []time.Time
	log.Each(func(_ shared.LessonID, _ shared.AssignmentID, record learner.SubmissionRecord) {
		if record.CreatedAt.IsZero() {
			return
		}
		times = append(times, record.CreatedAt)
	})
	return times
}

// ActivityDays flattens the submission log into an ascending sequence of
// learner-local calendar days, one entry per submission. Same-day duplicates
// are preserved; collapsing them is the streak analyzer's responsibility.
func ActivityDays(log learner.SubmissionLog, loc *time.Location) []time.Time {
	times := SubmissionTimes(log)

	days := make([]time.Time, 0, len(times))
	for _, t := range times {
		days = append(days, timeutil.StartOfDayIn(t, loc))
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})

	return days
}
