package stats

import (
	"time"

	"github.com/berrylearn/badge-hub/internal/domain/learner"
)

// Snapshot is the full set of behavioral signals the badge evaluation
// engine reads: streaks, window counts, submission and feedback totals, and
// the externally-supplied facts. It is computed once per evaluation run so
// every badge checker sees the same consistent view.
type Snapshot struct {
	// TotalSubmissions - distinct assignments submitted.
	TotalSubmissions int

	// LongestStreak - longest historical run of consecutive activity days.
	LongestStreak int

	// CurrentStreak - length of the streak still alive today, 0 if broken.
	CurrentStreak int

	// WindowCounts - submissions per time window.
	WindowCounts map[Window]int

	// Feedback counters.
	MoodFeedbackCount   int
	TextFeedbackCount   int
	SurveyFeedbackCount int

	// Facts - externally-owned boolean facts.
	Facts map[learner.ExternalFact]bool

	// FinishedUnits - completed curriculum units by slug.
	FinishedUnits map[string]bool
}

// Compute derives a snapshot from the learner aggregate. now anchors the
// current-streak calculation and should be the evaluation instant.
func Compute(l *learner.Learner, now time.Time) Snapshot {
	loc := l.Location()
	times := SubmissionTimes(l.Submissions)
	days := ActivityDays(l.Submissions, loc)

	counts := make(map[Window]int, len(Windows()))
	for _, w := range Windows() {
		counts[w] = CountInWindow(times, loc, w)
	}

	return Snapshot{
		TotalSubmissions:    l.TotalSubmissionCount(),
		LongestStreak:       LongestStreak(days, loc),
		CurrentStreak:       CurrentStreak(days, loc, now),
		WindowCounts:        counts,
		MoodFeedbackCount:   l.Progress.MoodFeedbackCount,
		TextFeedbackCount:   l.Progress.TextFeedbackCount,
		SurveyFeedbackCount: l.Progress.SurveyFeedbackCount,
		Facts:               l.Progress.Facts,
		FinishedUnits:       l.FinishedUnits,
	}
}

// Fact reports an external fact from the snapshot (absent = false).
func (s Snapshot) Fact(f learner.ExternalFact) bool {
	return s.Facts[f]
}

// UnitFinished reports whether a curriculum unit is completed.
func (s Snapshot) UnitFinished(slug string) bool {
	return s.FinishedUnits[slug]
}

// WindowCount returns the count for one window.
func (s Snapshot) WindowCount(w Window) int {
	return s.WindowCounts[w]
}
