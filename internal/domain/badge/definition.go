package badge

import (
	"github.com/berrylearn/badge-hub/internal/domain/learner"
	"github.com/berrylearn/badge-hub/internal/domain/shared"
	"github.com/berrylearn/badge-hub/internal/domain/stats"
)

// ═══════════════════════════════════════════════════════════════════════════
// Badge definitions
// ═══════════════════════════════════════════════════════════════════════════

// Category groups badges for display purposes.
type Category string

const (
	CategoryBehavior   Category = "behavior"
	CategoryFeedback   Category = "feedback"
	CategoryOnboarding Category = "onboarding"
	CategoryProgress   Category = "progress"
	CategoryReferral   Category = "referral"
	CategoryRandom     Category = "random"
)

// Kind is the closed set of condition families. Every badge condition is one
// of these, parameterized by the definition's threshold, window, fact or unit
// fields. Keeping definitions data-only makes the catalog serializable and
// lets a single dispatch function cover every badge.
type Kind string

const (
	// KindStreak - longest run of consecutive activity days reaches Threshold.
	KindStreak Kind = "streak"

	// KindSubmissionCount - distinct submitted assignments reach Threshold.
	KindSubmissionCount Kind = "submission_count"

	// KindWindowCount - submissions inside Window reach Threshold.
	KindWindowCount Kind = "window_count"

	// KindMoodFeedback - mood feedback count reaches Threshold.
	KindMoodFeedback Kind = "mood_feedback"

	// KindSurveyFeedback - inline survey feedback count reaches Threshold.
	KindSurveyFeedback Kind = "survey_feedback"

	// KindExternalFact - an externally-owned boolean fact is true.
	KindExternalFact Kind = "external_fact"

	// KindUnitCompleted - a named curriculum unit is fully completed.
	KindUnitCompleted Kind = "unit_completed"
)

// Definition is one immutable catalog entry. Name, Task and FlavorText hold
// the source-language phrases, which double as lookup keys for the localizer.
type Definition struct {
	ID           shared.BadgeID
	Category     Category
	Kind         Kind
	ConditionKey shared.ConditionKey

	Name       string
	Task       string
	FlavorText string
	Image      string

	// Target - the numeric threshold the condition needs, also shown to the
	// learner as the completion state. Zero for purely boolean conditions.
	Target int

	// Window - set for KindWindowCount only.
	Window stats.Window

	// Fact - set for KindExternalFact only.
	Fact learner.ExternalFact

	// UnitSlug - set for KindUnitCompleted only.
	UnitSlug string

	Hidden    bool
	Available bool
}

// Met reports whether the condition holds against a signals snapshot. It is
// pure: same snapshot, same answer.
func (d Definition) Met(s stats.Snapshot) bool {
	switch d.Kind {
	case KindStreak:
		return s.LongestStreak >= d.Target
	case KindSubmissionCount:
		return s.TotalSubmissions >= d.Target
	case KindWindowCount:
		return s.WindowCount(d.Window) >= d.Target
	case KindMoodFeedback:
		return s.MoodFeedbackCount >= d.Target
	case KindSurveyFeedback:
		return s.SurveyFeedbackCount >= d.Target
	case KindExternalFact:
		return s.Fact(d.Fact)
	case KindUnitCompleted:
		return s.UnitFinished(d.UnitSlug)
	default:
		return false
	}
}

// Progress returns the learner's current state toward the condition, the
// number displayed next to Target. Boolean conditions report 0 or 1.
func (d Definition) Progress(s stats.Snapshot) int {
	switch d.Kind {
	case KindStreak:
		return s.CurrentStreak
	case KindSubmissionCount:
		return s.TotalSubmissions
	case KindWindowCount:
		return s.WindowCount(d.Window)
	case KindMoodFeedback:
		return s.MoodFeedbackCount
	case KindSurveyFeedback:
		return s.SurveyFeedbackCount
	case KindExternalFact:
		if s.Fact(d.Fact) {
			return 1
		}
		return 0
	case KindUnitCompleted:
		if s.UnitFinished(d.UnitSlug) {
			return 1
		}
		return 0
	default:
		return 0
	}
}
