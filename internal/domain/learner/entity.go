// Package learner contains the learner aggregate: the submission log,
// the durable badge unlock state, and the transient newly-unlocked queue.
// This is the per-user state the badge evaluation engine reads and writes.
package learner

import (
	"time"

	"github.com/berrylearn/badge-hub/internal/domain/shared"
	"github.com/berrylearn/badge-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXTERNAL FACTS
// Boolean facts owned by collaborating systems (community bot, referral
// service, support desk). They are injected into the learner state before
// evaluation; this core never computes them, only reads them.
// ══════════════════════════════════════════════════════════════════════════════

// ExternalFact names a boolean fact settable only by an external system.
type ExternalFact string

const (
	// FactCommunityRegistration - the learner joined the community chat.
	FactCommunityRegistration ExternalFact = "community_registration"

	// FactReferredFirstFriend - the learner's first referral converted.
	FactReferredFirstFriend ExternalFact = "referred_first_friend"

	// FactDiscoveredBug - the learner reported a confirmed bug.
	FactDiscoveredBug ExternalFact = "discovered_bug"

	// FactWroteBlogPost - the learner published a blog post about the school.
	FactWroteBlogPost ExternalFact = "wrote_blog_post"

	// FactWroteReview - the learner reviewed the school publicly.
	FactWroteReview ExternalFact = "wrote_review"
)

// IsValid checks that the fact is one of the known external facts.
func (f ExternalFact) IsValid() bool {
	switch f {
	case FactCommunityRegistration, FactReferredFirstFriend,
		FactDiscoveredBug, FactWroteBlogPost, FactWroteReview:
		return true
	}
	return false
}

// ══════════════════════════════════════════════════════════════════════════════
// LEVEL PROGRESS
// ══════════════════════════════════════════════════════════════════════════════

// LevelProgress is the badge-facing slice of learner state: the durable
// unlock set, the transient notification queue, and the counters that feed
// feedback badges.
type LevelProgress struct {
	// Unlocked maps condition keys to their unlock state. Keys only ever
	// transition false→true during evaluation; badges are permanent.
	Unlocked map[shared.ConditionKey]bool `json:"unlocked"`

	// NewlyUnlockedBadgeIDs lists badges unlocked since the last
	// acknowledgement, in evaluation order. Drained only by CleanNewBadges.
	NewlyUnlockedBadgeIDs []shared.BadgeID `json:"newly_unlocked_badge_ids"`

	// HasNewBadges mirrors len(NewlyUnlockedBadgeIDs) > 0 for cheap checks.
	HasNewBadges bool `json:"has_new_badges"`

	// MoodFeedbackCount - emoji feedback clicks on lessons.
	MoodFeedbackCount int `json:"mood_feedback_count"`

	// TextFeedbackCount - free-text feedback messages.
	TextFeedbackCount int `json:"text_feedback_count"`

	// SurveyFeedbackCount - answered in-line surveys.
	SurveyFeedbackCount int `json:"survey_feedback_count"`

	// Facts holds the externally-owned boolean facts.
	Facts map[ExternalFact]bool `json:"facts"`

	// FinishedFirstProject is derived on every evaluation from the
	// starter-project assignment count.
	FinishedFirstProject bool `json:"finished_first_project"`

	// NumberOfMissingTasks counts how many of the five onboarding steps
	// remain open. Derived, for dashboards only.
	NumberOfMissingTasks int `json:"number_of_missing_tasks"`
}

// NewLevelProgress creates empty level progress.
func NewLevelProgress() LevelProgress {
	return LevelProgress{
		Unlocked:              make(map[shared.ConditionKey]bool),
		NewlyUnlockedBadgeIDs: nil,
		Facts:                 make(map[ExternalFact]bool),
	}
}

// IsUnlocked reports whether the condition key has been unlocked.
func (p *LevelProgress) IsUnlocked(key shared.ConditionKey) bool {
	return p.Unlocked[key]
}

// Fact reports the current value of an external fact (absent = false).
func (p *LevelProgress) Fact(f ExternalFact) bool {
	return p.Facts[f]
}

// ══════════════════════════════════════════════════════════════════════════════
// LEARNER AGGREGATE
// ══════════════════════════════════════════════════════════════════════════════

// Learner is the aggregate root for per-user achievement state.
type Learner struct {
	// ID - internal learner identifier (UUID).
	ID shared.LearnerID

	// Locale - locale code and IANA time zone of the learner.
	Locale shared.Locale

	// Submissions - the full append-only activity log.
	Submissions SubmissionLog

	// Progress - unlock state, notification queue, feedback counters.
	Progress LevelProgress

	// FinishedUnits maps curriculum unit slugs to completion.
	FinishedUnits map[string]bool

	// Version - optimistic concurrency token, incremented on every save.
	Version int

	// CreatedAt / UpdatedAt - aggregate timestamps (UTC).
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewLearner creates a learner with all condition keys locked.
func NewLearner(id shared.LearnerID, locale shared.Locale) (*Learner, error) {
	if !id.IsValid() {
		return nil, shared.ErrInvalidLearnerID
	}

	now := time.Now().UTC()
	return &Learner{
		ID:            id,
		Locale:        locale.OrDefault(),
		Submissions:   NewSubmissionLog(),
		Progress:      NewLevelProgress(),
		FinishedUnits: make(map[string]bool),
		Version:       0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Location returns the learner's time zone, falling back to UTC.
func (l *Learner) Location() *time.Location {
	return timeutil.LoadLocationOrDefault(l.Locale.TimeZone)
}

// RecordSubmission appends a submission record to the activity log.
func (l *Learner) RecordSubmission(lessonID shared.LessonID, assignmentID shared.AssignmentID, record SubmissionRecord) error {
	if !lessonID.IsValid() {
		return shared.ErrInvalidLessonID
	}
	if !assignmentID.IsValid() {
		return shared.ErrInvalidAssignmentID
	}
	if err := record.Validate(); err != nil {
		return err
	}

	if l.Submissions == nil {
		l.Submissions = NewSubmissionLog()
	}
	l.Submissions.Append(lessonID, assignmentID, record)
	l.touch()
	return nil
}

// TotalSubmissionCount returns the number of distinct assignments the
// learner has submitted, the metric progress badges measure.
func (l *Learner) TotalSubmissionCount() int {
	return l.Submissions.AssignmentCount()
}

// Unlock transitions a condition key to unlocked and enqueues the badge id
// into the notification queue. It is a no-op for already-unlocked keys, so
// re-running evaluation can never duplicate queue entries.
func (l *Learner) Unlock(key shared.ConditionKey, badgeID shared.BadgeID) bool {
	if l.Progress.Unlocked == nil {
		l.Progress.Unlocked = make(map[shared.ConditionKey]bool)
	}
	if l.Progress.Unlocked[key] {
		return false
	}

	l.Progress.Unlocked[key] = true
	l.Progress.NewlyUnlockedBadgeIDs = append(l.Progress.NewlyUnlockedBadgeIDs, badgeID)
	l.Progress.HasNewBadges = true
	l.touch()
	return true
}

// CleanNewBadges drains the transient newly-unlocked queue. The durable
// unlock set is not touched; badges stay unlocked forever.
func (l *Learner) CleanNewBadges() []shared.BadgeID {
	drained := l.Progress.NewlyUnlockedBadgeIDs
	l.Progress.NewlyUnlockedBadgeIDs = nil
	l.Progress.HasNewBadges = false
	l.touch()
	return drained
}

// IncrementMoodFeedback bumps the mood feedback counter.
func (l *Learner) IncrementMoodFeedback() int {
	l.Progress.MoodFeedbackCount++
	l.touch()
	return l.Progress.MoodFeedbackCount
}

// IncrementTextFeedback bumps the text feedback counter.
func (l *Learner) IncrementTextFeedback() int {
	l.Progress.TextFeedbackCount++
	l.touch()
	return l.Progress.TextFeedbackCount
}

// RecordSurveyFeedback bumps the in-line survey counter.
func (l *Learner) RecordSurveyFeedback() int {
	l.Progress.SurveyFeedbackCount++
	l.touch()
	return l.Progress.SurveyFeedbackCount
}

// ApplyExternalFact sets an externally-owned boolean fact. Facts never
// transition back to false.
func (l *Learner) ApplyExternalFact(fact ExternalFact) error {
	if !fact.IsValid() {
		return shared.NewDomainError("learner", "ApplyExternalFact", shared.ErrInvalidInput, "unknown external fact")
	}
	if l.Progress.Facts == nil {
		l.Progress.Facts = make(map[ExternalFact]bool)
	}
	l.Progress.Facts[fact] = true
	l.touch()
	return nil
}

// CompleteUnit marks a curriculum unit as finished.
func (l *Learner) CompleteUnit(unitSlug string) error {
	if unitSlug == "" {
		return shared.NewDomainError("learner", "CompleteUnit", shared.ErrEmptyValue, "unit slug is required")
	}
	if l.FinishedUnits == nil {
		l.FinishedUnits = make(map[string]bool)
	}
	l.FinishedUnits[unitSlug] = true
	l.touch()
	return nil
}

// IsUnitFinished reports whether a curriculum unit is completed.
func (l *Learner) IsUnitFinished(unitSlug string) bool {
	return l.FinishedUnits[unitSlug]
}

// Clone returns a deep copy of the learner. Stores and caches hand out
// clones so callers can mutate freely before saving.
func (l *Learner) Clone() *Learner {
	clone := *l

	clone.Submissions = NewSubmissionLog()
	l.Submissions.Each(func(lessonID shared.LessonID, assignmentID shared.AssignmentID, record SubmissionRecord) {
		clone.Submissions.Append(lessonID, assignmentID, record)
	})

	clone.Progress.Unlocked = make(map[shared.ConditionKey]bool, len(l.Progress.Unlocked))
	for k, v := range l.Progress.Unlocked {
		clone.Progress.Unlocked[k] = v
	}
	clone.Progress.NewlyUnlockedBadgeIDs = append([]shared.BadgeID(nil), l.Progress.NewlyUnlockedBadgeIDs...)
	clone.Progress.Facts = make(map[ExternalFact]bool, len(l.Progress.Facts))
	for k, v := range l.Progress.Facts {
		clone.Progress.Facts[k] = v
	}

	clone.FinishedUnits = make(map[string]bool, len(l.FinishedUnits))
	for k, v := range l.FinishedUnits {
		clone.FinishedUnits[k] = v
	}
	return &clone
}

func (l *Learner) touch() {
	l.UpdatedAt = time.Now().UTC()
}
