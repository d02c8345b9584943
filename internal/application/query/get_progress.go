package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/berrylearn/badge-hub/internal/domain/learner"
	"github.com/berrylearn/badge-hub/internal/domain/shared"
	"github.com/berrylearn/badge-hub/internal/domain/stats"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS SUMMARY QUERY
// A dashboard view of the learner's behavioral signals: streaks, window
// counts, submission totals, and open onboarding steps.
// ══════════════════════════════════════════════════════════════════════════════

// GetProgressSummaryQuery identifies the learner to summarize.
type GetProgressSummaryQuery struct {
	// LearnerID is the learner to summarize.
	LearnerID string

	// At anchors the current-streak calculation (defaults to now if zero).
	At time.Time
}

// Validate validates the query.
func (q GetProgressSummaryQuery) Validate() error {
	if q.LearnerID == "" {
		return errors.New("get_progress_summary: learner_id is required")
	}
	return nil
}

// GetProgressSummaryResult contains the learner's signal summary.
type GetProgressSummaryResult struct {
	// LearnerID is the learner the summary belongs to.
	LearnerID string

	// TotalSubmissions is the distinct-assignment submission total.
	TotalSubmissions int

	// LongestStreak is the longest historical run of activity days.
	LongestStreak int

	// CurrentStreak is the streak still alive at the query instant.
	CurrentStreak int

	// WindowCounts holds per-window submission counts.
	WindowCounts map[stats.Window]int

	// MoodFeedbackCount / TextFeedbackCount / SurveyFeedbackCount are the
	// feedback counters.
	MoodFeedbackCount   int
	TextFeedbackCount   int
	SurveyFeedbackCount int

	// MissingTasks is the number of open onboarding steps.
	MissingTasks int

	// FinishedFirstProject reports starter-project completion.
	FinishedFirstProject bool

	// HasNewBadges reports whether unacknowledged unlocks are pending.
	HasNewBadges bool

	// ComputedAt is the query instant the summary was anchored to.
	ComputedAt time.Time
}

// GetProgressSummaryHandler handles the GetProgressSummaryQuery.
type GetProgressSummaryHandler struct {
	learnerRepo learner.Repository
}

// NewGetProgressSummaryHandler creates a new GetProgressSummaryHandler.
func NewGetProgressSummaryHandler(learnerRepo learner.Repository) *GetProgressSummaryHandler {
	return &GetProgressSummaryHandler{learnerRepo: learnerRepo}
}

// Handle executes the progress summary query.
func (h *GetProgressSummaryHandler) Handle(ctx context.Context, q GetProgressSummaryQuery) (*GetProgressSummaryResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("get_progress_summary: validation failed: %w", err)
	}

	learnerID, err := shared.NewLearnerID(q.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("get_progress_summary: %w", err)
	}

	l, err := h.learnerRepo.GetByID(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("get_progress_summary: failed to load learner: %w", err)
	}

	at := q.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	snapshot := stats.Compute(l, at)

	return &GetProgressSummaryResult{
		LearnerID:            q.LearnerID,
		TotalSubmissions:     snapshot.TotalSubmissions,
		LongestStreak:        snapshot.LongestStreak,
		CurrentStreak:        snapshot.CurrentStreak,
		WindowCounts:         snapshot.WindowCounts,
		MoodFeedbackCount:    snapshot.MoodFeedbackCount,
		TextFeedbackCount:    snapshot.TextFeedbackCount,
		SurveyFeedbackCount:  snapshot.SurveyFeedbackCount,
		MissingTasks:         l.Progress.NumberOfMissingTasks,
		FinishedFirstProject: l.Progress.FinishedFirstProject,
		HasNewBadges:         l.Progress.HasNewBadges,
		ComputedAt:           at,
	}, nil
}
