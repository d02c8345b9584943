package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/berrylearn/badge-hub/internal/application/saga"
	"github.com/berrylearn/badge-hub/internal/domain/badge"
	"github.com/berrylearn/badge-hub/internal/domain/learner"
	"github.com/berrylearn/badge-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD FEEDBACK COMMAND
// Records learner feedback (mood emoji, free text, or in-line survey) and
// re-evaluates the catalog, since feedback counters feed their own badges.
// ══════════════════════════════════════════════════════════════════════════════

// FeedbackKind defines the kind of feedback being recorded.
type FeedbackKind string

const (
	// FeedbackKindMood - an emoji click on a lesson.
	FeedbackKindMood FeedbackKind = "mood"

	// FeedbackKindText - a free-text feedback message.
	FeedbackKindText FeedbackKind = "text"

	// FeedbackKindSurvey - an answered in-line survey.
	FeedbackKindSurvey FeedbackKind = "survey"
)

// RecordFeedbackCommand contains the data to record feedback.
type RecordFeedbackCommand struct {
	// LearnerID is the learner giving feedback.
	LearnerID string

	// Kind is the kind of feedback.
	Kind FeedbackKind

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c RecordFeedbackCommand) Validate() error {
	if c.LearnerID == "" {
		return errors.New("record_feedback: learner_id is required")
	}
	switch c.Kind {
	case FeedbackKindMood, FeedbackKindText, FeedbackKindSurvey:
		return nil
	default:
		return fmt.Errorf("record_feedback: unknown feedback kind: %s", c.Kind)
	}
}

// RecordFeedbackResult contains the result of recording feedback.
type RecordFeedbackResult struct {
	// Success indicates if the feedback was recorded.
	Success bool

	// LearnerID is the learner the feedback belongs to.
	LearnerID string

	// Kind is the kind of feedback recorded.
	Kind FeedbackKind

	// NewCount is the updated counter for this feedback kind.
	NewCount int

	// NewlyUnlocked are the badges this feedback unlocked.
	NewlyUnlocked []badge.Unlock

	// RecordedAt is when the feedback was recorded.
	RecordedAt time.Time
}

// RecordFeedbackHandler handles the RecordFeedbackCommand.
type RecordFeedbackHandler struct {
	flow *saga.BadgeFlowSaga
}

// NewRecordFeedbackHandler creates a new RecordFeedbackHandler.
func NewRecordFeedbackHandler(flow *saga.BadgeFlowSaga) *RecordFeedbackHandler {
	return &RecordFeedbackHandler{flow: flow}
}

// Handle executes the record feedback command.
func (h *RecordFeedbackHandler) Handle(ctx context.Context, cmd RecordFeedbackCommand) (*RecordFeedbackResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("record_feedback: validation failed: %w", err)
	}

	learnerID, err := shared.NewLearnerID(cmd.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("record_feedback: %w", err)
	}

	var newCount int
	flowResult, err := h.flow.Execute(ctx, saga.BadgeFlowInput{
		LearnerID:     learnerID,
		Trigger:       saga.TriggerFeedback,
		CorrelationID: cmd.CorrelationID,
		Mutate: func(l *learner.Learner) ([]shared.Event, error) {
			var eventType shared.EventType
			switch cmd.Kind {
			case FeedbackKindMood:
				newCount = l.IncrementMoodFeedback()
				eventType = shared.EventMoodFeedbackGiven
			case FeedbackKindText:
				newCount = l.IncrementTextFeedback()
				eventType = shared.EventTextFeedbackGiven
			case FeedbackKindSurvey:
				newCount = l.RecordSurveyFeedback()
				eventType = shared.EventSurveyFeedbackGiven
			}

			event := shared.NewFeedbackGivenEvent(eventType, l.ID.String(), string(cmd.Kind), newCount)
			event.CorrelationID = cmd.CorrelationID
			return []shared.Event{event}, nil
		},
	})
	if err != nil {
		return nil, err
	}

	return &RecordFeedbackResult{
		Success:       true,
		LearnerID:     cmd.LearnerID,
		Kind:          cmd.Kind,
		NewCount:      newCount,
		NewlyUnlocked: flowResult.Unlocks,
		RecordedAt:    flowResult.ProcessedAt,
	}, nil
}
