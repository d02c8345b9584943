// Package command contains write operations (CQRS - Commands).
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
	"github.com/berrylearn/badge-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD SUBMISSION COMMAND
// Records an assignment submission and re-evaluates the badge catalog.
// This is the main write path: every submission can unlock streak,
// progress, and time-window badges in one pass.
// ══════════════════════════════════════════════════════════════════════════════

// RecordSubmissionCommand contains the data of one assignment submission.
type RecordSubmissionCommand struct {
	// LearnerID is the learner submitting the assignment.
	LearnerID string

	// LessonID identifies the lesson the assignment belongs to.
	LessonID string

	// AssignmentID identifies the assignment within the lesson.
	AssignmentID string

	// Value is the submitted answer or artifact link.
	Value string

	// TimeSpentSeconds is the self-reported working time, if tracked.
	TimeSpentSeconds int

	// IsSkipped marks a submission made through the skip flow.
	IsSkipped bool

	// SubmittedAt is the submission instant (defaults to now if zero).
	SubmittedAt time.Time

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c RecordSubmissionCommand) Validate() error {
	if c.LearnerID == "" {
		return errors.New("record_submission: learner_id is required")
	}
	if c.LessonID == "" {
		return errors.New("record_submission: lesson_id is required")
	}
	if c.AssignmentID == "" {
		return errors.New("record_submission: assignment_id is required")
	}
	return nil
}

// RecordSubmissionResult contains the result of recording a submission.
type RecordSubmissionResult struct {
	// Success indicates if the submission was recorded.
	Success bool

	// LearnerID is the learner the submission belongs to.
	LearnerID string

	// TotalSubmissions is the distinct-assignment total after this submission.
	TotalSubmissions int

	// NewlyUnlocked are the badges this submission unlocked.
	NewlyUnlocked []badge.Unlock

	// HasNewBadges reports whether the notification queue is non-empty.
	HasNewBadges bool

	// MissingTasks is the number of open onboarding steps.
	MissingTasks int

	// CurrentStreak is the learner's live streak after this submission.
	CurrentStreak int

	// RecordedAt is when the submission was recorded.
	RecordedAt time.Time
}

// ShowcaseNotifier forwards selected submissions to the student-projects
// showcase channel.
type ShowcaseNotifier interface {
	ShareSubmission(ctx context.Context, learnerID shared.LearnerID, lessonID shared.LessonID, assignmentID shared.AssignmentID, value string) error
}

// ShowcaseTrigger is one (lesson, assignment) pair whose submissions are
// shared to the showcase channel.
type ShowcaseTrigger struct {
	LessonID     string
	AssignmentID string
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RecordSubmissionHandler handles the RecordSubmissionCommand.
type RecordSubmissionHandler struct {
	flow     *saga.BadgeFlowSaga
	showcase ShowcaseNotifier
	log      *logger.Logger

	// Configuration
	showcaseTriggers []ShowcaseTrigger
}

// RecordSubmissionHandlerConfig contains configuration for the handler.
type RecordSubmissionHandlerConfig struct {
	// ShowcaseTriggers lists the (lesson, assignment) pairs shared to the
	// showcase channel. Empty disables showcase sharing.
	ShowcaseTriggers []ShowcaseTrigger
}

// NewRecordSubmissionHandler creates a new RecordSubmissionHandler.
func NewRecordSubmissionHandler(
	flow *saga.BadgeFlowSaga,
	showcase ShowcaseNotifier,
	log *logger.Logger,
	config RecordSubmissionHandlerConfig,
) *RecordSubmissionHandler {
	if log == nil {
		log = logger.Default()
	}
	return &RecordSubmissionHandler{
		flow:             flow,
		showcase:         showcase,
		log:              log.With(logger.Component("record_submission")),
		showcaseTriggers: config.ShowcaseTriggers,
	}
}

// Handle executes the record submission command.
func (h *RecordSubmissionHandler) Handle(ctx context.Context, cmd RecordSubmissionCommand) (*RecordSubmissionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("record_submission: validation failed: %w", err)
	}

	learnerID, err := shared.NewLearnerID(cmd.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("record_submission: %w", err)
	}
	lessonID, err := shared.NewLessonID(cmd.LessonID)
	if err != nil {
		return nil, fmt.Errorf("record_submission: %w", err)
	}
	assignmentID, err := shared.NewAssignmentID(cmd.AssignmentID)
	if err != nil {
		return nil, fmt.Errorf("record_submission: %w", err)
	}

	submittedAt := cmd.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now().UTC()
	}

	record := learner.SubmissionRecord{
		CreatedAt:        submittedAt,
		Value:            cmd.Value,
		TimeSpentSeconds: cmd.TimeSpentSeconds,
		IsSkipped:        cmd.IsSkipped,
	}

	flowResult, err := h.flow.Execute(ctx, saga.BadgeFlowInput{
		LearnerID:     learnerID,
		Trigger:       saga.TriggerSubmission,
		Now:           submittedAt,
		CorrelationID: cmd.CorrelationID,
		Mutate: func(l *learner.Learner) ([]shared.Event, error) {
			if err := l.RecordSubmission(lessonID, assignmentID, record); err != nil {
				return nil, err
			}
			event := shared.NewSubmissionRecordedEvent(
				l.ID.String(),
				lessonID.String(),
				assignmentID.String(),
				cmd.IsSkipped,
				l.TotalSubmissionCount(),
			)
			event.CorrelationID = cmd.CorrelationID
			return []shared.Event{event}, nil
		},
	})
	if err != nil {
		return nil, err
	}

	if h.isShowcased(cmd.LessonID, cmd.AssignmentID) {
		if err := h.shareToShowcase(ctx, learnerID, lessonID, assignmentID, cmd.Value); err != nil {
			// Showcase delivery must never fail the submission itself.
			h.log.Warn("showcase delivery failed",
				logger.LearnerID(cmd.LearnerID),
				logger.LessonID(cmd.LessonID),
				logger.Err(err))
		}
	}

	return &RecordSubmissionResult{
		Success:          true,
		LearnerID:        cmd.LearnerID,
		TotalSubmissions: flowResult.Snapshot.TotalSubmissions,
		NewlyUnlocked:    flowResult.Unlocks,
		HasNewBadges:     flowResult.HasNewBadges,
		MissingTasks:     flowResult.MissingTasks,
		CurrentStreak:    flowResult.Snapshot.CurrentStreak,
		RecordedAt:       submittedAt,
	}, nil
}

func (h *RecordSubmissionHandler) isShowcased(lessonID, assignmentID string) bool {
	for _, t := range h.showcaseTriggers {
		if t.LessonID == lessonID && t.AssignmentID == assignmentID {
			return true
		}
	}
	return false
}

func (h *RecordSubmissionHandler) shareToShowcase(ctx context.Context, learnerID shared.LearnerID, lessonID shared.LessonID, assignmentID shared.AssignmentID, value string) error {
	if h.showcase == nil {
		return nil
	}
	return h.showcase.ShareSubmission(ctx, learnerID, lessonID, assignmentID, value)
}
