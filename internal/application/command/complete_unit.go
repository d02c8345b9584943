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
// COMPLETE UNIT COMMAND
// Marks a curriculum unit (a "book") as finished and re-evaluates the
// catalog. Twenty of the badges are unit-completion badges, so this is the
// second-busiest write path after submissions.
// ══════════════════════════════════════════════════════════════════════════════

// CompleteUnitCommand contains the unit completion data.
type CompleteUnitCommand struct {
	// LearnerID is the learner who finished the unit.
	LearnerID string

	// UnitSlug identifies the curriculum unit.
	UnitSlug string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c CompleteUnitCommand) Validate() error {
	if c.LearnerID == "" {
		return errors.New("complete_unit: learner_id is required")
	}
	if c.UnitSlug == "" {
		return errors.New("complete_unit: unit_slug is required")
	}
	return nil
}

// CompleteUnitResult contains the result of completing a unit.
type CompleteUnitResult struct {
	// Success indicates if the completion was recorded.
	Success bool

	// LearnerID is the learner the completion belongs to.
	LearnerID string

	// UnitSlug is the completed unit.
	UnitSlug string

	// NewlyUnlocked are the badges this completion unlocked.
	NewlyUnlocked []badge.Unlock

	// CompletedAt is when the completion was recorded.
	CompletedAt time.Time
}

// CompleteUnitHandler handles the CompleteUnitCommand.
type CompleteUnitHandler struct {
	flow *saga.BadgeFlowSaga
}

// NewCompleteUnitHandler creates a new CompleteUnitHandler.
func NewCompleteUnitHandler(flow *saga.BadgeFlowSaga) *CompleteUnitHandler {
	return &CompleteUnitHandler{flow: flow}
}

// Handle executes the complete unit command.
func (h *CompleteUnitHandler) Handle(ctx context.Context, cmd CompleteUnitCommand) (*CompleteUnitResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("complete_unit: validation failed: %w", err)
	}

	learnerID, err := shared.NewLearnerID(cmd.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("complete_unit: %w", err)
	}

	flowResult, err := h.flow.Execute(ctx, saga.BadgeFlowInput{
		LearnerID:     learnerID,
		Trigger:       saga.TriggerUnitCompleted,
		CorrelationID: cmd.CorrelationID,
		Mutate: func(l *learner.Learner) ([]shared.Event, error) {
			if err := l.CompleteUnit(cmd.UnitSlug); err != nil {
				return nil, err
			}
			event := shared.NewUnitCompletedEvent(l.ID.String(), cmd.UnitSlug)
			event.CorrelationID = cmd.CorrelationID
			return []shared.Event{event}, nil
		},
	})
	if err != nil {
		return nil, err
	}

	return &CompleteUnitResult{
		Success:       true,
		LearnerID:     cmd.LearnerID,
		UnitSlug:      cmd.UnitSlug,
		NewlyUnlocked: flowResult.Unlocks,
		CompletedAt:   flowResult.ProcessedAt,
	}, nil
}
