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
// APPLY EXTERNAL FACT COMMAND
// Records a fact owned by a collaborating system (community registration,
// referral, bug report, blog post, review) and re-evaluates the catalog.
// Facts only ever flip to true; applying a fact twice is a harmless no-op.
// ══════════════════════════════════════════════════════════════════════════════

// ApplyExternalFactCommand contains the fact to apply.
type ApplyExternalFactCommand struct {
	// LearnerID is the learner the fact is about.
	LearnerID string

	// Fact is the external fact that became true.
	Fact learner.ExternalFact

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c ApplyExternalFactCommand) Validate() error {
	if c.LearnerID == "" {
		return errors.New("apply_external_fact: learner_id is required")
	}
	if !c.Fact.IsValid() {
		return fmt.Errorf("apply_external_fact: unknown fact: %s", c.Fact)
	}
	return nil
}

// ApplyExternalFactResult contains the result of applying a fact.
type ApplyExternalFactResult struct {
	// Success indicates if the fact was applied.
	Success bool

	// LearnerID is the learner the fact was applied to.
	LearnerID string

	// Fact is the fact that was applied.
	Fact learner.ExternalFact

	// NewlyUnlocked are the badges this fact unlocked.
	NewlyUnlocked []badge.Unlock

	// MissingTasks is the number of open onboarding steps after the run.
	MissingTasks int

	// AppliedAt is when the fact was applied.
	AppliedAt time.Time
}

// ApplyExternalFactHandler handles the ApplyExternalFactCommand.
type ApplyExternalFactHandler struct {
	flow *saga.BadgeFlowSaga
}

// NewApplyExternalFactHandler creates a new ApplyExternalFactHandler.
func NewApplyExternalFactHandler(flow *saga.BadgeFlowSaga) *ApplyExternalFactHandler {
	return &ApplyExternalFactHandler{flow: flow}
}

// Handle executes the apply external fact command.
func (h *ApplyExternalFactHandler) Handle(ctx context.Context, cmd ApplyExternalFactCommand) (*ApplyExternalFactResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("apply_external_fact: validation failed: %w", err)
	}

	learnerID, err := shared.NewLearnerID(cmd.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("apply_external_fact: %w", err)
	}

	flowResult, err := h.flow.Execute(ctx, saga.BadgeFlowInput{
		LearnerID:     learnerID,
		Trigger:       saga.TriggerExternalFact,
		CorrelationID: cmd.CorrelationID,
		Mutate: func(l *learner.Learner) ([]shared.Event, error) {
			if err := l.ApplyExternalFact(cmd.Fact); err != nil {
				return nil, err
			}
			event := shared.NewExternalFactAppliedEvent(l.ID.String(), string(cmd.Fact))
			event.CorrelationID = cmd.CorrelationID
			return []shared.Event{event}, nil
		},
	})
	if err != nil {
		return nil, err
	}

	return &ApplyExternalFactResult{
		Success:       true,
		LearnerID:     cmd.LearnerID,
		Fact:          cmd.Fact,
		NewlyUnlocked: flowResult.Unlocks,
		MissingTasks:  flowResult.MissingTasks,
		AppliedAt:     flowResult.ProcessedAt,
	}, nil
}
