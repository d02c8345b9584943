package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/berrylearn/badge-hub/internal/domain/learner"
	"github.com/berrylearn/badge-hub/internal/domain/shared"
	"github.com/berrylearn/badge-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACKNOWLEDGE BADGES COMMAND
// Drains the transient newly-unlocked queue after the learner has seen the
// notification. The durable unlock set is never touched; acknowledgement is
// purely a notification concern and does not trigger re-evaluation.
// ══════════════════════════════════════════════════════════════════════════════

// AcknowledgeBadgesCommand identifies the learner whose queue to drain.
type AcknowledgeBadgesCommand struct {
	// LearnerID is the learner acknowledging their new badges.
	LearnerID string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c AcknowledgeBadgesCommand) Validate() error {
	if c.LearnerID == "" {
		return errors.New("acknowledge_badges: learner_id is required")
	}
	return nil
}

// AcknowledgeBadgesResult contains the result of the acknowledgement.
type AcknowledgeBadgesResult struct {
	// Success indicates if the queue was drained.
	Success bool

	// LearnerID is the learner whose queue was drained.
	LearnerID string

	// AcknowledgedIDs are the badge ids that were in the queue.
	AcknowledgedIDs []shared.BadgeID

	// AcknowledgedAt is when the queue was drained.
	AcknowledgedAt time.Time
}

// AcknowledgeBadgesHandler handles the AcknowledgeBadgesCommand.
type AcknowledgeBadgesHandler struct {
	learnerRepo learner.Repository
	eventBus    shared.EventPublisher
	log         *logger.Logger

	maxSaveAttempts int
}

// NewAcknowledgeBadgesHandler creates a new AcknowledgeBadgesHandler.
func NewAcknowledgeBadgesHandler(
	learnerRepo learner.Repository,
	eventBus shared.EventPublisher,
	log *logger.Logger,
) *AcknowledgeBadgesHandler {
	if log == nil {
		log = logger.Default()
	}
	return &AcknowledgeBadgesHandler{
		learnerRepo:     learnerRepo,
		eventBus:        eventBus,
		log:             log.With(logger.Component("acknowledge_badges")),
		maxSaveAttempts: 3,
	}
}

// Handle executes the acknowledge badges command.
func (h *AcknowledgeBadgesHandler) Handle(ctx context.Context, cmd AcknowledgeBadgesCommand) (*AcknowledgeBadgesResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("acknowledge_badges: validation failed: %w", err)
	}

	learnerID, err := shared.NewLearnerID(cmd.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("acknowledge_badges: %w", err)
	}

	var drained []shared.BadgeID
	var lastErr error
	for attempt := 1; attempt <= h.maxSaveAttempts; attempt++ {
		l, err := h.learnerRepo.GetByID(ctx, learnerID)
		if err != nil {
			return nil, fmt.Errorf("acknowledge_badges: failed to load learner: %w", err)
		}

		drained = l.CleanNewBadges()
		if err := h.learnerRepo.Save(ctx, l); err != nil {
			if errors.Is(err, shared.ErrOptimisticLock) {
				lastErr = err
				h.log.Warn("learner state changed concurrently, retrying acknowledgement",
					logger.LearnerID(cmd.LearnerID),
					logger.Int("attempt", attempt))
				continue
			}
			return nil, fmt.Errorf("acknowledge_badges: failed to save learner: %w", err)
		}
		lastErr = nil
		break
	}
	if lastErr != nil {
		return nil, fmt.Errorf("acknowledge_badges: not persisted after %d attempts: %w",
			h.maxSaveAttempts, lastErr)
	}

	now := time.Now().UTC()
	if h.eventBus != nil && len(drained) > 0 {
		ids := make([]int, len(drained))
		for i, id := range drained {
			ids[i] = id.Int()
		}
		event := shared.NewBadgesAcknowledgedEvent(cmd.LearnerID, ids)
		event.CorrelationID = cmd.CorrelationID
		if err := h.eventBus.Publish(event); err != nil {
			// Non-critical, the queue is already drained.
			h.log.Warn("acknowledgement event publish failed", logger.Err(err))
		}
	}

	return &AcknowledgeBadgesResult{
		Success:         true,
		LearnerID:       cmd.LearnerID,
		AcknowledgedIDs: drained,
		AcknowledgedAt:  now,
	}, nil
}
