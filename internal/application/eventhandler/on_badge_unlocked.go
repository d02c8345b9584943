// Package eventhandler contains domain event handlers.
package eventhandler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/berrylearn/badge-hub/internal/domain/badge"
	"github.com/berrylearn/badge-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ON BADGE UNLOCKED HANDLER
// Feeds the badge_unlocks audit trail from the unlock event stream. The
// learner aggregate stays the source of truth; this projection exists for
// product analytics and support lookups and must never block evaluation.
// ══════════════════════════════════════════════════════════════════════════════

// OnBadgeUnlockedHandler projects unlock events into the audit trail.
type OnBadgeUnlockedHandler struct {
	audit  badge.UnlockAudit
	logger *slog.Logger
	config BadgeUnlockedConfig
}

// BadgeUnlockedConfig contains configuration for the handler.
type BadgeUnlockedConfig struct {
	// RecordTimeout bounds each audit write.
	RecordTimeout time.Duration
}

// DefaultBadgeUnlockedConfig returns sensible defaults.
func DefaultBadgeUnlockedConfig() BadgeUnlockedConfig {
	return BadgeUnlockedConfig{
		RecordTimeout: 5 * time.Second,
	}
}

// NewOnBadgeUnlockedHandler creates a new unlock audit handler.
func NewOnBadgeUnlockedHandler(
	audit badge.UnlockAudit,
	logger *slog.Logger,
	config BadgeUnlockedConfig,
) *OnBadgeUnlockedHandler {
	return &OnBadgeUnlockedHandler{
		audit:  audit,
		logger: logger.With("handler", "on_badge_unlocked"),
		config: config,
	}
}

// Handle records one unlock. Implements shared.EventHandler.
func (h *OnBadgeUnlockedHandler) Handle(event shared.Event) error {
	unlockEvent, ok := event.(shared.BadgeUnlockedEvent)
	if !ok {
		h.logger.Warn("received non-BadgeUnlockedEvent",
			"event_type", event.EventType(),
		)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.RecordTimeout)
	defer cancel()

	rec := badge.UnlockRecord{
		LearnerID:    shared.LearnerID(unlockEvent.AggregateID()),
		BadgeID:      shared.BadgeID(unlockEvent.BadgeID),
		ConditionKey: shared.ConditionKey(unlockEvent.ConditionKey),
		Category:     badge.Category(unlockEvent.Category),
		Trigger:      unlockEvent.Trigger,
		UnlockedAt:   unlockEvent.OccurredAt(),
	}

	if err := h.audit.Record(ctx, rec); err != nil {
		h.logger.Error("failed to record badge unlock",
			"learner_id", string(rec.LearnerID),
			"badge_id", rec.BadgeID.Int(),
			"error", err,
		)
		return fmt.Errorf("record badge unlock: %w", err)
	}

	h.logger.Info("badge unlock recorded",
		"learner_id", string(rec.LearnerID),
		"badge_id", rec.BadgeID.Int(),
		"condition_key", string(rec.ConditionKey),
		"trigger", rec.Trigger,
	)

	return nil
}
