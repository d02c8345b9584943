// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/berrylearn/badge-hub/internal/domain/badge"
	"github.com/berrylearn/badge-hub/internal/domain/learner"
	"github.com/berrylearn/badge-hub/internal/domain/shared"
	"github.com/berrylearn/badge-hub/internal/domain/stats"
)

// ══════════════════════════════════════════════════════════════════════════════
// BADGE QUERIES
// Read-side views over the catalog and a learner's unlock state: the badge
// cabinet (completed) and the badge tasks still open (in progress).
// ══════════════════════════════════════════════════════════════════════════════

// BadgeStatus is one catalog entry annotated with the learner's progress.
type BadgeStatus struct {
	badge.View

	// Unlocked reports whether the learner has earned this badge.
	Unlocked bool

	// Progress is the learner's current state toward the target.
	Progress int
}

// GetBadgesQuery identifies the learner whose badge state to read.
type GetBadgesQuery struct {
	// LearnerID is the learner to read.
	LearnerID string
}

// Validate validates the query.
func (q GetBadgesQuery) Validate() error {
	if q.LearnerID == "" {
		return errors.New("get_badges: learner_id is required")
	}
	return nil
}

// GetBadgesResult contains both badge lists for one learner.
type GetBadgesResult struct {
	// LearnerID is the learner the lists belong to.
	LearnerID string

	// Completed lists unlocked, available badges (hidden ones included,
	// they are earned and visible once unlocked), sorted by id.
	Completed []BadgeStatus

	// InProgress lists locked, available, non-hidden badges sorted by id.
	// Hidden badges stay invisible until earned.
	InProgress []BadgeStatus

	// HasNewBadges reports whether unacknowledged unlocks are pending.
	HasNewBadges bool

	// NewBadgeQueue lists the pending unlock notifications in unlock order.
	NewBadgeQueue []shared.BadgeID
}

// GetBadgesHandler handles the GetBadgesQuery.
type GetBadgesHandler struct {
	learnerRepo learner.Repository
	registry    *badge.Registry
	localizer   badge.Localizer
}

// NewGetBadgesHandler creates a new GetBadgesHandler.
func NewGetBadgesHandler(
	learnerRepo learner.Repository,
	registry *badge.Registry,
	localizer badge.Localizer,
) *GetBadgesHandler {
	return &GetBadgesHandler{
		learnerRepo: learnerRepo,
		registry:    registry,
		localizer:   localizer,
	}
}

// Handle executes the get badges query.
func (h *GetBadgesHandler) Handle(ctx context.Context, q GetBadgesQuery) (*GetBadgesResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("get_badges: validation failed: %w", err)
	}

	learnerID, err := shared.NewLearnerID(q.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("get_badges: %w", err)
	}

	l, err := h.learnerRepo.GetByID(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("get_badges: failed to load learner: %w", err)
	}

	snapshot := stats.Compute(l, time.Now().UTC())
	statuses := h.annotate(l, snapshot)

	completed := lo.Filter(statuses, func(s BadgeStatus, _ int) bool {
		return s.Unlocked
	})
	inProgress := lo.Filter(statuses, func(s BadgeStatus, _ int) bool {
		return !s.Unlocked && !s.Hidden
	})
	sortByID(completed)
	sortByID(inProgress)

	return &GetBadgesResult{
		LearnerID:     q.LearnerID,
		Completed:     completed,
		InProgress:    inProgress,
		HasNewBadges:  l.Progress.HasNewBadges,
		NewBadgeQueue: l.Progress.NewlyUnlockedBadgeIDs,
	}, nil
}

func (h *GetBadgesHandler) annotate(l *learner.Learner, snapshot stats.Snapshot) []BadgeStatus {
	views := h.registry.All(h.localizer, l.Locale)
	statuses := make([]BadgeStatus, 0, len(views))
	for _, v := range views {
		if !v.Available {
			continue
		}
		statuses = append(statuses, BadgeStatus{
			View:     v,
			Unlocked: l.Progress.IsUnlocked(v.ConditionKey),
			Progress: v.Definition.Progress(snapshot),
		})
	}
	return statuses
}

func sortByID(statuses []BadgeStatus) {
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].ID < statuses[j].ID
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// NEWLY UNLOCKED QUERY
// Resolves the pending notification queue into displayable badge views,
// without draining it. Draining is the AcknowledgeBadges command.
// ══════════════════════════════════════════════════════════════════════════════

// GetNewBadgesQuery identifies the learner whose queue to read.
type GetNewBadgesQuery struct {
	LearnerID string
}

// Validate validates the query.
func (q GetNewBadgesQuery) Validate() error {
	if q.LearnerID == "" {
		return errors.New("get_new_badges: learner_id is required")
	}
	return nil
}

// GetNewBadgesResult contains the pending unlock notifications.
type GetNewBadgesResult struct {
	LearnerID    string
	HasNewBadges bool
	NewBadges    []badge.View
}

// GetNewBadgesHandler handles the GetNewBadgesQuery.
type GetNewBadgesHandler struct {
	learnerRepo learner.Repository
	registry    *badge.Registry
	localizer   badge.Localizer
}

// NewGetNewBadgesHandler creates a new GetNewBadgesHandler.
func NewGetNewBadgesHandler(
	learnerRepo learner.Repository,
	registry *badge.Registry,
	localizer badge.Localizer,
) *GetNewBadgesHandler {
	return &GetNewBadgesHandler{
		learnerRepo: learnerRepo,
		registry:    registry,
		localizer:   localizer,
	}
}

// Handle executes the get new badges query.
func (h *GetNewBadgesHandler) Handle(ctx context.Context, q GetNewBadgesQuery) (*GetNewBadgesResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("get_new_badges: validation failed: %w", err)
	}

	learnerID, err := shared.NewLearnerID(q.LearnerID)
	if err != nil {
		return nil, fmt.Errorf("get_new_badges: %w", err)
	}

	l, err := h.learnerRepo.GetByID(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("get_new_badges: failed to load learner: %w", err)
	}

	views, err := h.registry.ByIDs(l.Progress.NewlyUnlockedBadgeIDs, h.localizer, l.Locale)
	if err != nil {
		return nil, fmt.Errorf("get_new_badges: %w", err)
	}

	return &GetNewBadgesResult{
		LearnerID:    q.LearnerID,
		HasNewBadges: l.Progress.HasNewBadges,
		NewBadges:    views,
	}, nil
}
