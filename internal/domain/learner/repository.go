package learner

import (
	"context"
	"time"

	"github.com/berrylearn/badge-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// These interfaces define the state-store collaborator contract. The core
// never persists anything itself; implementations live in
// infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines storage operations for the learner aggregate.
type Repository interface {
	// Create stores a new learner.
	// Returns ErrLearnerAlreadyExists if the learner already exists.
	Create(ctx context.Context, l *Learner) error

	// GetByID returns a learner by internal ID.
	// Returns ErrLearnerNotFound if the learner is not found.
	GetByID(ctx context.Context, id shared.LearnerID) (*Learner, error)

	// Save persists the learner under an optimistic version check: the
	// write succeeds only when the stored version equals l.Version, and
	// increments the version on success. Returns ErrStaleLearnerState when
	// another evaluation won the race; callers reload and re-run.
	Save(ctx context.Context, l *Learner) error

	// Exists checks learner existence by ID.
	Exists(ctx context.Context, id shared.LearnerID) (bool, error)
}

// Cache defines a read-through cache over learner aggregates. Implementations
// are best-effort: a cache miss or failure must degrade to the repository.
type Cache interface {
	// Get fetches a cached learner, or shared.ErrNotFound on miss.
	Get(ctx context.Context, id shared.LearnerID) (*Learner, error)

	// Set stores a learner snapshot with a TTL.
	Set(ctx context.Context, l *Learner, ttl time.Duration) error

	// Invalidate drops the cached snapshot after a write.
	Invalidate(ctx context.Context, id shared.LearnerID) error
}
