package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/berrylearn/badge-hub/internal/domain/learner"
	"github.com/berrylearn/badge-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CACHED LEARNER REPOSITORY
// Read-through decorator over the Postgres repository. Cache failures are
// logged and degrade to the repository; they never fail the call.
// ══════════════════════════════════════════════════════════════════════════════

// CachedLearnerRepository implements learner.Repository with a cache in
// front of a backing repository.
type CachedLearnerRepository struct {
	repo   learner.Repository
	cache  learner.Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedLearnerRepository creates a new CachedLearnerRepository.
func NewCachedLearnerRepository(repo learner.Repository, cache learner.Cache, ttl time.Duration, logger *slog.Logger) *CachedLearnerRepository {
	return &CachedLearnerRepository{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With("component", "cached_learner_repo"),
	}
}

// Create stores a new learner and warms the cache.
func (r *CachedLearnerRepository) Create(ctx context.Context, l *learner.Learner) error {
	if err := r.repo.Create(ctx, l); err != nil {
		return err
	}
	if err := r.cache.Set(ctx, l, r.ttl); err != nil {
		r.logger.Warn("failed to warm learner cache", "learner_id", string(l.ID), "error", err)
	}
	return nil
}

// GetByID returns a learner, from cache when possible.
func (r *CachedLearnerRepository) GetByID(ctx context.Context, id shared.LearnerID) (*learner.Learner, error) {
	if l, err := r.cache.Get(ctx, id); err == nil {
		return l, nil
	} else if !shared.IsNotFound(err) {
		r.logger.Warn("learner cache read failed", "learner_id", string(id), "error", err)
	}

	l, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, l, r.ttl); err != nil {
		r.logger.Warn("failed to cache learner", "learner_id", string(id), "error", err)
	}
	return l, nil
}

// Save persists the learner and invalidates the cached snapshot. The stale
// entry is dropped rather than rewritten so racing readers never observe a
// version the store rejected.
func (r *CachedLearnerRepository) Save(ctx context.Context, l *learner.Learner) error {
	if err := r.repo.Save(ctx, l); err != nil {
		// A stale save means the cached snapshot is behind too.
		if errors.Is(err, shared.ErrOptimisticLock) {
			if invErr := r.cache.Invalidate(ctx, l.ID); invErr != nil {
				r.logger.Warn("failed to invalidate learner cache", "learner_id", string(l.ID), "error", invErr)
			}
		}
		return err
	}

	if err := r.cache.Invalidate(ctx, l.ID); err != nil {
		r.logger.Warn("failed to invalidate learner cache", "learner_id", string(l.ID), "error", err)
	}
	return nil
}

// Exists checks learner existence by ID, preferring the cache.
func (r *CachedLearnerRepository) Exists(ctx context.Context, id shared.LearnerID) (bool, error) {
	if _, err := r.cache.Get(ctx, id); err == nil {
		return true, nil
	}
	return r.repo.Exists(ctx, id)
}
