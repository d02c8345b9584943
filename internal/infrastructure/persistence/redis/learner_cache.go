package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/berrylearn/badge-hub/internal/domain/learner"
	"github.com/berrylearn/badge-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEARNER CACHE IMPLEMENTATION
// Read-through cache over learner aggregates. Best-effort by contract: any
// failure here must degrade to the repository, never surface to callers as
// a hard error of the evaluation path.
// ══════════════════════════════════════════════════════════════════════════════

// LearnerCache implements learner.Cache on top of the generic Redis cache.
type LearnerCache struct {
	cache *Cache
}

// NewLearnerCache creates a new LearnerCache.
func NewLearnerCache(cache *Cache) *LearnerCache {
	return &LearnerCache{cache: cache}
}

// learnerDocument is the cached wire form of the aggregate.
type learnerDocument struct {
	ID            string                `json:"id"`
	Locale        shared.Locale         `json:"locale"`
	Submissions   learner.SubmissionLog `json:"submissions"`
	Progress      learner.LevelProgress `json:"progress"`
	FinishedUnits map[string]bool       `json:"finished_units"`
	Version       int                   `json:"version"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// Get fetches a cached learner, or shared.ErrNotFound on miss.
func (c *LearnerCache) Get(ctx context.Context, id shared.LearnerID) (*learner.Learner, error) {
	var doc learnerDocument
	if err := c.cache.Get(ctx, LearnerKey(string(id)), &doc); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get learner from cache: %w", err)
	}

	l := &learner.Learner{
		ID:            shared.LearnerID(doc.ID),
		Locale:        doc.Locale,
		Submissions:   doc.Submissions,
		Progress:      doc.Progress,
		FinishedUnits: doc.FinishedUnits,
		Version:       doc.Version,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}

	// JSON round-trips drop empty maps; restore them so domain code can
	// index without nil checks.
	if l.Submissions == nil {
		l.Submissions = learner.NewSubmissionLog()
	}
	if l.Progress.Unlocked == nil {
		l.Progress.Unlocked = make(map[shared.ConditionKey]bool)
	}
	if l.Progress.Facts == nil {
		l.Progress.Facts = make(map[learner.ExternalFact]bool)
	}
	if l.FinishedUnits == nil {
		l.FinishedUnits = make(map[string]bool)
	}

	return l, nil
}

// Set stores a learner snapshot with a TTL.
func (c *LearnerCache) Set(ctx context.Context, l *learner.Learner, ttl time.Duration) error {
	doc := learnerDocument{
		ID:            string(l.ID),
		Locale:        l.Locale,
		Submissions:   l.Submissions,
		Progress:      l.Progress,
		FinishedUnits: l.FinishedUnits,
		Version:       l.Version,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}

	if err := c.cache.Set(ctx, LearnerKey(string(l.ID)), doc, ttl); err != nil {
		return fmt.Errorf("failed to cache learner: %w", err)
	}
	return nil
}

// Invalidate drops the cached snapshot after a write, along with any
// derived read-model keys for the learner.
func (c *LearnerCache) Invalidate(ctx context.Context, id shared.LearnerID) error {
	keys := []string{
		LearnerKey(string(id)),
		ProgressKey(string(id)),
	}
	if err := c.cache.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("failed to invalidate learner cache: %w", err)
	}
	// Badge lists are keyed per locale; clear them by pattern.
	if err := c.cache.DeleteByPattern(ctx, PrefixBadges+string(id)+":*"); err != nil {
		return fmt.Errorf("failed to invalidate badge list cache: %w", err)
	}
	return nil
}
