package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/berrylearn/badge-hub/internal/domain/badge"
	"github.com/berrylearn/badge-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// UNLOCK AUDIT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// UnlockAuditRepository implements badge.UnlockAudit for PostgreSQL.
type UnlockAuditRepository struct {
	conn *Connection
}

// NewUnlockAuditRepository creates a new UnlockAuditRepository.
func NewUnlockAuditRepository(conn *Connection) *UnlockAuditRepository {
	return &UnlockAuditRepository{conn: conn}
}

// Record appends an unlock to the trail. Replayed events hit the
// (learner_id, badge_id) unique constraint and are dropped silently.
func (r *UnlockAuditRepository) Record(ctx context.Context, rec badge.UnlockRecord) error {
	query := `
		INSERT INTO badge_unlocks (learner_id, badge_id, condition_key, category, trigger, unlocked_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (learner_id, badge_id) DO NOTHING
	`

	_, err := r.conn.Exec(ctx, query,
		string(rec.LearnerID),
		rec.BadgeID.Int(),
		string(rec.ConditionKey),
		string(rec.Category),
		rec.Trigger,
		rec.UnlockedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record badge unlock: %w", err)
	}

	return nil
}

// History returns all unlocks for a learner, newest first.
func (r *UnlockAuditRepository) History(ctx context.Context, learnerID shared.LearnerID) ([]badge.UnlockRecord, error) {
	query := `
		SELECT learner_id, badge_id, condition_key, category, trigger, unlocked_at
		FROM badge_unlocks
		WHERE learner_id = $1
		ORDER BY unlocked_at DESC, id DESC
	`

	rows, err := r.conn.Query(ctx, query, string(learnerID))
	if err != nil {
		return nil, fmt.Errorf("failed to query unlock history: %w", err)
	}
	defer rows.Close()

	var records []badge.UnlockRecord
	for rows.Next() {
		var (
			id           string
			badgeID      int
			conditionKey string
			category     string
			trigger      string
			unlockedAt   time.Time
		)
		if err := rows.Scan(&id, &badgeID, &conditionKey, &category, &trigger, &unlockedAt); err != nil {
			return nil, fmt.Errorf("failed to scan unlock record: %w", err)
		}
		records = append(records, badge.UnlockRecord{
			LearnerID:    shared.LearnerID(id),
			BadgeID:      shared.BadgeID(badgeID),
			ConditionKey: shared.ConditionKey(conditionKey),
			Category:     badge.Category(category),
			Trigger:      trigger,
			UnlockedAt:   unlockedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate unlock history: %w", err)
	}

	return records, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Digest Reads
// ─────────────────────────────────────────────────────────────────────────────

// CountSince returns the total number of unlocks after the given instant.
func (r *UnlockAuditRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM badge_unlocks WHERE unlocked_at >= $1`

	var count int
	if err := r.conn.QueryRow(ctx, query, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unlocks: %w", err)
	}
	return count, nil
}

// TopSince returns the most-unlocked badges after the given instant.
func (r *UnlockAuditRepository) TopSince(ctx context.Context, since time.Time, limit int) ([]badge.UnlockTally, error) {
	query := `
		SELECT badge_id, COUNT(*) AS unlocks
		FROM badge_unlocks
		WHERE unlocked_at >= $1
		GROUP BY badge_id
		ORDER BY unlocks DESC, badge_id ASC
		LIMIT $2
	`

	rows, err := r.conn.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unlock tallies: %w", err)
	}
	defer rows.Close()

	var tallies []badge.UnlockTally
	for rows.Next() {
		var (
			badgeID int
			count   int
		)
		if err := rows.Scan(&badgeID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan unlock tally: %w", err)
		}
		tallies = append(tallies, badge.UnlockTally{
			BadgeID: shared.BadgeID(badgeID),
			Count:   count,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate unlock tallies: %w", err)
	}

	return tallies, nil
}
