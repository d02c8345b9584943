package badge

import (
	"context"
	"time"

	"github.com/berrylearn/badge-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// UNLOCK AUDIT
// Append-only record of every unlock for analytics and support lookups.
// The learner aggregate stays the source of truth; the audit trail is a
// projection fed from the badge-unlocked event stream.
// ══════════════════════════════════════════════════════════════════════════════

// UnlockRecord is one audited badge unlock.
type UnlockRecord struct {
	// LearnerID - who earned the badge.
	LearnerID shared.LearnerID

	// BadgeID - which badge was unlocked.
	BadgeID shared.BadgeID

	// ConditionKey - the condition that fired.
	ConditionKey shared.ConditionKey

	// Category - the badge category at unlock time.
	Category Category

	// Trigger - the activity event that triggered the evaluation run.
	Trigger string

	// UnlockedAt - when the unlock happened (UTC).
	UnlockedAt time.Time
}

// UnlockAudit stores the unlock trail. Implementations must tolerate
// replays: recording the same (learner, badge) pair twice is a no-op,
// since the aggregate guarantees a badge unlocks at most once.
type UnlockAudit interface {
	// Record appends an unlock to the trail.
	Record(ctx context.Context, rec UnlockRecord) error

	// History returns all unlocks for a learner, newest first.
	History(ctx context.Context, learnerID shared.LearnerID) ([]UnlockRecord, error)
}

// UnlockTally is the unlock count of one badge over a reporting window.
type UnlockTally struct {
	BadgeID shared.BadgeID
	Count   int
}

// UnlockStats exposes aggregate reads over the unlock trail, used by the
// daily digest job.
type UnlockStats interface {
	// CountSince returns the total number of unlocks after the given instant.
	CountSince(ctx context.Context, since time.Time) (int, error)

	// TopSince returns the most-unlocked badges after the given instant,
	// highest count first, at most limit entries.
	TopSince(ctx context.Context, since time.Time, limit int) ([]UnlockTally, error)
}
