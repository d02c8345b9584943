// Package postgres implements the PostgreSQL persistence layer for Badge Hub.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE LEARNERS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create learners table
-- Version: 001

-- The learner aggregate is stored as a document: the submission log and the
-- level progress are JSONB, loaded and saved whole. The version column backs
-- the optimistic concurrency check that serializes badge evaluations.
CREATE TABLE IF NOT EXISTS learners (
    id UUID PRIMARY KEY,
    locale_code VARCHAR(20) NOT NULL DEFAULT 'en-US',
    time_zone VARCHAR(50) NOT NULL DEFAULT 'UTC',
    submissions JSONB NOT NULL DEFAULT '{}'::jsonb,
    progress JSONB NOT NULL DEFAULT '{}'::jsonb,
    finished_units JSONB NOT NULL DEFAULT '{}'::jsonb,
    version INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_version CHECK (version >= 0)
);

CREATE INDEX IF NOT EXISTS idx_learners_updated_at ON learners(updated_at DESC);

-- Partial index for the notification sweep: learners with pending unlocks.
CREATE INDEX IF NOT EXISTS idx_learners_has_new_badges
    ON learners((progress->>'has_new_badges'))
    WHERE progress->>'has_new_badges' = 'true';
`

const migration001Down = `
DROP INDEX IF EXISTS idx_learners_has_new_badges;
DROP INDEX IF EXISTS idx_learners_updated_at;
DROP TABLE IF EXISTS learners;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE BADGE UNLOCK AUDIT
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create badge unlock audit log
-- Version: 002

-- Append-only record of every unlock, written from the BadgeUnlocked event
-- stream. The learner document stays the source of truth; this table exists
-- for product analytics and support lookups.
CREATE TABLE IF NOT EXISTS badge_unlocks (
    id BIGSERIAL PRIMARY KEY,
    learner_id UUID NOT NULL REFERENCES learners(id) ON DELETE CASCADE,
    badge_id INTEGER NOT NULL,
    condition_key VARCHAR(64) NOT NULL,
    category VARCHAR(20) NOT NULL,
    trigger VARCHAR(30) NOT NULL,
    unlocked_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_badge_id CHECK (badge_id > 0),
    CONSTRAINT one_unlock_per_badge UNIQUE (learner_id, badge_id)
);

CREATE INDEX IF NOT EXISTS idx_badge_unlocks_learner ON badge_unlocks(learner_id, unlocked_at DESC);
CREATE INDEX IF NOT EXISTS idx_badge_unlocks_badge ON badge_unlocks(badge_id, unlocked_at DESC);
`

const migration002Down = `
DROP INDEX IF EXISTS idx_badge_unlocks_badge;
DROP INDEX IF EXISTS idx_badge_unlocks_learner;
DROP TABLE IF EXISTS badge_unlocks;
`
