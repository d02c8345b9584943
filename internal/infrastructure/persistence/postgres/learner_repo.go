package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/berrylearn/badge-hub/internal/domain/learner"
	"github.com/berrylearn/badge-hub/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEARNER REPOSITORY IMPLEMENTATION
// The learner aggregate is stored as a document row: the submission log,
// level progress, and finished units live in JSONB columns and are loaded
// and saved whole. Saves go through an optimistic version check so that
// concurrent evaluations never silently overwrite each other.
// ══════════════════════════════════════════════════════════════════════════════

// LearnerRepository implements learner.Repository for PostgreSQL.
type LearnerRepository struct {
	conn *Connection
}

// NewLearnerRepository creates a new LearnerRepository.
func NewLearnerRepository(conn *Connection) *LearnerRepository {
	return &LearnerRepository{conn: conn}
}

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create stores a new learner at version 0.
func (r *LearnerRepository) Create(ctx context.Context, l *learner.Learner) error {
	query := `
		INSERT INTO learners (
			id, locale_code, time_zone, submissions, progress, finished_units,
			version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	submissionsJSON, progressJSON, unitsJSON, err := marshalLearnerDocuments(l)
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(ctx, query,
		string(l.ID),
		l.Locale.Code,
		l.Locale.TimeZone,
		submissionsJSON,
		progressJSON,
		unitsJSON,
		l.Version,
		l.CreatedAt,
		l.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrLearnerAlreadyExists
		}
		return fmt.Errorf("failed to create learner: %w", err)
	}

	return nil
}

// GetByID returns a learner by internal ID.
func (r *LearnerRepository) GetByID(ctx context.Context, id shared.LearnerID) (*learner.Learner, error) {
	query := `
		SELECT id, locale_code, time_zone, submissions, progress, finished_units,
			   version, created_at, updated_at
		FROM learners
		WHERE id = $1
	`

	row := r.conn.QueryRow(ctx, query, string(id))
	return r.scanLearner(row)
}

// Save persists the learner under an optimistic version check. The UPDATE
// only matches when the stored version still equals l.Version; zero rows
// affected means another evaluation won the race and the caller must reload.
// On success the in-memory version is bumped to match the row.
func (r *LearnerRepository) Save(ctx context.Context, l *learner.Learner) error {
	query := `
		UPDATE learners
		SET locale_code = $3,
			time_zone = $4,
			submissions = $5,
			progress = $6,
			finished_units = $7,
			version = version + 1,
			updated_at = $8
		WHERE id = $1 AND version = $2
	`

	submissionsJSON, progressJSON, unitsJSON, err := marshalLearnerDocuments(l)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	tag, err := r.conn.Exec(ctx, query,
		string(l.ID),
		l.Version,
		l.Locale.Code,
		l.Locale.TimeZone,
		submissionsJSON,
		progressJSON,
		unitsJSON,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to save learner: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Either the learner vanished or the version moved under us.
		// Distinguish the two so callers retry only on true conflicts.
		exists, existsErr := r.Exists(ctx, l.ID)
		if existsErr == nil && !exists {
			return shared.ErrLearnerNotFound
		}
		return shared.ErrStaleLearnerState
	}

	l.Version++
	l.UpdatedAt = now
	return nil
}

// Exists checks learner existence by ID.
func (r *LearnerRepository) Exists(ctx context.Context, id shared.LearnerID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM learners WHERE id = $1)`

	var exists bool
	if err := r.conn.QueryRow(ctx, query, string(id)).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check learner existence: %w", err)
	}

	return exists, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Row Mapping
// ─────────────────────────────────────────────────────────────────────────────

func (r *LearnerRepository) scanLearner(row pgx.Row) (*learner.Learner, error) {
	var (
		id              string
		localeCode      string
		timeZone        string
		submissionsJSON []byte
		progressJSON    []byte
		unitsJSON       []byte
		version         int
		createdAt       time.Time
		updatedAt       time.Time
	)

	err := row.Scan(&id, &localeCode, &timeZone, &submissionsJSON, &progressJSON,
		&unitsJSON, &version, &createdAt, &updatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrLearnerNotFound
		}
		return nil, fmt.Errorf("failed to scan learner: %w", err)
	}

	l := &learner.Learner{
		ID:            shared.LearnerID(id),
		Locale:        shared.Locale{Code: localeCode, TimeZone: timeZone},
		Submissions:   learner.NewSubmissionLog(),
		Progress:      learner.NewLevelProgress(),
		FinishedUnits: make(map[string]bool),
		Version:       version,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}

	if err := json.Unmarshal(submissionsJSON, &l.Submissions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal submission log: %w", err)
	}
	if err := json.Unmarshal(progressJSON, &l.Progress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal level progress: %w", err)
	}
	if err := json.Unmarshal(unitsJSON, &l.FinishedUnits); err != nil {
		return nil, fmt.Errorf("failed to unmarshal finished units: %w", err)
	}

	// Rows written before the first unlock carry JSON nulls; normalize so
	// domain code can index without nil checks.
	if l.Progress.Unlocked == nil {
		l.Progress.Unlocked = make(map[shared.ConditionKey]bool)
	}
	if l.Progress.Facts == nil {
		l.Progress.Facts = make(map[learner.ExternalFact]bool)
	}

	return l, nil
}

func marshalLearnerDocuments(l *learner.Learner) (submissions, progress, units []byte, err error) {
	submissions, err = json.Marshal(l.Submissions)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal submission log: %w", err)
	}
	progress, err = json.Marshal(l.Progress)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal level progress: %w", err)
	}
	units, err = json.Marshal(l.FinishedUnits)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal finished units: %w", err)
	}
	return submissions, progress, units, nil
}
