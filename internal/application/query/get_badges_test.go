package query

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrylearn/badge-hub/internal/domain/badge"
	"github.com/berrylearn/badge-hub/internal/domain/learner"
	"github.com/berrylearn/badge-hub/internal/domain/shared"
)

type singleLearnerRepo struct {
	learner *learner.Learner
}

func (r *singleLearnerRepo) Create(context.Context, *learner.Learner) error {
	return shared.ErrLearnerAlreadyExists
}

func (r *singleLearnerRepo) GetByID(_ context.Context, id shared.LearnerID) (*learner.Learner, error) {
	if r.learner == nil || r.learner.ID != id {
		return nil, shared.ErrLearnerNotFound
	}
	return r.learner.Clone(), nil
}

func (r *singleLearnerRepo) Save(context.Context, *learner.Learner) error { return nil }

func (r *singleLearnerRepo) Exists(_ context.Context, id shared.LearnerID) (bool, error) {
	return r.learner != nil && r.learner.ID == id, nil
}

func seedLearner(t *testing.T) *learner.Learner {
	t.Helper()
	id, err := shared.NewLearnerID(uuid.NewString())
	require.NoError(t, err)
	l, err := learner.NewLearner(id, shared.DefaultLocale)
	require.NoError(t, err)
	return l
}

func TestGetBadgesHandler(t *testing.T) {
	registry := badge.MustNewRegistry(badge.Catalog())

	t.Run("fresh learner has everything visible in progress", func(t *testing.T) {
		l := seedLearner(t)
		h := NewGetBadgesHandler(&singleLearnerRepo{learner: l}, registry, nil)

		result, err := h.Handle(context.Background(), GetBadgesQuery{LearnerID: l.ID.String()})
		require.NoError(t, err)

		assert.Empty(t, result.Completed)
		// 42 badges minus the 2 hidden ones.
		assert.Len(t, result.InProgress, 40)
		assert.False(t, result.HasNewBadges)
	})

	t.Run("unlocked badges move to completed sorted by id", func(t *testing.T) {
		l := seedLearner(t)
		l.Unlock("firstAssignment", 33)
		l.Unlock("streak3Days", 1)
		h := NewGetBadgesHandler(&singleLearnerRepo{learner: l}, registry, nil)

		result, err := h.Handle(context.Background(), GetBadgesQuery{LearnerID: l.ID.String()})
		require.NoError(t, err)

		require.Len(t, result.Completed, 2)
		assert.Equal(t, shared.BadgeID(1), result.Completed[0].ID)
		assert.Equal(t, shared.BadgeID(33), result.Completed[1].ID)
		assert.Len(t, result.InProgress, 38)
		assert.True(t, result.HasNewBadges)
		assert.Equal(t, []shared.BadgeID{33, 1}, result.NewBadgeQueue, "queue keeps unlock order")
	})

	t.Run("hidden badges appear once earned", func(t *testing.T) {
		l := seedLearner(t)
		l.Unlock("submissionMadeOnFridayThe13th", 38)
		h := NewGetBadgesHandler(&singleLearnerRepo{learner: l}, registry, nil)

		result, err := h.Handle(context.Background(), GetBadgesQuery{LearnerID: l.ID.String()})
		require.NoError(t, err)

		require.Len(t, result.Completed, 1)
		assert.Equal(t, shared.BadgeID(38), result.Completed[0].ID)
		// The other hidden badge is still invisible.
		for _, s := range result.InProgress {
			assert.False(t, s.Hidden)
		}
	})

	t.Run("progress reflects live counters", func(t *testing.T) {
		l := seedLearner(t)
		now := time.Now().UTC()
		require.NoError(t, l.RecordSubmission("html-basics", "assignment01",
			learner.SubmissionRecord{CreatedAt: now}))
		require.NoError(t, l.RecordSubmission("html-basics", "assignment02",
			learner.SubmissionRecord{CreatedAt: now}))
		h := NewGetBadgesHandler(&singleLearnerRepo{learner: l}, registry, nil)

		result, err := h.Handle(context.Background(), GetBadgesQuery{LearnerID: l.ID.String()})
		require.NoError(t, err)

		for _, s := range result.InProgress {
			if s.ID == 34 { // fifthAssignment
				assert.Equal(t, 2, s.Progress)
				assert.Equal(t, 5, s.Target)
			}
		}
	})

	t.Run("unknown learner", func(t *testing.T) {
		h := NewGetBadgesHandler(&singleLearnerRepo{}, registry, nil)
		_, err := h.Handle(context.Background(), GetBadgesQuery{LearnerID: uuid.NewString()})
		assert.ErrorIs(t, err, shared.ErrLearnerNotFound)
	})
}

func TestGetNewBadgesHandler(t *testing.T) {
	registry := badge.MustNewRegistry(badge.Catalog())
	l := seedLearner(t)
	l.Unlock("bookWelcome", 13)

	h := NewGetNewBadgesHandler(&singleLearnerRepo{learner: l}, registry, nil)
	result, err := h.Handle(context.Background(), GetNewBadgesQuery{LearnerID: l.ID.String()})
	require.NoError(t, err)

	assert.True(t, result.HasNewBadges)
	require.Len(t, result.NewBadges, 1)
	assert.Equal(t, "Baby Steps", result.NewBadges[0].LocalizedName)
}

func TestGetProgressSummaryHandler(t *testing.T) {
	l := seedLearner(t)
	at := time.Date(2024, time.June, 5, 12, 0, 0, 0, time.UTC)
	for day := 3; day <= 5; day++ {
		lesson := shared.LessonID("html-basics")
		assignment := shared.AssignmentID([]string{"assignment01", "assignment02", "assignment03"}[day-3])
		require.NoError(t, l.RecordSubmission(lesson, assignment, learner.SubmissionRecord{
			CreatedAt: time.Date(2024, time.June, day, 23, 30, 0, 0, time.UTC),
		}))
	}
	l.IncrementMoodFeedback()

	h := NewGetProgressSummaryHandler(&singleLearnerRepo{learner: l})
	result, err := h.Handle(context.Background(), GetProgressSummaryQuery{
		LearnerID: l.ID.String(),
		At:        at,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalSubmissions)
	assert.Equal(t, 3, result.LongestStreak)
	assert.Equal(t, 3, result.CurrentStreak)
	assert.Equal(t, 1, result.MoodFeedbackCount)
	assert.Equal(t, at, result.ComputedAt)
}
