package learner

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrylearn/badge-hub/internal/domain/shared"
)

func newTestLearner(t *testing.T) *Learner {
	t.Helper()
	id, err := shared.NewLearnerID(uuid.NewString())
	require.NoError(t, err)
	l, err := NewLearner(id, shared.DefaultLocale)
	require.NoError(t, err)
	return l
}

func TestNewLearner(t *testing.T) {
	t.Run("starts fully locked", func(t *testing.T) {
		l := newTestLearner(t)
		assert.False(t, l.Progress.HasNewBadges)
		assert.Empty(t, l.Progress.NewlyUnlockedBadgeIDs)
		assert.Equal(t, 0, l.TotalSubmissionCount())
		assert.Equal(t, 0, l.Version)
	})

	t.Run("rejects malformed id", func(t *testing.T) {
		_, err := NewLearner("not-a-uuid", shared.DefaultLocale)
		assert.ErrorIs(t, err, shared.ErrInvalidLearnerID)
	})

	t.Run("empty locale falls back to default", func(t *testing.T) {
		id, err := shared.NewLearnerID(uuid.NewString())
		require.NoError(t, err)
		l, err := NewLearner(id, shared.Locale{})
		require.NoError(t, err)
		assert.Equal(t, shared.DefaultLocale, l.Locale)
	})
}

func TestRecordSubmission(t *testing.T) {
	now := time.Date(2024, time.May, 2, 10, 0, 0, 0, time.UTC)

	t.Run("distinct assignments raise the total", func(t *testing.T) {
		l := newTestLearner(t)
		require.NoError(t, l.RecordSubmission("html-basics", "assignment01", SubmissionRecord{CreatedAt: now}))
		require.NoError(t, l.RecordSubmission("html-basics", "assignment02", SubmissionRecord{CreatedAt: now}))
		assert.Equal(t, 2, l.TotalSubmissionCount())
	})

	t.Run("resubmitting the same assignment does not", func(t *testing.T) {
		l := newTestLearner(t)
		require.NoError(t, l.RecordSubmission("html-basics", "assignment01", SubmissionRecord{CreatedAt: now}))
		require.NoError(t, l.RecordSubmission("html-basics", "assignment01", SubmissionRecord{CreatedAt: now.Add(time.Hour)}))
		assert.Equal(t, 1, l.TotalSubmissionCount())
		assert.Equal(t, 2, l.Submissions.RecordCount())
	})

	t.Run("a record without a timestamp is rejected", func(t *testing.T) {
		l := newTestLearner(t)
		err := l.RecordSubmission("html-basics", "assignment01", SubmissionRecord{})
		assert.ErrorIs(t, err, shared.ErrSubmissionNoTimestamp)
		assert.Equal(t, 0, l.TotalSubmissionCount())
	})
}

func TestUnlock(t *testing.T) {
	t.Run("first unlock enqueues a notification", func(t *testing.T) {
		l := newTestLearner(t)
		assert.True(t, l.Unlock("streak3Days", 1))
		assert.True(t, l.Progress.HasNewBadges)
		assert.Equal(t, []shared.BadgeID{1}, l.Progress.NewlyUnlockedBadgeIDs)
	})

	t.Run("unlock is monotonic", func(t *testing.T) {
		l := newTestLearner(t)
		require.True(t, l.Unlock("streak3Days", 1))
		assert.False(t, l.Unlock("streak3Days", 1))
		assert.Equal(t, []shared.BadgeID{1}, l.Progress.NewlyUnlockedBadgeIDs)
	})

	t.Run("queue preserves unlock order", func(t *testing.T) {
		l := newTestLearner(t)
		l.Unlock("streak3Days", 1)
		l.Unlock("firstAssignment", 33)
		l.Unlock("fifthAssignment", 34)
		assert.Equal(t, []shared.BadgeID{1, 33, 34}, l.Progress.NewlyUnlockedBadgeIDs)
	})
}

func TestCleanNewBadges(t *testing.T) {
	l := newTestLearner(t)
	l.Unlock("streak3Days", 1)
	l.Unlock("firstAssignment", 33)

	drained := l.CleanNewBadges()
	assert.Equal(t, []shared.BadgeID{1, 33}, drained)
	assert.False(t, l.Progress.HasNewBadges)
	assert.Empty(t, l.Progress.NewlyUnlockedBadgeIDs)

	// Acknowledgement never relocks anything.
	assert.True(t, l.Progress.IsUnlocked("streak3Days"))
	assert.True(t, l.Progress.IsUnlocked("firstAssignment"))

	assert.Empty(t, l.CleanNewBadges(), "second drain is empty")
}

func TestFeedbackCounters(t *testing.T) {
	l := newTestLearner(t)
	assert.Equal(t, 1, l.IncrementMoodFeedback())
	assert.Equal(t, 2, l.IncrementMoodFeedback())
	assert.Equal(t, 1, l.IncrementTextFeedback())
	assert.Equal(t, 1, l.RecordSurveyFeedback())
	assert.Equal(t, 2, l.Progress.MoodFeedbackCount)
}

func TestApplyExternalFact(t *testing.T) {
	l := newTestLearner(t)

	require.NoError(t, l.ApplyExternalFact(FactCommunityRegistration))
	assert.True(t, l.Progress.Fact(FactCommunityRegistration))
	assert.False(t, l.Progress.Fact(FactReferredFirstFriend))

	err := l.ApplyExternalFact(ExternalFact("made_up"))
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestCompleteUnit(t *testing.T) {
	l := newTestLearner(t)

	require.NoError(t, l.CompleteUnit("html-basics"))
	assert.True(t, l.IsUnitFinished("html-basics"))
	assert.False(t, l.IsUnitFinished("css-basics"))

	assert.Error(t, l.CompleteUnit(""))
}
