package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrylearn/badge-hub/internal/domain/shared"
)

type capturingShowcase struct {
	calls  int
	fail   bool
	lesson shared.LessonID
	value  string
}

func (s *capturingShowcase) ShareSubmission(_ context.Context, _ shared.LearnerID, lessonID shared.LessonID, _ shared.AssignmentID, value string) error {
	s.calls++
	s.lesson = lessonID
	s.value = value
	if s.fail {
		return errors.New("webhook down")
	}
	return nil
}

func TestRecordSubmissionHandler(t *testing.T) {
	newHandler := func(repo *memoryLearnerRepo, bus *capturingBus, showcase ShowcaseNotifier) *RecordSubmissionHandler {
		return NewRecordSubmissionHandler(newTestFlow(repo, bus), showcase, nil,
			RecordSubmissionHandlerConfig{
				ShowcaseTriggers: []ShowcaseTrigger{
					{LessonID: "qnurko", AssignmentID: "assignment06"},
					{LessonID: "erthue", AssignmentID: "assignment01"},
				},
			})
	}

	t.Run("records and unlocks", func(t *testing.T) {
		repo := newMemoryLearnerRepo()
		bus := &capturingBus{}
		h := newHandler(repo, bus, nil)
		l := seedLearner(t, repo)

		result, err := h.Handle(context.Background(), RecordSubmissionCommand{
			LearnerID:    l.ID.String(),
			LessonID:     "html-basics",
			AssignmentID: "assignment01",
			Value:        "https://example.com/work",
			SubmittedAt:  time.Date(2024, time.June, 3, 12, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 1, result.TotalSubmissions)
		require.Len(t, result.NewlyUnlocked, 1)
		assert.Equal(t, shared.BadgeID(33), result.NewlyUnlocked[0].ID)
		assert.Equal(t, 1, result.CurrentStreak)

		assert.Len(t, bus.ofType(shared.EventSubmissionRecorded), 1)
		assert.Len(t, bus.ofType(shared.EventBadgeUnlocked), 1)
	})

	t.Run("showcase assignments are shared", func(t *testing.T) {
		repo := newMemoryLearnerRepo()
		showcase := &capturingShowcase{}
		h := newHandler(repo, &capturingBus{}, showcase)
		l := seedLearner(t, repo)

		_, err := h.Handle(context.Background(), RecordSubmissionCommand{
			LearnerID:    l.ID.String(),
			LessonID:     "qnurko",
			AssignmentID: "assignment06",
			Value:        "https://example.com/project",
			SubmittedAt:  time.Now().UTC(),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, showcase.calls)
		assert.Equal(t, shared.LessonID("qnurko"), showcase.lesson)
		assert.Equal(t, "https://example.com/project", showcase.value)
	})

	t.Run("ordinary assignments are not shared", func(t *testing.T) {
		repo := newMemoryLearnerRepo()
		showcase := &capturingShowcase{}
		h := newHandler(repo, &capturingBus{}, showcase)
		l := seedLearner(t, repo)

		_, err := h.Handle(context.Background(), RecordSubmissionCommand{
			LearnerID:    l.ID.String(),
			LessonID:     "html-basics",
			AssignmentID: "assignment01",
			SubmittedAt:  time.Now().UTC(),
		})
		require.NoError(t, err)
		assert.Equal(t, 0, showcase.calls)
	})

	t.Run("showcase failure never fails the submission", func(t *testing.T) {
		repo := newMemoryLearnerRepo()
		showcase := &capturingShowcase{fail: true}
		h := newHandler(repo, &capturingBus{}, showcase)
		l := seedLearner(t, repo)

		result, err := h.Handle(context.Background(), RecordSubmissionCommand{
			LearnerID:    l.ID.String(),
			LessonID:     "erthue",
			AssignmentID: "assignment01",
			SubmittedAt:  time.Now().UTC(),
		})
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 1, showcase.calls)
	})

	t.Run("validation failures", func(t *testing.T) {
		h := newHandler(newMemoryLearnerRepo(), &capturingBus{}, nil)

		_, err := h.Handle(context.Background(), RecordSubmissionCommand{})
		assert.Error(t, err)

		_, err = h.Handle(context.Background(), RecordSubmissionCommand{
			LearnerID: "not-a-uuid", LessonID: "html-basics", AssignmentID: "assignment01",
		})
		assert.ErrorIs(t, err, shared.ErrInvalidLearnerID)
	})
}

func TestRecordFeedbackHandler(t *testing.T) {
	repo := newMemoryLearnerRepo()
	bus := &capturingBus{}
	h := NewRecordFeedbackHandler(newTestFlow(repo, bus))
	l := seedLearner(t, repo)

	for i := 1; i <= 3; i++ {
		result, err := h.Handle(context.Background(), RecordFeedbackCommand{
			LearnerID: l.ID.String(),
			Kind:      FeedbackKindMood,
		})
		require.NoError(t, err)
		assert.Equal(t, i, result.NewCount)
	}

	// Third mood feedback unlocks Source of Inspiration.
	stored, err := repo.GetByID(context.Background(), l.ID)
	require.NoError(t, err)
	assert.True(t, stored.Progress.IsUnlocked("gaveAtLeast3MoodFeedback"))
	assert.Len(t, bus.ofType(shared.EventMoodFeedbackGiven), 3)
	assert.Len(t, bus.ofType(shared.EventBadgeUnlocked), 1)

	t.Run("survey feedback unlocks on first answer", func(t *testing.T) {
		result, err := h.Handle(context.Background(), RecordFeedbackCommand{
			LearnerID: l.ID.String(),
			Kind:      FeedbackKindSurvey,
		})
		require.NoError(t, err)
		require.Len(t, result.NewlyUnlocked, 1)
		assert.Equal(t, shared.BadgeID(11), result.NewlyUnlocked[0].ID)
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		_, err := h.Handle(context.Background(), RecordFeedbackCommand{
			LearnerID: l.ID.String(),
			Kind:      FeedbackKind("applause"),
		})
		assert.Error(t, err)
	})
}

func TestApplyExternalFactHandler(t *testing.T) {
	repo := newMemoryLearnerRepo()
	h := NewApplyExternalFactHandler(newTestFlow(repo, &capturingBus{}))
	l := seedLearner(t, repo)

	result, err := h.Handle(context.Background(), ApplyExternalFactCommand{
		LearnerID: l.ID.String(),
		Fact:      "referred_first_friend",
	})
	require.NoError(t, err)
	require.Len(t, result.NewlyUnlocked, 1)
	assert.Equal(t, shared.BadgeID(40), result.NewlyUnlocked[0].ID)

	t.Run("applying twice is a no-op", func(t *testing.T) {
		again, err := h.Handle(context.Background(), ApplyExternalFactCommand{
			LearnerID: l.ID.String(),
			Fact:      "referred_first_friend",
		})
		require.NoError(t, err)
		assert.Empty(t, again.NewlyUnlocked)
	})

	t.Run("unknown fact is rejected", func(t *testing.T) {
		_, err := h.Handle(context.Background(), ApplyExternalFactCommand{
			LearnerID: l.ID.String(),
			Fact:      "won_the_lottery",
		})
		assert.Error(t, err)
	})
}

func TestCompleteUnitHandler(t *testing.T) {
	repo := newMemoryLearnerRepo()
	h := NewCompleteUnitHandler(newTestFlow(repo, &capturingBus{}))
	l := seedLearner(t, repo)

	result, err := h.Handle(context.Background(), CompleteUnitCommand{
		LearnerID: l.ID.String(),
		UnitSlug:  "welcome-project",
	})
	require.NoError(t, err)
	require.Len(t, result.NewlyUnlocked, 1)
	assert.Equal(t, shared.BadgeID(13), result.NewlyUnlocked[0].ID)
}

func TestAcknowledgeBadgesHandler(t *testing.T) {
	repo := newMemoryLearnerRepo()
	bus := &capturingBus{}
	flow := newTestFlow(repo, bus)
	h := NewAcknowledgeBadgesHandler(repo, bus, nil)
	l := seedLearner(t, repo)

	// Earn a badge first.
	_, err := NewCompleteUnitHandler(flow).Handle(context.Background(), CompleteUnitCommand{
		LearnerID: l.ID.String(),
		UnitSlug:  "welcome-project",
	})
	require.NoError(t, err)

	result, err := h.Handle(context.Background(), AcknowledgeBadgesCommand{LearnerID: l.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, []shared.BadgeID{13}, result.AcknowledgedIDs)

	stored, err := repo.GetByID(context.Background(), l.ID)
	require.NoError(t, err)
	assert.False(t, stored.Progress.HasNewBadges)
	assert.Empty(t, stored.Progress.NewlyUnlockedBadgeIDs)
	assert.True(t, stored.Progress.IsUnlocked("bookWelcome"), "acknowledgement keeps the unlock")
	assert.Len(t, bus.ofType(shared.EventBadgesAcknowledged), 1)

	t.Run("empty queue drains to nothing", func(t *testing.T) {
		again, err := h.Handle(context.Background(), AcknowledgeBadgesCommand{LearnerID: l.ID.String()})
		require.NoError(t, err)
		assert.Empty(t, again.AcknowledgedIDs)
	})
}
