package saga

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrylearn/badge-hub/internal/domain/badge"
	"github.com/berrylearn/badge-hub/internal/domain/learner"
	"github.com/berrylearn/badge-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// TEST DOUBLES
// ══════════════════════════════════════════════════════════════════════════════

type memoryLearnerRepo struct {
	mu       sync.Mutex
	learners map[shared.LearnerID]*learner.Learner
	versions map[shared.LearnerID]int

	// staleSaves forces the first N saves to fail with a version conflict.
	staleSaves int
	saveCalls  int
}

func newMemoryLearnerRepo() *memoryLearnerRepo {
	return &memoryLearnerRepo{
		learners: make(map[shared.LearnerID]*learner.Learner),
		versions: make(map[shared.LearnerID]int),
	}
}

func (r *memoryLearnerRepo) Create(_ context.Context, l *learner.Learner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.learners[l.ID]; ok {
		return shared.ErrLearnerAlreadyExists
	}
	r.learners[l.ID] = l.Clone()
	r.versions[l.ID] = l.Version
	return nil
}

func (r *memoryLearnerRepo) GetByID(_ context.Context, id shared.LearnerID) (*learner.Learner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.learners[id]
	if !ok {
		return nil, shared.ErrLearnerNotFound
	}
	return stored.Clone(), nil
}

func (r *memoryLearnerRepo) Save(_ context.Context, l *learner.Learner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveCalls++
	if r.staleSaves > 0 {
		r.staleSaves--
		return shared.ErrStaleLearnerState
	}
	if r.versions[l.ID] != l.Version {
		return shared.ErrStaleLearnerState
	}
	l.Version++
	r.learners[l.ID] = l.Clone()
	r.versions[l.ID] = l.Version
	return nil
}

func (r *memoryLearnerRepo) Exists(_ context.Context, id shared.LearnerID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.learners[id]
	return ok, nil
}

type capturingBus struct {
	mu     sync.Mutex
	events []shared.Event
}

func (b *capturingBus) Publish(e shared.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
	return nil
}

func (b *capturingBus) ofType(t shared.EventType) []shared.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []shared.Event
	for _, e := range b.events {
		if e.EventType() == t {
			out = append(out, e)
		}
	}
	return out
}

type capturingNotifier struct {
	calls int
	views []badge.View
	err   error
}

func (n *capturingNotifier) NotifyBadgeUnlocks(_ context.Context, _ shared.LearnerID, views []badge.View) error {
	n.calls++
	n.views = append(n.views, views...)
	return n.err
}

type fixedCurriculum struct{ count int }

func (c fixedCurriculum) StarterAssignmentCount(shared.Locale) int { return c.count }

func seedLearner(t *testing.T, repo *memoryLearnerRepo) *learner.Learner {
	t.Helper()
	id, err := shared.NewLearnerID(uuid.NewString())
	require.NoError(t, err)
	l, err := learner.NewLearner(id, shared.DefaultLocale)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), l))
	return l
}

func newTestSaga(repo *memoryLearnerRepo, bus shared.EventPublisher, notifier UnlockNotifier) *BadgeFlowSaga {
	return NewBadgeFlowSaga(
		repo,
		badge.MustNewRegistry(badge.Catalog()),
		nil,
		fixedCurriculum{count: 14},
		bus,
		notifier,
		nil,
		DefaultBadgeFlowConfig(),
	)
}

// ══════════════════════════════════════════════════════════════════════════════
// TESTS
// ══════════════════════════════════════════════════════════════════════════════

func TestBadgeFlowUnlocksOnSubmission(t *testing.T) {
	repo := newMemoryLearnerRepo()
	bus := &capturingBus{}
	notifier := &capturingNotifier{}
	flow := newTestSaga(repo, bus, notifier)
	l := seedLearner(t, repo)

	now := time.Date(2024, time.June, 3, 12, 0, 0, 0, time.UTC)
	result, err := flow.Execute(context.Background(), BadgeFlowInput{
		LearnerID: l.ID,
		Trigger:   TriggerSubmission,
		Now:       now,
		Mutate: func(l *learner.Learner) ([]shared.Event, error) {
			return nil, l.RecordSubmission("html-basics", "assignment01",
				learner.SubmissionRecord{CreatedAt: now})
		},
	})
	require.NoError(t, err)

	// One submission: firstAssignment (33) and a 1-day streak (not 3).
	require.Len(t, result.Unlocks, 1)
	assert.Equal(t, shared.BadgeID(33), result.Unlocks[0].ID)
	assert.True(t, result.HasNewBadges)
	assert.Equal(t, []shared.BadgeID{33}, result.NewBadgeQueue)

	// Onboarding: fifthAssignment, slack, referral, first project still open.
	assert.Equal(t, 4, result.MissingTasks)

	// The unlock is durable.
	stored, err := repo.GetByID(context.Background(), l.ID)
	require.NoError(t, err)
	assert.True(t, stored.Progress.IsUnlocked("firstAssignment"))
	assert.Equal(t, 1, stored.Version)

	// Event and notification fan-out.
	require.Len(t, bus.ofType(shared.EventBadgeUnlocked), 1)
	assert.Equal(t, 1, notifier.calls)
	require.Len(t, notifier.views, 1)
	assert.Equal(t, "The Hardest of All", notifier.views[0].LocalizedName)
}

func TestBadgeFlowIsIdempotent(t *testing.T) {
	repo := newMemoryLearnerRepo()
	bus := &capturingBus{}
	flow := newTestSaga(repo, bus, nil)
	l := seedLearner(t, repo)

	now := time.Date(2024, time.June, 3, 12, 0, 0, 0, time.UTC)
	mutate := func(l *learner.Learner) ([]shared.Event, error) {
		return nil, l.RecordSubmission("html-basics", "assignment01",
			learner.SubmissionRecord{CreatedAt: now})
	}

	first, err := flow.Execute(context.Background(), BadgeFlowInput{
		LearnerID: l.ID, Trigger: TriggerSubmission, Now: now, Mutate: mutate,
	})
	require.NoError(t, err)
	require.Len(t, first.Unlocks, 1)

	// Same assignment again: no new distinct submission, nothing unlocks,
	// and the existing queue entry is not duplicated.
	second, err := flow.Execute(context.Background(), BadgeFlowInput{
		LearnerID: l.ID, Trigger: TriggerSubmission, Now: now, Mutate: mutate,
	})
	require.NoError(t, err)
	assert.Empty(t, second.Unlocks)
	assert.Equal(t, []shared.BadgeID{33}, second.NewBadgeQueue)

	assert.Len(t, bus.ofType(shared.EventBadgeUnlocked), 1)
}

func TestBadgeFlowRetriesOnStaleState(t *testing.T) {
	repo := newMemoryLearnerRepo()
	repo.staleSaves = 1
	flow := newTestSaga(repo, &capturingBus{}, nil)
	l := seedLearner(t, repo)

	now := time.Date(2024, time.June, 3, 12, 0, 0, 0, time.UTC)
	result, err := flow.Execute(context.Background(), BadgeFlowInput{
		LearnerID: l.ID,
		Trigger:   TriggerSubmission,
		Now:       now,
		Mutate: func(l *learner.Learner) ([]shared.Event, error) {
			return nil, l.RecordSubmission("html-basics", "assignment01",
				learner.SubmissionRecord{CreatedAt: now})
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Unlocks, 1)
	assert.Equal(t, 2, repo.saveCalls)

	stored, err := repo.GetByID(context.Background(), l.ID)
	require.NoError(t, err)
	assert.True(t, stored.Progress.IsUnlocked("firstAssignment"))
	// The re-run appended only once despite two attempts.
	assert.Equal(t, []shared.BadgeID{33}, stored.Progress.NewlyUnlockedBadgeIDs)
}

func TestBadgeFlowGivesUpAfterMaxAttempts(t *testing.T) {
	repo := newMemoryLearnerRepo()
	repo.staleSaves = 100
	flow := newTestSaga(repo, nil, nil)
	l := seedLearner(t, repo)

	_, err := flow.Execute(context.Background(), BadgeFlowInput{
		LearnerID: l.ID,
		Trigger:   TriggerFeedback,
		Mutate: func(l *learner.Learner) ([]shared.Event, error) {
			l.IncrementMoodFeedback()
			return nil, nil
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrOptimisticLock)
	assert.Equal(t, DefaultBadgeFlowConfig().MaxSaveAttempts, repo.saveCalls)
}

func TestBadgeFlowIsolatesNotifierFailures(t *testing.T) {
	repo := newMemoryLearnerRepo()
	notifier := &capturingNotifier{err: shared.ErrNotificationFailed}
	flow := newTestSaga(repo, &capturingBus{}, notifier)
	l := seedLearner(t, repo)

	now := time.Date(2024, time.June, 3, 12, 0, 0, 0, time.UTC)
	result, err := flow.Execute(context.Background(), BadgeFlowInput{
		LearnerID: l.ID,
		Trigger:   TriggerSubmission,
		Now:       now,
		Mutate: func(l *learner.Learner) ([]shared.Event, error) {
			return nil, l.RecordSubmission("html-basics", "assignment01",
				learner.SubmissionRecord{CreatedAt: now})
		},
	})

	// The unlock survives the failed notification.
	require.NoError(t, err)
	assert.True(t, result.HasUnlocks())
	assert.Equal(t, 1, notifier.calls)
}

func TestBadgeFlowUnknownLearner(t *testing.T) {
	repo := newMemoryLearnerRepo()
	flow := newTestSaga(repo, nil, nil)

	id, err := shared.NewLearnerID(uuid.NewString())
	require.NoError(t, err)

	_, err = flow.Execute(context.Background(), BadgeFlowInput{
		LearnerID: id,
		Trigger:   TriggerSubmission,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrLearnerNotFound)
}

func TestBadgeFlowExternalFactUnlock(t *testing.T) {
	repo := newMemoryLearnerRepo()
	flow := newTestSaga(repo, &capturingBus{}, nil)
	l := seedLearner(t, repo)

	result, err := flow.Execute(context.Background(), BadgeFlowInput{
		LearnerID: l.ID,
		Trigger:   TriggerExternalFact,
		Mutate: func(l *learner.Learner) ([]shared.Event, error) {
			return nil, l.ApplyExternalFact(learner.FactCommunityRegistration)
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Unlocks, 1)
	assert.Equal(t, shared.BadgeID(12), result.Unlocks[0].ID)
	assert.Equal(t, 4, result.MissingTasks)
}
