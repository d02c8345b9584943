package command

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/berrylearn/badge-hub/internal/application/saga"
	"github.com/berrylearn/badge-hub/internal/domain/badge"
	"github.com/berrylearn/badge-hub/internal/domain/learner"
	"github.com/berrylearn/badge-hub/internal/domain/shared"
)

type memoryLearnerRepo struct {
	mu       sync.Mutex
	learners map[shared.LearnerID]*learner.Learner
	versions map[shared.LearnerID]int
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

type fixedCurriculum struct{ count int }

func (c fixedCurriculum) StarterAssignmentCount(shared.Locale) int { return c.count }

func newTestFlow(repo *memoryLearnerRepo, bus shared.EventPublisher) *saga.BadgeFlowSaga {
	return saga.NewBadgeFlowSaga(
		repo,
		badge.MustNewRegistry(badge.Catalog()),
		nil,
		fixedCurriculum{count: 14},
		bus,
		nil,
		nil,
		saga.DefaultBadgeFlowConfig(),
	)
}

func seedLearner(t *testing.T, repo *memoryLearnerRepo) *learner.Learner {
	t.Helper()
	id, err := shared.NewLearnerID(uuid.NewString())
	require.NoError(t, err)
	l, err := learner.NewLearner(id, shared.DefaultLocale)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), l))
	return l
}
