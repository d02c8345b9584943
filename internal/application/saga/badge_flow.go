// Package saga contains complex business processes that orchestrate
// multiple domain operations in a coordinated manner.
package saga

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/berrylearn/badge-hub/internal/domain/badge"
	"github.com/berrylearn/badge-hub/internal/domain/learner"
	"github.com/berrylearn/badge-hub/internal/domain/shared"
	"github.com/berrylearn/badge-hub/internal/domain/stats"
	"github.com/berrylearn/badge-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// BADGE FLOW SAGA
// Complex business process: badge evaluation and notification
// Flow: Load Learner → Apply Trigger → Compute Signals → Evaluate Badges →
//
//	Persist State → Publish Events → Notify
//
// Every activity event re-scans the full catalog. Already-unlocked conditions
// are skipped by construction, so re-running the flow with no new activity is
// a no-op. Concurrent evaluations of the same learner are serialized through
// the repository's optimistic version check; on a conflict the whole flow
// re-runs against the fresh state.
// ══════════════════════════════════════════════════════════════════════════════

// EvaluationTrigger names the activity event that started a flow run.
type EvaluationTrigger string

const (
	TriggerSubmission    EvaluationTrigger = "submission"
	TriggerFeedback      EvaluationTrigger = "feedback"
	TriggerExternalFact  EvaluationTrigger = "external_fact"
	TriggerUnitCompleted EvaluationTrigger = "unit_completed"
)

// Mutator applies the triggering change to the learner aggregate and returns
// the trigger's own domain events. It must be safe to call again on a freshly
// loaded learner, because a stale-state conflict re-runs the whole flow.
type Mutator func(l *learner.Learner) ([]shared.Event, error)

// BadgeFlowInput contains everything needed for one evaluation run.
type BadgeFlowInput struct {
	// LearnerID - the learner to evaluate.
	LearnerID shared.LearnerID

	// Trigger - the activity event type that started this run.
	Trigger EvaluationTrigger

	// Mutate - applies the triggering change before evaluation. Optional;
	// a nil mutator evaluates the learner as-is.
	Mutate Mutator

	// Now - evaluation instant, defaults to the wall clock. Anchors the
	// current-streak computation.
	Now time.Time

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate checks if the input is valid.
func (i BadgeFlowInput) Validate() error {
	if !i.LearnerID.IsValid() {
		return errors.New("badge_flow: learner ID is required")
	}
	if i.Trigger == "" {
		return errors.New("badge_flow: trigger is required")
	}
	return nil
}

// BadgeFlowResult contains the outcome of one evaluation run.
type BadgeFlowResult struct {
	// LearnerID - the learner that was evaluated.
	LearnerID shared.LearnerID

	// Unlocks - badges that transitioned to unlocked in this run.
	Unlocks []badge.Unlock

	// NewBadgeQueue - the full pending notification queue after the run,
	// including unlocks from earlier runs the learner has not acknowledged.
	NewBadgeQueue []shared.BadgeID

	// HasNewBadges - whether the notification queue is non-empty.
	HasNewBadges bool

	// MissingTasks - open onboarding steps after the run.
	MissingTasks int

	// Snapshot - the signals the evaluation ran against.
	Snapshot stats.Snapshot

	// ProcessedAt - when the flow completed.
	ProcessedAt time.Time
}

// HasUnlocks returns true if any badges were unlocked in this run.
func (r *BadgeFlowResult) HasUnlocks() bool {
	return len(r.Unlocks) > 0
}

// BadgeFlowStep represents a step in the badge flow.
type BadgeFlowStep string

const (
	StepLoadLearner    BadgeFlowStep = "load_learner"
	StepApplyTrigger   BadgeFlowStep = "apply_trigger"
	StepComputeSignals BadgeFlowStep = "compute_signals"
	StepEvaluateBadges BadgeFlowStep = "evaluate_badges"
	StepPersistState   BadgeFlowStep = "persist_state"
	StepPublishEvents  BadgeFlowStep = "publish_events"
	StepNotify         BadgeFlowStep = "notify"
	StepFlowComplete   BadgeFlowStep = "complete"
)

// BadgeFlowState tracks the current state of one flow attempt.
type BadgeFlowState struct {
	CurrentStep   BadgeFlowStep
	Input         BadgeFlowInput
	Learner       *learner.Learner
	TriggerEvents []shared.Event
	Snapshot      stats.Snapshot
	Unlocks       []badge.Unlock
	StartedAt     time.Time
	CompletedAt   *time.Time
	Error         error
	FailedStep    BadgeFlowStep
}

// UnlockNotifier delivers newly-unlocked badge notifications to an external
// collaborator. Failures are isolated: the flow never fails on notification
// errors, because the unlock is already durable.
type UnlockNotifier interface {
	NotifyBadgeUnlocks(ctx context.Context, learnerID shared.LearnerID, unlocked []badge.View) error
}

// Curriculum exposes the per-locale starter-project size, used to derive the
// "finished first project" onboarding flag.
type Curriculum interface {
	StarterAssignmentCount(locale shared.Locale) int
}

// ══════════════════════════════════════════════════════════════════════════════
// BADGE FLOW SAGA IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// BadgeFlowSaga orchestrates the complete evaluation run: applying the
// triggering change, recomputing signals, unlocking badges, persisting the
// new state and fanning out events and notifications.
type BadgeFlowSaga struct {
	// Dependencies
	learnerRepo learner.Repository
	registry    *badge.Registry
	localizer   badge.Localizer
	curriculum  Curriculum
	eventBus    shared.EventPublisher
	notifier    UnlockNotifier
	log         *logger.Logger

	// Configuration
	enableNotifications bool
	maxSaveAttempts     int
}

// BadgeFlowConfig contains configuration for the badge flow saga.
type BadgeFlowConfig struct {
	EnableNotifications bool

	// MaxSaveAttempts bounds optimistic-lock retries. Each retry reloads the
	// learner and re-runs the full evaluation.
	MaxSaveAttempts int
}

// DefaultBadgeFlowConfig returns default configuration.
func DefaultBadgeFlowConfig() BadgeFlowConfig {
	return BadgeFlowConfig{
		EnableNotifications: true,
		MaxSaveAttempts:     3,
	}
}

// NewBadgeFlowSaga creates a new badge flow saga with all dependencies.
func NewBadgeFlowSaga(
	learnerRepo learner.Repository,
	registry *badge.Registry,
	localizer badge.Localizer,
	curriculum Curriculum,
	eventBus shared.EventPublisher,
	notifier UnlockNotifier,
	log *logger.Logger,
	config BadgeFlowConfig,
) *BadgeFlowSaga {
	if config.MaxSaveAttempts <= 0 {
		config.MaxSaveAttempts = DefaultBadgeFlowConfig().MaxSaveAttempts
	}
	if log == nil {
		log = logger.Default()
	}

	return &BadgeFlowSaga{
		learnerRepo:         learnerRepo,
		registry:            registry,
		localizer:           localizer,
		curriculum:          curriculum,
		eventBus:            eventBus,
		notifier:            notifier,
		log:                 log.With(logger.Component("badge_flow")),
		enableNotifications: config.EnableNotifications,
		maxSaveAttempts:     config.MaxSaveAttempts,
	}
}

// Execute runs the evaluation flow, retrying on optimistic-lock conflicts.
func (s *BadgeFlowSaga) Execute(ctx context.Context, input BadgeFlowInput) (*BadgeFlowResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.Now.IsZero() {
		input.Now = time.Now().UTC()
	}
	if input.CorrelationID == "" {
		input.CorrelationID = uuid.NewString()
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxSaveAttempts; attempt++ {
		result, err := s.executeOnce(ctx, input)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, shared.ErrOptimisticLock) {
			return nil, err
		}

		lastErr = err
		s.log.Warn("learner state changed concurrently, retrying evaluation",
			logger.LearnerID(input.LearnerID.String()),
			logger.Int("attempt", attempt))
	}
	return nil, fmt.Errorf("badge_flow: evaluation not persisted after %d attempts: %w",
		s.maxSaveAttempts, lastErr)
}

func (s *BadgeFlowSaga) executeOnce(ctx context.Context, input BadgeFlowInput) (*BadgeFlowResult, error) {
	state := &BadgeFlowState{
		CurrentStep: StepLoadLearner,
		Input:       input,
		StartedAt:   time.Now().UTC(),
	}

	// Step 1: Load learner
	if err := s.stepLoadLearner(ctx, state); err != nil {
		return nil, s.wrapError(state, err)
	}

	// Step 2: Apply the triggering change
	state.CurrentStep = StepApplyTrigger
	if err := s.stepApplyTrigger(state); err != nil {
		return nil, s.wrapError(state, err)
	}

	// Step 3: Compute signals snapshot
	state.CurrentStep = StepComputeSignals
	s.stepComputeSignals(state)

	// Step 4: Evaluate the catalog
	state.CurrentStep = StepEvaluateBadges
	s.stepEvaluateBadges(state)

	// Step 5: Persist the new state
	state.CurrentStep = StepPersistState
	if err := s.stepPersistState(ctx, state); err != nil {
		return nil, s.wrapError(state, err)
	}

	// Step 6: Publish domain events
	state.CurrentStep = StepPublishEvents
	if err := s.stepPublishEvents(state); err != nil {
		// Non-critical - events can be replayed from state
		s.log.Warn("event publish failed", logger.Err(err))
	}

	// Step 7: Notify the learner-facing collaborator
	state.CurrentStep = StepNotify
	if err := s.stepNotify(ctx, state); err != nil {
		// Non-critical - the unlock is already durable
		s.log.Warn("unlock notification failed",
			logger.LearnerID(input.LearnerID.String()),
			logger.Err(err))
	}

	// Complete
	state.CurrentStep = StepFlowComplete
	now := time.Now().UTC()
	state.CompletedAt = &now

	return &BadgeFlowResult{
		LearnerID:     input.LearnerID,
		Unlocks:       state.Unlocks,
		NewBadgeQueue: state.Learner.Progress.NewlyUnlockedBadgeIDs,
		HasNewBadges:  state.Learner.Progress.HasNewBadges,
		MissingTasks:  state.Learner.Progress.NumberOfMissingTasks,
		Snapshot:      state.Snapshot,
		ProcessedAt:   now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SAGA STEPS
// ══════════════════════════════════════════════════════════════════════════════

func (s *BadgeFlowSaga) stepLoadLearner(ctx context.Context, state *BadgeFlowState) error {
	l, err := s.learnerRepo.GetByID(ctx, state.Input.LearnerID)
	if err != nil {
		return fmt.Errorf("failed to load learner: %w", err)
	}
	state.Learner = l
	return nil
}

func (s *BadgeFlowSaga) stepApplyTrigger(state *BadgeFlowState) error {
	if state.Input.Mutate == nil {
		return nil
	}
	events, err := state.Input.Mutate(state.Learner)
	if err != nil {
		return fmt.Errorf("failed to apply trigger: %w", err)
	}
	state.TriggerEvents = events
	return nil
}

func (s *BadgeFlowSaga) stepComputeSignals(state *BadgeFlowState) {
	state.Snapshot = stats.Compute(state.Learner, state.Input.Now)
}

func (s *BadgeFlowSaga) stepEvaluateBadges(state *BadgeFlowState) {
	l := state.Learner

	state.Unlocks = badge.Evaluate(s.registry, l.Progress.Unlocked, state.Snapshot)
	for _, u := range state.Unlocks {
		l.Unlock(u.ConditionKey, u.ID)
	}

	firstProject := badge.FirstProjectComplete(
		state.Snapshot,
		s.curriculum.StarterAssignmentCount(l.Locale),
	)
	l.Progress.FinishedFirstProject = firstProject
	l.Progress.NumberOfMissingTasks = badge.MissingTasks(l.Progress.Unlocked, firstProject)
}

func (s *BadgeFlowSaga) stepPersistState(ctx context.Context, state *BadgeFlowState) error {
	if err := s.learnerRepo.Save(ctx, state.Learner); err != nil {
		return fmt.Errorf("failed to persist learner state: %w", err)
	}
	return nil
}

func (s *BadgeFlowSaga) stepPublishEvents(state *BadgeFlowState) error {
	if s.eventBus == nil {
		return nil
	}

	var firstErr error
	publish := func(e shared.Event) {
		if err := s.eventBus.Publish(e); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	for _, e := range state.TriggerEvents {
		publish(e)
	}
	for _, u := range state.Unlocks {
		event := shared.NewBadgeUnlockedEvent(
			state.Learner.ID.String(),
			int(u.ID),
			u.ConditionKey.String(),
			string(u.Category),
			string(state.Input.Trigger),
		)
		event.CorrelationID = state.Input.CorrelationID
		publish(event)
	}
	return firstErr
}

func (s *BadgeFlowSaga) stepNotify(ctx context.Context, state *BadgeFlowState) error {
	if !s.enableNotifications || s.notifier == nil || len(state.Unlocks) == 0 {
		return nil
	}

	ids := make([]shared.BadgeID, len(state.Unlocks))
	for i, u := range state.Unlocks {
		ids[i] = u.ID
	}
	views, err := s.registry.ByIDs(ids, s.localizer, state.Learner.Locale)
	if err != nil {
		return err
	}
	return s.notifier.NotifyBadgeUnlocks(ctx, state.Learner.ID, views)
}

// wrapError wraps an error with saga context.
func (s *BadgeFlowSaga) wrapError(state *BadgeFlowState, err error) error {
	state.Error = err
	state.FailedStep = state.CurrentStep
	return fmt.Errorf("badge_flow: step %s failed for learner %s: %w",
		state.CurrentStep, state.Input.LearnerID, err)
}
