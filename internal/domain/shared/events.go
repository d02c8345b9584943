package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types - these drive the event-driven architecture.
// Each event represents something significant that happened in the domain.
const (
	// Submission events
	EventSubmissionRecorded EventType = "submission.recorded"

	// Feedback events
	EventMoodFeedbackGiven   EventType = "feedback.mood_given"
	EventTextFeedbackGiven   EventType = "feedback.text_given"
	EventSurveyFeedbackGiven EventType = "feedback.survey_given"

	// Badge events
	EventBadgeUnlocked      EventType = "badge.unlocked"
	EventBadgesAcknowledged EventType = "badge.acknowledged"

	// Curriculum events
	EventUnitCompleted EventType = "curriculum.unit_completed"

	// External fact events (set by collaborating systems, never by this core)
	EventExternalFactApplied EventType = "learner.external_fact_applied"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Submission Events
// ═══════════════════════════════════════════════════════════════════════════

// SubmissionRecordedEvent is emitted when a learner submits an assignment.
type SubmissionRecordedEvent struct {
	BaseEvent
	LessonID     string `json:"lesson_id"`
	AssignmentID string `json:"assignment_id"`
	IsSkipped    bool   `json:"is_skipped"`
	TotalCount   int    `json:"total_count"`
}

// Payload implements Event interface.
func (e SubmissionRecordedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"lesson_id":     e.LessonID,
		"assignment_id": e.AssignmentID,
		"is_skipped":    e.IsSkipped,
		"total_count":   e.TotalCount,
	}
}

// NewSubmissionRecordedEvent creates a new SubmissionRecordedEvent.
func NewSubmissionRecordedEvent(learnerID, lessonID, assignmentID string, isSkipped bool, totalCount int) SubmissionRecordedEvent {
	return SubmissionRecordedEvent{
		BaseEvent:    NewBaseEvent(EventSubmissionRecorded, learnerID),
		LessonID:     lessonID,
		AssignmentID: assignmentID,
		IsSkipped:    isSkipped,
		TotalCount:   totalCount,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Badge Events
// ═══════════════════════════════════════════════════════════════════════════

// BadgeUnlockedEvent is emitted for every badge that transitions to unlocked.
type BadgeUnlockedEvent struct {
	BaseEvent
	BadgeID      int    `json:"badge_id"`
	ConditionKey string `json:"condition_key"`
	Category     string `json:"category"`
	Trigger      string `json:"trigger"`
}

// Payload implements Event interface.
func (e BadgeUnlockedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"badge_id":      e.BadgeID,
		"condition_key": e.ConditionKey,
		"category":      e.Category,
		"trigger":       e.Trigger,
	}
}

// NewBadgeUnlockedEvent creates a new BadgeUnlockedEvent.
func NewBadgeUnlockedEvent(learnerID string, badgeID int, conditionKey, category, trigger string) BadgeUnlockedEvent {
	return BadgeUnlockedEvent{
		BaseEvent:    NewBaseEvent(EventBadgeUnlocked, learnerID),
		BadgeID:      badgeID,
		ConditionKey: conditionKey,
		Category:     category,
		Trigger:      trigger,
	}
}

// BadgesAcknowledgedEvent is emitted when the learner dismisses the
// newly-unlocked badge notification queue.
type BadgesAcknowledgedEvent struct {
	BaseEvent
	AcknowledgedIDs []int `json:"acknowledged_ids"`
}

// Payload implements Event interface.
func (e BadgesAcknowledgedEvent) Payload() map[string]interface{} {
	ids := make([]interface{}, len(e.AcknowledgedIDs))
	for i, id := range e.AcknowledgedIDs {
		ids[i] = id
	}
	return map[string]interface{}{
		"acknowledged_ids": ids,
	}
}

// NewBadgesAcknowledgedEvent creates a new BadgesAcknowledgedEvent.
func NewBadgesAcknowledgedEvent(learnerID string, ids []int) BadgesAcknowledgedEvent {
	return BadgesAcknowledgedEvent{
		BaseEvent:       NewBaseEvent(EventBadgesAcknowledged, learnerID),
		AcknowledgedIDs: ids,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Feedback & Curriculum Events
// ═══════════════════════════════════════════════════════════════════════════

// FeedbackGivenEvent is emitted when a learner gives mood, text, or survey feedback.
type FeedbackGivenEvent struct {
	BaseEvent
	FeedbackKind string `json:"feedback_kind"`
	NewCount     int    `json:"new_count"`
}

// Payload implements Event interface.
func (e FeedbackGivenEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"feedback_kind": e.FeedbackKind,
		"new_count":     e.NewCount,
	}
}

// NewFeedbackGivenEvent creates a new FeedbackGivenEvent.
func NewFeedbackGivenEvent(eventType EventType, learnerID, kind string, newCount int) FeedbackGivenEvent {
	return FeedbackGivenEvent{
		BaseEvent:    NewBaseEvent(eventType, learnerID),
		FeedbackKind: kind,
		NewCount:     newCount,
	}
}

// UnitCompletedEvent is emitted when a learner finishes a curriculum unit.
type UnitCompletedEvent struct {
	BaseEvent
	UnitSlug string `json:"unit_slug"`
}

// Payload implements Event interface.
func (e UnitCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"unit_slug": e.UnitSlug,
	}
}

// NewUnitCompletedEvent creates a new UnitCompletedEvent.
func NewUnitCompletedEvent(learnerID, unitSlug string) UnitCompletedEvent {
	return UnitCompletedEvent{
		BaseEvent: NewBaseEvent(EventUnitCompleted, learnerID),
		UnitSlug:  unitSlug,
	}
}

// ExternalFactAppliedEvent is emitted when a collaborating system flips one
// of the externally-owned learner facts (community registration, referral,
// bug report, blog post, review).
type ExternalFactAppliedEvent struct {
	BaseEvent
	Fact string `json:"fact"`
}

// Payload implements Event interface.
func (e ExternalFactAppliedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"fact": e.Fact,
	}
}

// NewExternalFactAppliedEvent creates a new ExternalFactAppliedEvent.
func NewExternalFactAppliedEvent(learnerID, fact string) ExternalFactAppliedEvent {
	return ExternalFactAppliedEvent{
		BaseEvent: NewBaseEvent(EventExternalFactApplied, learnerID),
		Fact:      fact,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Bus Contracts
// ═══════════════════════════════════════════════════════════════════════════

// EventHandler processes domain events.
type EventHandler func(event Event) error

// EventPublisher publishes domain events.
type EventPublisher interface {
	Publish(event Event) error
}

// EventSubscriber subscribes to domain events.
type EventSubscriber interface {
	Subscribe(eventType EventType, handler EventHandler) error
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
}
