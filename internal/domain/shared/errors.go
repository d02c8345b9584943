// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrMalformedRecord = errors.New("malformed record")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState     = errors.New("invalid state")
	ErrStateTransition  = errors.New("invalid state transition")
	ErrAlreadyProcessed = errors.New("already processed")

	// Concurrency errors
	ErrConcurrentModification = errors.New("concurrent modification detected")
	ErrOptimisticLock         = errors.New("optimistic lock failure")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
	ErrRateLimited        = errors.New("rate limited")

	// Persistence errors
	ErrPersistence = errors.New("persistence failure")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "learner", "badge", "submission"
	Op      string // Operation that failed, e.g., "Evaluate", "Save"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Learner domain errors
var (
	ErrLearnerNotFound      = NewDomainError("learner", "Find", ErrNotFound, "learner not found")
	ErrLearnerAlreadyExists = NewDomainError("learner", "Create", ErrAlreadyExists, "learner already exists")
	ErrInvalidLearnerID     = NewDomainError("learner", "Validate", ErrInvalidID, "invalid learner ID")
	ErrStaleLearnerState    = NewDomainError("learner", "Save", ErrOptimisticLock, "learner state was modified concurrently")
)

// Badge domain errors
var (
	ErrBadgeNotFound        = NewDomainError("badge", "Find", ErrNotFound, "badge not found")
	ErrConditionKeyNotFound = NewDomainError("badge", "FindByCondition", ErrNotFound, "no badge for condition key")
	ErrDuplicateBadgeID     = NewDomainError("badge", "Register", ErrAlreadyExists, "badge ID already registered")
	ErrDuplicateCondition   = NewDomainError("badge", "Register", ErrAlreadyExists, "condition key already registered")
	ErrInvalidBadgeID       = NewDomainError("badge", "Validate", ErrInvalidID, "invalid badge ID")
)

// Submission domain errors
var (
	ErrSubmissionNoTimestamp = NewDomainError("submission", "Validate", ErrMalformedRecord, "submission has no timestamp")
	ErrInvalidLessonID       = NewDomainError("submission", "Validate", ErrInvalidID, "invalid lesson ID")
	ErrInvalidAssignmentID   = NewDomainError("submission", "Validate", ErrInvalidID, "invalid assignment ID")
)

// Notification errors
var (
	ErrNotificationFailed = NewDomainError("notification", "Send", ErrExternalService, "failed to deliver notification")
	ErrWebhookUnavailable = NewDomainError("notification", "Send", ErrServiceUnavailable, "webhook endpoint unavailable")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrMalformedRecord)
}

// IsRetryable checks if the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrConcurrentModification) ||
		errors.Is(err, ErrOptimisticLock)
}
