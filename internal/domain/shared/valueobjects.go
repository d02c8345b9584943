package shared

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// LearnerID represents a unique learner identifier (UUID format).
type LearnerID string

// UUID validation regex (simple version).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValid checks if the learner ID is a valid UUID.
func (l LearnerID) IsValid() bool {
	return uuidRegex.MatchString(string(l))
}

// String returns the string representation.
func (l LearnerID) String() string {
	return string(l)
}

// IsEmpty checks if the learner ID is empty.
func (l LearnerID) IsEmpty() bool {
	return string(l) == ""
}

// NewLearnerID creates a new LearnerID with validation.
func NewLearnerID(id string) (LearnerID, error) {
	lid := LearnerID(strings.TrimSpace(id))
	if !lid.IsValid() {
		return "", ErrInvalidLearnerID
	}
	return lid, nil
}

// BadgeID represents a unique badge identifier. IDs are small positive
// integers assigned once and never reused, even for retired badges.
type BadgeID int

// IsValid checks that the badge ID is positive.
func (b BadgeID) IsValid() bool {
	return b > 0
}

// Int returns the underlying int value.
func (b BadgeID) Int() int {
	return int(b)
}

// String returns the string representation.
func (b BadgeID) String() string {
	return fmt.Sprintf("%d", int(b))
}

// NewBadgeID creates a new BadgeID with validation.
func NewBadgeID(id int) (BadgeID, error) {
	if id <= 0 {
		return 0, ErrInvalidBadgeID
	}
	return BadgeID(id), nil
}

// ConditionKey is the stable string identifier of a badge's unlock rule.
// It doubles as the storage key for unlock state, so it must never change
// across releases once a badge has shipped.
type ConditionKey string

var conditionKeyRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9]{2,63}$`)

// IsValid checks the condition key format.
func (c ConditionKey) IsValid() bool {
	return conditionKeyRegex.MatchString(string(c))
}

// String returns the string representation.
func (c ConditionKey) String() string {
	return string(c)
}

// LessonID identifies a lesson in the curriculum (short hash assigned by
// the curriculum service).
type LessonID string

// NewLessonID creates and validates a lesson ID.
func NewLessonID(id string) (LessonID, error) {
	l := LessonID(id)
	if !l.IsValid() {
		return "", ErrInvalidLessonID
	}
	return l, nil
}

// IsValid checks the lesson ID format.
func (l LessonID) IsValid() bool {
	s := string(l)
	return len(s) >= 2 && len(s) <= 64 && !strings.ContainsAny(s, " \t\n\r")
}

// String returns the string representation.
func (l LessonID) String() string {
	return string(l)
}

// AssignmentID identifies an assignment within a lesson.
type AssignmentID string

// NewAssignmentID creates and validates an assignment ID.
func NewAssignmentID(id string) (AssignmentID, error) {
	a := AssignmentID(id)
	if !a.IsValid() {
		return "", ErrInvalidAssignmentID
	}
	return a, nil
}

// IsValid checks the assignment ID format.
func (a AssignmentID) IsValid() bool {
	s := string(a)
	return len(s) >= 2 && len(s) <= 64 && !strings.ContainsAny(s, " \t\n\r")
}

// String returns the string representation.
func (a AssignmentID) String() string {
	return string(a)
}

// ═══════════════════════════════════════════════════════════════════════════
// Locale
// ═══════════════════════════════════════════════════════════════════════════

// Locale carries everything the core needs to know about a learner's
// language and calendar: the full locale code (e.g. "hu-HU") for
// localization, and the IANA time zone for calendar arithmetic.
type Locale struct {
	// Code is the full locale code, e.g. "en-US", "hu-HU".
	Code string `json:"code"`

	// TimeZone is the IANA time-zone name, e.g. "Europe/Budapest".
	TimeZone string `json:"time_zone"`
}

// DefaultLocale is the fallback for learners without a configured locale.
var DefaultLocale = Locale{Code: "en-US", TimeZone: "UTC"}

var localeCodeRegex = regexp.MustCompile(`^[a-z]{2}-[A-Z]{2}$`)

// IsValid checks the locale code format.
func (l Locale) IsValid() bool {
	return localeCodeRegex.MatchString(l.Code)
}

// OrDefault returns the locale, or DefaultLocale if it is not valid.
func (l Locale) OrDefault() Locale {
	if !l.IsValid() {
		return DefaultLocale
	}
	return l
}

// Language returns the two-letter language part of the code.
func (l Locale) Language() string {
	if len(l.Code) < 2 {
		return ""
	}
	return l.Code[:2]
}

// ═══════════════════════════════════════════════════════════════════════════
// Time Range & Pagination
// ═══════════════════════════════════════════════════════════════════════════

// TimeRange represents a time interval [From, To).
type TimeRange struct {
	From time.Time
	To   time.Time
}

// IsValid checks that the range is well formed.
func (t TimeRange) IsValid() bool {
	return !t.From.IsZero() && !t.To.IsZero() && t.From.Before(t.To)
}

// Duration returns the length of the range.
func (t TimeRange) Duration() time.Duration {
	return t.To.Sub(t.From)
}

// Contains checks whether tm falls inside the range.
func (t TimeRange) Contains(tm time.Time) bool {
	return !tm.Before(t.From) && tm.Before(t.To)
}

// LastNDays returns a range covering the last n days up to now.
func LastNDays(n int) TimeRange {
	now := time.Now().UTC()
	return TimeRange{From: now.AddDate(0, 0, -n), To: now}
}

// Pagination holds offset-based pagination parameters.
type Pagination struct {
	Page     int
	PageSize int
}

// Offset returns the record offset for the page.
func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}

// Limit returns the effective page size.
func (p Pagination) Limit() int {
	if p.PageSize <= 0 {
		return 50
	}
	if p.PageSize > 200 {
		return 200
	}
	return p.PageSize
}

// DefaultPagination returns sensible pagination defaults.
func DefaultPagination() Pagination {
	return Pagination{Page: 1, PageSize: 50}
}
