package learner

import (
	"time"

	"github.com/berrylearn/badge-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMISSION LOG
// The raw activity log: every assignment submission the learner ever made,
// keyed lesson → assignment → ordered records. The log is append-only; the
// stats package derives all behavioral signals from it.
// ══════════════════════════════════════════════════════════════════════════════

// SubmissionRecord is one logged activity event. Immutable once created.
type SubmissionRecord struct {
	// CreatedAt is the submission instant, stored in UTC.
	CreatedAt time.Time `json:"created_at"`

	// Value is the submitted answer (opaque to this system).
	Value string `json:"value"`

	// TimeSpentSeconds is how long the learner spent on the assignment.
	TimeSpentSeconds int `json:"time_spent_seconds"`

	// IsSkipped marks submissions created by skipping the assignment.
	IsSkipped bool `json:"is_skipped"`
}

// Validate checks that the record carries a timestamp. Records without one
// are malformed and must be skipped by consumers, never fatal.
func (r SubmissionRecord) Validate() error {
	if r.CreatedAt.IsZero() {
		return shared.ErrSubmissionNoTimestamp
	}
	return nil
}

// SubmissionLog is the three-level submission mapping:
// lessonID → assignmentID → ordered list of records.
type SubmissionLog map[shared.LessonID]map[shared.AssignmentID][]SubmissionRecord

// NewSubmissionLog creates an empty log.
func NewSubmissionLog() SubmissionLog {
	return make(SubmissionLog)
}

// Append adds a record under the given lesson and assignment, creating the
// intermediate maps as needed.
func (l SubmissionLog) Append(lessonID shared.LessonID, assignmentID shared.AssignmentID, record SubmissionRecord) {
	assignments, ok := l[lessonID]
	if !ok {
		assignments = make(map[shared.AssignmentID][]SubmissionRecord)
		l[lessonID] = assignments
	}
	assignments[assignmentID] = append(assignments[assignmentID], record)
}

// AssignmentCount returns the number of distinct assignments with at least
// one submission. This is the "total submission count" the progress badges
// are measured against: resubmitting the same assignment does not move the
// counter.
func (l SubmissionLog) AssignmentCount() int {
	count := 0
	for _, assignments := range l {
		count += len(assignments)
	}
	return count
}

// RecordCount returns the total number of submission records across all
// lessons and assignments, resubmissions included.
func (l SubmissionLog) RecordCount() int {
	count := 0
	for _, assignments := range l {
		for _, records := range assignments {
			count += len(records)
		}
	}
	return count
}

// Each calls fn for every record in the log. Iteration order is undefined;
// callers that need ordering must sort.
func (l SubmissionLog) Each(fn func(lessonID shared.LessonID, assignmentID shared.AssignmentID, record SubmissionRecord)) {
	for lessonID, assignments := range l {
		for assignmentID, records := range assignments {
			for _, record := range records {
				fn(lessonID, assignmentID, record)
			}
		}
	}
}
