package badge

import (
	"github.com/berrylearn/badge-hub/internal/domain/shared"
	"github.com/berrylearn/badge-hub/internal/domain/stats"
)

// ═══════════════════════════════════════════════════════════════════════════
// Evaluation engine
// ═══════════════════════════════════════════════════════════════════════════

// Unlock is one badge transitioning from locked to unlocked in an
// evaluation run.
type Unlock struct {
	ID           shared.BadgeID
	ConditionKey shared.ConditionKey
	Category     Category
}

// Evaluate scans every available badge against the signals snapshot and
// returns the badges that are newly met, in catalog order. Already-unlocked
// conditions are skipped, which makes re-evaluation idempotent: with no new
// activity the result is empty.
//
// The function is pure. Applying the unlocks to the learner state, and
// serializing concurrent evaluations of the same learner, are the caller's
// responsibility.
func Evaluate(r *Registry, unlocked map[shared.ConditionKey]bool, s stats.Snapshot) []Unlock {
	var unlocks []Unlock
	for _, d := range r.Available() {
		if unlocked[d.ConditionKey] {
			continue
		}
		if d.Met(s) {
			unlocks = append(unlocks, Unlock{
				ID:           d.ID,
				ConditionKey: d.ConditionKey,
				Category:     d.Category,
			})
		}
	}
	return unlocks
}

// FirstProjectComplete reports whether the learner has submitted enough
// assignments to cover the starter project. The required count varies per
// locale curriculum and comes from configuration.
func FirstProjectComplete(s stats.Snapshot, requiredAssignments int) bool {
	if requiredAssignments <= 0 {
		return false
	}
	return s.TotalSubmissions >= requiredAssignments
}

// Onboarding checklist conditions counted by MissingTasks.
var onboardingConditions = []shared.ConditionKey{
	"firstAssignment",
	"fifthAssignment",
	"slackRegistration",
	"referFirstFriend",
}

// MissingTasks counts the onboarding steps the learner has not completed:
// the four onboarding badge conditions plus finishing the starter project.
func MissingTasks(unlocked map[shared.ConditionKey]bool, firstProjectComplete bool) int {
	missing := 0
	for _, key := range onboardingConditions {
		if !unlocked[key] {
			missing++
		}
	}
	if !firstProjectComplete {
		missing++
	}
	return missing
}
