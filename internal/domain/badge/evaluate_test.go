package badge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrylearn/badge-hub/internal/domain/learner"
	"github.com/berrylearn/badge-hub/internal/domain/shared"
	"github.com/berrylearn/badge-hub/internal/domain/stats"
)

func TestDefinitionMet(t *testing.T) {
	snapshot := stats.Snapshot{
		TotalSubmissions:    25,
		LongestStreak:       7,
		CurrentStreak:       2,
		WindowCounts:        map[stats.Window]int{stats.WindowNight: 10},
		MoodFeedbackCount:   3,
		SurveyFeedbackCount: 0,
		Facts: map[learner.ExternalFact]bool{
			learner.FactCommunityRegistration: true,
		},
		FinishedUnits: map[string]bool{"html-basics": true},
	}

	r := MustNewRegistry(Catalog())

	get := func(id int) Definition {
		d, err := r.Definition(shared.BadgeID(id))
		require.NoError(t, err)
		return d
	}

	assert.True(t, get(1).Met(snapshot), "3-day streak")
	assert.True(t, get(2).Met(snapshot), "7-day streak")
	assert.False(t, get(3).Met(snapshot), "30-day streak")

	assert.True(t, get(35).Met(snapshot), "25 submissions")
	assert.False(t, get(36).Met(snapshot), "100 submissions")

	assert.True(t, get(6).Met(snapshot), "10 night submissions")
	assert.False(t, get(7).Met(snapshot), "no early-morning submissions")

	assert.True(t, get(10).Met(snapshot), "3 mood feedbacks")
	assert.False(t, get(11).Met(snapshot), "no survey feedback")

	assert.True(t, get(12).Met(snapshot), "community registration fact")
	assert.False(t, get(40).Met(snapshot), "referral fact absent")

	assert.True(t, get(15).Met(snapshot), "html basics unit done")
	assert.False(t, get(16).Met(snapshot), "css unit not done")
}

func TestDefinitionProgress(t *testing.T) {
	snapshot := stats.Snapshot{
		TotalSubmissions: 12,
		CurrentStreak:    4,
		WindowCounts:     map[stats.Window]int{stats.WindowWeekend: 6},
		Facts:            map[learner.ExternalFact]bool{learner.FactDiscoveredBug: true},
	}

	r := MustNewRegistry(Catalog())
	get := func(id int) Definition {
		d, err := r.Definition(shared.BadgeID(id))
		require.NoError(t, err)
		return d
	}

	// Streak badges display the live streak, not the historical maximum.
	assert.Equal(t, 4, get(1).Progress(snapshot))
	assert.Equal(t, 12, get(33).Progress(snapshot))
	assert.Equal(t, 6, get(8).Progress(snapshot))
	assert.Equal(t, 1, get(9).Progress(snapshot))
	assert.Equal(t, 0, get(41).Progress(snapshot))
}

func TestEvaluate(t *testing.T) {
	r := MustNewRegistry(Catalog())

	t.Run("empty state and empty signals unlock nothing", func(t *testing.T) {
		unlocks := Evaluate(r, nil, stats.Snapshot{})
		assert.Empty(t, unlocks)
	})

	t.Run("met conditions unlock in catalog order", func(t *testing.T) {
		s := stats.Snapshot{TotalSubmissions: 5, LongestStreak: 3, CurrentStreak: 3}
		unlocks := Evaluate(r, nil, s)

		require.Len(t, unlocks, 3)
		assert.Equal(t, shared.BadgeID(1), unlocks[0].ID)
		assert.Equal(t, shared.BadgeID(33), unlocks[1].ID)
		assert.Equal(t, shared.BadgeID(34), unlocks[2].ID)
	})

	t.Run("already unlocked conditions are skipped", func(t *testing.T) {
		s := stats.Snapshot{TotalSubmissions: 5, LongestStreak: 3, CurrentStreak: 3}
		prior := map[shared.ConditionKey]bool{
			"streak3Days":     true,
			"firstAssignment": true,
		}
		unlocks := Evaluate(r, prior, s)

		require.Len(t, unlocks, 1)
		assert.Equal(t, shared.BadgeID(34), unlocks[0].ID)
	})

	t.Run("re-running with no new activity is a no-op", func(t *testing.T) {
		s := stats.Snapshot{TotalSubmissions: 1}
		first := Evaluate(r, nil, s)
		require.NotEmpty(t, first)

		prior := make(map[shared.ConditionKey]bool)
		for _, u := range first {
			prior[u.ConditionKey] = true
		}
		assert.Empty(t, Evaluate(r, prior, s))
	})

	t.Run("a broken current streak does not relock history", func(t *testing.T) {
		// Longest streak stays at 3 even if the learner pauses.
		s := stats.Snapshot{LongestStreak: 3, CurrentStreak: 0}
		unlocks := Evaluate(r, nil, s)
		require.Len(t, unlocks, 1)
		assert.Equal(t, shared.BadgeID(1), unlocks[0].ID)
	})

	t.Run("hidden badges unlock like any other", func(t *testing.T) {
		s := stats.Snapshot{WindowCounts: map[stats.Window]int{stats.WindowUnluckyDay: 1}}
		unlocks := Evaluate(r, nil, s)
		require.Len(t, unlocks, 1)
		assert.Equal(t, shared.BadgeID(38), unlocks[0].ID)
	})
}

func TestMissingTasks(t *testing.T) {
	t.Run("fresh learner misses everything", func(t *testing.T) {
		assert.Equal(t, 5, MissingTasks(nil, false))
	})

	t.Run("each completed step drops the count", func(t *testing.T) {
		unlocked := map[shared.ConditionKey]bool{
			"firstAssignment":   true,
			"slackRegistration": true,
		}
		assert.Equal(t, 3, MissingTasks(unlocked, false))
		assert.Equal(t, 2, MissingTasks(unlocked, true))
	})

	t.Run("everything done", func(t *testing.T) {
		unlocked := map[shared.ConditionKey]bool{
			"firstAssignment":   true,
			"fifthAssignment":   true,
			"slackRegistration": true,
			"referFirstFriend":  true,
		}
		assert.Equal(t, 0, MissingTasks(unlocked, true))
	})
}

func TestFirstProjectComplete(t *testing.T) {
	s := stats.Snapshot{TotalSubmissions: 14}
	assert.True(t, FirstProjectComplete(s, 14))
	assert.False(t, FirstProjectComplete(s, 15))
	assert.False(t, FirstProjectComplete(s, 0), "unconfigured curriculum never completes")
}
