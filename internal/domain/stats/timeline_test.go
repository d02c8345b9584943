package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrylearn/badge-hub/internal/domain/learner"
	"github.com/berrylearn/badge-hub/internal/domain/shared"
)

func buildLog(t *testing.T, times ...time.Time) learner.SubmissionLog {
	t.Helper()
	log := make(learner.SubmissionLog)
	lesson, err := shared.NewLessonID("html-basics")
	require.NoError(t, err)
	for i, ts := range times {
		assignment, err := shared.NewAssignmentID("assignment0" + string(rune('1'+i%9)))
		require.NoError(t, err)
		log.Append(lesson, assignment, learner.SubmissionRecord{CreatedAt: ts, Value: "ok"})
	}
	return log
}

func TestSubmissionTimes(t *testing.T) {
	loc := time.UTC

	t.Run("collects every timestamped record", func(t *testing.T) {
		a := time.Date(2024, time.January, 10, 9, 0, 0, 0, loc)
		b := time.Date(2024, time.January, 11, 9, 0, 0, 0, loc)
		log := buildLog(t, a, b)

		times := SubmissionTimes(log)
		assert.Len(t, times, 2)
	})

	t.Run("skips records without a timestamp", func(t *testing.T) {
		log := make(learner.SubmissionLog)
		lesson, _ := shared.NewLessonID("html-basics")
		assignment, _ := shared.NewAssignmentID("assignment01")
		log.Append(lesson, assignment, learner.SubmissionRecord{Value: "no clock"})

		assert.Empty(t, SubmissionTimes(log))
	})

	t.Run("empty log yields no times", func(t *testing.T) {
		assert.Empty(t, SubmissionTimes(make(learner.SubmissionLog)))
	})
}

func TestActivityDays(t *testing.T) {
	loc := time.UTC

	t.Run("sorted ascending regardless of insertion order", func(t *testing.T) {
		log := buildLog(t,
			time.Date(2024, time.January, 12, 9, 0, 0, 0, loc),
			time.Date(2024, time.January, 10, 9, 0, 0, 0, loc),
			time.Date(2024, time.January, 11, 9, 0, 0, 0, loc),
		)

		days := ActivityDays(log, loc)
		require.Len(t, days, 3)
		assert.Equal(t, 10, days[0].Day())
		assert.Equal(t, 11, days[1].Day())
		assert.Equal(t, 12, days[2].Day())
	})

	t.Run("truncates to local midnight", func(t *testing.T) {
		log := buildLog(t, time.Date(2024, time.January, 10, 23, 45, 0, 0, loc))

		days := ActivityDays(log, loc)
		require.Len(t, days, 1)
		assert.Equal(t, time.Date(2024, time.January, 10, 0, 0, 0, 0, loc), days[0])
	})

	t.Run("timezone shifts the calendar day", func(t *testing.T) {
		almaty := time.FixedZone("Asia/Almaty", 5*60*60)
		// 21:00 UTC on the 10th is already the 11th in Almaty.
		log := buildLog(t, time.Date(2024, time.January, 10, 21, 0, 0, 0, time.UTC))

		utcDays := ActivityDays(log, time.UTC)
		localDays := ActivityDays(log, almaty)
		require.Len(t, utcDays, 1)
		require.Len(t, localDays, 1)
		assert.Equal(t, 10, utcDays[0].Day())
		assert.Equal(t, 11, localDays[0].Day())
	})

	t.Run("streaks ignore same-day duplicates end to end", func(t *testing.T) {
		log := buildLog(t,
			time.Date(2024, time.January, 10, 9, 0, 0, 0, loc),
			time.Date(2024, time.January, 10, 18, 0, 0, 0, loc),
			time.Date(2024, time.January, 11, 9, 0, 0, 0, loc),
			time.Date(2024, time.January, 12, 9, 0, 0, 0, loc),
		)

		days := ActivityDays(log, loc)
		assert.Equal(t, 3, LongestStreak(days, loc))
		assert.True(t, HasStreakOfDays(days, loc, 3))
	})
}
