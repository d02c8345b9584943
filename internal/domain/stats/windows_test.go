package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowMatches(t *testing.T) {
	loc := time.UTC

	t.Run("night spans late evening and small hours", func(t *testing.T) {
		assert.True(t, WindowNight.Matches(time.Date(2024, time.June, 3, 22, 0, 0, 0, loc), loc))
		assert.True(t, WindowNight.Matches(time.Date(2024, time.June, 3, 23, 59, 0, 0, loc), loc))
		assert.True(t, WindowNight.Matches(time.Date(2024, time.June, 3, 2, 59, 0, 0, loc), loc))
		assert.False(t, WindowNight.Matches(time.Date(2024, time.June, 3, 3, 0, 0, 0, loc), loc))
		assert.False(t, WindowNight.Matches(time.Date(2024, time.June, 3, 21, 59, 0, 0, loc), loc))
	})

	t.Run("early morning is a half-open hour range", func(t *testing.T) {
		assert.True(t, WindowEarlyMorning.Matches(time.Date(2024, time.June, 3, 3, 0, 0, 0, loc), loc))
		assert.True(t, WindowEarlyMorning.Matches(time.Date(2024, time.June, 3, 6, 59, 0, 0, loc), loc))
		assert.False(t, WindowEarlyMorning.Matches(time.Date(2024, time.June, 3, 7, 0, 0, 0, loc), loc))
		assert.False(t, WindowEarlyMorning.Matches(time.Date(2024, time.June, 3, 2, 59, 0, 0, loc), loc))
	})

	t.Run("a submission at hour 23 is night only", func(t *testing.T) {
		ts := time.Date(2024, time.June, 5, 23, 0, 0, 0, loc) // Wednesday
		assert.True(t, WindowNight.Matches(ts, loc))
		assert.False(t, WindowEarlyMorning.Matches(ts, loc))
		assert.False(t, WindowWeekend.Matches(ts, loc))
	})

	t.Run("a submission at hour 5 is early morning only", func(t *testing.T) {
		ts := time.Date(2024, time.June, 5, 5, 0, 0, 0, loc)
		assert.True(t, WindowEarlyMorning.Matches(ts, loc))
		assert.False(t, WindowNight.Matches(ts, loc))
	})

	t.Run("weekend covers Saturday and Sunday", func(t *testing.T) {
		assert.True(t, WindowWeekend.Matches(time.Date(2024, time.June, 8, 12, 0, 0, 0, loc), loc))
		assert.True(t, WindowWeekend.Matches(time.Date(2024, time.June, 9, 12, 0, 0, 0, loc), loc))
		assert.False(t, WindowWeekend.Matches(time.Date(2024, time.June, 10, 12, 0, 0, 0, loc), loc))
	})

	t.Run("friday the 13th late at night is in two windows", func(t *testing.T) {
		ts := time.Date(2024, time.September, 13, 23, 45, 0, 0, loc)
		assert.True(t, WindowNight.Matches(ts, loc))
		assert.True(t, WindowUnluckyDay.Matches(ts, loc))
		assert.False(t, WindowWeekend.Matches(ts, loc))
		assert.False(t, WindowNewYearsDay.Matches(ts, loc))
	})

	t.Run("thirteenth on a non-friday does not count", func(t *testing.T) {
		ts := time.Date(2024, time.June, 13, 12, 0, 0, 0, loc) // Thursday
		assert.False(t, WindowUnluckyDay.Matches(ts, loc))
	})

	t.Run("new years day", func(t *testing.T) {
		assert.True(t, WindowNewYearsDay.Matches(time.Date(2024, time.January, 1, 0, 30, 0, 0, loc), loc))
		assert.False(t, WindowNewYearsDay.Matches(time.Date(2023, time.December, 31, 23, 59, 0, 0, loc), loc))
	})

	t.Run("windows honor the learner timezone", func(t *testing.T) {
		almaty := time.FixedZone("Asia/Almaty", 5*60*60)
		// 18:30 UTC is 23:30 in Almaty.
		ts := time.Date(2024, time.June, 3, 18, 30, 0, 0, time.UTC)
		assert.False(t, WindowNight.Matches(ts, time.UTC))
		assert.True(t, WindowNight.Matches(ts, almaty))
	})
}

func TestCountInWindow(t *testing.T) {
	loc := time.UTC
	times := []time.Time{
		time.Date(2024, time.June, 3, 22, 15, 0, 0, loc),
		time.Date(2024, time.June, 4, 1, 0, 0, 0, loc),
		time.Date(2024, time.June, 4, 5, 0, 0, 0, loc),
		time.Date(2024, time.June, 8, 14, 0, 0, 0, loc), // Saturday afternoon
	}

	assert.Equal(t, 2, CountInWindow(times, loc, WindowNight))
	assert.Equal(t, 1, CountInWindow(times, loc, WindowEarlyMorning))
	assert.Equal(t, 1, CountInWindow(times, loc, WindowWeekend))
	assert.Equal(t, 0, CountInWindow(times, loc, WindowUnluckyDay))

	assert.True(t, HasAtLeastInWindow(times, loc, WindowNight, 2))
	assert.False(t, HasAtLeastInWindow(times, loc, WindowNight, 3))
}
