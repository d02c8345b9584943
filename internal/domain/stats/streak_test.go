package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(loc *time.Location, y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func TestLongestStreak(t *testing.T) {
	loc := time.UTC

	t.Run("empty history", func(t *testing.T) {
		assert.Equal(t, 0, LongestStreak(nil, loc))
	})

	t.Run("single day", func(t *testing.T) {
		days := []time.Time{day(loc, 2024, time.January, 10)}
		assert.Equal(t, 1, LongestStreak(days, loc))
	})

	t.Run("three consecutive days", func(t *testing.T) {
		days := []time.Time{
			day(loc, 2024, time.January, 10),
			day(loc, 2024, time.January, 11),
			day(loc, 2024, time.January, 12),
		}
		assert.Equal(t, 3, LongestStreak(days, loc))
	})

	t.Run("gap resets the run", func(t *testing.T) {
		days := []time.Time{
			day(loc, 2024, time.January, 1),
			day(loc, 2024, time.January, 2),
			day(loc, 2024, time.January, 5),
			day(loc, 2024, time.January, 6),
			day(loc, 2024, time.January, 7),
		}
		assert.Equal(t, 3, LongestStreak(days, loc))
	})

	t.Run("same-day duplicates do not inflate", func(t *testing.T) {
		days := []time.Time{
			day(loc, 2024, time.January, 10),
			day(loc, 2024, time.January, 10),
			day(loc, 2024, time.January, 10),
			day(loc, 2024, time.January, 11),
		}
		assert.Equal(t, 2, LongestStreak(days, loc))
	})

	t.Run("consecutive run of k days yields k", func(t *testing.T) {
		for k := 1; k <= 10; k++ {
			days := make([]time.Time, 0, k)
			for i := 0; i < k; i++ {
				days = append(days, day(loc, 2024, time.March, 1).AddDate(0, 0, i))
			}
			assert.Equal(t, k, LongestStreak(days, loc), "k=%d", k)
		}
	})
}

func TestHasStreakOfDays(t *testing.T) {
	loc := time.UTC
	days := []time.Time{
		day(loc, 2024, time.January, 10),
		day(loc, 2024, time.January, 11),
		day(loc, 2024, time.January, 12),
	}

	assert.True(t, HasStreakOfDays(days, loc, 3))
	assert.True(t, HasStreakOfDays(days, loc, 2))
	assert.False(t, HasStreakOfDays(days, loc, 4))
	assert.False(t, HasStreakOfDays(nil, loc, 1))
}

func TestCurrentStreak(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, time.January, 12, 15, 0, 0, 0, loc)

	t.Run("active streak ending today", func(t *testing.T) {
		days := []time.Time{
			day(loc, 2024, time.January, 10),
			day(loc, 2024, time.January, 11),
			day(loc, 2024, time.January, 12),
		}
		assert.Equal(t, 3, CurrentStreak(days, loc, now))
	})

	t.Run("streak alive via yesterday", func(t *testing.T) {
		days := []time.Time{
			day(loc, 2024, time.January, 10),
			day(loc, 2024, time.January, 11),
		}
		assert.Equal(t, 2, CurrentStreak(days, loc, now))
	})

	t.Run("broken when latest activity is older than yesterday", func(t *testing.T) {
		days := []time.Time{
			day(loc, 2024, time.January, 8),
			day(loc, 2024, time.January, 9),
			day(loc, 2024, time.January, 10),
		}
		assert.Equal(t, 0, CurrentStreak(days, loc, now))
	})

	t.Run("stops at the first gap walking back", func(t *testing.T) {
		days := []time.Time{
			day(loc, 2024, time.January, 5),
			day(loc, 2024, time.January, 6),
			day(loc, 2024, time.January, 11),
			day(loc, 2024, time.January, 12),
		}
		assert.Equal(t, 2, CurrentStreak(days, loc, now))
	})

	t.Run("empty history", func(t *testing.T) {
		assert.Equal(t, 0, CurrentStreak(nil, loc, now))
	})

	t.Run("duplicates are transparent", func(t *testing.T) {
		days := []time.Time{
			day(loc, 2024, time.January, 11),
			day(loc, 2024, time.January, 12),
			day(loc, 2024, time.January, 12),
		}
		assert.Equal(t, 2, CurrentStreak(days, loc, now))
	})
}
