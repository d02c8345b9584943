package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLocationOrDefault(t *testing.T) {
	assert.Equal(t, DefaultLocation, LoadLocationOrDefault(""))
	assert.Equal(t, DefaultLocation, LoadLocationOrDefault("Not/AZone"))

	loc := LoadLocationOrDefault("Europe/Budapest")
	assert.Equal(t, "Europe/Budapest", loc.String())
}

func TestDayOrdinal_AdjacentAcrossDST(t *testing.T) {
	budapest, err := time.LoadLocation("Europe/Budapest")
	require.NoError(t, err)

	// 2024-03-31 is the spring-forward day in Budapest (23 real hours).
	before := time.Date(2024, 3, 30, 23, 50, 0, 0, budapest)
	after := time.Date(2024, 3, 31, 23, 50, 0, 0, budapest)

	assert.Equal(t, 1, DayOrdinal(after, budapest)-DayOrdinal(before, budapest))
	assert.True(t, IsNextDayIn(before, after, budapest))
}

func TestIsSameDayIn_TimezoneBoundary(t *testing.T) {
	almaty := time.FixedZone("Asia/Almaty", 5*60*60)

	// 21:00 UTC and 23:00 UTC are the same UTC day but different Almaty days.
	a := time.Date(2024, 1, 10, 18, 0, 0, 0, time.UTC)
	b := time.Date(2024, 1, 10, 23, 0, 0, 0, time.UTC)

	assert.True(t, IsSameDayIn(a, b, time.UTC))
	assert.False(t, IsSameDayIn(a, b, almaty))
}

func TestDaysBetweenIn(t *testing.T) {
	a := time.Date(2024, 1, 10, 14, 0, 0, 0, time.UTC)
	b := time.Date(2024, 1, 13, 2, 0, 0, 0, time.UTC)

	assert.Equal(t, 3, DaysBetweenIn(a, b, time.UTC))
	assert.Equal(t, -3, DaysBetweenIn(b, a, time.UTC))
	assert.Equal(t, 0, DaysBetweenIn(a, a, time.UTC))
}

func TestCalendarPredicates(t *testing.T) {
	loc := time.UTC

	saturday := time.Date(2024, 9, 14, 12, 0, 0, 0, loc)
	friday13 := time.Date(2024, 9, 13, 23, 45, 0, 0, loc)
	newYear := time.Date(2024, 1, 1, 0, 30, 0, 0, loc)

	assert.True(t, IsWeekendIn(saturday, loc))
	assert.False(t, IsWeekendIn(friday13, loc))
	assert.True(t, IsFridayThe13thIn(friday13, loc))
	assert.False(t, IsFridayThe13thIn(saturday, loc))
	assert.True(t, IsNewYearsDayIn(newYear, loc))
	assert.False(t, IsNewYearsDayIn(friday13, loc))
}

func TestStartOfDayIn(t *testing.T) {
	budapest, err := time.LoadLocation("Europe/Budapest")
	require.NoError(t, err)

	noon := time.Date(2024, 7, 15, 12, 30, 0, 0, budapest)
	start := StartOfDayIn(noon, budapest)

	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, 15, start.Day())
	assert.Equal(t, budapest, start.Location())
}
