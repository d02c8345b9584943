// Package timeutil provides calendar arithmetic in a learner's local time zone.
// Every learner studies in their own IANA time zone, so "the same day" and
// "the next day" are always questions about the learner's local calendar,
// never about elapsed wall-clock duration. All day comparisons go through
// calendar-day ordinals, which keeps streak math correct across DST
// transitions where a local day can be 23 or 25 real hours long.
// No external dependencies - uses only standard library.
package timeutil

import (
	"time"
)

// DefaultLocation is used when a learner has no usable time zone configured.
var DefaultLocation = time.UTC

// LoadLocationOrDefault resolves an IANA time-zone name, falling back to
// DefaultLocation when the name is empty or unknown.
func LoadLocationOrDefault(name string) *time.Location {
	if name == "" {
		return DefaultLocation
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return DefaultLocation
	}
	return loc
}

// StartOfDayIn returns local midnight of the day containing t in loc.
func StartOfDayIn(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// DayOrdinal returns the number of whole calendar days between the epoch and
// the local civil date of t in loc. The civil date is re-anchored in UTC
// before counting, so two ordinals differ by exactly 1 whenever the dates
// are adjacent on the calendar, regardless of DST offsets.
func DayOrdinal(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	anchored := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	return int(anchored.Unix() / 86400)
}

// IsSameDayIn reports whether a and b fall on the same local calendar day.
func IsSameDayIn(a, b time.Time, loc *time.Location) bool {
	return DayOrdinal(a, loc) == DayOrdinal(b, loc)
}

// IsNextDayIn reports whether b falls on the calendar day immediately
// after a in loc.
func IsNextDayIn(a, b time.Time, loc *time.Location) bool {
	return DayOrdinal(b, loc)-DayOrdinal(a, loc) == 1
}

// DaysBetweenIn returns the signed number of calendar days from a to b
// in loc. Positive when b is later on the calendar.
func DaysBetweenIn(a, b time.Time, loc *time.Location) int {
	return DayOrdinal(b, loc) - DayOrdinal(a, loc)
}

// IsWeekendIn reports whether t is a Saturday or Sunday in loc.
func IsWeekendIn(t time.Time, loc *time.Location) bool {
	weekday := t.In(loc).Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// IsFridayThe13thIn reports whether t is a Friday the 13th in loc.
func IsFridayThe13thIn(t time.Time, loc *time.Location) bool {
	local := t.In(loc)
	return local.Weekday() == time.Friday && local.Day() == 13
}

// IsNewYearsDayIn reports whether t is January 1st in loc.
func IsNewYearsDayIn(t time.Time, loc *time.Location) bool {
	local := t.In(loc)
	return local.Month() == time.January && local.Day() == 1
}

// HourIn returns the local hour of t in loc.
func HourIn(t time.Time, loc *time.Location) int {
	return t.In(loc).Hour()
}

// Common date/time formats.
const (
	// FormatDate is the standard date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatDateTime is the standard datetime format.
	FormatDateTime = "2006-01-02 15:04"
	// FormatDateTimeSeconds includes seconds.
	FormatDateTimeSeconds = "2006-01-02 15:04:05"
)

// FormatDateIn formats t as a date string (YYYY-MM-DD) in loc.
func FormatDateIn(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(FormatDate)
}

// ParseDateIn parses a date string (YYYY-MM-DD) as local midnight in loc.
func ParseDateIn(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(FormatDate, value, loc)
}

// Notification timing helpers.

// IsSafeNotificationTime checks if it's appropriate to send notifications
// (9:00-22:00 learner-local).
func IsSafeNotificationTime(t time.Time, loc *time.Location) bool {
	hour := t.In(loc).Hour()
	return hour >= 9 && hour < 22
}
