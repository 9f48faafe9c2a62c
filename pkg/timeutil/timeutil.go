// Package timeutil provides timezone utilities for Riyadh timezone (UTC+3).
// The mentorship program operates on Riyadh local time: session slots,
// reminders, and quiet hours are all interpreted in that zone.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// RiyadhTZ is the Riyadh timezone (UTC+3, no DST).
// Saudi Arabia does not observe DST, so this is constant year-round.
var RiyadhTZ = time.FixedZone("Asia/Riyadh", 3*60*60)

// Now returns the current time in Riyadh timezone.
func Now() time.Time {
	return time.Now().In(RiyadhTZ)
}

// ToRiyadh converts a time to Riyadh timezone.
func ToRiyadh(t time.Time) time.Time {
	return t.In(RiyadhTZ)
}

// ToUTC converts a time to UTC.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// Date creates a time in Riyadh timezone with the given date.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, RiyadhTZ)
}

// DateTime creates a time in Riyadh timezone with the given date and time.
func DateTime(year, month, day, hour, min, sec int) time.Time {
	return time.Date(year, time.Month(month), day, hour, min, sec, 0, RiyadhTZ)
}

// StartOfDay returns the start of the day (00:00:00) in Riyadh timezone.
func StartOfDay(t time.Time) time.Time {
	local := ToRiyadh(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, RiyadhTZ)
}

// EndOfDay returns the end of the day (23:59:59.999999999) in Riyadh timezone.
func EndOfDay(t time.Time) time.Time {
	local := ToRiyadh(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 999999999, RiyadhTZ)
}

// StartOfWeek returns the start of the week (Sunday 00:00:00) in Riyadh timezone.
// The Saudi work week runs Sunday through Thursday.
func StartOfWeek(t time.Time) time.Time {
	local := ToRiyadh(t)
	daysToSubtract := int(local.Weekday()) // Sunday = 0
	return StartOfDay(local.AddDate(0, 0, -daysToSubtract))
}

// EndOfWeek returns the end of the week (Saturday 23:59:59) in Riyadh timezone.
func EndOfWeek(t time.Time) time.Time {
	start := StartOfWeek(t)
	return EndOfDay(start.AddDate(0, 0, 6))
}

// StartOfMonth returns the start of the month in Riyadh timezone.
func StartOfMonth(t time.Time) time.Time {
	local := ToRiyadh(t)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, RiyadhTZ)
}

// EndOfMonth returns the end of the month in Riyadh timezone.
func EndOfMonth(t time.Time) time.Time {
	start := StartOfMonth(t)
	return EndOfDay(start.AddDate(0, 1, -1))
}

// IsToday checks if the given time is today in Riyadh timezone.
func IsToday(t time.Time) bool {
	now := Now()
	local := ToRiyadh(t)
	return local.Year() == now.Year() &&
		local.Month() == now.Month() &&
		local.Day() == now.Day()
}

// IsWeekend checks if the given time is on a weekend (Friday or Saturday).
func IsWeekend(t time.Time) bool {
	weekday := ToRiyadh(t).Weekday()
	return weekday == time.Friday || weekday == time.Saturday
}

// IsWorkday checks if the given time is on a workday (Sunday through Thursday).
func IsWorkday(t time.Time) bool {
	return !IsWeekend(t)
}

// DaysSince calculates the number of days since the given time.
func DaysSince(t time.Time) int {
	now := StartOfDay(Now())
	then := StartOfDay(t)
	return int(now.Sub(then).Hours() / 24)
}

// DaysBetween calculates the number of days between two times.
func DaysBetween(t1, t2 time.Time) int {
	d1 := StartOfDay(t1)
	d2 := StartOfDay(t2)
	days := int(d2.Sub(d1).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

// Common date/time formats.
const (
	// FormatDate is the standard date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatTime is the standard time format (HH:MM).
	FormatTime = "15:04"
	// FormatDateTime is the standard datetime format.
	FormatDateTime = "2006-01-02 15:04"
	// FormatDateTimeSeconds includes seconds.
	FormatDateTimeSeconds = "2006-01-02 15:04:05"
	// FormatHumanDate is a human-readable format.
	FormatHumanDate = "2 January 2006"
	// FormatSessionSlot is the format used in session notifications.
	FormatSessionSlot = "Mon, 02 Jan 2006 15:04 MST"
)

// FormatRiyadh formats a time in Riyadh timezone with the given layout.
func FormatRiyadh(t time.Time, layout string) string {
	return ToRiyadh(t).Format(layout)
}

// FormatDateStr formats a time as a date string (YYYY-MM-DD) in Riyadh timezone.
func FormatDateStr(t time.Time) string {
	return FormatRiyadh(t, FormatDate)
}

// FormatTimeStr formats a time as a time string (HH:MM) in Riyadh timezone.
func FormatTimeStr(t time.Time) string {
	return FormatRiyadh(t, FormatTime)
}

// FormatDateTimeStr formats a time as datetime string in Riyadh timezone.
func FormatDateTimeStr(t time.Time) string {
	return FormatRiyadh(t, FormatDateTime)
}

// FormatRelative returns a human-readable relative time string.
func FormatRelative(t time.Time) string {
	now := Now()
	local := ToRiyadh(t)
	duration := now.Sub(local)

	if duration < 0 {
		return formatFutureDuration(-duration)
	}

	return formatPastDuration(duration)
}

func formatPastDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d min ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d h ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "yesterday"
		}
		return fmt.Sprintf("%d days ago", days)
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%d weeks ago", int(d.Hours()/24/7))
	default:
		months := int(d.Hours() / 24 / 30)
		if months < 12 {
			return fmt.Sprintf("%d months ago", months)
		}
		return fmt.Sprintf("%d years ago", months/12)
	}
}

func formatFutureDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("in %d min", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("in %d h", int(d.Hours()))
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "tomorrow"
		}
		return fmt.Sprintf("in %d days", days)
	}
}

// ParseRiyadh parses a time string in Riyadh timezone.
func ParseRiyadh(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, RiyadhTZ)
}

// ParseDateRiyadh parses a date string (YYYY-MM-DD) in Riyadh timezone.
func ParseDateRiyadh(value string) (time.Time, error) {
	return ParseRiyadh(FormatDate, value)
}

// ParseDateTimeRiyadh parses a datetime string in Riyadh timezone.
func ParseDateTimeRiyadh(value string) (time.Time, error) {
	return ParseRiyadh(FormatDateTime, value)
}

// Notification timing helpers.

// IsSafeNotificationTime checks if it's appropriate to send notifications (9:00-22:00).
func IsSafeNotificationTime(t time.Time) bool {
	hour := ToRiyadh(t).Hour()
	return hour >= 9 && hour < 22
}

// NextSafeNotificationTime returns the next time when notifications are appropriate.
func NextSafeNotificationTime(t time.Time) time.Time {
	local := ToRiyadh(t)
	hour := local.Hour()

	if hour < 9 {
		return DateTime(local.Year(), int(local.Month()), local.Day(), 9, 0, 0)
	}
	if hour >= 22 {
		tomorrow := local.AddDate(0, 0, 1)
		return DateTime(tomorrow.Year(), int(tomorrow.Month()), tomorrow.Day(), 9, 0, 0)
	}

	return local
}
