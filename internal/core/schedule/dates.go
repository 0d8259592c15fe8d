// Package schedule contains the pure date arithmetic for TPAA/PW scheduling.
// Dates are civil calendar dates handled in UTC so that subtracting days
// never drifts across daylight-saving transitions.
// This is part of the Functional Core - no I/O, only pure functions.
package schedule

import (
	"strings"
	"time"

	"github.com/example/arret/internal/core/designation"
)

// DateLayout is the ISO calendar date format used everywhere at the boundary.
const DateLayout = "2006-01-02"

// DerivedSchedule is recomputed on every render and never persisted.
type DerivedSchedule struct {
	Offset     int    // weeks for TPAA, days for PW; 0 if unparsable
	TargetDate string // YYYY-MM-DD, empty when no valid start date
}

// ParseDate parses an ISO date ("2026-04-01") or an RFC 3339 timestamp and
// returns the calendar date at UTC midnight.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		u := t.UTC()
		return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// FormatDate formats a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// CalculateWeeksOffsetDate returns startDate minus weeks*7 calendar days.
// Returns "" when startDate is empty or unparsable.
func CalculateWeeksOffsetDate(weeks int, startDate string) string {
	return CalculateDaysOffsetDate(weeks*7, startDate)
}

// CalculateDaysOffsetDate returns startDate minus days calendar days.
// Returns "" when startDate is empty or unparsable.
func CalculateDaysOffsetDate(days int, startDate string) string {
	start, ok := ParseDate(startDate)
	if !ok {
		return ""
	}
	return FormatDate(start.AddDate(0, 0, -days))
}

// ShiftDays moves a date forward (positive) or backward (negative) by days.
// An empty or invalid date stays empty.
func ShiftDays(date string, days int) string {
	t, ok := ParseDate(date)
	if !ok {
		return ""
	}
	if days == 0 {
		return FormatDate(t)
	}
	return FormatDate(t.AddDate(0, 0, days))
}

// Derive computes the schedule for a classified designation.
func Derive(d designation.Designation, startDate string) DerivedSchedule {
	var target string
	switch d.Kind {
	case designation.KindTPAA:
		target = CalculateWeeksOffsetDate(d.Offset, startDate)
	case designation.KindPW:
		target = CalculateDaysOffsetDate(d.Offset, startDate)
	}
	return DerivedSchedule{Offset: d.Offset, TargetDate: target}
}

// EffectiveDate applies a manual day adjustment to a target date.
// When the target is empty or the adjustment is zero the target is returned unchanged.
func EffectiveDate(targetDate string, adjustment int) string {
	if targetDate == "" || adjustment == 0 {
		return targetDate
	}
	return ShiftDays(targetDate, adjustment)
}
