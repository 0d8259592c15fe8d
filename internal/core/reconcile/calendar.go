package reconcile

import (
	"fmt"
	"time"

	"github.com/example/arret/internal/core/schedule"
)

var monthNames = [...]string{
	"Janvier", "Février", "Mars", "Avril", "Mai", "Juin",
	"Juillet", "Août", "Septembre", "Octobre", "Novembre", "Décembre",
}

// DayNames are the calendar column headers, Sunday first.
var DayNames = [...]string{"Dim", "Lun", "Mar", "Mer", "Jeu", "Ven", "Sam"}

// CalendarDay is one day cell of the month grid.
type CalendarDay struct {
	Date  string
	Day   int
	Today bool
	TPAA  []Row
	PW    []Row
}

// Calendar is a Sunday-first month grid of work placed on effective dates.
type Calendar struct {
	Year          int
	Month         time.Month
	LeadingBlanks int // empty cells before the 1st
	Days          []CalendarDay
	Empty         bool // no TPAA or PW rows at all
}

// Title returns the French month heading, e.g. "Mars 2026".
func (c Calendar) Title() string {
	return MonthTitle(c.Year, c.Month)
}

// MonthTitle formats a month heading in French.
func MonthTitle(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", monthNames[month-1], year)
}

// ShiftMonth moves (year, month) by delta months.
func ShiftMonth(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

// BuildCalendar places rows on their effective dates within the given month.
// Rows without a date are left out. today is a YYYY-MM-DD date.
func BuildCalendar(year int, month time.Month, tpaa, pw []Row, today string) Calendar {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	cal := Calendar{
		Year:          year,
		Month:         month,
		LeadingBlanks: int(first.Weekday()),
		Days:          make([]CalendarDay, daysInMonth),
		Empty:         len(tpaa) == 0 && len(pw) == 0,
	}
	for i := range cal.Days {
		date := schedule.FormatDate(first.AddDate(0, 0, i))
		cal.Days[i] = CalendarDay{Date: date, Day: i + 1, Today: date == today}
	}

	place := func(r Row) (*CalendarDay, bool) {
		t, ok := schedule.ParseDate(r.EffectiveDate)
		if !ok || t.Year() != year || t.Month() != month {
			return nil, false
		}
		return &cal.Days[t.Day()-1], true
	}
	for _, r := range tpaa {
		if d, ok := place(r); ok {
			d.TPAA = append(d.TPAA, r)
		}
	}
	for _, r := range pw {
		if d, ok := place(r); ok {
			d.PW = append(d.PW, r)
		}
	}
	return cal
}
