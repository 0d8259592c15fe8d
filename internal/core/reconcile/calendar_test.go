package reconcile

import (
	"testing"
	"time"
)

func TestBuildCalendar(t *testing.T) {
	tpaa := []Row{
		{Designation: "TPAA-3", EffectiveDate: "2026-03-18"},
		{Designation: "TPAA-2", EffectiveDate: "2026-03-18"},
		{Designation: "TPAA-9", EffectiveDate: "2026-04-01"},
		{Designation: "TPAA", EffectiveDate: ""},
	}
	pw := []Row{{Designation: "PW-10", EffectiveDate: "2026-03-01"}}

	cal := BuildCalendar(2026, time.March, tpaa, pw, "2026-03-18")

	if cal.LeadingBlanks != 0 {
		t.Errorf("LeadingBlanks = %d, want 0 (1 March 2026 is a Sunday)", cal.LeadingBlanks)
	}
	if len(cal.Days) != 31 {
		t.Fatalf("days = %d, want 31", len(cal.Days))
	}
	day18 := cal.Days[17]
	if day18.Date != "2026-03-18" || len(day18.TPAA) != 2 || !day18.Today {
		t.Errorf("day 18 = %+v", day18)
	}
	if len(cal.Days[0].PW) != 1 {
		t.Errorf("PW on 1 March = %d, want 1", len(cal.Days[0].PW))
	}
	if cal.Empty {
		t.Error("calendar should not be empty")
	}
	if cal.Title() != "Mars 2026" {
		t.Errorf("Title = %q", cal.Title())
	}
}

func TestBuildCalendar_LeapFebruary(t *testing.T) {
	cal := BuildCalendar(2028, time.February, nil, nil, "")
	if len(cal.Days) != 29 {
		t.Errorf("days = %d, want 29", len(cal.Days))
	}
	if cal.LeadingBlanks != 2 {
		t.Errorf("LeadingBlanks = %d, want 2 (1 February 2028 is a Tuesday)", cal.LeadingBlanks)
	}
	if !cal.Empty {
		t.Error("calendar without rows should be empty")
	}
}

func TestShiftMonth(t *testing.T) {
	tests := []struct {
		year      int
		month     time.Month
		delta     int
		wantYear  int
		wantMonth time.Month
	}{
		{2026, time.January, -1, 2025, time.December},
		{2026, time.December, 1, 2027, time.January},
		{2026, time.March, 0, 2026, time.March},
	}
	for _, tt := range tests {
		y, m := ShiftMonth(tt.year, tt.month, tt.delta)
		if y != tt.wantYear || m != tt.wantMonth {
			t.Errorf("ShiftMonth(%d, %s, %d) = %d %s", tt.year, tt.month, tt.delta, y, m)
		}
	}
}
