package schedule

import (
	"testing"
	"time"

	"github.com/example/arret/internal/core/designation"
)

func TestCalculateWeeksOffsetDate(t *testing.T) {
	tests := []struct {
		name  string
		weeks int
		start string
		want  string
	}{
		{name: "three weeks before", weeks: 3, start: "2026-04-01", want: "2026-03-11"},
		{name: "zero weeks", weeks: 0, start: "2026-04-01", want: "2026-04-01"},
		{name: "across year boundary", weeks: 2, start: "2026-01-05", want: "2025-12-22"},
		{name: "across leap day", weeks: 1, start: "2028-03-03", want: "2028-02-25"},
		{name: "across DST spring forward", weeks: 1, start: "2026-03-10", want: "2026-03-03"},
		{name: "across DST fall back", weeks: 1, start: "2026-11-03", want: "2026-10-27"},
		{name: "rfc3339 start", weeks: 1, start: "2026-04-01T00:00:00Z", want: "2026-03-25"},
		{name: "empty start", weeks: 3, start: "", want: ""},
		{name: "garbage start", weeks: 3, start: "bientôt", want: ""},
		{name: "impossible date", weeks: 1, start: "2026-02-30", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateWeeksOffsetDate(tt.weeks, tt.start); got != tt.want {
				t.Errorf("CalculateWeeksOffsetDate(%d, %q) = %q, want %q", tt.weeks, tt.start, got, tt.want)
			}
		})
	}
}

func TestCalculateDaysOffsetDate(t *testing.T) {
	tests := []struct {
		name  string
		days  int
		start string
		want  string
	}{
		{name: "ten days before", days: 10, start: "2026-04-01", want: "2026-03-22"},
		{name: "month boundary", days: 1, start: "2026-03-01", want: "2026-02-28"},
		{name: "empty start", days: 10, start: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateDaysOffsetDate(tt.days, tt.start); got != tt.want {
				t.Errorf("CalculateDaysOffsetDate(%d, %q) = %q, want %q", tt.days, tt.start, got, tt.want)
			}
		})
	}
}

func TestCalculateWeeksOffsetDate_MatchesCalendarArithmetic(t *testing.T) {
	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	for day := 0; day < 366; day += 5 {
		d := start.AddDate(0, 0, day)
		for w := 0; w <= 60; w += 7 {
			got := CalculateWeeksOffsetDate(w, FormatDate(d))
			want := FormatDate(d.AddDate(0, 0, -7*w))
			if got != want {
				t.Fatalf("CalculateWeeksOffsetDate(%d, %s) = %s, want %s", w, FormatDate(d), got, want)
			}
			parsed, ok := ParseDate(got)
			if !ok || FormatDate(parsed) != got {
				t.Fatalf("result %q does not round-trip through ParseDate", got)
			}
		}
	}
}

func TestCalculateWeeksOffsetDate_IndependentOfLocalZone(t *testing.T) {
	loc, err := time.LoadLocation("America/Toronto")
	if err != nil {
		t.Skipf("zoneinfo unavailable: %v", err)
	}
	orig := time.Local
	time.Local = loc
	t.Cleanup(func() { time.Local = orig })

	if got := CalculateWeeksOffsetDate(1, "2026-03-10"); got != "2026-03-03" {
		t.Errorf("got %q, want 2026-03-03", got)
	}
}

func TestShiftDays(t *testing.T) {
	if got := ShiftDays("2026-03-11", 7); got != "2026-03-18" {
		t.Errorf("ShiftDays +7 = %q", got)
	}
	if got := ShiftDays("2026-03-11", -14); got != "2026-02-25" {
		t.Errorf("ShiftDays -14 = %q", got)
	}
	if got := ShiftDays("", 7); got != "" {
		t.Errorf("ShiftDays on empty = %q, want empty", got)
	}
}

func TestEffectiveDate(t *testing.T) {
	if got := EffectiveDate("2026-03-11", 0); got != "2026-03-11" {
		t.Errorf("zero adjustment changed date: %q", got)
	}
	if got := EffectiveDate("", 7); got != "" {
		t.Errorf("empty target produced %q", got)
	}
	if got := EffectiveDate("2026-03-11", 7); got != "2026-03-18" {
		t.Errorf("EffectiveDate +7 = %q", got)
	}
}

func TestDerive(t *testing.T) {
	got := Derive(designation.Designation{Kind: designation.KindTPAA, Offset: 3}, "2026-04-01")
	if got.Offset != 3 || got.TargetDate != "2026-03-11" {
		t.Errorf("Derive TPAA = %+v", got)
	}

	got = Derive(designation.Designation{Kind: designation.KindPW, Offset: 10}, "2026-04-01")
	if got.TargetDate != "2026-03-22" {
		t.Errorf("Derive PW = %+v", got)
	}

	got = Derive(designation.Designation{Kind: designation.KindPW, Offset: 10}, "")
	if got.TargetDate != "" || got.Offset != 10 {
		t.Errorf("Derive without start date = %+v", got)
	}
}
