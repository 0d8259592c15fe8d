package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/example/arret/internal/ports/secondary"
)

func TestTerminalView_Mounting(t *testing.T) {
	view := NewTerminalView(&bytes.Buffer{}, "tpaa")

	if !view.Mounted("tpaa") || view.Mounted("pw") {
		t.Error("expected only tpaa mounted")
	}
	view.Mount("calendar")
	if !view.Mounted("calendar") {
		t.Error("expected calendar mounted")
	}
	view.Unmount()
	if view.Mounted("tpaa") {
		t.Error("expected nothing mounted")
	}
}

func TestTerminalView_RenderTableAndPatch(t *testing.T) {
	var out bytes.Buffer
	view := NewTerminalView(&out, "pw")
	ctx := context.Background()

	err := view.RenderTable(ctx, "pw", []secondary.ViewRow{
		{Key: "pw-200-0020-POS2", Order: "200", Designation: "PW-10", OffsetLabel: "10 j", TargetDate: "2026-03-22", EffectiveDate: "2026-03-22", Status: "Terminé", SAPDate: true},
	})
	if err != nil {
		t.Fatalf("RenderTable failed: %v", err)
	}
	if err := view.PatchRowDate(ctx, "pw", secondary.DatePatch{RowKey: "pw-200-0020-POS2", Adjustment: -2, TargetDate: "2026-03-22", EffectiveDate: "2026-03-20"}); err != nil {
		t.Fatalf("PatchRowDate failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{"PW (1)", "Terminé [SAP]", "↻ pw-200-0020-POS2: 2026-03-22 → 2026-03-20 (-2 j)"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, got)
		}
	}
}

func TestTerminalView_RenderCalendar(t *testing.T) {
	var out bytes.Buffer
	view := NewTerminalView(&out, "calendar")

	days := make([]secondary.ViewCalendarDay, 3)
	for i := range days {
		days[i] = secondary.ViewCalendarDay{Day: i + 1}
	}
	days[1].TPAA = []string{"TPAA-3 - 100", "TPAA-2 - 101"}
	days[2].PW = []string{"PW-1 - 200"}
	days[2].Today = true

	err := view.RenderCalendar(context.Background(), &secondary.ViewCalendar{
		Title:         "Avril 2026",
		DayNames:      []string{"Dim", "Lun", "Mar", "Mer", "Jeu", "Ven", "Sam"},
		LeadingBlanks: 3,
		Days:          days,
	})
	if err != nil {
		t.Fatalf("RenderCalendar failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Avril 2026", "Dim", " 2 T2", " 3 P1"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, got)
		}
	}
}

func TestTerminalView_EmptyCalendar(t *testing.T) {
	var out bytes.Buffer
	view := NewTerminalView(&out, "calendar")

	if err := view.RenderCalendar(context.Background(), &secondary.ViewCalendar{Title: "Mai 2026", Empty: true}); err != nil {
		t.Fatalf("RenderCalendar failed: %v", err)
	}
	if !strings.Contains(out.String(), "Aucune donnée TPAA/PW") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestTerminalNotifier(t *testing.T) {
	var out, errOut bytes.Buffer
	n := NewTerminalNotifier(&out, &errOut)

	n.Warn(context.Background(), "Sauvegarde impossible")
	n.Alert(context.Background(), "Données mises à jour")

	if !strings.Contains(errOut.String(), "Sauvegarde impossible") || strings.Contains(out.String(), "Sauvegarde") {
		t.Error("expected warnings on errOut only")
	}
	if !strings.Contains(out.String(), "Données mises à jour") {
		t.Error("expected alert on out")
	}
}
