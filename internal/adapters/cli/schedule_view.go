package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/example/arret/internal/ports/secondary"
)

// TerminalView implements secondary.ScheduleView by printing to a terminal.
// Only mounted targets are displayed.
type TerminalView struct {
	mu      sync.Mutex
	out     io.Writer
	mounted map[string]bool
}

// NewTerminalView creates a TerminalView with the given targets mounted.
func NewTerminalView(out io.Writer, targets ...string) *TerminalView {
	v := &TerminalView{out: out, mounted: make(map[string]bool)}
	v.Mount(targets...)
	return v
}

// Mount makes targets ("tpaa", "pw", "calendar") visible.
func (v *TerminalView) Mount(targets ...string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, t := range targets {
		v.mounted[t] = true
	}
}

// Unmount hides every target.
func (v *TerminalView) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	clear(v.mounted)
}

// Mounted reports whether target is displayed.
func (v *TerminalView) Mounted(target string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mounted[target]
}

// RenderTable prints a whole table.
func (v *TerminalView) RenderTable(ctx context.Context, table string, rows []secondary.ViewRow) error {
	lines := make([]tableLine, len(rows))
	for i, r := range rows {
		lines[i] = tableLine{
			Key:         r.Key,
			Order:       r.Order,
			Designation: r.Designation,
			Operation:   r.Operation,
			WorkCenter:  r.WorkCenter,
			Position:    r.Position,
			Offset:      r.OffsetLabel,
			Target:      r.TargetDate,
			Effective:   r.EffectiveDate,
			Adjustment:  r.Adjustment,
			Status:      r.Status,
			Comment:     r.Comment,
			SAPDate:     r.SAPDate,
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	writeScheduleTable(v.out, strings.ToUpper(table), lines)
	return nil
}

// PatchRowDate prints the new date of a single row.
func (v *TerminalView) PatchRowDate(ctx context.Context, table string, patch secondary.DatePatch) error {
	line := tableLine{Target: patch.TargetDate, Effective: patch.EffectiveDate, Adjustment: patch.Adjustment}

	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, "↻ %s: %s → %s\n", patch.RowKey, orDash(patch.TargetDate), dateText(line, 0))
	return nil
}

// RenderCalendar prints a Sunday-first month grid with per-day TPAA/PW counts.
func (v *TerminalView) RenderCalendar(ctx context.Context, cal *secondary.ViewCalendar) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	fmt.Fprintf(v.out, "\n%s\n", headerColor.Sprint(cal.Title))
	if cal.Empty {
		fmt.Fprintln(v.out, "Aucune donnée TPAA/PW à afficher")
		return nil
	}
	for _, name := range cal.DayNames {
		fmt.Fprint(v.out, pad(name, 10))
	}
	fmt.Fprintln(v.out)

	col := 0
	for range cal.LeadingBlanks {
		fmt.Fprint(v.out, pad("", 10))
		col++
	}
	for _, d := range cal.Days {
		cell := fmt.Sprintf("%2d", d.Day)
		if n := len(d.TPAA); n > 0 {
			cell += fmt.Sprintf(" T%d", n)
		}
		if n := len(d.PW); n > 0 {
			cell += fmt.Sprintf(" P%d", n)
		}
		padded := pad(cell, 10)
		if d.Today {
			padded = todayColor.Sprint(padded)
		}
		fmt.Fprint(v.out, padded)
		col++
		if col%7 == 0 {
			fmt.Fprintln(v.out)
		}
	}
	if col%7 != 0 {
		fmt.Fprintln(v.out)
	}
	return nil
}

// Ensure TerminalView implements the interface
var _ secondary.ScheduleView = (*TerminalView)(nil)
