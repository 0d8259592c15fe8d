package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/example/arret/internal/ports/primary"
)

// ScheduleAdapter is a thin adapter that translates CLI operations to ScheduleService calls.
type ScheduleAdapter struct {
	service primary.ScheduleService
	out     io.Writer
}

// NewScheduleAdapter creates a new ScheduleAdapter with the given service.
func NewScheduleAdapter(service primary.ScheduleService, out io.Writer) *ScheduleAdapter {
	return &ScheduleAdapter{
		service: service,
		out:     out,
	}
}

// Load loads the schedule and prints a summary. Mounted views render the tables.
func (a *ScheduleAdapter) Load(ctx context.Context) error {
	res, err := a.service.LoadTPAAPW(ctx)
	if err != nil {
		return fmt.Errorf("failed to load TPAA/PW: %w", err)
	}

	if res.PendingRows > 0 {
		fmt.Fprintf(a.out, "✓ Applied %d pending write(s) from a previous session\n", res.PendingRows)
	}
	if res.FromIW37N {
		fmt.Fprintln(a.out, "✓ Cache rebuilt from IW37N data")
	}
	if res.Migrated > 0 {
		fmt.Fprintf(a.out, "✓ Migrated %d legacy manual entr(y/ies)\n", res.Migrated)
	}
	fmt.Fprintf(a.out, "✓ Loaded %d TPAA and %d PW rows (start date %s)\n", res.TPAACount, res.PWCount, orDash(res.StartDate))
	return nil
}

// Refresh re-derives the TPAA/PW cache from IW37N.
func (a *ScheduleAdapter) Refresh(ctx context.Context) error {
	res, err := a.service.RefreshFromIW37N(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh from IW37N: %w", err)
	}
	fmt.Fprintf(a.out, "✓ Refreshed: %d TPAA, %d PW\n", res.TPAACount, res.PWCount)
	return nil
}

// ListOptions are the per-invocation view settings of the list command.
type ListOptions struct {
	Filters   primary.RowFilters
	SortBy    string // "" keeps the stored sort
	Direction string
}

// List applies filters and sort, then prints the table.
func (a *ScheduleAdapter) List(ctx context.Context, table string, opts ListOptions) error {
	if opts.Filters != (primary.RowFilters{}) {
		if err := a.service.Filter(ctx, table, opts.Filters); err != nil {
			return err
		}
	}
	if opts.SortBy != "" || opts.Direction != "" {
		if err := a.service.SortBy(ctx, primary.SortRequest{Table: table, Column: opts.SortBy, Direction: opts.Direction}); err != nil {
			return err
		}
	}

	rows, err := a.service.Rows(ctx, table)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", table, err)
	}
	lines := make([]tableLine, len(rows))
	for i, r := range rows {
		lines[i] = lineFromScheduleRow(r)
	}
	writeScheduleTable(a.out, strings.ToUpper(table), lines)
	return nil
}

func lineFromScheduleRow(r *primary.ScheduleRow) tableLine {
	return tableLine{
		Key:         r.Key,
		Order:       orDash(r.Order),
		Designation: orDash(r.Designation),
		Operation:   orDash(r.Operation),
		WorkCenter:  orDash(r.WorkCenter),
		Position:    orDash(r.Position),
		Offset:      r.OffsetLabel,
		Target:      r.TargetDate,
		Effective:   r.EffectiveDate,
		Adjustment:  r.Adjustment,
		Status:      r.Status,
		Comment:     r.Comment,
		SAPDate:     r.SAPDate,
	}
}

// Sort sets and persists a table's sort.
func (a *ScheduleAdapter) Sort(ctx context.Context, table, column, direction string) error {
	if err := a.service.SortBy(ctx, primary.SortRequest{Table: table, Column: column, Direction: direction}); err != nil {
		return fmt.Errorf("failed to sort %s: %w", table, err)
	}
	if direction == "" || direction == "none" {
		fmt.Fprintf(a.out, "✓ %s: sort cleared\n", strings.ToUpper(table))
		return nil
	}
	fmt.Fprintf(a.out, "✓ %s sorted by %s (%s)\n", strings.ToUpper(table), column, direction)
	return nil
}

// ClearFilters clears a table's filters and sort.
func (a *ScheduleAdapter) ClearFilters(ctx context.Context, table string) error {
	if err := a.service.ClearFilters(ctx, table); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ %s: filters and sort cleared\n", strings.ToUpper(table))
	return nil
}

// Set updates one override field of a row.
func (a *ScheduleAdapter) Set(ctx context.Context, table, rowKey, field, value string) error {
	row, err := a.service.UpdateManualField(ctx, primary.UpdateFieldRequest{
		Table:  table,
		RowKey: rowKey,
		Field:  field,
		Value:  value,
	})
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", rowKey, err)
	}
	fmt.Fprintf(a.out, "✓ %s: %s = %q\n", row.Key, field, value)
	return nil
}

// Adjust shifts a row's date by delta days.
func (a *ScheduleAdapter) Adjust(ctx context.Context, table, rowKey string, delta int) error {
	row, err := a.service.AdjustDays(ctx, table, rowKey, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust %s: %w", rowKey, err)
	}
	fmt.Fprintf(a.out, "✓ %s: %s %+d j → %s\n", row.Key, orDash(row.TargetDate), row.Adjustment, orDash(row.EffectiveDate))
	return nil
}

// CalendarMove selects the month shown by Calendar.
type CalendarMove int

const (
	CalendarCurrent CalendarMove = iota
	CalendarPrevious
	CalendarNext
)

// Calendar moves the calendar and prints the work of the shown month as an agenda.
func (a *ScheduleAdapter) Calendar(ctx context.Context, move CalendarMove) error {
	var (
		cal *primary.CalendarMonth
		err error
	)
	switch move {
	case CalendarPrevious:
		cal, err = a.service.PreviousMonth(ctx)
	case CalendarNext:
		cal, err = a.service.NextMonth(ctx)
	default:
		cal, err = a.service.Calendar(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to build calendar: %w", err)
	}
	a.printAgenda(cal)
	return nil
}

// CalendarAt shows a given month.
func (a *ScheduleAdapter) CalendarAt(ctx context.Context, year, month int) error {
	cal, err := a.service.SetCalendarMonth(ctx, year, time.Month(month))
	if err != nil {
		return fmt.Errorf("failed to build calendar: %w", err)
	}
	a.printAgenda(cal)
	return nil
}

func (a *ScheduleAdapter) printAgenda(cal *primary.CalendarMonth) {
	fmt.Fprintf(a.out, "\n%s\n", cal.Title)
	printed := 0
	for _, d := range cal.Days {
		if len(d.TPAA) == 0 && len(d.PW) == 0 {
			continue
		}
		fmt.Fprintf(a.out, "  %s\n", d.Date)
		for _, e := range d.TPAA {
			fmt.Fprintf(a.out, "    TPAA  %s - %s\n", e.Designation, e.Order)
		}
		for _, e := range d.PW {
			fmt.Fprintf(a.out, "    PW    %s - %s\n", e.Designation, e.Order)
		}
		printed++
	}
	if printed == 0 {
		fmt.Fprintln(a.out, "  Rien de planifié ce mois-ci")
	}
}

// Export writes a table to an xlsx workbook.
func (a *ScheduleAdapter) Export(ctx context.Context, table string, w io.Writer, dest string) error {
	n, err := a.service.Export(ctx, table, w)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Exported %d %s row(s) to %s\n", n, strings.ToUpper(table), dest)
	return nil
}

// Status prints a summary of the stored schedule.
func (a *ScheduleAdapter) Status(ctx context.Context) error {
	st, err := a.service.State(ctx)
	if err != nil {
		return fmt.Errorf("failed to read schedule state: %w", err)
	}

	fmt.Fprintf(a.out, "Start date:     %s\n", orDash(st.StartDate))
	fmt.Fprintf(a.out, "TPAA rows:      %d (sort %s by %s)\n", st.TPAACount, orDash(st.SortTPAA), st.SortTPAABy)
	fmt.Fprintf(a.out, "PW rows:        %d (sort %s by %s)\n", st.PWCount, orDash(st.SortPW), st.SortPWBy)
	fmt.Fprintf(a.out, "Manual entries: %d\n", st.OverrideCount)
	fmt.Fprintf(a.out, "Pending writes: %d\n", st.PendingWrites)
	fmt.Fprintf(a.out, "Calendar:       %s\n", st.CalendarTitle)
	if st.LegacyTPAAList {
		fmt.Fprintln(a.out, "Legacy data:    tpaaListeData present (read-only)")
	}
	return nil
}
