// Package reconcile merges imported work orders, derived dates and manual
// overrides into display rows, and applies the per-table filter and sort.
// This is part of the Functional Core - no I/O, only pure functions.
package reconcile

import (
	"fmt"

	"github.com/example/arret/internal/core/designation"
	"github.com/example/arret/internal/core/override"
	"github.com/example/arret/internal/core/schedule"
	"github.com/example/arret/internal/core/workorder"
)

// Row is one reconciled schedule line, ready for display.
// Text fields hold the raw imported values; use Display for placeholders.
type Row struct {
	Key           override.Key
	Order         string
	Designation   string
	Operation     string
	WorkCenter    string
	Position      string
	State         string
	Offset        int
	TargetDate    string
	EffectiveDate string
	Override      override.ManualOverride
	Style         Style
}

// Kind returns the table the row belongs to.
func (r Row) Kind() designation.Kind { return r.Key.Kind }

// Adjusted reports whether a manual adjustment moved the target date.
func (r Row) Adjusted() bool {
	return r.TargetDate != "" && r.EffectiveDate != r.TargetDate
}

// OffsetLabel renders the offset with its unit, "-" standing for no offset.
func (r Row) OffsetLabel() string {
	if r.Offset == 0 {
		return fmt.Sprintf("- %s", r.Kind().Unit())
	}
	return fmt.Sprintf("%d %s", r.Offset, r.Kind().Unit())
}

// Display returns s, or the placeholder when s is empty.
func Display(s string) string {
	return workorder.OrPlaceholder(s)
}

// BuildResult is the outcome of reconciling one table.
type BuildResult struct {
	Rows     []Row
	Store    override.Store
	Migrated []string // new keys whose value was moved from a legacy key
}

// BuildRows reconciles the records of one table against the override store.
// records are expected to be pre-filtered to kind. The returned store differs
// from the input only when a legacy key was migrated.
func BuildRows(kind designation.Kind, records []workorder.Record, startDate string, store override.Store) BuildResult {
	result := BuildResult{Rows: make([]Row, 0, len(records)), Store: store}
	for _, rec := range records {
		code := rec.Designation()
		d := designation.Designation{Kind: kind, Offset: designation.ExtractOffset(code)}
		derived := schedule.Derive(d, startDate)

		key := override.KeyFor(kind, rec)
		ov, next, migrated := override.Resolve(result.Store, key)
		if migrated {
			result.Store = next
			result.Migrated = append(result.Migrated, key.String())
		}

		result.Rows = append(result.Rows, Row{
			Key:           key,
			Order:         rec.Order(),
			Designation:   code,
			Operation:     rec.Operation(),
			WorkCenter:    rec.WorkCenter(),
			Position:      rec.Position(),
			State:         rec.State(),
			Offset:        derived.Offset,
			TargetDate:    derived.TargetDate,
			EffectiveDate: schedule.EffectiveDate(derived.TargetDate, int(ov.PlusQuestion)),
			Override:      ov,
		})
	}
	return result
}

// View filters, sorts and styles rows for display. The input is not modified.
func View(rows []Row, filter FilterState, dir Direction, by SortColumn) []Row {
	out := ApplyFilter(rows, filter)
	out = SortRows(out, dir, by)
	for i := range out {
		out[i].Style = StyleFor(out[i].Override.Statut, i)
	}
	return out
}

// FindRow returns the row whose composite key string equals key.
func FindRow(rows []Row, key string) (Row, bool) {
	for _, r := range rows {
		if r.Key.String() == key {
			return r, true
		}
	}
	return Row{}, false
}
