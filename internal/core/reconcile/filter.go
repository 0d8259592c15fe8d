package reconcile

import "strings"

// FilterState holds the free-text filters of one table, stored lower-cased.
type FilterState struct {
	Designation string
	Operation   string
	Position    string
	Date        string
}

// NewFilterState builds a filter from user input.
func NewFilterState(designation, operation, position, date string) FilterState {
	return FilterState{
		Designation: strings.ToLower(strings.TrimSpace(designation)),
		Operation:   strings.ToLower(strings.TrimSpace(operation)),
		Position:    strings.ToLower(strings.TrimSpace(position)),
		Date:        strings.ToLower(strings.TrimSpace(date)),
	}
}

// Active reports whether any filter field is set.
func (f FilterState) Active() bool {
	return f.Designation != "" || f.Operation != "" || f.Position != "" || f.Date != ""
}

// Match reports whether a row satisfies every non-empty filter field.
// A date filter never matches a row without a date.
func (f FilterState) Match(r Row) bool {
	if !contains(r.Designation, f.Designation) {
		return false
	}
	if !contains(r.Operation, f.Operation) {
		return false
	}
	if !contains(r.Position, f.Position) {
		return false
	}
	if f.Date != "" && (r.EffectiveDate == "" || !contains(r.EffectiveDate, f.Date)) {
		return false
	}
	return true
}

func contains(value, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), needle)
}

// ApplyFilter returns the rows matching f, in order.
func ApplyFilter(rows []Row, f FilterState) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if !f.Active() || f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
