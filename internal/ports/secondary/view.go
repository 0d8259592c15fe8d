package secondary

import "context"

// ScheduleView defines the secondary port for displaying schedule tables.
// A view that is not mounted is skipped silently.
type ScheduleView interface {
	// Mounted reports whether the view can currently display the target
	// ("tpaa", "pw" or "calendar").
	Mounted(target string) bool

	// RenderTable replaces the displayed rows of a table.
	RenderTable(ctx context.Context, table string, rows []ViewRow) error

	// PatchRowDate updates the date display of one row in place.
	PatchRowDate(ctx context.Context, table string, patch DatePatch) error

	// RenderCalendar replaces the displayed calendar.
	RenderCalendar(ctx context.Context, cal *ViewCalendar) error
}

// ViewRow is a row as handed to the view.
type ViewRow struct {
	Key           string
	Order         string
	Designation   string
	Operation     string
	WorkCenter    string
	Position      string
	OffsetLabel   string
	TargetDate    string
	EffectiveDate string
	Adjustment    int
	Status        string
	StatusLabel   string
	Comment       string
	SAPDate       bool
	Background    string
	Foreground    string
}

// DatePatch describes an in-place date update of one row.
type DatePatch struct {
	RowKey        string
	Adjustment    int
	TargetDate    string
	EffectiveDate string
}

// ViewCalendar is a month grid as handed to the view.
type ViewCalendar struct {
	Title         string
	DayNames      []string
	LeadingBlanks int
	Days          []ViewCalendarDay
	Empty         bool
}

// ViewCalendarDay is one day cell.
type ViewCalendarDay struct {
	Day   int
	Today bool
	TPAA  []string // "designation - order"
	PW    []string
}

// Notifier defines the secondary port for user notifications.
type Notifier interface {
	// Warn reports a background problem without interrupting the user.
	Warn(ctx context.Context, message string)

	// Alert reports the outcome of a user-initiated action.
	Alert(ctx context.Context, message string)
}
