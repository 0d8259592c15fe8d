package primary

import (
	"context"
	"io"
	"time"
)

// ScheduleService defines the primary port for TPAA/PW schedule operations.
// Table names are "tpaa" or "pw"; row keys are composite override keys
// ("tpaa-100-0010-POS1").
type ScheduleService interface {
	// LoadTPAAPW loads persisted state, derives the cache from IW37N when it
	// is empty, and renders both tables and the calendar.
	LoadTPAAPW(ctx context.Context) (*LoadResult, error)

	// RefreshFromIW37N re-splits the IW37N dataset into the TPAA/PW cache.
	RefreshFromIW37N(ctx context.Context) (*RefreshResult, error)

	// SortTPAAByDate sets the TPAA date-sort direction ("asc", "desc", "none").
	SortTPAAByDate(ctx context.Context, direction string) error

	// SortPWByDate sets the PW date-sort direction.
	SortPWByDate(ctx context.Context, direction string) error

	// SortBy sets the column and direction of a table and persists the sort state.
	SortBy(ctx context.Context, req SortRequest) error

	// Filter replaces the active filters of a table.
	Filter(ctx context.Context, table string, filters RowFilters) error

	// ClearFilters clears a table's filters and resets its sort.
	ClearFilters(ctx context.Context, table string) error

	// UpdateManualField sets one override field of a row.
	UpdateManualField(ctx context.Context, req UpdateFieldRequest) (*ScheduleRow, error)

	// AdjustDays adds delta days to a row's adjustment.
	AdjustDays(ctx context.Context, table, rowKey string, delta int) (*ScheduleRow, error)

	// Rows returns the reconciled, filtered and sorted rows of a table.
	Rows(ctx context.Context, table string) ([]*ScheduleRow, error)

	// Calendar returns the current calendar month.
	Calendar(ctx context.Context) (*CalendarMonth, error)

	// PreviousMonth moves the calendar back one month.
	PreviousMonth(ctx context.Context) (*CalendarMonth, error)

	// NextMonth moves the calendar forward one month.
	NextMonth(ctx context.Context) (*CalendarMonth, error)

	// SetCalendarMonth jumps the calendar to a month.
	SetCalendarMonth(ctx context.Context, year int, month time.Month) (*CalendarMonth, error)

	// Export writes a table's rows to an xlsx workbook.
	Export(ctx context.Context, table string, w io.Writer) (int, error)

	// State summarises the loaded schedule.
	State(ctx context.Context) (*ScheduleState, error)

	// Flush writes every pending change to the store.
	Flush(ctx context.Context) error

	// Close flushes pending changes and stops background work.
	Close(ctx context.Context) error
}

// SortRequest contains parameters for sorting a table.
type SortRequest struct {
	Table     string
	Column    string // "date" or "externe"
	Direction string // "asc", "desc" or "none"
}

// RowFilters contains the free-text filters of a table.
// Matching is case-insensitive substring containment, all fields ANDed.
type RowFilters struct {
	Designation string
	Operation   string
	Position    string
	Date        string
}

// UpdateFieldRequest contains parameters for updating an override field.
type UpdateFieldRequest struct {
	Table  string
	RowKey string
	Field  string // plusQuestion, statut, commentaire, dateSAP
	Value  string
}

// LoadResult contains the result of loading the schedule.
type LoadResult struct {
	TPAACount   int
	PWCount     int
	FromIW37N   bool // cache was empty and rebuilt from IW37N
	Migrated    int  // legacy override keys migrated during the load
	StartDate   string
	SortTPAA    string
	SortPW      string
	PendingRows int // journal entries replayed on start
}

// RefreshResult contains the result of refreshing from IW37N.
type RefreshResult struct {
	TPAACount int
	PWCount   int
}

// ScheduleRow is a reconciled schedule line as shown to the user.
type ScheduleRow struct {
	Key           string
	Table         string
	Order         string
	Designation   string
	Operation     string
	WorkCenter    string
	Position      string
	State         string
	Offset        int
	OffsetLabel   string // "3 sem.", "- j"
	TargetDate    string
	EffectiveDate string
	Adjustment    int
	Status        string
	Comment       string
	SAPDate       bool
	Background    string
	Foreground    string
}

// CalendarMonth is a Sunday-first month grid.
type CalendarMonth struct {
	Year          int
	Month         time.Month
	Title         string
	LeadingBlanks int
	Days          []CalendarDay
	Empty         bool
}

// CalendarDay is one day of the month grid.
type CalendarDay struct {
	Date  string
	Day   int
	Today bool
	TPAA  []CalendarEntry
	PW    []CalendarEntry
}

// CalendarEntry is a work item placed on a calendar day.
type CalendarEntry struct {
	Key         string
	Designation string
	Order       string
}

// ScheduleState summarises the loaded schedule for status displays.
type ScheduleState struct {
	StartDate      string
	TPAACount      int
	PWCount        int
	OverrideCount  int
	SortTPAA       string
	SortTPAABy     string
	SortPW         string
	SortPWBy       string
	FilterTPAA     RowFilters
	FilterPW       RowFilters
	PendingWrites  int
	LegacyTPAAList bool // the old tpaaListeData key is still present
	CalendarTitle  string
}
