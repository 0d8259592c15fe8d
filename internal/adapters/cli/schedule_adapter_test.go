package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/example/arret/internal/ports/primary"
)

func init() {
	color.NoColor = true
}

// mockScheduleService implements primary.ScheduleService for testing
type mockScheduleService struct {
	loadFn   func(ctx context.Context) (*primary.LoadResult, error)
	rowsFn   func(ctx context.Context, table string) ([]*primary.ScheduleRow, error)
	updateFn func(ctx context.Context, req primary.UpdateFieldRequest) (*primary.ScheduleRow, error)
	sortErr  error

	// Track calls for verification
	lastFilter  primary.RowFilters
	lastSort    primary.SortRequest
	filterCalls int
	sortCalls   int
}

func (m *mockScheduleService) LoadTPAAPW(ctx context.Context) (*primary.LoadResult, error) {
	if m.loadFn != nil {
		return m.loadFn(ctx)
	}
	return &primary.LoadResult{}, nil
}

func (m *mockScheduleService) RefreshFromIW37N(ctx context.Context) (*primary.RefreshResult, error) {
	return &primary.RefreshResult{TPAACount: 2, PWCount: 1}, nil
}

func (m *mockScheduleService) SortTPAAByDate(ctx context.Context, direction string) error {
	return nil
}

func (m *mockScheduleService) SortPWByDate(ctx context.Context, direction string) error {
	return nil
}

func (m *mockScheduleService) SortBy(ctx context.Context, req primary.SortRequest) error {
	m.sortCalls++
	m.lastSort = req
	return m.sortErr
}

func (m *mockScheduleService) Filter(ctx context.Context, table string, filters primary.RowFilters) error {
	m.filterCalls++
	m.lastFilter = filters
	return nil
}

func (m *mockScheduleService) ClearFilters(ctx context.Context, table string) error {
	return nil
}

func (m *mockScheduleService) UpdateManualField(ctx context.Context, req primary.UpdateFieldRequest) (*primary.ScheduleRow, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, req)
	}
	return &primary.ScheduleRow{Key: req.RowKey}, nil
}

func (m *mockScheduleService) AdjustDays(ctx context.Context, table, rowKey string, delta int) (*primary.ScheduleRow, error) {
	return &primary.ScheduleRow{Key: rowKey, TargetDate: "2026-03-11", Adjustment: delta, EffectiveDate: "2026-03-18"}, nil
}

func (m *mockScheduleService) Rows(ctx context.Context, table string) ([]*primary.ScheduleRow, error) {
	if m.rowsFn != nil {
		return m.rowsFn(ctx, table)
	}
	return nil, nil
}

func (m *mockScheduleService) Calendar(ctx context.Context) (*primary.CalendarMonth, error) {
	return &primary.CalendarMonth{Title: "Mars 2026", Days: []primary.CalendarDay{
		{Date: "2026-03-11", Day: 11, TPAA: []primary.CalendarEntry{{Designation: "TPAA-3", Order: "100"}}},
	}}, nil
}

func (m *mockScheduleService) PreviousMonth(ctx context.Context) (*primary.CalendarMonth, error) {
	return &primary.CalendarMonth{Title: "Février 2026"}, nil
}

func (m *mockScheduleService) NextMonth(ctx context.Context) (*primary.CalendarMonth, error) {
	return &primary.CalendarMonth{Title: "Avril 2026"}, nil
}

func (m *mockScheduleService) SetCalendarMonth(ctx context.Context, year int, month time.Month) (*primary.CalendarMonth, error) {
	return &primary.CalendarMonth{Title: "Janvier 2027"}, nil
}

func (m *mockScheduleService) Export(ctx context.Context, table string, w io.Writer) (int, error) {
	return 3, nil
}

func (m *mockScheduleService) State(ctx context.Context) (*primary.ScheduleState, error) {
	return &primary.ScheduleState{StartDate: "2026-04-01", TPAACount: 2, SortTPAA: "asc", SortTPAABy: "date", LegacyTPAAList: true}, nil
}

func (m *mockScheduleService) Flush(ctx context.Context) error { return nil }

func (m *mockScheduleService) Close(ctx context.Context) error { return nil }

func TestScheduleAdapter_Load(t *testing.T) {
	mock := &mockScheduleService{
		loadFn: func(ctx context.Context) (*primary.LoadResult, error) {
			return &primary.LoadResult{TPAACount: 2, PWCount: 1, FromIW37N: true, StartDate: "2026-04-01", PendingRows: 3}, nil
		},
	}
	var out bytes.Buffer
	adapter := NewScheduleAdapter(mock, &out)

	if err := adapter.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for _, want := range []string{"Applied 3 pending", "rebuilt from IW37N", "Loaded 2 TPAA and 1 PW rows (start date 2026-04-01)"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out.String())
		}
	}
}

func TestScheduleAdapter_LoadError(t *testing.T) {
	mock := &mockScheduleService{
		loadFn: func(ctx context.Context) (*primary.LoadResult, error) {
			return nil, errors.New("database locked")
		},
	}
	adapter := NewScheduleAdapter(mock, &bytes.Buffer{})

	err := adapter.Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "database locked") {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestScheduleAdapter_List(t *testing.T) {
	mock := &mockScheduleService{
		rowsFn: func(ctx context.Context, table string) ([]*primary.ScheduleRow, error) {
			return []*primary.ScheduleRow{
				{Key: "tpaa-100-0010-POS1", Order: "100", Designation: "TPAA-3", OffsetLabel: "3 sem.", TargetDate: "2026-03-11", EffectiveDate: "2026-03-18", Adjustment: 7, Status: "Planifié", Comment: "échafaudage"},
				{Key: "tpaa-300---POS3", Order: "300", Designation: "TPAA-1", OffsetLabel: "1 sem."},
			}, nil
		},
	}
	var out bytes.Buffer
	adapter := NewScheduleAdapter(mock, &out)

	err := adapter.List(context.Background(), "tpaa", ListOptions{Filters: primary.RowFilters{Designation: "tpaa"}})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if mock.filterCalls != 1 || mock.lastFilter.Designation != "tpaa" {
		t.Errorf("expected filter applied, got %d calls %+v", mock.filterCalls, mock.lastFilter)
	}
	if mock.sortCalls != 0 {
		t.Error("expected stored sort to be kept")
	}
	got := out.String()
	for _, want := range []string{"TPAA (2)", "2026-03-18 (+7 j)", "Planifié", "└ échafaudage", "tpaa-300---POS3"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, got)
		}
	}
}

func TestScheduleAdapter_ListEmpty(t *testing.T) {
	var out bytes.Buffer
	adapter := NewScheduleAdapter(&mockScheduleService{}, &out)

	if err := adapter.List(context.Background(), "pw", ListOptions{SortBy: "externe", Direction: "desc"}); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if !strings.Contains(out.String(), "Aucune ligne") {
		t.Errorf("expected empty message, got:\n%s", out.String())
	}
}

func TestScheduleAdapter_Sort(t *testing.T) {
	mock := &mockScheduleService{}
	var out bytes.Buffer
	adapter := NewScheduleAdapter(mock, &out)

	if err := adapter.Sort(context.Background(), "pw", "externe", "desc"); err != nil {
		t.Fatalf("Sort failed: %v", err)
	}
	want := primary.SortRequest{Table: "pw", Column: "externe", Direction: "desc"}
	if mock.lastSort != want {
		t.Errorf("expected %+v, got %+v", want, mock.lastSort)
	}
	if !strings.Contains(out.String(), "PW sorted by externe (desc)") {
		t.Errorf("unexpected output: %s", out.String())
	}

	mock.sortErr = errors.New("save failed")
	if err := adapter.Sort(context.Background(), "pw", "date", "asc"); err == nil {
		t.Error("expected error")
	}
}

func TestScheduleAdapter_SetAndAdjust(t *testing.T) {
	var out bytes.Buffer
	adapter := NewScheduleAdapter(&mockScheduleService{}, &out)
	ctx := context.Background()

	if err := adapter.Set(ctx, "tpaa", "tpaa-100-0010-POS1", "statut", "Terminé"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := adapter.Adjust(ctx, "tpaa", "tpaa-100-0010-POS1", 7); err != nil {
		t.Fatalf("Adjust failed: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, `statut = "Terminé"`) || !strings.Contains(got, "2026-03-11 +7 j → 2026-03-18") {
		t.Errorf("unexpected output:\n%s", got)
	}
}

func TestScheduleAdapter_Calendar(t *testing.T) {
	var out bytes.Buffer
	adapter := NewScheduleAdapter(&mockScheduleService{}, &out)
	ctx := context.Background()

	if err := adapter.Calendar(ctx, CalendarCurrent); err != nil {
		t.Fatalf("Calendar failed: %v", err)
	}
	if !strings.Contains(out.String(), "TPAA  TPAA-3 - 100") {
		t.Errorf("expected agenda entry, got:\n%s", out.String())
	}

	out.Reset()
	if err := adapter.Calendar(ctx, CalendarNext); err != nil {
		t.Fatalf("Calendar failed: %v", err)
	}
	if !strings.Contains(out.String(), "Avril 2026") || !strings.Contains(out.String(), "Rien de planifié") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestScheduleAdapter_Status(t *testing.T) {
	var out bytes.Buffer
	adapter := NewScheduleAdapter(&mockScheduleService{}, &out)

	if err := adapter.Status(context.Background()); err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Start date:     2026-04-01") || !strings.Contains(got, "tpaaListeData present") {
		t.Errorf("unexpected output:\n%s", got)
	}
}
