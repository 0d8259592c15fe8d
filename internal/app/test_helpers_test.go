package app

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync"

	"github.com/example/arret/internal/ports/secondary"
)

var errBoom = errors.New("boom")

// Ensure mocks implement the interfaces
var (
	_ secondary.KeyValueStore       = (*mockKVStore)(nil)
	_ secondary.WriteJournal        = (*mockJournal)(nil)
	_ secondary.ScheduleView        = (*mockView)(nil)
	_ secondary.Notifier            = (*mockNotifier)(nil)
	_ secondary.WorkOrderRepository = (*mockWorkOrderRepository)(nil)
	_ secondary.SettingsRepository  = (*mockSettingsRepository)(nil)
	_ secondary.WorkbookReader      = (*mockWorkbookReader)(nil)
	_ secondary.WorkbookWriter      = (*mockWorkbookWriter)(nil)
	_ secondary.ChangePublisher     = (*mockPublisher)(nil)
)

// mockKVStore implements secondary.KeyValueStore for testing.
// It is shared with the flusher goroutine, so every access locks.
type mockKVStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	saves   map[string]int
	saveErr error
	loadErr error
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{data: make(map[string][]byte), saves: make(map[string]int)}
}

func (m *mockKVStore) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.data[key], nil
}

func (m *mockKVStore) Save(ctx context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[key] = slices.Clone(payload)
	m.saves[key]++
	return nil
}

func (m *mockKVStore) setSaveErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

func (m *mockKVStore) get(key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key]
}

func (m *mockKVStore) saveCount(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves[key]
}

// mockJournal implements secondary.WriteJournal for testing.
type mockJournal struct {
	mu        sync.Mutex
	entries   []*secondary.JournalEntryRecord
	nextID    int64
	appendErr error
}

func newMockJournal() *mockJournal {
	return &mockJournal{}
}

func (m *mockJournal) Append(ctx context.Context, entry *secondary.JournalEntryRecord) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return 0, m.appendErr
	}
	m.nextID++
	entry.ID = m.nextID
	stored := *entry
	stored.Payload = slices.Clone(entry.Payload)
	m.entries = append(m.entries, &stored)
	return entry.ID, nil
}

func (m *mockJournal) ListPending(ctx context.Context) ([]*secondary.JournalEntryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.JournalEntryRecord
	for _, e := range m.entries {
		if e.AppliedAt == "" {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockJournal) MarkApplied(ctx context.Context, ids []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if slices.Contains(ids, e.ID) {
			e.AppliedAt = "applied"
		}
	}
	return nil
}

func (m *mockJournal) CountPending(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.entries {
		if e.AppliedAt == "" {
			n++
		}
	}
	return n, nil
}

// mockView implements secondary.ScheduleView for testing.
type mockView struct {
	mu        sync.Mutex
	mounted   map[string]bool
	tables    map[string][]secondary.ViewRow
	renders   map[string]int
	patches   []secondary.DatePatch
	calendars []*secondary.ViewCalendar
}

func newMockView(targets ...string) *mockView {
	v := &mockView{
		mounted: make(map[string]bool),
		tables:  make(map[string][]secondary.ViewRow),
		renders: make(map[string]int),
	}
	for _, t := range targets {
		v.mounted[t] = true
	}
	return v
}

func (m *mockView) Mounted(target string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mounted[target]
}

func (m *mockView) RenderTable(ctx context.Context, table string, rows []secondary.ViewRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table] = rows
	m.renders[table]++
	return nil
}

func (m *mockView) PatchRowDate(ctx context.Context, table string, patch secondary.DatePatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patches = append(m.patches, patch)
	return nil
}

func (m *mockView) RenderCalendar(ctx context.Context, cal *secondary.ViewCalendar) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calendars = append(m.calendars, cal)
	return nil
}

func (m *mockView) calendarCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calendars)
}

// mockNotifier implements secondary.Notifier for testing.
type mockNotifier struct {
	mu     sync.Mutex
	warns  []string
	alerts []string
}

func (m *mockNotifier) Warn(ctx context.Context, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warns = append(m.warns, message)
}

func (m *mockNotifier) Alert(ctx context.Context, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, message)
}

func (m *mockNotifier) warnCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.warns)
}

// mockWorkOrderRepository implements secondary.WorkOrderRepository for testing.
type mockWorkOrderRepository struct {
	records []secondary.WorkOrderRecord
	listErr error
	saveErr error
}

func (m *mockWorkOrderRepository) ListWorkOrders(ctx context.Context) ([]secondary.WorkOrderRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.records, nil
}

func (m *mockWorkOrderRepository) SaveWorkOrders(ctx context.Context, records []secondary.WorkOrderRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records = records
	return nil
}

// mockSettingsRepository implements secondary.SettingsRepository for testing.
type mockSettingsRepository struct {
	record  secondary.SettingsRecord
	saves   int
	saveErr error
}

func (m *mockSettingsRepository) GetStartDate(ctx context.Context) (string, error) {
	return m.record.StartDate, nil
}

func (m *mockSettingsRepository) Get(ctx context.Context) (*secondary.SettingsRecord, error) {
	copied := m.record
	return &copied, nil
}

func (m *mockSettingsRepository) Save(ctx context.Context, settings *secondary.SettingsRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.record = *settings
	m.saves++
	return nil
}

// mockWorkbookReader implements secondary.WorkbookReader for testing.
type mockWorkbookReader struct {
	sheet   *secondary.SheetData
	readErr error
}

func (m *mockWorkbookReader) ReadFirstSheet(ctx context.Context, r io.Reader) (*secondary.SheetData, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return m.sheet, nil
}

// mockWorkbookWriter implements secondary.WorkbookWriter for testing.
type mockWorkbookWriter struct {
	written *secondary.SheetExport
}

func (m *mockWorkbookWriter) WriteSheet(ctx context.Context, w io.Writer, sheet *secondary.SheetExport) error {
	m.written = sheet
	return nil
}

// mockPublisher implements secondary.ChangePublisher for testing.
type mockPublisher struct {
	mu     sync.Mutex
	events []secondary.ChangeEvent
}

func (m *mockPublisher) PublishChange(ctx context.Context, event secondary.ChangeEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}
