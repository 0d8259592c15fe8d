package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/arret/internal/core/designation"
	"github.com/example/arret/internal/core/effects"
	"github.com/example/arret/internal/core/override"
	"github.com/example/arret/internal/core/reconcile"
	"github.com/example/arret/internal/core/schedule"
	"github.com/example/arret/internal/core/workorder"
	"github.com/example/arret/internal/ports/primary"
	"github.com/example/arret/internal/ports/secondary"
)

// Storage keys owned by the schedule.
const (
	CachedDataStorageKey     = "tpaaPwCachedData"
	LegacyTPAAListStorageKey = "tpaaListeData"
	calendarTarget           = "calendar"
)

var (
	// ErrNoIW37NData is returned by RefreshFromIW37N when nothing was imported.
	ErrNoIW37NData = errors.New("no IW37N data available")
	// ErrEmptyTable is returned by Export when the table has no rows.
	ErrEmptyTable = errors.New("table has no rows")
)

// cachedData is the persisted TPAA/PW split of the IW37N dataset.
type cachedData struct {
	TPAA []workorder.Record `json:"tpaaData"`
	PW   []workorder.Record `json:"pwData"`
}

func (c cachedData) records(kind designation.Kind) []workorder.Record {
	if kind == designation.KindPW {
		return c.PW
	}
	return c.TPAA
}

func (c cachedData) empty() bool {
	return len(c.TPAA) == 0 && len(c.PW) == 0
}

// ScheduleServiceDeps groups the collaborators of ScheduleServiceImpl.
type ScheduleServiceDeps struct {
	Store      secondary.KeyValueStore
	Queue      *WriteQueue
	WorkOrders secondary.WorkOrderRepository
	Settings   secondary.SettingsProvider
	View       secondary.ScheduleView // optional
	Notifier   secondary.Notifier     // optional
	Workbook   secondary.WorkbookWriter
	Logger     *zap.Logger

	CalendarRefreshDelay time.Duration
	Now                  func() time.Time
}

// scheduleState is everything a session has loaded or chosen.
type scheduleState struct {
	loaded    bool
	startDate string
	cache     cachedData
	overrides *OverrideStore
	sort      reconcile.SortState
	filters   map[designation.Kind]reconcile.FilterState
	calYear   int
	calMonth  time.Month
}

// ScheduleServiceImpl implements the ScheduleService interface.
// Calls are serialised on mu; the executor runs with mu held.
type ScheduleServiceImpl struct {
	mu       sync.Mutex
	state    scheduleState
	deps     ScheduleServiceDeps
	logger   *zap.Logger
	executor EffectExecutor
	deferred *deferredTasks
	now      func() time.Time
}

// NewScheduleService creates a new ScheduleService implementation.
func NewScheduleService(deps ScheduleServiceDeps) *ScheduleServiceImpl {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	today := deps.Now()
	s := &ScheduleServiceImpl{
		deps:     deps,
		logger:   deps.Logger.Named("schedule"),
		deferred: newDeferredTasks(),
		now:      deps.Now,
		state: scheduleState{
			overrides: NewOverrideStore(nil, deps.CalendarRefreshDelay),
			sort:      reconcile.DefaultSortState(),
			filters:   make(map[designation.Kind]reconcile.FilterState),
			calYear:   today.Year(),
			calMonth:  today.Month(),
		},
	}
	s.executor = NewEffectExecutor(
		deps.Queue,
		payloadFunc(s.payloadLocked),
		deps.View,
		renderFunc(s.renderTableLocked),
		s.deferred,
		s.refreshCalendar,
		s.logger,
	)
	return s
}

type payloadFunc func(storageKey string) ([]byte, error)

func (f payloadFunc) Payload(storageKey string) ([]byte, error) { return f(storageKey) }

type renderFunc func(ctx context.Context, table designation.Kind) error

func (f renderFunc) RenderTable(ctx context.Context, table designation.Kind) error {
	return f(ctx, table)
}

// LoadTPAAPW loads persisted state and renders both tables and the calendar.
func (s *ScheduleServiceImpl) LoadTPAAPW(ctx context.Context) (*primary.LoadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded, err := s.loadLocked(ctx)
	if err != nil {
		return nil, err
	}

	migrated := 0
	for _, kind := range designation.Kinds {
		_, n, err := s.reconcileLocked(ctx, kind)
		if err != nil {
			return nil, err
		}
		migrated += n
	}

	if err := s.renderAllLocked(ctx); err != nil {
		return nil, err
	}

	return &primary.LoadResult{
		TPAACount:   len(s.state.cache.TPAA),
		PWCount:     len(s.state.cache.PW),
		FromIW37N:   loaded.fromIW37N,
		Migrated:    migrated,
		StartDate:   s.state.startDate,
		SortTPAA:    string(s.state.sort.TPAA),
		SortPW:      string(s.state.sort.PW),
		PendingRows: loaded.pending,
	}, nil
}

type loadOutcome struct {
	fromIW37N bool // cache was rebuilt from the IW37N dataset
	pending   int  // journal entries left by earlier sessions
}

// loadLocked applies writes left pending by earlier sessions, then reads
// manual data, sort state, cache and start date concurrently. Stored keys
// are read through the queue so entries that still fail to save are not
// lost. An empty cache is rebuilt from the IW37N dataset.
func (s *ScheduleServiceImpl) loadLocked(ctx context.Context) (loadOutcome, error) {
	var out loadOutcome
	pending, err := s.deps.Queue.Replay(ctx)
	if err != nil {
		s.logger.Warn("replay of pending writes failed", zap.Error(err))
	}
	out.pending = pending

	var (
		manualPayload []byte
		sortPayload   []byte
		cachePayload  []byte
		startDate     string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		manualPayload, err = s.deps.Queue.Load(gctx, override.ManualDataStorageKey)
		return err
	})
	g.Go(func() error {
		var err error
		sortPayload, err = s.deps.Queue.Load(gctx, reconcile.SortStateStorageKey)
		return err
	})
	g.Go(func() error {
		var err error
		cachePayload, err = s.deps.Queue.Load(gctx, CachedDataStorageKey)
		return err
	})
	g.Go(func() error {
		var err error
		startDate, err = s.deps.Settings.GetStartDate(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return out, fmt.Errorf("failed to load schedule data: %w", err)
	}

	overrides, err := DecodeOverrides(manualPayload)
	if err != nil {
		return out, err
	}
	sortState, err := decodeSortState(sortPayload)
	if err != nil {
		s.logger.Warn("invalid sort state, using defaults", zap.Error(err))
		sortState = reconcile.DefaultSortState()
	}
	var cache cachedData
	if cachePayload != nil {
		if err := json.Unmarshal(cachePayload, &cache); err != nil {
			return out, fmt.Errorf("failed to decode cached TPAA/PW data: %w", err)
		}
	}

	s.state.startDate = startDate
	s.state.overrides.Replace(overrides)
	s.state.sort = sortState
	s.state.cache = cache
	s.state.loaded = true

	if !cache.empty() {
		return out, nil
	}
	records, err := s.listWorkOrders(ctx)
	if err != nil {
		return out, err
	}
	if len(records) == 0 {
		return out, nil
	}
	tpaa, pw := workorder.Split(records)
	s.state.cache = cachedData{TPAA: tpaa, PW: pw}
	s.logger.Info("cache rebuilt from IW37N", zap.Int("tpaa", len(tpaa)), zap.Int("pw", len(pw)))
	out.fromIW37N = true
	err = s.executor.Execute(ctx, []effects.Effect{
		effects.PersistEffect{StorageKey: CachedDataStorageKey, Reason: "rebuild from IW37N"},
	})
	return out, err
}

func decodeSortState(payload []byte) (reconcile.SortState, error) {
	if payload == nil {
		return reconcile.DefaultSortState(), nil
	}
	var raw struct {
		TPAA       *string `json:"tpaa"`
		PW         *string `json:"pw"`
		TPAASortBy string  `json:"tpaaSortBy"`
		PWSortBy   string  `json:"pwSortBy"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return reconcile.SortState{}, fmt.Errorf("failed to decode sort state: %w", err)
	}
	var state reconcile.SortState
	var err error
	if raw.TPAA != nil {
		if state.TPAA, err = reconcile.ParseDirection(*raw.TPAA); err != nil {
			return reconcile.SortState{}, err
		}
	}
	if raw.PW != nil {
		if state.PW, err = reconcile.ParseDirection(*raw.PW); err != nil {
			return reconcile.SortState{}, err
		}
	}
	if state.TPAASortBy, err = reconcile.ParseSortColumn(raw.TPAASortBy); err != nil {
		return reconcile.SortState{}, err
	}
	if state.PWSortBy, err = reconcile.ParseSortColumn(raw.PWSortBy); err != nil {
		return reconcile.SortState{}, err
	}
	return state.Normalize(), nil
}

func (s *ScheduleServiceImpl) listWorkOrders(ctx context.Context) ([]workorder.Record, error) {
	raw, err := s.deps.WorkOrders.ListWorkOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read IW37N data: %w", err)
	}
	records := make([]workorder.Record, len(raw))
	for i, r := range raw {
		records[i] = workorder.Record(r)
	}
	return records, nil
}

func (s *ScheduleServiceImpl) ensureLoadedLocked(ctx context.Context) error {
	if s.state.loaded {
		return nil
	}
	_, err := s.loadLocked(ctx)
	return err
}

// reloadLocked re-reads persisted state written by other sessions since the
// last load. The sort of an already loaded session is kept.
func (s *ScheduleServiceImpl) reloadLocked(ctx context.Context) error {
	wasLoaded, sortState := s.state.loaded, s.state.sort
	s.state.loaded = false
	if _, err := s.loadLocked(ctx); err != nil {
		return err
	}
	if wasLoaded {
		s.state.sort = sortState
	}
	return nil
}

// RefreshFromIW37N re-splits the IW37N dataset into the TPAA/PW cache.
// Start date and manual data are re-read first, so a long-running session
// picks up changes saved elsewhere.
func (s *ScheduleServiceImpl) RefreshFromIW37N(ctx context.Context) (*primary.RefreshResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reloadLocked(ctx); err != nil {
		return nil, err
	}
	records, err := s.listWorkOrders(ctx)
	if err != nil {
		s.alert(ctx, "Erreur lors de la lecture des données IW37N.")
		return nil, err
	}
	if len(records) == 0 {
		s.alert(ctx, "Aucune donnée IW37N disponible. Importez d'abord un fichier IW37N.")
		return nil, ErrNoIW37NData
	}

	tpaa, pw := workorder.Split(records)
	s.state.cache = cachedData{TPAA: tpaa, PW: pw}
	if err := s.executor.Execute(ctx, []effects.Effect{
		effects.PersistEffect{StorageKey: CachedDataStorageKey, Reason: "refresh from IW37N"},
	}); err != nil {
		s.alert(ctx, "Erreur lors de la sauvegarde des données TPAA/PW.")
		return nil, err
	}
	if err := s.deps.Queue.Flush(ctx); err != nil {
		s.alert(ctx, "Erreur lors de la sauvegarde des données TPAA/PW.")
		return nil, err
	}
	if err := s.renderAllLocked(ctx); err != nil {
		return nil, err
	}
	s.alert(ctx, fmt.Sprintf("Données TPAA/PW mises à jour : %d TPAA, %d PW.", len(tpaa), len(pw)))
	return &primary.RefreshResult{TPAACount: len(tpaa), PWCount: len(pw)}, nil
}

// SortTPAAByDate sets the TPAA date-sort direction for this session.
func (s *ScheduleServiceImpl) SortTPAAByDate(ctx context.Context, direction string) error {
	return s.sortByDate(ctx, designation.KindTPAA, direction)
}

// SortPWByDate sets the PW date-sort direction for this session.
func (s *ScheduleServiceImpl) SortPWByDate(ctx context.Context, direction string) error {
	return s.sortByDate(ctx, designation.KindPW, direction)
}

func (s *ScheduleServiceImpl) sortByDate(ctx context.Context, kind designation.Kind, direction string) error {
	dir, err := reconcile.ParseDirection(direction)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return err
	}
	s.state.sort = s.state.sort.With(kind, dir, reconcile.SortByDate)
	return s.executor.Execute(ctx, []effects.Effect{effects.RenderTableEffect{Table: kind}})
}

// SortBy sets the column and direction of a table and persists the sort state.
func (s *ScheduleServiceImpl) SortBy(ctx context.Context, req primary.SortRequest) error {
	kind, err := designation.ParseKind(req.Table)
	if err != nil {
		return err
	}
	dir, err := reconcile.ParseDirection(req.Direction)
	if err != nil {
		return err
	}
	by, err := reconcile.ParseSortColumn(req.Column)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return err
	}
	s.state.sort = s.state.sort.With(kind, dir, by)
	return s.persistSortLocked(ctx, kind, "sort "+kind.String())
}

// persistSortLocked saves the sort state right away and re-renders the table.
func (s *ScheduleServiceImpl) persistSortLocked(ctx context.Context, kind designation.Kind, reason string) error {
	if err := s.executor.Execute(ctx, []effects.Effect{
		effects.RenderTableEffect{Table: kind},
		effects.PersistEffect{StorageKey: reconcile.SortStateStorageKey, Reason: reason},
	}); err != nil {
		s.alert(ctx, "Erreur lors de la sauvegarde du tri.")
		return err
	}
	if err := s.deps.Queue.Flush(ctx); err != nil {
		s.alert(ctx, "Erreur lors de la sauvegarde du tri.")
		return err
	}
	return nil
}

// Filter replaces the active filters of a table.
func (s *ScheduleServiceImpl) Filter(ctx context.Context, table string, filters primary.RowFilters) error {
	kind, err := designation.ParseKind(table)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return err
	}
	s.state.filters[kind] = reconcile.NewFilterState(filters.Designation, filters.Operation, filters.Position, filters.Date)
	return s.executor.Execute(ctx, []effects.Effect{effects.RenderTableEffect{Table: kind}})
}

// ClearFilters clears a table's filters and resets its sort.
func (s *ScheduleServiceImpl) ClearFilters(ctx context.Context, table string) error {
	kind, err := designation.ParseKind(table)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return err
	}
	delete(s.state.filters, kind)
	s.state.sort = s.state.sort.With(kind, reconcile.DirectionNone, reconcile.SortByDate)
	return s.persistSortLocked(ctx, kind, "clear "+kind.String())
}

// UpdateManualField sets one override field of a row.
func (s *ScheduleServiceImpl) UpdateManualField(ctx context.Context, req primary.UpdateFieldRequest) (*primary.ScheduleRow, error) {
	kind, err := designation.ParseKind(req.Table)
	if err != nil {
		return nil, err
	}
	field, err := override.ParseField(req.Field)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.findRowLocked(ctx, kind, req.RowKey)
	if err != nil {
		return nil, err
	}
	plan, err := s.state.overrides.Update(row.Key, field, req.Value, row.TargetDate)
	if err != nil {
		return nil, err
	}
	return s.applyPlanLocked(ctx, kind, plan)
}

// AdjustDays adds delta days to a row's adjustment.
func (s *ScheduleServiceImpl) AdjustDays(ctx context.Context, table, rowKey string, delta int) (*primary.ScheduleRow, error) {
	kind, err := designation.ParseKind(table)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.findRowLocked(ctx, kind, rowKey)
	if err != nil {
		return nil, err
	}
	plan, err := s.state.overrides.AdjustByStep(row.Key, delta, row.TargetDate)
	if err != nil {
		return nil, err
	}
	return s.applyPlanLocked(ctx, kind, plan)
}

func (s *ScheduleServiceImpl) applyPlanLocked(ctx context.Context, kind designation.Kind, plan override.UpdatePlan) (*primary.ScheduleRow, error) {
	if err := s.executor.Execute(ctx, plan.Effects()); err != nil {
		// The in-memory value stays; the journal keeps whatever was accepted.
		return nil, err
	}
	visible, err := s.viewLocked(ctx, kind)
	if err != nil {
		return nil, err
	}
	if row, ok := reconcile.FindRow(visible, plan.Key); ok {
		return toScheduleRow(row), nil
	}
	// Filtered out of the view: return it unstyled.
	row, err := s.findRowLocked(ctx, kind, plan.Key)
	if err != nil {
		return nil, err
	}
	return toScheduleRow(row), nil
}

func (s *ScheduleServiceImpl) findRowLocked(ctx context.Context, kind designation.Kind, rowKey string) (reconcile.Row, error) {
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return reconcile.Row{}, err
	}
	rows, _, err := s.reconcileLocked(ctx, kind)
	if err != nil {
		return reconcile.Row{}, err
	}
	row, ok := reconcile.FindRow(rows, rowKey)
	if !ok {
		return reconcile.Row{}, fmt.Errorf("row %s not found in %s table", rowKey, kind)
	}
	return row, nil
}

// reconcileLocked builds the unfiltered rows of a table, executing the
// persist of any legacy-key migration. Returns the number of migrations.
func (s *ScheduleServiceImpl) reconcileLocked(ctx context.Context, kind designation.Kind) ([]reconcile.Row, int, error) {
	result := reconcile.BuildRows(kind, s.state.cache.records(kind), s.state.startDate, s.state.overrides.Snapshot())
	if len(result.Migrated) == 0 {
		return result.Rows, 0, nil
	}
	s.state.overrides.Replace(result.Store)

	var effs []effects.Effect
	persisted := false
	for _, key := range result.Migrated {
		for _, eff := range override.GenerateMigrationPlan(kind, key) {
			if _, ok := eff.(effects.PersistEffect); ok {
				if persisted {
					continue
				}
				persisted = true
			}
			effs = append(effs, eff)
		}
	}
	if err := s.executor.Execute(ctx, effs); err != nil {
		return nil, 0, err
	}
	return result.Rows, len(result.Migrated), nil
}

// viewLocked returns the filtered, sorted and styled rows of a table.
func (s *ScheduleServiceImpl) viewLocked(ctx context.Context, kind designation.Kind) ([]reconcile.Row, error) {
	rows, _, err := s.reconcileLocked(ctx, kind)
	if err != nil {
		return nil, err
	}
	dir, by := s.state.sort.For(kind)
	return reconcile.View(rows, s.state.filters[kind], dir, by), nil
}

// Rows returns the reconciled, filtered and sorted rows of a table.
func (s *ScheduleServiceImpl) Rows(ctx context.Context, table string) ([]*primary.ScheduleRow, error) {
	kind, err := designation.ParseKind(table)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}
	rows, err := s.viewLocked(ctx, kind)
	if err != nil {
		return nil, err
	}
	out := make([]*primary.ScheduleRow, len(rows))
	for i, r := range rows {
		out[i] = toScheduleRow(r)
	}
	return out, nil
}

// Calendar returns the current calendar month.
func (s *ScheduleServiceImpl) Calendar(ctx context.Context) (*primary.CalendarMonth, error) {
	return s.moveCalendar(ctx, func(y int, m time.Month) (int, time.Month) { return y, m })
}

// PreviousMonth moves the calendar back one month.
func (s *ScheduleServiceImpl) PreviousMonth(ctx context.Context) (*primary.CalendarMonth, error) {
	return s.moveCalendar(ctx, func(y int, m time.Month) (int, time.Month) {
		return reconcile.ShiftMonth(y, m, -1)
	})
}

// NextMonth moves the calendar forward one month.
func (s *ScheduleServiceImpl) NextMonth(ctx context.Context) (*primary.CalendarMonth, error) {
	return s.moveCalendar(ctx, func(y int, m time.Month) (int, time.Month) {
		return reconcile.ShiftMonth(y, m, 1)
	})
}

// SetCalendarMonth jumps the calendar to a month.
func (s *ScheduleServiceImpl) SetCalendarMonth(ctx context.Context, year int, month time.Month) (*primary.CalendarMonth, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("invalid month %d", month)
	}
	return s.moveCalendar(ctx, func(int, time.Month) (int, time.Month) { return year, month })
}

func (s *ScheduleServiceImpl) moveCalendar(ctx context.Context, move func(int, time.Month) (int, time.Month)) (*primary.CalendarMonth, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}
	s.state.calYear, s.state.calMonth = move(s.state.calYear, s.state.calMonth)
	cal, err := s.calendarLocked(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.renderCalendarLocked(ctx, cal); err != nil {
		return nil, err
	}
	return toCalendarMonth(cal), nil
}

func (s *ScheduleServiceImpl) calendarLocked(ctx context.Context) (reconcile.Calendar, error) {
	tpaa, _, err := s.reconcileLocked(ctx, designation.KindTPAA)
	if err != nil {
		return reconcile.Calendar{}, err
	}
	pw, _, err := s.reconcileLocked(ctx, designation.KindPW)
	if err != nil {
		return reconcile.Calendar{}, err
	}
	today := schedule.FormatDate(s.now())
	return reconcile.BuildCalendar(s.state.calYear, s.state.calMonth, tpaa, pw, today), nil
}

// Export writes a table's displayed rows to an xlsx workbook.
func (s *ScheduleServiceImpl) Export(ctx context.Context, table string, w io.Writer) (int, error) {
	kind, err := designation.ParseKind(table)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return 0, err
	}
	rows, err := s.viewLocked(ctx, kind)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("failed to export %s: %w", kind, ErrEmptyTable)
	}
	if err := s.deps.Workbook.WriteSheet(ctx, w, buildSheetExport(kind, rows)); err != nil {
		return 0, fmt.Errorf("failed to export %s: %w", kind, err)
	}
	s.logger.Info("table exported", zap.String("table", kind.String()), zap.Int("rows", len(rows)))
	return len(rows), nil
}

func buildSheetExport(kind designation.Kind, rows []reconcile.Row) *secondary.SheetExport {
	offsetHeader := "Nbr sem"
	if kind == designation.KindPW {
		offsetHeader = "Nbr jours"
	}
	sheet := &secondary.SheetExport{
		Name: kind.Prefix(),
		Headers: []string{
			"Ordre", "Opération", "Désign. opér.", "Post. Trav.", "Poste Technique",
			offsetHeader, "Date", "Date ajustée", "Statut", "+? jours", "Commentaire", "Date SAP",
		},
		Rows: make([][]any, 0, len(rows)),
	}
	for _, r := range rows {
		sap := "Non"
		if r.Override.DateSAP {
			sap = "Oui"
		}
		sheet.Rows = append(sheet.Rows, []any{
			reconcile.Display(r.Order),
			reconcile.Display(r.Operation),
			reconcile.Display(r.Designation),
			reconcile.Display(r.WorkCenter),
			reconcile.Display(r.Position),
			r.Offset,
			r.TargetDate,
			r.EffectiveDate,
			string(r.Override.Statut),
			int(r.Override.PlusQuestion),
			r.Override.Commentaire,
			sap,
		})
	}
	return sheet
}

// State summarises the loaded schedule.
func (s *ScheduleServiceImpl) State(ctx context.Context) (*primary.ScheduleState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}
	pending, err := s.deps.Queue.Pending(ctx)
	if err != nil {
		return nil, err
	}
	legacy, err := s.deps.Store.Load(ctx, LegacyTPAAListStorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read legacy TPAA list: %w", err)
	}
	st := s.state
	return &primary.ScheduleState{
		StartDate:      st.startDate,
		TPAACount:      len(st.cache.TPAA),
		PWCount:        len(st.cache.PW),
		OverrideCount:  st.overrides.Len(),
		SortTPAA:       string(st.sort.TPAA),
		SortTPAABy:     string(st.sort.TPAASortBy),
		SortPW:         string(st.sort.PW),
		SortPWBy:       string(st.sort.PWSortBy),
		FilterTPAA:     toRowFilters(st.filters[designation.KindTPAA]),
		FilterPW:       toRowFilters(st.filters[designation.KindPW]),
		PendingWrites:  pending,
		LegacyTPAAList: legacy != nil,
		CalendarTitle:  reconcile.MonthTitle(st.calYear, st.calMonth),
	}, nil
}

// Flush writes every pending change to the store.
func (s *ScheduleServiceImpl) Flush(ctx context.Context) error {
	return s.deps.Queue.Flush(ctx)
}

// Close waits for delayed view refreshes, then flushes and stops the queue.
// It must not be called with mu held: pending refreshes take mu.
func (s *ScheduleServiceImpl) Close(ctx context.Context) error {
	s.deferred.close()
	return s.deps.Queue.Close(ctx)
}

// payloadLocked serialises the in-memory value of a storage key.
func (s *ScheduleServiceImpl) payloadLocked(storageKey string) ([]byte, error) {
	switch storageKey {
	case override.ManualDataStorageKey:
		return s.state.overrides.MarshalPayload()
	case reconcile.SortStateStorageKey:
		return json.Marshal(s.state.sort)
	case CachedDataStorageKey:
		cache := s.state.cache
		if cache.TPAA == nil {
			cache.TPAA = []workorder.Record{}
		}
		if cache.PW == nil {
			cache.PW = []workorder.Record{}
		}
		return json.Marshal(cache)
	default:
		return nil, fmt.Errorf("unknown storage key %q", storageKey)
	}
}

func (s *ScheduleServiceImpl) renderAllLocked(ctx context.Context) error {
	for _, kind := range designation.Kinds {
		if err := s.renderTableLocked(ctx, kind); err != nil {
			return err
		}
	}
	cal, err := s.calendarLocked(ctx)
	if err != nil {
		return err
	}
	return s.renderCalendarLocked(ctx, cal)
}

func (s *ScheduleServiceImpl) renderTableLocked(ctx context.Context, kind designation.Kind) error {
	view := s.deps.View
	if view == nil || !view.Mounted(kind.String()) {
		s.logger.Debug("table not displayed, render skipped", zap.String("table", kind.String()))
		return nil
	}
	rows, err := s.viewLocked(ctx, kind)
	if err != nil {
		return err
	}
	viewRows := make([]secondary.ViewRow, len(rows))
	for i, r := range rows {
		viewRows[i] = toViewRow(r)
	}
	if err := view.RenderTable(ctx, kind.String(), viewRows); err != nil {
		return fmt.Errorf("failed to render %s table: %w", kind, err)
	}
	return nil
}

func (s *ScheduleServiceImpl) renderCalendarLocked(ctx context.Context, cal reconcile.Calendar) error {
	view := s.deps.View
	if view == nil || !view.Mounted(calendarTarget) {
		s.logger.Debug("calendar not displayed, render skipped")
		return nil
	}
	if err := view.RenderCalendar(ctx, toViewCalendar(cal)); err != nil {
		return fmt.Errorf("failed to render calendar: %w", err)
	}
	return nil
}

// refreshCalendar runs on a timer after a day adjustment.
func (s *ScheduleServiceImpl) refreshCalendar(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cal, err := s.calendarLocked(ctx)
	if err == nil {
		err = s.renderCalendarLocked(ctx, cal)
	}
	if err != nil {
		s.logger.Warn("calendar refresh failed", zap.Error(err))
	}
}

func (s *ScheduleServiceImpl) alert(ctx context.Context, msg string) {
	if s.deps.Notifier != nil {
		s.deps.Notifier.Alert(ctx, msg)
	}
}

func toScheduleRow(r reconcile.Row) *primary.ScheduleRow {
	return &primary.ScheduleRow{
		Key:           r.Key.String(),
		Table:         r.Kind().String(),
		Order:         r.Order,
		Designation:   r.Designation,
		Operation:     r.Operation,
		WorkCenter:    r.WorkCenter,
		Position:      r.Position,
		State:         r.State,
		Offset:        r.Offset,
		OffsetLabel:   r.OffsetLabel(),
		TargetDate:    r.TargetDate,
		EffectiveDate: r.EffectiveDate,
		Adjustment:    int(r.Override.PlusQuestion),
		Status:        string(r.Override.Statut),
		Comment:       r.Override.Commentaire,
		SAPDate:       r.Override.DateSAP,
		Background:    r.Style.Background,
		Foreground:    r.Style.Text,
	}
}

func toViewRow(r reconcile.Row) secondary.ViewRow {
	return secondary.ViewRow{
		Key:           r.Key.String(),
		Order:         reconcile.Display(r.Order),
		Designation:   reconcile.Display(r.Designation),
		Operation:     reconcile.Display(r.Operation),
		WorkCenter:    reconcile.Display(r.WorkCenter),
		Position:      reconcile.Display(r.Position),
		OffsetLabel:   r.OffsetLabel(),
		TargetDate:    r.TargetDate,
		EffectiveDate: r.EffectiveDate,
		Adjustment:    int(r.Override.PlusQuestion),
		Status:        string(r.Override.Statut),
		StatusLabel:   r.Override.Statut.Label(),
		Comment:       r.Override.Commentaire,
		SAPDate:       r.Override.DateSAP,
		Background:    r.Style.Background,
		Foreground:    r.Style.Text,
	}
}

func toRowFilters(f reconcile.FilterState) primary.RowFilters {
	return primary.RowFilters{
		Designation: f.Designation,
		Operation:   f.Operation,
		Position:    f.Position,
		Date:        f.Date,
	}
}

func toCalendarMonth(cal reconcile.Calendar) *primary.CalendarMonth {
	out := &primary.CalendarMonth{
		Year:          cal.Year,
		Month:         cal.Month,
		Title:         cal.Title(),
		LeadingBlanks: cal.LeadingBlanks,
		Days:          make([]primary.CalendarDay, len(cal.Days)),
		Empty:         cal.Empty,
	}
	for i, d := range cal.Days {
		out.Days[i] = primary.CalendarDay{
			Date:  d.Date,
			Day:   d.Day,
			Today: d.Today,
			TPAA:  toCalendarEntries(d.TPAA),
			PW:    toCalendarEntries(d.PW),
		}
	}
	return out
}

func toCalendarEntries(rows []reconcile.Row) []primary.CalendarEntry {
	out := make([]primary.CalendarEntry, len(rows))
	for i, r := range rows {
		out[i] = primary.CalendarEntry{
			Key:         r.Key.String(),
			Designation: reconcile.Display(r.Designation),
			Order:       reconcile.Display(r.Order),
		}
	}
	return out
}

func toViewCalendar(cal reconcile.Calendar) *secondary.ViewCalendar {
	out := &secondary.ViewCalendar{
		Title:         cal.Title(),
		DayNames:      reconcile.DayNames[:],
		LeadingBlanks: cal.LeadingBlanks,
		Days:          make([]secondary.ViewCalendarDay, len(cal.Days)),
		Empty:         cal.Empty,
	}
	label := func(rows []reconcile.Row) []string {
		out := make([]string, len(rows))
		for i, r := range rows {
			out[i] = fmt.Sprintf("%s - %s", reconcile.Display(r.Designation), reconcile.Display(r.Order))
		}
		return out
	}
	for i, d := range cal.Days {
		out.Days[i] = secondary.ViewCalendarDay{
			Day:   d.Day,
			Today: d.Today,
			TPAA:  label(d.TPAA),
			PW:    label(d.PW),
		}
	}
	return out
}

// Ensure ScheduleServiceImpl implements the interface
var _ primary.ScheduleService = (*ScheduleServiceImpl)(nil)
