// Package wire provides dependency injection for the arret application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/arret/internal/adapters/changefeed"
	cliadapter "github.com/example/arret/internal/adapters/cli"
	"github.com/example/arret/internal/adapters/excel"
	"github.com/example/arret/internal/adapters/filesystem"
	"github.com/example/arret/internal/adapters/persistence"
	"github.com/example/arret/internal/adapters/sqlite"
	"github.com/example/arret/internal/app"
	"github.com/example/arret/internal/config"
	"github.com/example/arret/internal/ctxutil"
	"github.com/example/arret/internal/db"
	"github.com/example/arret/internal/logging"
	"github.com/example/arret/internal/ports/primary"
	"github.com/example/arret/internal/ports/secondary"
)

// journalRetention bounds how long applied journal entries are kept.
const journalRetention = 30 * 24 * time.Hour

// feed is the change feed as seen by wire: publish, subscribe and close.
type feed interface {
	secondary.ChangePublisher
	secondary.ChangeSubscriber
	Close() error
}

var (
	cfg       *config.Config
	cfgSource string
	logger    *zap.Logger
	database  *sql.DB
	sessionID string

	journal  *sqlite.WriteJournalRepository
	changes  feed
	view     *cliadapter.TerminalView
	workbook *excel.Workbook

	scheduleService *app.ScheduleServiceImpl
	settingsService primary.SettingsService
	importService   primary.ImportService

	once        sync.Once
	initialized bool
)

// ScheduleService returns the singleton ScheduleService instance.
func ScheduleService() primary.ScheduleService {
	once.Do(initServices)
	return scheduleService
}

// SettingsService returns the singleton SettingsService instance.
func SettingsService() primary.SettingsService {
	once.Do(initServices)
	return settingsService
}

// ImportService returns the singleton ImportService instance.
func ImportService() primary.ImportService {
	once.Do(initServices)
	return importService
}

// Config returns the resolved configuration and where it came from.
func Config() (*config.Config, string) {
	once.Do(initServices)
	return cfg, cfgSource
}

// Logger returns the application logger.
func Logger() *zap.Logger {
	once.Do(initServices)
	return logger
}

// DB returns the shared database handle.
func DB() *sql.DB {
	once.Do(initServices)
	return database
}

// View returns the terminal schedule view.
func View() *cliadapter.TerminalView {
	once.Do(initServices)
	return view
}

// ChangeSubscriber returns the cross-session change feed.
func ChangeSubscriber() secondary.ChangeSubscriber {
	once.Do(initServices)
	return changes
}

// Context returns a background context carrying this process's session ID.
func Context() context.Context {
	once.Do(initServices)
	return ctxutil.WithSessionID(context.Background(), sessionID)
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to get working directory: %v", err)
	}

	cfg, cfgSource, err = config.Resolve(cwd)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err = logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logging: %v", err)
	}

	database, err = db.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.String("path", cfg.Database.Path), zap.Error(err))
	}

	sessionID = ctxutil.NewSessionID()
	logger = logger.With(zap.String("session", sessionID))

	// Secondary adapters
	store := sqlite.NewKeyValueStore(database)
	journal = sqlite.NewWriteJournalRepository(database)
	settingsRepo := persistence.NewSettingsRepository(store)
	workOrderRepo := persistence.NewWorkOrderRepository(store)
	changes = openChangeFeed(cfg.NATS, logger)
	view = cliadapter.NewTerminalView(os.Stdout)
	notifier := cliadapter.NewTerminalNotifier(os.Stdout, os.Stderr)
	workbook = excel.NewWorkbook(logger)

	queue := app.NewWriteQueue(store, journal, app.WriteQueueOptions{
		Debounce:  cfg.Save.Debounce,
		SessionID: sessionID,
		Publisher: changes,
		Notifier:  notifier,
		Logger:    logger,
	})

	// Services (primary ports implementation)
	scheduleService = app.NewScheduleService(app.ScheduleServiceDeps{
		Store:                store,
		Queue:                queue,
		WorkOrders:           workOrderRepo,
		Settings:             settingsRepo,
		View:                 view,
		Notifier:             notifier,
		Workbook:             workbook,
		Logger:               logger,
		CalendarRefreshDelay: cfg.Calendar.RefreshDelay,
	})
	settingsService = app.NewSettingsService(settingsRepo, logger)
	importService = app.NewImportService(workbook, workOrderRepo, logger)

	initialized = true
}

func openChangeFeed(nc config.NATSConfig, logger *zap.Logger) feed {
	if nc.URL == "" {
		return changefeed.Disabled{}
	}
	f, err := changefeed.Connect(nc.URL, nc.Subject, logger)
	if err != nil {
		logger.Warn("change feed unavailable, continuing without it", zap.String("url", nc.URL), zap.Error(err))
		return changefeed.Disabled{}
	}
	return f
}

// FileWatcher returns a watcher for path using the configured debounce.
// An empty path falls back to the configured watch path.
func FileWatcher(path string) (*filesystem.FileWatcher, error) {
	once.Do(initServices)
	if path == "" {
		path = cfg.Watch.Path
	}
	return filesystem.NewFileWatcher(path, cfg.Watch.Debounce, logger)
}

// Shutdown flushes pending writes and releases every resource opened by
// initServices. It is a no-op when nothing was initialized.
func Shutdown(ctx context.Context) error {
	if !initialized {
		return nil
	}

	var errs []error
	if err := scheduleService.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if n, err := journal.Prune(ctx, journalRetention); err != nil {
		logger.Warn("failed to prune write journal", zap.Error(err))
	} else if n > 0 {
		logger.Debug("pruned write journal", zap.Int64("entries", n))
	}
	if err := changes.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := database.Close(); err != nil {
		errs = append(errs, err)
	}
	_ = logger.Sync()
	return errors.Join(errs...)
}

// ScheduleAdapter returns a new ScheduleAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func ScheduleAdapter() *cliadapter.ScheduleAdapter {
	return ScheduleAdapterWithOutput(os.Stdout)
}

// ScheduleAdapterWithOutput returns a new ScheduleAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func ScheduleAdapterWithOutput(out io.Writer) *cliadapter.ScheduleAdapter {
	once.Do(initServices)
	return cliadapter.NewScheduleAdapter(scheduleService, out)
}

// SettingsAdapter returns a new SettingsAdapter writing to stdout.
func SettingsAdapter() *cliadapter.SettingsAdapter {
	return SettingsAdapterWithOutput(os.Stdout)
}

// SettingsAdapterWithOutput returns a new SettingsAdapter writing to the given output.
func SettingsAdapterWithOutput(out io.Writer) *cliadapter.SettingsAdapter {
	once.Do(initServices)
	return cliadapter.NewSettingsAdapter(settingsService, out)
}

// ImportAdapter returns a new ImportAdapter writing to stdout.
func ImportAdapter() *cliadapter.ImportAdapter {
	return ImportAdapterWithOutput(os.Stdout)
}

// ImportAdapterWithOutput returns a new ImportAdapter writing to the given output.
func ImportAdapterWithOutput(out io.Writer) *cliadapter.ImportAdapter {
	once.Do(initServices)
	return cliadapter.NewImportAdapter(importService, out)
}
