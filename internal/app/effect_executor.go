// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/arret/internal/core/designation"
	"github.com/example/arret/internal/core/effects"
	"github.com/example/arret/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place I/O happens.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) error
}

// Enqueuer accepts writes for the key-value store.
type Enqueuer interface {
	Enqueue(ctx context.Context, key string, payload []byte) error
}

// PayloadSource serialises the current in-memory value of a storage key.
type PayloadSource interface {
	Payload(storageKey string) ([]byte, error)
}

// TableRenderer re-renders a whole table. The caller holds the state lock.
type TableRenderer interface {
	RenderTable(ctx context.Context, table designation.Kind) error
}

// DefaultEffectExecutor implements EffectExecutor with real I/O.
type DefaultEffectExecutor struct {
	queue           Enqueuer
	payloads        PayloadSource
	view            secondary.ScheduleView
	renderer        TableRenderer
	deferred        *deferredTasks
	refreshCalendar func(ctx context.Context)
	logger          *zap.Logger
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
// refreshCalendar runs on a timer goroutine and must take its own locks.
func NewEffectExecutor(queue Enqueuer, payloads PayloadSource, view secondary.ScheduleView, renderer TableRenderer, deferred *deferredTasks, refreshCalendar func(ctx context.Context), logger *zap.Logger) *DefaultEffectExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultEffectExecutor{
		queue:           queue,
		payloads:        payloads,
		view:            view,
		renderer:        renderer,
		deferred:        deferred,
		refreshCalendar: refreshCalendar,
		logger:          logger,
	}
}

// Execute processes a slice of effects, executing each in sequence.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	for _, eff := range effs {
		if err := e.executeOne(ctx, eff); err != nil {
			return fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
		}
	}
	return nil
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, eff effects.Effect) error {
	switch typed := eff.(type) {
	case effects.PersistEffect:
		return e.executePersist(ctx, typed)
	case effects.RenderTableEffect:
		return e.renderer.RenderTable(ctx, typed.Table)
	case effects.PatchRowEffect:
		return e.executePatch(ctx, typed)
	case effects.RefreshCalendarEffect:
		e.executeRefresh(typed)
		return nil
	case effects.CompositeEffect:
		return e.Execute(ctx, typed.Effects)
	case effects.NoEffect:
		return nil
	case effects.LogEffect:
		e.executeLog(typed)
		return nil
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *DefaultEffectExecutor) executePersist(ctx context.Context, eff effects.PersistEffect) error {
	payload, err := e.payloads.Payload(eff.StorageKey)
	if err != nil {
		return err
	}
	e.logger.Debug("persist", zap.String("key", eff.StorageKey), zap.String("reason", eff.Reason))
	return e.queue.Enqueue(ctx, eff.StorageKey, payload)
}

func (e *DefaultEffectExecutor) executePatch(ctx context.Context, eff effects.PatchRowEffect) error {
	table := eff.Table.String()
	if e.view == nil || !e.view.Mounted(table) {
		e.logger.Debug("table not displayed, patch skipped", zap.String("table", table), zap.String("row", eff.RowKey))
		return nil
	}
	return e.view.PatchRowDate(ctx, table, secondary.DatePatch{
		RowKey:        eff.RowKey,
		Adjustment:    eff.Adjustment,
		TargetDate:    eff.TargetDate,
		EffectiveDate: eff.EffectiveDate,
	})
}

func (e *DefaultEffectExecutor) executeRefresh(eff effects.RefreshCalendarEffect) {
	if e.refreshCalendar == nil || e.deferred == nil {
		return
	}
	refresh := e.refreshCalendar
	// The refresh outlives the request, so it must not inherit its cancellation.
	e.deferred.after(eff.Delay, func() { refresh(context.Background()) })
}

func (e *DefaultEffectExecutor) executeLog(eff effects.LogEffect) {
	fields := make([]zap.Field, 0, len(eff.Fields))
	for k, v := range eff.Fields {
		fields = append(fields, zap.Any(k, v))
	}
	switch eff.Level {
	case "debug":
		e.logger.Debug(eff.Message, fields...)
	case "warn":
		e.logger.Warn(eff.Message, fields...)
	case "error":
		e.logger.Error(eff.Message, fields...)
	default:
		e.logger.Info(eff.Message, fields...)
	}
}

// deferredTasks runs delayed work and lets Close wait for it.
type deferredTasks struct {
	mu     sync.Mutex
	wg     sync.WaitGroup
	closed bool
}

func newDeferredTasks() *deferredTasks {
	return &deferredTasks{}
}

// after runs fn once delay has elapsed. Calls after close are dropped.
func (d *deferredTasks) after(delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.wg.Add(1)
	time.AfterFunc(delay, func() {
		defer d.wg.Done()
		fn()
	})
}

// close stops accepting work and waits for scheduled work to finish.
func (d *deferredTasks) close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.wg.Wait()
}
