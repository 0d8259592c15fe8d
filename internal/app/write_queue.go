package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/arret/internal/ports/secondary"
)

// ErrQueueClosed is returned when writing to a closed WriteQueue.
var ErrQueueClosed = errors.New("write queue closed")

// WriteQueue is a write-ahead queue in front of the key-value store.
// Every write is journaled before Enqueue returns, so a crash or a failed
// save never loses it. Writes are coalesced per storage key and applied
// after a quiet period, on Flush, and on Close. Entries left unapplied by a
// previous run are applied by Replay.
type WriteQueue struct {
	store     secondary.KeyValueStore
	journal   secondary.WriteJournal
	publisher secondary.ChangePublisher
	notifier  secondary.Notifier
	logger    *zap.Logger
	debounce  time.Duration
	session   string
	now       func() time.Time

	flushMu sync.Mutex // serialises flushes

	mu     sync.Mutex
	closed bool
	kick   chan struct{}
	stop   chan struct{}
	done   chan struct{}
}

// WriteQueueOptions configures a WriteQueue.
type WriteQueueOptions struct {
	Debounce  time.Duration
	SessionID string
	Publisher secondary.ChangePublisher // optional
	Notifier  secondary.Notifier        // optional
	Logger    *zap.Logger               // optional
}

// NewWriteQueue creates a WriteQueue and starts its flusher goroutine.
// Callers must Close it.
func NewWriteQueue(store secondary.KeyValueStore, journal secondary.WriteJournal, opts WriteQueueOptions) *WriteQueue {
	q := &WriteQueue{
		store:     store,
		journal:   journal,
		publisher: opts.Publisher,
		notifier:  opts.Notifier,
		logger:    opts.Logger,
		debounce:  opts.Debounce,
		session:   opts.SessionID,
		now:       time.Now,
		kick:      make(chan struct{}, 1),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	if q.logger == nil {
		q.logger = zap.NewNop()
	}
	go q.run()
	return q
}

// Enqueue journals a write of payload under key and schedules a flush.
func (q *WriteQueue) Enqueue(ctx context.Context, key string, payload []byte) error {
	q.mu.Lock()
	closed := q.closed
	q.mu.Unlock()
	if closed {
		return ErrQueueClosed
	}

	entry := &secondary.JournalEntryRecord{
		StorageKey: key,
		Payload:    payload,
		SessionID:  q.session,
	}
	if _, err := q.journal.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to journal write of %s: %w", key, err)
	}
	q.logger.Debug("write journaled", zap.String("key", key), zap.Int64("entry", entry.ID), zap.Int("bytes", len(payload)))

	select {
	case q.kick <- struct{}{}:
	default:
	}
	return nil
}

// run owns the debounce timer. Each kick restarts the quiet period.
func (q *WriteQueue) run() {
	defer close(q.done)

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	for {
		select {
		case <-q.kick:
			if timer == nil {
				timer = time.NewTimer(q.debounce)
			} else {
				timer.Stop()
				timer.Reset(q.debounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			if err := q.Flush(context.Background()); err != nil {
				q.logger.Warn("debounced flush failed", zap.Error(err))
			}
		case <-q.stop:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// Flush applies every pending journal entry, keeping only the newest
// payload per storage key. Keys whose save fails stay pending and are
// retried on the next flush; the in-memory state of callers is untouched.
func (q *WriteQueue) Flush(ctx context.Context) error {
	q.flushMu.Lock()
	defer q.flushMu.Unlock()

	entries, err := q.journal.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to read write journal: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	var (
		order  []string
		latest = make(map[string]*secondary.JournalEntryRecord)
		ids    = make(map[string][]int64)
	)
	for _, e := range entries {
		if _, seen := latest[e.StorageKey]; !seen {
			order = append(order, e.StorageKey)
		}
		latest[e.StorageKey] = e
		ids[e.StorageKey] = append(ids[e.StorageKey], e.ID)
	}

	var errs []error
	for _, key := range order {
		entry := latest[key]
		if err := q.store.Save(ctx, key, entry.Payload); err != nil {
			q.logger.Error("save failed, write kept in journal",
				zap.String("key", key),
				zap.Int("pending", len(ids[key])),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("failed to save %s: %w", key, err))
			continue
		}
		if err := q.journal.MarkApplied(ctx, ids[key]); err != nil {
			errs = append(errs, err)
			continue
		}
		q.logger.Debug("write applied", zap.String("key", key), zap.Int("coalesced", len(ids[key])))
		q.publish(ctx, key)
	}

	if len(errs) > 0 {
		if q.notifier != nil {
			q.notifier.Warn(ctx, fmt.Sprintf("Sauvegarde impossible (%d clé(s)), les modifications restent en attente.", len(errs)))
		}
		return errors.Join(errs...)
	}
	return nil
}

func (q *WriteQueue) publish(ctx context.Context, key string) {
	if q.publisher == nil {
		return
	}
	event := secondary.ChangeEvent{
		Key:     key,
		Session: q.session,
		SavedAt: q.now().UTC().Format(time.RFC3339),
	}
	if err := q.publisher.PublishChange(ctx, event); err != nil {
		q.logger.Warn("change publish failed", zap.String("key", key), zap.Error(err))
	}
}

// Replay applies entries left pending by earlier runs and returns how many
// were pending.
func (q *WriteQueue) Replay(ctx context.Context) (int, error) {
	pending, err := q.journal.CountPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending writes: %w", err)
	}
	if pending == 0 {
		return 0, nil
	}
	q.logger.Info("replaying pending writes", zap.Int("entries", pending))
	return pending, q.Flush(ctx)
}

// Load returns the value of key as the next flush would leave it: the newest
// pending payload when one is journaled, the stored value otherwise.
func (q *WriteQueue) Load(ctx context.Context, key string) ([]byte, error) {
	q.flushMu.Lock()
	defer q.flushMu.Unlock()

	entries, err := q.journal.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read write journal: %w", err)
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].StorageKey == key {
			return entries[i].Payload, nil
		}
	}
	return q.store.Load(ctx, key)
}

// Pending returns the number of journaled writes not yet applied.
func (q *WriteQueue) Pending(ctx context.Context) (int, error) {
	return q.journal.CountPending(ctx)
}

// Close stops the flusher goroutine and performs a final flush.
// Close is idempotent.
func (q *WriteQueue) Close(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	q.mu.Unlock()

	close(q.stop)
	<-q.done
	return q.Flush(ctx)
}
