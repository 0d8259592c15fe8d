package secondary

import "context"

// KeyValueStore defines the secondary port for the generic JSON key-value store.
type KeyValueStore interface {
	// Load returns the payload stored under key, or nil when absent.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save replaces the payload stored under key. Last write wins.
	Save(ctx context.Context, key string, payload []byte) error
}

// WriteJournal defines the secondary port for the write-ahead journal.
type WriteJournal interface {
	// Append records a pending write and returns its ID.
	Append(ctx context.Context, entry *JournalEntryRecord) (int64, error)

	// ListPending returns unapplied entries, oldest first.
	ListPending(ctx context.Context) ([]*JournalEntryRecord, error)

	// MarkApplied marks entries as written to the store.
	MarkApplied(ctx context.Context, ids []int64) error

	// CountPending returns the number of unapplied entries.
	CountPending(ctx context.Context) (int, error)
}

// JournalEntryRecord represents a journaled write as stored in persistence.
type JournalEntryRecord struct {
	ID         int64
	StorageKey string
	Payload    []byte
	SessionID  string
	CreatedAt  string
	AppliedAt  string // empty while pending
}

// WorkOrderRecord is one IW37N row: column header -> cell text.
type WorkOrderRecord map[string]string

// WorkOrderRepository defines the secondary port for the IW37N dataset.
type WorkOrderRepository interface {
	// ListWorkOrders returns the current IW37N dataset (empty when none).
	ListWorkOrders(ctx context.Context) ([]WorkOrderRecord, error)

	// SaveWorkOrders replaces the IW37N dataset.
	SaveWorkOrders(ctx context.Context, records []WorkOrderRecord) error
}

// SettingsProvider defines the secondary port for reading the shutdown start date.
type SettingsProvider interface {
	// GetStartDate returns the configured start date, "" when unset.
	GetStartDate(ctx context.Context) (string, error)
}

// SettingsRepository defines the secondary port for settings persistence.
type SettingsRepository interface {
	SettingsProvider

	// Get returns the stored settings (zero value when none).
	Get(ctx context.Context) (*SettingsRecord, error)

	// Save replaces the stored settings.
	Save(ctx context.Context, settings *SettingsRecord) error
}

// SettingsRecord represents shutdown settings as stored in persistence.
type SettingsRecord struct {
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate,omitempty"`
	LastUpdated string `json:"lastUpdated,omitempty"`
}
