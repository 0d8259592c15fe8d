// Package persistence adapts the generic key-value store to the typed
// repositories the application consumes.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/arret/internal/ports/secondary"
)

// SettingsStorageKey holds the shutdown settings object.
const SettingsStorageKey = "arretAnnuelSettings"

// SettingsRepository implements secondary.SettingsRepository on a key-value store.
type SettingsRepository struct {
	store secondary.KeyValueStore
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(store secondary.KeyValueStore) *SettingsRepository {
	return &SettingsRepository{store: store}
}

// Get returns the stored settings (zero value when none).
func (r *SettingsRepository) Get(ctx context.Context) (*secondary.SettingsRecord, error) {
	payload, err := r.store.Load(ctx, SettingsStorageKey)
	if err != nil {
		return nil, err
	}
	settings := &secondary.SettingsRecord{}
	if payload == nil {
		return settings, nil
	}
	if err := json.Unmarshal(payload, settings); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", SettingsStorageKey, err)
	}
	return settings, nil
}

// GetStartDate returns the configured start date, "" when unset.
func (r *SettingsRepository) GetStartDate(ctx context.Context) (string, error) {
	settings, err := r.Get(ctx)
	if err != nil {
		return "", err
	}
	return settings.StartDate, nil
}

// Save replaces the stored settings.
func (r *SettingsRepository) Save(ctx context.Context, settings *secondary.SettingsRecord) error {
	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return r.store.Save(ctx, SettingsStorageKey, payload)
}

// Ensure SettingsRepository implements the interface
var _ secondary.SettingsRepository = (*SettingsRepository)(nil)
