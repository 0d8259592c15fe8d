package app

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/arret/internal/core/effects"
	"github.com/example/arret/internal/core/override"
)

// OverrideStore owns the in-memory manual override map. Mutations return
// plans whose effects the caller executes; OverrideStore itself does no I/O.
// It is not safe for concurrent use; ScheduleServiceImpl guards it.
type OverrideStore struct {
	data         override.Store
	refreshDelay time.Duration
}

// NewOverrideStore creates an OverrideStore over data (may be nil).
func NewOverrideStore(data override.Store, refreshDelay time.Duration) *OverrideStore {
	if data == nil {
		data = override.Store{}
	}
	return &OverrideStore{data: data, refreshDelay: refreshDelay}
}

// Get returns the override for key, migrating a legacy entry when needed.
// The returned effects persist the migration and are empty otherwise.
func (s *OverrideStore) Get(key override.Key) (override.ManualOverride, []effects.Effect) {
	ov, next, migrated := override.Resolve(s.data, key)
	if !migrated {
		return ov, nil
	}
	s.data = next
	return ov, override.GenerateMigrationPlan(key.Kind, key.String())
}

// Update sets one field of key's override, creating it with defaults when
// absent. targetDate is the row's derived date, used to patch its display.
func (s *OverrideStore) Update(key override.Key, field override.Field, value, targetDate string) (override.UpdatePlan, error) {
	current, migration := s.Get(key)
	updated, err := override.ApplyField(key.String(), current, field, value)
	if err != nil {
		return override.UpdatePlan{}, err
	}
	return s.commit(key, field, updated, targetDate, migration), nil
}

// AdjustByStep adds delta days to key's current adjustment.
func (s *OverrideStore) AdjustByStep(key override.Key, delta int, targetDate string) (override.UpdatePlan, error) {
	current, migration := s.Get(key)
	updated := override.AdjustByStep(current, delta)
	return s.commit(key, override.FieldPlusQuestion, updated, targetDate, migration), nil
}

func (s *OverrideStore) commit(key override.Key, field override.Field, updated override.ManualOverride, targetDate string, migration []effects.Effect) override.UpdatePlan {
	s.data[key.String()] = updated
	plan := override.GenerateUpdatePlan(override.UpdatePlanInput{
		Key:                  key,
		Field:                field,
		Updated:              updated,
		TargetDate:           targetDate,
		CalendarRefreshDelay: s.refreshDelay,
	})
	// The update persists the whole map, so only the migration log is kept.
	for _, eff := range migration {
		if _, ok := eff.(effects.LogEffect); ok {
			plan.ViewOps = append([]effects.Effect{eff}, plan.ViewOps...)
		}
	}
	return plan
}

// Replace swaps in a new map, e.g. after rows were reconciled with migrations.
func (s *OverrideStore) Replace(data override.Store) {
	if data == nil {
		data = override.Store{}
	}
	s.data = data
}

// Snapshot returns the current map. Callers must not modify it.
func (s *OverrideStore) Snapshot() override.Store {
	return s.data
}

// Len returns the number of stored overrides.
func (s *OverrideStore) Len() int {
	return len(s.data)
}

// MarshalPayload encodes the map in its persisted JSON form.
func (s *OverrideStore) MarshalPayload() ([]byte, error) {
	payload, err := json.Marshal(s.data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode manual data: %w", err)
	}
	return payload, nil
}

// DecodeOverrides parses a persisted override map; nil payload means empty.
func DecodeOverrides(payload []byte) (override.Store, error) {
	store := override.Store{}
	if payload == nil {
		return store, nil
	}
	if err := json.Unmarshal(payload, &store); err != nil {
		return nil, fmt.Errorf("failed to decode manual data: %w", err)
	}
	return store, nil
}
