package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/arret/internal/core/workorder"
	"github.com/example/arret/internal/ports/secondary"
)

// IW37NStorageKey holds the imported IW37N dataset.
const IW37NStorageKey = "iw37nData"

// WorkOrderRepository implements secondary.WorkOrderRepository on a key-value store.
type WorkOrderRepository struct {
	store secondary.KeyValueStore
}

// NewWorkOrderRepository creates a new WorkOrderRepository.
func NewWorkOrderRepository(store secondary.KeyValueStore) *WorkOrderRepository {
	return &WorkOrderRepository{store: store}
}

// ListWorkOrders returns the current IW37N dataset (empty when none).
// Numeric and boolean cells are normalised to text.
func (r *WorkOrderRepository) ListWorkOrders(ctx context.Context) ([]secondary.WorkOrderRecord, error) {
	payload, err := r.store.Load(ctx, IW37NStorageKey)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return []secondary.WorkOrderRecord{}, nil
	}

	var decoded []workorder.Record
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", IW37NStorageKey, err)
	}
	records := make([]secondary.WorkOrderRecord, len(decoded))
	for i, rec := range decoded {
		records[i] = secondary.WorkOrderRecord(rec)
	}
	return records, nil
}

// SaveWorkOrders replaces the IW37N dataset.
func (r *WorkOrderRepository) SaveWorkOrders(ctx context.Context, records []secondary.WorkOrderRecord) error {
	if records == nil {
		records = []secondary.WorkOrderRecord{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode work orders: %w", err)
	}
	return r.store.Save(ctx, IW37NStorageKey, payload)
}

// Ensure WorkOrderRepository implements the interface
var _ secondary.WorkOrderRepository = (*WorkOrderRepository)(nil)
