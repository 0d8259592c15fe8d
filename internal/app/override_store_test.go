package app

import (
	"testing"
	"time"

	"github.com/example/arret/internal/core/designation"
	"github.com/example/arret/internal/core/effects"
	"github.com/example/arret/internal/core/override"
)

var testKey = override.Key{Kind: designation.KindTPAA, Order: "ORD123", Operation: "OP1", Position: "POS1"}

func TestOverrideStore_GetMigratesLegacy(t *testing.T) {
	legacy := override.ManualOverride{PlusQuestion: 3, Statut: override.StatusDone}
	store := NewOverrideStore(override.Store{"tpaa-ORD123": legacy}, 0)

	got, effs := store.Get(testKey)
	if got != legacy {
		t.Errorf("expected legacy value, got %+v", got)
	}
	if len(effs) != 2 {
		t.Fatalf("expected log + persist effects, got %d", len(effs))
	}
	if _, ok := store.Snapshot()["tpaa-ORD123"]; ok {
		t.Error("expected legacy key removed")
	}

	// A second lookup hits the new key directly.
	_, effs = store.Get(testKey)
	if len(effs) != 0 {
		t.Errorf("expected no effects, got %d", len(effs))
	}
}

func TestOverrideStore_GetDefaultNotInserted(t *testing.T) {
	store := NewOverrideStore(nil, 0)

	got, effs := store.Get(testKey)
	if !got.IsDefault() || len(effs) != 0 {
		t.Errorf("expected default without effects, got %+v, %d effects", got, len(effs))
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d entries", store.Len())
	}
}

func TestOverrideStore_Update(t *testing.T) {
	store := NewOverrideStore(nil, 50*time.Millisecond)

	plan, err := store.Update(testKey, override.FieldPlusQuestion, "7", "2026-03-11")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if plan.Override.PlusQuestion != 7 {
		t.Errorf("expected +7, got %d", plan.Override.PlusQuestion)
	}
	effs := plan.Effects()
	if len(effs) != 3 {
		t.Fatalf("expected patch, refresh and persist, got %d effects", len(effs))
	}
	patch, ok := effs[0].(effects.PatchRowEffect)
	if !ok || patch.EffectiveDate != "2026-03-18" {
		t.Errorf("expected patch to 2026-03-18, got %+v", effs[0])
	}
	refresh, ok := effs[1].(effects.RefreshCalendarEffect)
	if !ok || refresh.Delay != 50*time.Millisecond {
		t.Errorf("expected refresh after 50ms, got %+v", effs[1])
	}

	if _, err := store.Update(testKey, override.FieldStatut, "Inconnu", ""); err == nil {
		t.Error("expected error for unknown status")
	}
	if store.Snapshot()[testKey.String()].Statut != override.StatusNone {
		t.Error("a rejected update must not change the stored value")
	}
}

func TestOverrideStore_UpdateAfterMigrationLogs(t *testing.T) {
	store := NewOverrideStore(override.Store{"tpaa-ORD123": override.Default()}, 0)

	plan, err := store.Update(testKey, override.FieldCommentaire, "vu", "")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	effs := plan.Effects()
	if _, ok := effs[0].(effects.LogEffect); !ok {
		t.Errorf("expected migration log first, got %T", effs[0])
	}
	persists := 0
	for _, e := range effs {
		if _, ok := e.(effects.PersistEffect); ok {
			persists++
		}
	}
	if persists != 1 {
		t.Errorf("expected a single persist, got %d", persists)
	}
}

func TestOverrideStore_AdjustByStep(t *testing.T) {
	store := NewOverrideStore(nil, 0)

	if _, err := store.AdjustByStep(testKey, 2, "2026-03-11"); err != nil {
		t.Fatalf("AdjustByStep failed: %v", err)
	}
	plan, err := store.AdjustByStep(testKey, -5, "2026-03-11")
	if err != nil {
		t.Fatalf("AdjustByStep failed: %v", err)
	}
	if plan.Override.PlusQuestion != -3 {
		t.Errorf("expected -3, got %d", plan.Override.PlusQuestion)
	}
}

func TestDecodeOverrides(t *testing.T) {
	store, err := DecodeOverrides(nil)
	if err != nil || len(store) != 0 {
		t.Errorf("expected empty store, got %v, %v", store, err)
	}

	store, err = DecodeOverrides([]byte(`{"pw-1---":{"plusQuestion":4,"statut":"À faire","commentaire":"","dateSAP":true}}`))
	if err != nil {
		t.Fatalf("DecodeOverrides failed: %v", err)
	}
	if got := store["pw-1---"]; got.PlusQuestion != 4 || !got.DateSAP {
		t.Errorf("unexpected override %+v", got)
	}

	if _, err := DecodeOverrides([]byte(`[`)); err == nil {
		t.Error("expected error for malformed payload")
	}
}
