package override

import (
	"testing"

	"github.com/example/arret/internal/core/designation"
)

func TestMigrate(t *testing.T) {
	legacy := ManualOverride{Statut: StatusPlanned, Commentaire: "échafaudage requis", PlusQuestion: 7}

	t.Run("moves legacy value to new key", func(t *testing.T) {
		store := Store{"tpaa-ORD123": legacy}

		next, migrated := Migrate(store, "tpaa-ORD123", "tpaa-ORD123-OP1-POS1")

		if !migrated {
			t.Fatal("expected migration")
		}
		if got := next["tpaa-ORD123-OP1-POS1"]; got != legacy {
			t.Errorf("new key = %+v, want %+v", got, legacy)
		}
		if _, ok := next["tpaa-ORD123"]; ok {
			t.Error("legacy key should be deleted")
		}
		if _, ok := store["tpaa-ORD123"]; !ok {
			t.Error("input store must not be modified")
		}
	})

	t.Run("new key present wins", func(t *testing.T) {
		current := ManualOverride{Statut: StatusDone}
		store := Store{"tpaa-ORD123": legacy, "tpaa-ORD123-OP1-POS1": current}

		next, migrated := Migrate(store, "tpaa-ORD123", "tpaa-ORD123-OP1-POS1")

		if migrated {
			t.Error("expected no migration when new key exists")
		}
		if next["tpaa-ORD123-OP1-POS1"] != current {
			t.Error("existing value overwritten")
		}
		if _, ok := next["tpaa-ORD123"]; !ok {
			t.Error("legacy key should be left alone")
		}
	})

	t.Run("nothing to migrate", func(t *testing.T) {
		store := Store{}
		next, migrated := Migrate(store, "pw-1", "pw-1-0010-P")
		if migrated || len(next) != 0 {
			t.Errorf("unexpected migration: %v %v", next, migrated)
		}
	})
}

func TestResolve(t *testing.T) {
	key := Key{Kind: designation.KindTPAA, Order: "ORD123", Operation: "OP1", Position: "POS1"}
	legacy := ManualOverride{Statut: StatusPlanned, PlusQuestion: 0}

	t.Run("legacy fallback then default", func(t *testing.T) {
		store := Store{"tpaa-ORD123": legacy}

		got, next, migrated := Resolve(store, key)
		if !migrated {
			t.Fatal("expected migration")
		}
		if got.Statut != StatusPlanned {
			t.Errorf("statut = %q, want Planifié", got.Statut)
		}

		// A lookup with the legacy key alone now finds nothing.
		if _, ok := next["tpaa-ORD123"]; ok {
			t.Error("legacy key still present")
		}
		legacyOnly := Key{Kind: designation.KindTPAA, Order: "ORD123"}
		if _, ok := next[legacyOnly.Legacy()]; ok {
			t.Error("legacy lookup should miss after migration")
		}

		again, _, migratedAgain := Resolve(next, key)
		if migratedAgain {
			t.Error("second resolve should not migrate")
		}
		if again != got {
			t.Errorf("second resolve = %+v, want %+v", again, got)
		}
	})

	t.Run("default is not inserted", func(t *testing.T) {
		store := Store{}
		got, next, migrated := Resolve(store, key)
		if migrated {
			t.Error("unexpected migration")
		}
		if got != Default() {
			t.Errorf("got %+v, want default", got)
		}
		if len(next) != 0 {
			t.Error("default must not be persisted on read")
		}
	})

	t.Run("legacy of other kind is ignored", func(t *testing.T) {
		store := Store{"pw-ORD123": legacy}
		got, _, migrated := Resolve(store, key)
		if migrated || got != Default() {
			t.Errorf("pw legacy key leaked into tpaa row: %+v", got)
		}
	})
}

func TestKey(t *testing.T) {
	key := Key{Kind: designation.KindPW, Order: "67890", Operation: "0020", Position: "POSTE456"}
	if key.String() != "pw-67890-0020-POSTE456" {
		t.Errorf("String() = %q", key.String())
	}
	if key.Legacy() != "pw-67890" {
		t.Errorf("Legacy() = %q", key.Legacy())
	}
}
