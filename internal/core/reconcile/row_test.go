package reconcile

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/example/arret/internal/core/designation"
	"github.com/example/arret/internal/core/override"
	"github.com/example/arret/internal/core/workorder"
)

func TestBuildRows_EndToEnd(t *testing.T) {
	records := []workorder.Record{{
		"Ordre":           "100",
		"Opération":       "0010",
		"Désign. opér.":   "TPAA-3",
		"Poste technique": "POS1",
	}}

	result := BuildRows(designation.KindTPAA, records, "2026-04-01", override.Store{})
	if len(result.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(result.Rows))
	}
	row := result.Rows[0]
	if row.Offset != 3 {
		t.Errorf("Offset = %d, want 3", row.Offset)
	}
	if row.TargetDate != "2026-03-11" {
		t.Errorf("TargetDate = %q, want 2026-03-11", row.TargetDate)
	}
	if row.EffectiveDate != "2026-03-11" {
		t.Errorf("EffectiveDate = %q, want target date", row.EffectiveDate)
	}
	if row.Key.String() != "tpaa-100-0010-POS1" {
		t.Errorf("Key = %q", row.Key.String())
	}

	updated, err := override.ApplyField(row.Key.String(), row.Override, override.FieldPlusQuestion, "7")
	if err != nil {
		t.Fatalf("ApplyField failed: %v", err)
	}
	store := override.Store{row.Key.String(): updated}

	again := BuildRows(designation.KindTPAA, records, "2026-04-01", store)
	if got := again.Rows[0].EffectiveDate; got != "2026-03-18" {
		t.Errorf("EffectiveDate after +7 = %q, want 2026-03-18", got)
	}
	if !again.Rows[0].Adjusted() {
		t.Error("row should report an adjustment")
	}
}

func TestBuildRows_MissingStartDateAndDesignation(t *testing.T) {
	records := []workorder.Record{
		{"Ordre": "1", "Désign. opér.": "PW"},
		{"Désign. opér.": "PW-10"},
	}
	result := BuildRows(designation.KindPW, records, "", override.Store{})

	want := []Row{
		{
			Key:         override.Key{Kind: designation.KindPW, Order: "1", Operation: "-", Position: "-"},
			Order:       "1",
			Designation: "PW",
		},
		{
			Key:         override.Key{Kind: designation.KindPW, Order: "-", Operation: "-", Position: "-"},
			Designation: "PW-10",
			Offset:      10,
		},
	}
	if diff := cmp.Diff(want, result.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if got := result.Rows[0].OffsetLabel(); got != "- j" {
		t.Errorf("OffsetLabel = %q, want \"- j\"", got)
	}
	if got := result.Rows[1].OffsetLabel(); got != "10 j" {
		t.Errorf("OffsetLabel = %q, want \"10 j\"", got)
	}
}

func TestBuildRows_MigratesLegacyKeys(t *testing.T) {
	records := []workorder.Record{{
		"Ordre": "ORD123", "Opération": "OP1", "Désign. opér.": "TPAA-1", "Poste technique": "POS1",
	}}
	store := override.Store{"tpaa-ORD123": {Statut: override.StatusPlanned}}

	result := BuildRows(designation.KindTPAA, records, "2026-04-01", store)

	if diff := cmp.Diff([]string{"tpaa-ORD123-OP1-POS1"}, result.Migrated); diff != "" {
		t.Errorf("Migrated mismatch (-want +got):\n%s", diff)
	}
	if result.Rows[0].Override.Statut != override.StatusPlanned {
		t.Errorf("statut = %q, want Planifié", result.Rows[0].Override.Statut)
	}
	if _, ok := result.Store["tpaa-ORD123"]; ok {
		t.Error("legacy key should be gone from the returned store")
	}
	if _, ok := store["tpaa-ORD123"]; !ok {
		t.Error("input store must not be modified")
	}
}

func TestView_StylesByDisplayIndex(t *testing.T) {
	rows := []Row{
		{Key: override.Key{Order: "a"}, EffectiveDate: "2026-03-02"},
		{Key: override.Key{Order: "b"}, EffectiveDate: "2026-03-01", Override: override.ManualOverride{Statut: override.StatusDone}},
		{Key: override.Key{Order: "c"}, EffectiveDate: "2026-03-03"},
	}

	got := View(rows, FilterState{}, DirectionAsc, SortByDate)

	orders := []string{got[0].Key.Order, got[1].Key.Order, got[2].Key.Order}
	if diff := cmp.Diff([]string{"b", "a", "c"}, orders); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if got[0].Style.Background != "#e8f5e9" {
		t.Errorf("done row background = %q", got[0].Style.Background)
	}
	if got[1].Style.Background != "white" || got[2].Style.Background != "#f9f9f9" {
		t.Errorf("zebra = %q, %q", got[1].Style.Background, got[2].Style.Background)
	}
	if rows[0].Style != (Style{}) {
		t.Error("input rows must not be styled in place")
	}
}

func TestFindRow(t *testing.T) {
	rows := []Row{{Key: override.Key{Kind: designation.KindPW, Order: "1", Operation: "2", Position: "3-4"}}}
	if _, ok := FindRow(rows, "pw-1-2-3-4"); !ok {
		t.Error("expected to find row with hyphenated position")
	}
	if _, ok := FindRow(rows, "tpaa-1-2-3-4"); ok {
		t.Error("kind must be part of the match")
	}
}
