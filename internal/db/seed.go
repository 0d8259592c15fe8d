package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SeedFixtures populates the store with a small demonstration dataset:
// a shutdown start date and an IW37N export holding TPAA and PW work.
func SeedFixtures(database *sql.DB) error {
	now := time.Now().UTC().Format(time.RFC3339)

	settings := map[string]string{"startDate": "2026-04-01", "lastUpdated": now}

	iw37n := []map[string]string{
		{"Ordre": "100", "Opération": "0010", "Désign. opér.": "TPAA-3 Échafaudage colonne C1", "Post.trav.opér.": "MEC01", "Poste technique": "FR-C1", "Etat": "LANC"},
		{"Ordre": "101", "Opération": "0020", "Désign. opér.": "TPAA-6 Approvisionnement joints", "Post.trav.opér.": "ELEC02", "Poste technique": "FR-E4", "Etat": "CRPR"},
		{"Ordre": "102", "Opération": "0010", "Désign. opér.": "TPAA Consignation", "Post.trav.opér.": "EXT-SOG", "Poste technique": "FR-P2", "Etat": "CRPR"},
		{"Ordre": "200", "Opération": "0010", "Désign. opér.": "PW-10 Nettoyage échangeur", "Post.trav.opér.": "EXT-NET", "Poste technique": "FR-E11", "Etat": "LANC"},
		{"Ordre": "201", "Opération": "0030", "Désign. opér.": "PW-2 Dépose calorifuge", "Post.trav.opér.": "CALO", "Poste technique": "FR-T3", "Etat": "LANC"},
		{"Ordre": "300", "Opération": "0010", "Désign. opér.": "Inspection ballon", "Post.trav.opér.": "INSP", "Poste technique": "FR-B1", "Etat": "CRPR"},
	}

	fixtures := []struct {
		key   string
		value any
	}{
		{"arretAnnuelSettings", settings},
		{"iw37nData", iw37n},
	}
	for _, f := range fixtures {
		payload, err := json.Marshal(f.value)
		if err != nil {
			return fmt.Errorf("seed %s: %w", f.key, err)
		}
		if _, err := database.Exec(
			"INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at",
			f.key, string(payload), now,
		); err != nil {
			return fmt.Errorf("seed %s: %w", f.key, err)
		}
	}
	return nil
}
