package override

import "maps"

// Store maps composite key strings to overrides. It is the only entity the
// scheduling core persists (storage key "tpaaPwManualData").
type Store map[string]ManualOverride

// Migrate moves a legacy entry to its new key.
// This is a pure function: the input store is never modified. When the new
// key already exists, or the legacy key is absent, the input is returned
// unchanged with migrated=false. Otherwise a copy is returned in which the
// value lives under newKey and legacyKey is gone.
func Migrate(store Store, legacyKey, newKey string) (Store, bool) {
	if _, ok := store[newKey]; ok {
		return store, false
	}
	legacy, ok := store[legacyKey]
	if !ok {
		return store, false
	}
	next := maps.Clone(store)
	next[newKey] = legacy
	delete(next, legacyKey)
	return next, true
}

// Resolve looks up the override for key, falling back to (and migrating
// from) the legacy key. The returned store differs from the input only
// when migrated is true. The default override is returned, and not
// inserted, when neither key exists.
func Resolve(store Store, key Key) (ManualOverride, Store, bool) {
	newKey := key.String()
	if ov, ok := store[newKey]; ok {
		return ov, store, false
	}
	next, migrated := Migrate(store, key.Legacy(), newKey)
	if migrated {
		return next[newKey], next, true
	}
	return Default(), store, false
}
