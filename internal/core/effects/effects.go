// Package effects defines effect types as data structures representing I/O operations.
// This is the foundation of the Functional Core / Imperative Shell pattern.
// Effects are pure data - they describe what should happen, not how.
package effects

import (
	"time"

	"github.com/example/arret/internal/core/designation"
)

// Effect is the base interface for all effects.
// Effects represent I/O operations as data that can be interpreted by the shell.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// LogEffect represents a logging operation.
type LogEffect struct {
	Level   string
	Message string
	Fields  map[string]any
}

func (e LogEffect) EffectType() string { return "log" }

// PersistEffect asks the shell to enqueue the current value of a storage key
// on the write-ahead queue.
type PersistEffect struct {
	StorageKey string // e.g. "tpaaPwManualData"
	Reason     string // e.g. "update", "migrate"
}

func (e PersistEffect) EffectType() string { return "persist" }

// RenderTableEffect asks the shell to re-render a whole table.
type RenderTableEffect struct {
	Table designation.Kind
}

func (e RenderTableEffect) EffectType() string { return "render_table" }

// PatchRowEffect asks the shell to update the date display of a single row
// in place instead of re-rendering the table.
type PatchRowEffect struct {
	Table         designation.Kind
	RowKey        string
	Adjustment    int
	TargetDate    string
	EffectiveDate string
}

func (e PatchRowEffect) EffectType() string { return "patch_row" }

// RefreshCalendarEffect asks the shell to re-render the calendar after Delay.
type RefreshCalendarEffect struct {
	Delay time.Duration
}

func (e RefreshCalendarEffect) EffectType() string { return "refresh_calendar" }

// CompositeEffect holds multiple effects to be executed in sequence.
type CompositeEffect struct {
	Effects []Effect
}

func (e CompositeEffect) EffectType() string { return "composite" }

// NoEffect represents an operation that produces no side effects.
type NoEffect struct{}

func (e NoEffect) EffectType() string { return "none" }
