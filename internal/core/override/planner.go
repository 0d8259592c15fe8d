package override

import (
	"time"

	"github.com/example/arret/internal/core/designation"
	"github.com/example/arret/internal/core/effects"
	"github.com/example/arret/internal/core/schedule"
)

// ManualDataStorageKey is the storage key holding the whole override Store.
const ManualDataStorageKey = "tpaaPwManualData"

// DefaultCalendarRefreshDelay is how long the calendar waits after a day
// adjustment before refreshing.
const DefaultCalendarRefreshDelay = 100 * time.Millisecond

// UpdatePlanInput contains pre-fetched data for planning a field update.
type UpdatePlanInput struct {
	Key                  Key
	Field                Field
	Updated              ManualOverride
	TargetDate           string // derived target of the row, "" if unknown
	CalendarRefreshDelay time.Duration
}

// UpdatePlan represents the planned effects of a field update.
type UpdatePlan struct {
	Key        string
	Override   ManualOverride
	ViewOps    []effects.Effect
	PersistOps []effects.PersistEffect
}

// Effects returns all effects as a flat slice for execution.
// View effects come first so the screen reflects the edit before the save.
func (p UpdatePlan) Effects() []effects.Effect {
	result := make([]effects.Effect, 0, len(p.ViewOps)+len(p.PersistOps))
	result = append(result, p.ViewOps...)
	for _, e := range p.PersistOps {
		result = append(result, e)
	}
	return result
}

// GenerateUpdatePlan decides what a field update must refresh.
// This is a pure function - all input data must be pre-fetched.
//   - statut drives row colours: the owning table is re-rendered
//   - plusQuestion only patches that row's date, then refreshes the calendar
//   - every update persists the override store
func GenerateUpdatePlan(input UpdatePlanInput) UpdatePlan {
	plan := UpdatePlan{
		Key:      input.Key.String(),
		Override: input.Updated,
	}

	switch input.Field {
	case FieldStatut:
		plan.ViewOps = append(plan.ViewOps, effects.RenderTableEffect{Table: input.Key.Kind})
	case FieldPlusQuestion:
		adj := int(input.Updated.PlusQuestion)
		plan.ViewOps = append(plan.ViewOps, effects.PatchRowEffect{
			Table:         input.Key.Kind,
			RowKey:        plan.Key,
			Adjustment:    adj,
			TargetDate:    input.TargetDate,
			EffectiveDate: schedule.EffectiveDate(input.TargetDate, adj),
		})
		delay := input.CalendarRefreshDelay
		if delay <= 0 {
			delay = DefaultCalendarRefreshDelay
		}
		plan.ViewOps = append(plan.ViewOps, effects.RefreshCalendarEffect{Delay: delay})
	}

	plan.PersistOps = append(plan.PersistOps, effects.PersistEffect{
		StorageKey: ManualDataStorageKey,
		Reason:     "update " + string(input.Field),
	})
	return plan
}

// GenerateMigrationPlan describes the persist that follows a legacy-key migration.
func GenerateMigrationPlan(kind designation.Kind, newKey string) []effects.Effect {
	return []effects.Effect{
		effects.LogEffect{
			Level:   "info",
			Message: "migrated legacy manual override",
			Fields:  map[string]any{"table": kind.String(), "key": newKey},
		},
		effects.PersistEffect{StorageKey: ManualDataStorageKey, Reason: "migrate"},
	}
}
