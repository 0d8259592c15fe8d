package override

import (
	"fmt"

	"github.com/example/arret/internal/core/designation"
	"github.com/example/arret/internal/core/workorder"
)

// Key is the composite identity of a schedule row. Kind is carried
// explicitly rather than decoded back out of the key string.
type Key struct {
	Kind      designation.Kind
	Order     string
	Operation string
	Position  string
}

// KeyFor builds the key of a work-order row. Missing identity fields become "-".
func KeyFor(kind designation.Kind, r workorder.Record) Key {
	return Key{
		Kind:      kind,
		Order:     workorder.OrPlaceholder(r.Order()),
		Operation: workorder.OrPlaceholder(r.Operation()),
		Position:  workorder.OrPlaceholder(r.Position()),
	}
}

// String returns the persisted form "{type}-{order}-{operation}-{position}".
func (k Key) String() string {
	return fmt.Sprintf("%s-%s-%s-%s", k.Kind, k.Order, k.Operation, k.Position)
}

// Legacy returns the older, coarser key "{type}-{order}" that predates
// per-operation overrides.
func (k Key) Legacy() string {
	return LegacyKey(k.Kind, k.Order)
}

// LegacyKey formats a legacy key from its parts.
func LegacyKey(kind designation.Kind, order string) string {
	return fmt.Sprintf("%s-%s", kind, order)
}
