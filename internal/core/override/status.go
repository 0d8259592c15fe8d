package override

import "fmt"

// Status is the user-selected progress state of a schedule row.
// Every state is reachable from every other; there is no terminal state.
type Status string

const (
	StatusNone      Status = ""
	StatusTodo      Status = "À faire"
	StatusPlanned   Status = "Planifié"
	StatusDone      Status = "Terminé"
	StatusCancelled Status = "Annulé"
)

// Statuses lists the selectable states in display order.
var Statuses = []Status{StatusNone, StatusTodo, StatusPlanned, StatusDone, StatusCancelled}

// InitialStatus returns the status of a row nobody has touched.
func InitialStatus() Status {
	return StatusNone
}

// Label returns the text shown for the status ("-- Statut --" for none).
func (s Status) Label() string {
	if s == StatusNone {
		return "-- Statut --"
	}
	return string(s)
}

// ParseStatus validates a status value coming from the boundary.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// StatusTransitionContext provides context for status transition guards.
type StatusTransitionContext struct {
	Key     string
	Current Status
	Next    string
}

// CanTransitionStatus evaluates whether a row's status can change.
// Rules:
// - Next must be one of the known states
// - Any known state may follow any other
func CanTransitionStatus(ctx StatusTransitionContext) GuardResult {
	if _, err := ParseStatus(ctx.Next); err != nil {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot set status of %s: %q is not one of À faire, Planifié, Terminé, Annulé or empty", ctx.Key, ctx.Next),
		}
	}
	return GuardResult{Allowed: true}
}
