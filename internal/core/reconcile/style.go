package reconcile

import "github.com/example/arret/internal/core/override"

// Style is the colour pair of a row, as hex colours.
type Style struct {
	Background string
	Text       string
}

var statusStyles = map[override.Status]Style{
	override.StatusTodo:      {Background: "#ffe0e0", Text: "#c62828"},
	override.StatusPlanned:   {Background: "#e3f2fd", Text: "#1565c0"},
	override.StatusDone:      {Background: "#e8f5e9", Text: "#2e7d32"},
	override.StatusCancelled: {Background: "#e0e0e0", Text: "#616161"},
}

// StyleFor returns the colours of a row from its status alone; rows without
// a status alternate between two neutral backgrounds by display index.
func StyleFor(status override.Status, index int) Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	if index%2 == 0 {
		return Style{Background: "#f9f9f9", Text: "#333"}
	}
	return Style{Background: "white", Text: "#333"}
}
