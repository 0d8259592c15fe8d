// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// tableLine is one schedule row in printable form.
type tableLine struct {
	Key         string
	Order       string
	Designation string
	Operation   string
	WorkCenter  string
	Position    string
	Offset      string
	Target      string
	Effective   string
	Adjustment  int
	Status      string
	Comment     string
	SAPDate     bool
}

// statusColors mirrors the row palettes of the schedule.
var statusColors = map[string]*color.Color{
	"À faire":  color.New(color.FgRed),
	"Planifié": color.New(color.FgBlue),
	"Terminé":  color.New(color.FgGreen),
	"Annulé":   color.New(color.FgHiBlack),
}

var (
	adjustedColor = color.New(color.FgYellow, color.Bold)
	headerColor   = color.New(color.Bold)
	todayColor    = color.New(color.FgHiMagenta, color.Bold)
)

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// pad right-pads s to width runes. Colour must be applied after padding.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func statusText(status string) string {
	if status == "" {
		return "-"
	}
	if c, ok := statusColors[status]; ok {
		return c.Sprint(status)
	}
	return status
}

// dateText formats the effective date, highlighting manual adjustments.
func dateText(line tableLine, width int) string {
	if line.Effective == "" {
		return pad("-", width)
	}
	if line.Adjustment == 0 || line.Effective == line.Target {
		return pad(line.Effective, width)
	}
	return adjustedColor.Sprint(pad(fmt.Sprintf("%s (%+d j)", line.Effective, line.Adjustment), width))
}

// writeScheduleTable prints rows in the column order of the schedule screen.
func writeScheduleTable(out io.Writer, title string, lines []tableLine) {
	fmt.Fprintf(out, "\n%s (%d)\n", headerColor.Sprint(title), len(lines))
	if len(lines) == 0 {
		fmt.Fprintln(out, "Aucune ligne")
		return
	}

	fmt.Fprintf(out, "%s %s %s %s %s %s %s %s %s\n",
		pad("CLÉ", 28), pad("ORDRE", 10), pad("OPÉR.", 6), pad("DÉSIGNATION", 14),
		pad("EXTERNE", 10), pad("POSTE TECHNIQUE", 18), pad("DÉCALAGE", 9), pad("DATE", 22), "STATUT")
	fmt.Fprintln(out, "────────────────────────────────────────────────────────────────────────────────────────────────────────────────────────────")
	for _, l := range lines {
		sap := ""
		if l.SAPDate {
			sap = " [SAP]"
		}
		fmt.Fprintf(out, "%s %s %s %s %s %s %s %s %s%s\n",
			pad(l.Key, 28), pad(l.Order, 10), pad(l.Operation, 6), pad(l.Designation, 14),
			pad(l.WorkCenter, 10), pad(l.Position, 18), pad(l.Offset, 9),
			dateText(l, 22), statusText(l.Status), sap)
		if l.Comment != "" {
			fmt.Fprintf(out, "%s └ %s\n", strings.Repeat(" ", 28), l.Comment)
		}
	}
}
