package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/example/arret/internal/ports/secondary"
)

// TerminalNotifier implements secondary.Notifier. Warnings go to errOut so
// they never interleave with command output that may be piped.
type TerminalNotifier struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
}

// NewTerminalNotifier creates a TerminalNotifier.
func NewTerminalNotifier(out, errOut io.Writer) *TerminalNotifier {
	return &TerminalNotifier{out: out, errOut: errOut}
}

// Warn prints a background warning.
func (n *TerminalNotifier) Warn(ctx context.Context, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.errOut, "%s %s\n", color.New(color.FgYellow).Sprint("⚠"), message)
}

// Alert prints the outcome of a user action.
func (n *TerminalNotifier) Alert(ctx context.Context, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "%s %s\n", color.New(color.FgCyan).Sprint("ℹ"), message)
}

// Ensure TerminalNotifier implements the interface
var _ secondary.Notifier = (*TerminalNotifier)(nil)
