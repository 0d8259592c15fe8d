package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/arret/internal/ports/primary"
)

// SettingsAdapter is a thin adapter that translates CLI operations to SettingsService calls.
type SettingsAdapter struct {
	service primary.SettingsService
	out     io.Writer
}

// NewSettingsAdapter creates a new SettingsAdapter with the given service.
func NewSettingsAdapter(service primary.SettingsService, out io.Writer) *SettingsAdapter {
	return &SettingsAdapter{service: service, out: out}
}

// Show prints the stored settings.
func (a *SettingsAdapter) Show(ctx context.Context) error {
	s, err := a.service.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	fmt.Fprintf(a.out, "Start date:   %s\n", orDash(s.StartDate))
	fmt.Fprintf(a.out, "End date:     %s\n", orDash(s.EndDate))
	fmt.Fprintf(a.out, "Last updated: %s\n", orDash(s.LastUpdated))
	return nil
}

// SetStartDate stores the shutdown start date.
func (a *SettingsAdapter) SetStartDate(ctx context.Context, date string) error {
	if err := a.service.SetStartDate(ctx, date); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Start date set to %s\n", date)
	return nil
}

// SetEndDate stores the shutdown end date.
func (a *SettingsAdapter) SetEndDate(ctx context.Context, date string) error {
	if err := a.service.SetEndDate(ctx, date); err != nil {
		return err
	}
	if date == "" {
		fmt.Fprintln(a.out, "✓ End date cleared")
		return nil
	}
	fmt.Fprintf(a.out, "✓ End date set to %s\n", date)
	return nil
}
