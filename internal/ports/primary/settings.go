package primary

import "context"

// SettingsService defines the primary port for shutdown settings.
type SettingsService interface {
	// GetSettings returns the stored settings.
	GetSettings(ctx context.Context) (*Settings, error)

	// GetStartDate returns the configured shutdown start date, "" when unset.
	GetStartDate(ctx context.Context) (string, error)

	// SetStartDate validates and stores the shutdown start date.
	SetStartDate(ctx context.Context, date string) error

	// SetEndDate validates and stores the shutdown end date ("" clears it).
	SetEndDate(ctx context.Context, date string) error
}

// Settings represents the shutdown settings.
type Settings struct {
	StartDate   string
	EndDate     string
	LastUpdated string
}
