package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/arret/internal/core/schedule"
	"github.com/example/arret/internal/ports/primary"
	"github.com/example/arret/internal/ports/secondary"
)

// SettingsServiceImpl implements the SettingsService interface.
type SettingsServiceImpl struct {
	repo   secondary.SettingsRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewSettingsService creates a new SettingsService implementation.
func NewSettingsService(repo secondary.SettingsRepository, logger *zap.Logger) *SettingsServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsServiceImpl{repo: repo, logger: logger.Named("settings"), now: time.Now}
}

// GetSettings returns the stored settings.
func (s *SettingsServiceImpl) GetSettings(ctx context.Context) (*primary.Settings, error) {
	record, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &primary.Settings{
		StartDate:   record.StartDate,
		EndDate:     record.EndDate,
		LastUpdated: record.LastUpdated,
	}, nil
}

// GetStartDate returns the configured shutdown start date.
func (s *SettingsServiceImpl) GetStartDate(ctx context.Context) (string, error) {
	return s.repo.GetStartDate(ctx)
}

// SetStartDate validates and stores the shutdown start date.
func (s *SettingsServiceImpl) SetStartDate(ctx context.Context, date string) error {
	start, err := parseSettingsDate(date)
	if err != nil {
		return err
	}
	record, err := s.repo.Get(ctx)
	if err != nil {
		return err
	}
	if record.EndDate != "" && record.EndDate < start {
		return fmt.Errorf("start date %s is after end date %s", start, record.EndDate)
	}
	record.StartDate = start
	return s.save(ctx, record)
}

// SetEndDate validates and stores the shutdown end date. Empty clears it.
func (s *SettingsServiceImpl) SetEndDate(ctx context.Context, date string) error {
	record, err := s.repo.Get(ctx)
	if err != nil {
		return err
	}
	if date == "" {
		record.EndDate = ""
		return s.save(ctx, record)
	}
	end, err := parseSettingsDate(date)
	if err != nil {
		return err
	}
	if record.StartDate != "" && end < record.StartDate {
		return fmt.Errorf("end date %s is before start date %s", end, record.StartDate)
	}
	record.EndDate = end
	return s.save(ctx, record)
}

func (s *SettingsServiceImpl) save(ctx context.Context, record *secondary.SettingsRecord) error {
	record.LastUpdated = s.now().UTC().Format(time.RFC3339)
	if err := s.repo.Save(ctx, record); err != nil {
		return err
	}
	s.logger.Info("settings saved", zap.String("start", record.StartDate), zap.String("end", record.EndDate))
	return nil
}

// parseSettingsDate accepts an ISO date or timestamp and returns YYYY-MM-DD.
func parseSettingsDate(date string) (string, error) {
	t, ok := schedule.ParseDate(date)
	if !ok {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", date)
	}
	return schedule.FormatDate(t), nil
}

// Ensure SettingsServiceImpl implements the interface
var _ primary.SettingsService = (*SettingsServiceImpl)(nil)
