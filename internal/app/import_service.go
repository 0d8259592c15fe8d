package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/arret/internal/core/workorder"
	"github.com/example/arret/internal/ports/primary"
	"github.com/example/arret/internal/ports/secondary"
)

// ErrEmptyWorkbook is returned when the first sheet holds no data rows.
var ErrEmptyWorkbook = errors.New("workbook has no data rows")

// ImportServiceImpl implements the ImportService interface.
type ImportServiceImpl struct {
	reader secondary.WorkbookReader
	repo   secondary.WorkOrderRepository
	logger *zap.Logger
}

// NewImportService creates a new ImportService implementation.
func NewImportService(reader secondary.WorkbookReader, repo secondary.WorkOrderRepository, logger *zap.Logger) *ImportServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportServiceImpl{reader: reader, repo: repo, logger: logger.Named("import")}
}

// ImportIW37N replaces the stored IW37N dataset with the workbook's first sheet.
func (s *ImportServiceImpl) ImportIW37N(ctx context.Context, req primary.ImportRequest) (*primary.ImportResult, error) {
	sheet, err := s.reader.ReadFirstSheet(ctx, req.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", req.Source, err)
	}
	if len(sheet.Rows) == 0 {
		return nil, fmt.Errorf("failed to import %s: %w", req.Source, ErrEmptyWorkbook)
	}
	if err := s.repo.SaveWorkOrders(ctx, sheet.Rows); err != nil {
		return nil, err
	}

	records := make([]workorder.Record, len(sheet.Rows))
	for i, r := range sheet.Rows {
		records[i] = workorder.Record(r)
	}
	tpaa, pw := workorder.Split(records)

	s.logger.Info("IW37N imported",
		zap.String("source", req.Source),
		zap.String("sheet", sheet.Name),
		zap.Int("rows", len(records)),
		zap.Int("tpaa", len(tpaa)),
		zap.Int("pw", len(pw)))

	return &primary.ImportResult{
		Rows:      len(records),
		TPAACount: len(tpaa),
		PWCount:   len(pw),
		Headers:   sheet.Headers,
	}, nil
}

// Ensure ImportServiceImpl implements the interface
var _ primary.ImportService = (*ImportServiceImpl)(nil)
