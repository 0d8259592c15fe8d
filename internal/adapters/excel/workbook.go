// Package excel reads and writes xlsx workbooks with excelize.
package excel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/example/arret/internal/ports/secondary"
)

// ErrNoHeader is returned when the first sheet has no header row.
var ErrNoHeader = errors.New("first sheet has no header row")

// Excel serials outside this range are not treated as dates (roughly 1954-2119).
const (
	minDateSerial = 20000
	maxDateSerial = 80000
)

// Workbook implements secondary.WorkbookReader and secondary.WorkbookWriter.
type Workbook struct {
	logger *zap.Logger
}

// NewWorkbook creates a new excelize-backed workbook adapter.
func NewWorkbook(logger *zap.Logger) *Workbook {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workbook{logger: logger.Named("excel")}
}

// ReadFirstSheet reads the first worksheet. The first row is the header;
// every following non-blank row becomes a record keyed by header. Numeric
// cells of date-like columns are converted from Excel serials to YYYY-MM-DD.
func (w *Workbook) ReadFirstSheet(ctx context.Context, r io.Reader) (*secondary.SheetData, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	name := f.GetSheetName(0)
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}

	headers := make([]string, len(rows[0]))
	dateColumn := make([]bool, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
		dateColumn[i] = strings.Contains(strings.ToLower(headers[i]), "date")
	}

	data := &secondary.SheetData{Name: name, Headers: headers}
	for _, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record := make(secondary.WorkOrderRecord)
		for i, cell := range row {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			value := strings.TrimSpace(cell)
			if value == "" {
				continue
			}
			if dateColumn[i] {
				value = normalizeDate(value)
			}
			record[headers[i]] = value
		}
		if len(record) == 0 {
			continue
		}
		data.Rows = append(data.Rows, record)
	}

	w.logger.Debug("sheet read", zap.String("sheet", name), zap.Int("rows", len(data.Rows)), zap.Int("columns", len(headers)))
	return data, nil
}

// normalizeDate converts an Excel date serial to YYYY-MM-DD and leaves any
// other value untouched.
func normalizeDate(value string) string {
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil || serial < minDateSerial || serial > maxDateSerial {
		return value
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return value
	}
	return t.Format("2006-01-02")
}

// WriteSheet writes a single-sheet workbook with a bold header row.
func (w *Workbook) WriteSheet(ctx context.Context, out io.Writer, sheet *secondary.SheetExport) error {
	f := excelize.NewFile()
	defer f.Close()

	name := sheet.Name
	if name == "" {
		name = "Sheet1"
	}
	if name != "Sheet1" {
		if err := f.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	header := make([]any, len(sheet.Headers))
	for i, h := range sheet.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(name, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range sheet.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if len(sheet.Headers) > 0 {
		last, err := excelize.ColumnNumberToName(len(sheet.Headers))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(name, "A", last, 16); err != nil {
			return fmt.Errorf("failed to size columns: %w", err)
		}
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	w.logger.Debug("sheet written", zap.String("sheet", name), zap.Int("rows", len(sheet.Rows)))
	return nil
}

// Ensure Workbook implements the interfaces
var (
	_ secondary.WorkbookReader = (*Workbook)(nil)
	_ secondary.WorkbookWriter = (*Workbook)(nil)
)
