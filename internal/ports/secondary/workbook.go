package secondary

import (
	"context"
	"io"
)

// WorkbookReader defines the secondary port for reading spreadsheet exports.
type WorkbookReader interface {
	// ReadFirstSheet returns the header row and the data rows of the first
	// sheet, each data row keyed by header.
	ReadFirstSheet(ctx context.Context, r io.Reader) (*SheetData, error)
}

// SheetData is the content of one worksheet.
type SheetData struct {
	Name    string
	Headers []string
	Rows    []WorkOrderRecord
}

// WorkbookWriter defines the secondary port for writing spreadsheet exports.
type WorkbookWriter interface {
	// WriteSheet writes a single-sheet workbook.
	WriteSheet(ctx context.Context, w io.Writer, sheet *SheetExport) error
}

// SheetExport describes a worksheet to write.
type SheetExport struct {
	Name    string
	Headers []string
	Rows    [][]any
}
