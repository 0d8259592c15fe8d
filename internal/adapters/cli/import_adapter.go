package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/example/arret/internal/ports/primary"
)

// ImportAdapter is a thin adapter that translates CLI operations to ImportService calls.
type ImportAdapter struct {
	service primary.ImportService
	out     io.Writer
}

// NewImportAdapter creates a new ImportAdapter with the given service.
func NewImportAdapter(service primary.ImportService, out io.Writer) *ImportAdapter {
	return &ImportAdapter{service: service, out: out}
}

// Import loads an IW37N workbook.
func (a *ImportAdapter) Import(ctx context.Context, source string, r io.Reader) error {
	res, err := a.service.ImportIW37N(ctx, primary.ImportRequest{Source: source, Reader: r})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Imported %d IW37N row(s) from %s (%d TPAA, %d PW)\n", res.Rows, source, res.TPAACount, res.PWCount)
	if len(res.Headers) > 0 {
		fmt.Fprintf(a.out, "  Columns: %s\n", strings.Join(res.Headers, ", "))
	}
	return nil
}
