package primary

import (
	"context"
	"io"
)

// ImportService defines the primary port for loading IW37N exports.
type ImportService interface {
	// ImportIW37N reads the first sheet of an xlsx workbook and replaces the
	// stored IW37N dataset.
	ImportIW37N(ctx context.Context, req ImportRequest) (*ImportResult, error)
}

// ImportRequest contains parameters for an IW37N import.
type ImportRequest struct {
	Source string // file name, for messages
	Reader io.Reader
}

// ImportResult contains the result of an IW37N import.
type ImportResult struct {
	Rows      int
	TPAACount int
	PWCount   int
	Headers   []string
}
