package sheets

import (
	"context"
)

// Ports for outbound adapters.
type (
	// TableWriter replaces the whole content of a named sheet.
	TableWriter interface {
		ReplaceTable(ctx context.Context, sheet string, rows [][]any) error
	}
)
