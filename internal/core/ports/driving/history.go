package driving

import (
	"context"

	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
)

// HistoryService exposes the local search history to external actors.
type HistoryService interface {
	// Recent returns up to limit entries, newest first. A non-positive
	// limit falls back to the default listing size.
	Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error)

	// Clear removes all recorded searches.
	Clear(ctx context.Context) error
}
