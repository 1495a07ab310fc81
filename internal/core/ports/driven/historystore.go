package driven

import (
	"context"

	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
)

// HistoryStore persists executed searches. Recording is best-effort:
// the pipeline logs store failures and never surfaces them to callers.
type HistoryStore interface {
	// Record appends one executed search.
	Record(ctx context.Context, entry domain.HistoryEntry) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error)

	// Clear removes all entries.
	Clear(ctx context.Context) error
}
