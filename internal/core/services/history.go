package services

import (
	"context"
	"fmt"

	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
	"github.com/meridian-labs/graphseek-cli/internal/core/ports/driven"
	"github.com/meridian-labs/graphseek-cli/internal/core/ports/driving"
)

// Listing bounds for the history surface.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 200
)

// Ensure HistoryService implements the driving port.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService reads and clears the locally recorded search history.
// A nil store degrades to an empty history rather than an error, so the
// CLI and MCP surfaces work without local storage configured.
type HistoryService struct {
	store driven.HistoryStore
}

// NewHistoryService creates a history service backed by the given store.
func NewHistoryService(store driven.HistoryStore) *HistoryService {
	return &HistoryService{store: store}
}

// Recent returns up to limit entries, newest first.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if s.store == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	entries, err := s.store.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return entries, nil
}

// Clear removes all recorded searches.
func (s *HistoryService) Clear(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
