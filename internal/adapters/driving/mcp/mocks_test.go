package mcp

import (
	"context"
	"fmt"

	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
	"github.com/meridian-labs/graphseek-cli/internal/core/ports/driving"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	resp      *domain.SearchResponse
	err       error
	lastQuery domain.Query
}

func (m *mockSearchService) Search(_ context.Context, query domain.Query) (*domain.SearchResponse, error) {
	m.lastQuery = query
	if m.err != nil {
		return nil, m.err
	}
	if m.resp != nil {
		return m.resp, nil
	}
	return &domain.SearchResponse{}, nil
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	entries   []domain.HistoryEntry
	recentErr error
	clearErr  error
	lastLimit int
}

func (m *mockHistoryService) Recent(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	m.lastLimit = limit
	if m.recentErr != nil {
		return nil, m.recentErr
	}
	return m.entries, nil
}

func (m *mockHistoryService) Clear(_ context.Context) error {
	return m.clearErr
}

// mockConfigService is a mock implementation of driving.ConfigService.
type mockConfigService struct {
	values   map[string]string
	defaults driving.SearchDefaults
}

func (m *mockConfigService) Get(key string) (string, error) {
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return "", fmt.Errorf("%w: unknown config key %q", domain.ErrNotFound, key)
}

func (m *mockConfigService) Set(key, value string) error {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

func (m *mockConfigService) List() []driving.ConfigEntry {
	entries := make([]driving.ConfigEntry, 0, len(m.values))
	for k, v := range m.values {
		entries = append(entries, driving.ConfigEntry{Key: k, Value: v})
	}
	return entries
}

func (m *mockConfigService) SearchDefaults() driving.SearchDefaults {
	return m.defaults
}

func (m *mockConfigService) Path() string {
	return "/tmp/graphseek-test/config.toml"
}
