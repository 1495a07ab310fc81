package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
	"github.com/meridian-labs/graphseek-cli/internal/core/ports/driving"
)

// setupTestServices swaps the package services for mocks and returns a
// cleanup function that restores the originals.
func setupTestServices() func() {
	oldSearch := searchService
	oldAuth := authService
	oldHistory := historyService
	oldConfig := configService

	searchService = &mockSearchService{}
	authService = &mockAuthService{}
	historyService = &mockHistoryService{}
	configService = newMockConfigService()

	return func() {
		searchService = oldSearch
		authService = oldAuth
		historyService = oldHistory
		configService = oldConfig
	}
}

// mockSearchService implements driving.SearchService.
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
	return &domain.SearchResponse{
		Hits: []domain.Hit{
			{
				EntityType: domain.EntityDriveItem,
				Rank:       1,
				Summary:    "Budget figures for <c0>Q3</c0> planning",
				Resource: map[string]any{
					"name":   "Budget.xlsx",
					"webUrl": "https://contoso.example/budget",
				},
			},
		},
		Total: 1,
		Tier:  domain.TierText,
	}, nil
}

// mockSearchServiceError always fails.
type mockSearchServiceError struct{}

func (m *mockSearchServiceError) Search(context.Context, domain.Query) (*domain.SearchResponse, error) {
	return nil, errors.New("mock search error")
}

// mockAuthService implements driving.AuthService.
type mockAuthService struct {
	flow      *driving.OAuthFlowState
	creds     *domain.Credentials
	statusErr error
	logoutErr error
}

func (m *mockAuthService) BeginLogin(context.Context) (*driving.OAuthFlowState, error) {
	if m.flow != nil {
		return m.flow, nil
	}
	return &driving.OAuthFlowState{
		AuthURL:      "https://login.example/authorize?state=abc",
		State:        "abc",
		RedirectPort: 0,
	}, nil
}

func (m *mockAuthService) CompleteLogin(
	_ context.Context, _ *driving.OAuthFlowState, _ string,
) (*domain.Credentials, error) {
	return m.creds, nil
}

func (m *mockAuthService) Status(context.Context) (*domain.Credentials, error) {
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	return m.creds, nil
}

func (m *mockAuthService) Logout(context.Context) error {
	return m.logoutErr
}

// mockHistoryService implements driving.HistoryService.
type mockHistoryService struct {
	entries   []domain.HistoryEntry
	recentErr error
	clearErr  error
	lastLimit int
	cleared   bool
}

func (m *mockHistoryService) Recent(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	m.lastLimit = limit
	if m.recentErr != nil {
		return nil, m.recentErr
	}
	return m.entries, nil
}

func (m *mockHistoryService) Clear(context.Context) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.cleared = true
	return nil
}

// mockConfigService implements driving.ConfigService over a plain map.
type mockConfigService struct {
	values   map[string]string
	defaults driving.SearchDefaults
	setErr   error
}

func newMockConfigService() *mockConfigService {
	return &mockConfigService{values: map[string]string{
		"search.limit":  "25",
		"search.enrich": "false",
	}}
}

func (m *mockConfigService) Get(key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", fmt.Errorf("%w: unknown config key %q", domain.ErrNotFound, key)
	}
	return v, nil
}

func (m *mockConfigService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
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
	return "/tmp/graphseek/config.toml"
}

// testCredentials builds a signed-in session for status tests.
func testCredentials(expiry time.Time) *domain.Credentials {
	return &domain.Credentials{
		ID:                "cred-1",
		Tenant:            "contoso.example",
		ClientID:          "client-123",
		AccountIdentifier: "ada@contoso.example",
		OAuth: &domain.OAuthCredentials{
			AccessToken:  "token",
			RefreshToken: "refresh",
			Expiry:       expiry,
		},
		CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}
