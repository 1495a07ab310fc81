package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
	"github.com/meridian-labs/graphseek-cli/internal/core/ports/driven"
	"github.com/meridian-labs/graphseek-cli/internal/core/ports/driving"
	"github.com/meridian-labs/graphseek-cli/internal/logger"
)

// Callback port range for the local redirect listener.
const (
	callbackPortStart = 8400
	callbackPortEnd   = 8420
)

// Ensure AuthService implements the interface.
var _ driving.AuthService = (*AuthService)(nil)

// AuthService manages the signed-in session: PKCE login against the
// tenant identity platform, session status and logout.
type AuthService struct {
	config driven.ConfigStore
	store  driven.CredentialsStore
	oauth  driven.OAuthClient
	api    driven.APIClient
}

// NewAuthService creates a new auth service.
// The API client is optional (can be nil); the account identifier is
// then left blank after login.
func NewAuthService(
	config driven.ConfigStore,
	store driven.CredentialsStore,
	oauth driven.OAuthClient,
	api driven.APIClient,
) *AuthService {
	return &AuthService{
		config: config,
		store:  store,
		oauth:  oauth,
		api:    api,
	}
}

// BeginLogin starts a PKCE authorization-code flow. It picks a free
// local callback port, generates the PKCE material and returns the
// browser URL; the caller runs the callback server and feeds the code
// back through CompleteLogin.
func (s *AuthService) BeginLogin(ctx context.Context) (*driving.OAuthFlowState, error) {
	tenant := s.config.GetString("auth.tenant")
	clientID := s.config.GetString("auth.client_id")
	if tenant == "" || clientID == "" {
		return nil, fmt.Errorf("%w: tenant and client id are not configured; run 'graphseek auth setup' first", domain.ErrInvalidInput)
	}

	port, err := FindAvailablePort(callbackPortStart, callbackPortEnd)
	if err != nil {
		return nil, fmt.Errorf("find callback port: %w", err)
	}
	redirectURI := fmt.Sprintf("http://localhost:%d/callback", port)

	verifier, err := generateCodeVerifier()
	if err != nil {
		return nil, fmt.Errorf("generate code verifier: %w", err)
	}
	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}

	authURL := s.oauth.AuthCodeURL(state, generateCodeChallenge(verifier), redirectURI)
	logger.Debug("Authorization URL built for tenant %s (callback port %d)", tenant, port)

	return &driving.OAuthFlowState{
		AuthURL:      authURL,
		CodeVerifier: verifier,
		State:        state,
		RedirectURI:  redirectURI,
		RedirectPort: port,
	}, nil
}

// CompleteLogin exchanges the authorization code for tokens and
// persists the session, replacing any previous one.
func (s *AuthService) CompleteLogin(ctx context.Context, flow *driving.OAuthFlowState, code string) (*domain.Credentials, error) {
	if flow == nil || code == "" {
		return nil, fmt.Errorf("%w: missing flow state or authorization code", domain.ErrInvalidInput)
	}

	tokens, err := s.oauth.Exchange(ctx, code, flow.CodeVerifier, flow.RedirectURI)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	now := time.Now()
	creds := domain.Credentials{
		ID:        uuid.NewString(),
		Tenant:    s.config.GetString("auth.tenant"),
		ClientID:  s.config.GetString("auth.client_id"),
		OAuth:     tokens,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Best-effort: identify the signed-in account for display.
	if identifier := s.fetchAccountIdentifier(ctx, tokens.AccessToken); identifier != "" {
		creds.AccountIdentifier = identifier
	}

	// Replace any previous session before saving the new one.
	if current, err := s.store.GetCurrent(ctx); err == nil && current != nil {
		if err := s.store.Delete(ctx, current.ID); err != nil {
			logger.Warn("Failed to remove previous session: %v", err)
		}
	}

	if err := s.store.Save(ctx, creds); err != nil {
		return nil, fmt.Errorf("save credentials: %w", err)
	}

	logger.Info("Signed in as %s", creds.AccountIdentifier)
	return &creds, nil
}

// Status returns the active session, or nil when signed out.
func (s *AuthService) Status(ctx context.Context) (*domain.Credentials, error) {
	return s.store.GetCurrent(ctx)
}

// Logout removes the active session.
func (s *AuthService) Logout(ctx context.Context) error {
	current, err := s.store.GetCurrent(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if current == nil {
		return fmt.Errorf("%w: no active session", domain.ErrNotFound)
	}
	return s.store.Delete(ctx, current.ID)
}

// fetchAccountIdentifier asks the backend who the token belongs to.
func (s *AuthService) fetchAccountIdentifier(ctx context.Context, accessToken string) string {
	if s.api == nil {
		return ""
	}

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+accessToken)
	raw, err := s.api.Invoke(ctx, http.MethodGet, "/me", nil, nil, headers)
	if err != nil {
		logger.Warn("Failed to fetch account identifier: %v", err)
		return ""
	}

	var me struct {
		UserPrincipalName string `json:"userPrincipalName"`
		DisplayName       string `json:"displayName"`
	}
	if err := json.Unmarshal(raw, &me); err != nil {
		return ""
	}
	if me.UserPrincipalName != "" {
		return me.UserPrincipalName
	}
	return me.DisplayName
}
