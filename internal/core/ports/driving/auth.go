package driving

import (
	"context"

	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
)

// OAuthFlowState holds the state for an OAuth flow in progress.
// Used by driving adapters (CLI) to track the authorization-code flow.
type OAuthFlowState struct {
	// AuthURL is the URL to open in the browser for user authorization.
	AuthURL string

	// CodeVerifier is the PKCE code verifier for token exchange.
	CodeVerifier string

	// State is the OAuth state parameter for CSRF protection.
	State string

	// RedirectURI is the local callback URL for the OAuth flow.
	RedirectURI string

	// RedirectPort is the port the callback server is listening on.
	RedirectPort int
}

// AuthService manages the signed-in session for the configured tenant.
type AuthService interface {
	// BeginLogin starts a PKCE authorization-code flow and returns the
	// state the caller needs to open the browser and run the local
	// callback server.
	BeginLogin(ctx context.Context) (*OAuthFlowState, error)

	// CompleteLogin exchanges the authorization code for tokens and
	// persists the session, replacing any previous one.
	CompleteLogin(ctx context.Context, flow *OAuthFlowState, code string) (*domain.Credentials, error)

	// Status returns the active session, or nil when signed out.
	Status(ctx context.Context) (*domain.Credentials, error)

	// Logout removes the active session.
	Logout(ctx context.Context) error
}
