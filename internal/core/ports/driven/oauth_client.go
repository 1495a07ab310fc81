package driven

import (
	"context"

	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
)

// OAuthClient drives the tenant identity platform's authorization-code
// flow. Implementations are configured with the tenant, client id and
// scopes; the redirect URI varies per login because the local callback
// port does.
type OAuthClient interface {
	// AuthCodeURL builds the browser URL for a PKCE authorization
	// request.
	AuthCodeURL(state, codeChallenge, redirectURI string) string

	// Exchange swaps an authorization code for tokens.
	Exchange(ctx context.Context, code, codeVerifier, redirectURI string) (*domain.OAuthCredentials, error)

	// Refresh obtains fresh tokens from a refresh token.
	Refresh(ctx context.Context, refreshToken string) (*domain.OAuthCredentials, error)
}
