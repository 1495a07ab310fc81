package driven

import "context"

// TokenProvider provides access tokens for authenticated API calls.
// Implementations handle token refresh transparently: the search
// pipeline asks for a token exactly once per invocation and never
// retries auth failures itself.
type TokenProvider interface {
	// GetToken returns a valid access token.
	// If the current token is expired, it will be refreshed automatically.
	// Returns domain.ErrAuthRequired when no session exists and
	// domain.ErrAuthExpired when the session cannot be refreshed.
	GetToken(ctx context.Context) (string, error)

	// AccountIdentifier returns the signed-in account's identifier.
	// Returns empty string when unauthenticated.
	AccountIdentifier() string

	// IsAuthenticated returns true if valid authentication is available.
	IsAuthenticated() bool
}
