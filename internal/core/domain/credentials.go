package domain

import "time"

// Credentials stores the signed-in session for one tenant account.
// Exactly one credentials row exists per tenant/client pair; signing in
// again replaces it.
type Credentials struct {
	// ID is the unique identifier (UUID).
	ID string `json:"id"`

	// Tenant is the directory tenant the session belongs to.
	Tenant string `json:"tenant"`

	// ClientID is the OAuth application the session was issued to.
	ClientID string `json:"client_id"`

	// AccountIdentifier is the signed-in user's identifier, fetched
	// from the identity platform after login (e.g. "user@contoso.com").
	AccountIdentifier string `json:"account_identifier,omitempty"`

	// OAuth holds the session tokens.
	OAuth *OAuthCredentials `json:"oauth,omitempty"`

	// CreatedAt is when the session was first established.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the tokens were last refreshed.
	UpdatedAt time.Time `json:"updated_at"`
}

// OAuthCredentials stores OAuth tokens for a signed-in account.
type OAuthCredentials struct {
	// AccessToken is the bearer token for API access.
	AccessToken string `json:"access_token"`
	// RefreshToken is used to obtain new access tokens.
	RefreshToken string `json:"refresh_token,omitempty"`
	// TokenType is typically "Bearer".
	TokenType string `json:"token_type"`
	// Expiry is when the access token expires.
	Expiry time.Time `json:"expiry,omitempty"`
}

// IsExpired returns true if the OAuth access token has expired.
func (c *OAuthCredentials) IsExpired() bool {
	if c.Expiry.IsZero() {
		return false
	}
	return time.Now().After(c.Expiry)
}

// IsAuthenticated returns true if the credentials contain a usable token.
func (c *Credentials) IsAuthenticated() bool {
	return c.OAuth != nil && c.OAuth.AccessToken != ""
}

// NeedsRefresh returns true if the session should be refreshed before use.
func (c *Credentials) NeedsRefresh() bool {
	if c.OAuth == nil {
		return false
	}
	return c.OAuth.IsExpired() && c.OAuth.RefreshToken != ""
}

// HasRefreshToken returns true if a refresh token is available.
func (c *Credentials) HasRefreshToken() bool {
	return c.OAuth != nil && c.OAuth.RefreshToken != ""
}
