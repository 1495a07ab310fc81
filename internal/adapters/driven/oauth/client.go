// Package oauth implements the identity platform client for the
// authorization-code flow.
package oauth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
	"github.com/meridian-labs/graphseek-cli/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.OAuthClient = (*Client)(nil)

// DefaultScopes are requested when the configuration names none. The
// offline_access scope is what yields a refresh token.
var DefaultScopes = []string{
	"openid",
	"profile",
	"offline_access",
	"Files.Read.All",
	"Sites.Read.All",
	"Mail.Read",
	"Calendars.Read",
	"People.Read",
}

// authorityFormat is the public-cloud login authority for a tenant.
const authorityFormat = "https://login.microsoftonline.com/%s/oauth2/v2.0"

// Config holds configuration for the identity platform client.
type Config struct {
	// Tenant is the directory tenant (domain name or GUID, or "common").
	Tenant string

	// ClientID is the registered application id.
	ClientID string

	// ClientSecret is optional; public clients authenticate with PKCE
	// alone.
	ClientSecret string

	// Scopes to request. Defaults to DefaultScopes.
	Scopes []string

	// Authority optionally overrides the login authority base URL.
	// Defaults to the public cloud authority for Tenant.
	Authority string
}

// Client drives the identity platform's authorization-code flow.
type Client struct {
	cfg oauth2.Config
}

// NewClient creates a new identity platform client.
func NewClient(cfg Config) *Client {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	authority := cfg.Authority
	if authority == "" {
		authority = fmt.Sprintf(authorityFormat, cfg.Tenant)
	}

	return &Client{
		cfg: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  authority + "/authorize",
				TokenURL: authority + "/token",
				// The identity platform wants client credentials in the
				// request body, not basic auth.
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
	}
}

// NewFromConfig builds the client from the stored auth configuration.
func NewFromConfig(store driven.ConfigStore) *Client {
	return NewClient(Config{
		Tenant:       store.GetString("auth.tenant"),
		ClientID:     store.GetString("auth.client_id"),
		ClientSecret: store.GetString("auth.client_secret"),
		Scopes:       store.GetStringSlice("auth.scopes"),
	})
}

// AuthCodeURL builds the browser URL for a PKCE authorization request.
func (c *Client) AuthCodeURL(state, codeChallenge, redirectURI string) string {
	cfg := c.cfg
	cfg.RedirectURL = redirectURI
	return cfg.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// Exchange swaps an authorization code for tokens.
func (c *Client) Exchange(ctx context.Context, code, codeVerifier, redirectURI string) (*domain.OAuthCredentials, error) {
	cfg := c.cfg
	cfg.RedirectURL = redirectURI

	token, err := cfg.Exchange(ctx, code, oauth2.VerifierOption(codeVerifier))
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	return fromToken(token), nil
}

// Refresh obtains fresh tokens from a refresh token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*domain.OAuthCredentials, error) {
	source := c.cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	return fromToken(token), nil
}

func fromToken(token *oauth2.Token) *domain.OAuthCredentials {
	return &domain.OAuthCredentials{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
	}
}
