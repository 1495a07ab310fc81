// Package auth provides TokenProvider implementations backed by the
// persisted session.
package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
	"github.com/meridian-labs/graphseek-cli/internal/core/ports/driven"
	"github.com/meridian-labs/graphseek-cli/internal/logger"
)

// Ensure SessionTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*SessionTokenProvider)(nil)

// refreshBuffer is how long before expiry a token is refreshed.
const refreshBuffer = 5 * time.Minute

// SessionTokenProvider serves access tokens from the active session,
// refreshing them shortly before expiry and writing refreshed tokens
// back to the store.
type SessionTokenProvider struct {
	store driven.CredentialsStore
	oauth driven.OAuthClient

	mu          sync.RWMutex
	cachedToken string
	cacheExpiry time.Time
	account     string
}

// NewSessionTokenProvider creates a token provider for the active session.
func NewSessionTokenProvider(store driven.CredentialsStore, oauth driven.OAuthClient) *SessionTokenProvider {
	return &SessionTokenProvider{
		store: store,
		oauth: oauth,
	}
}

// GetToken returns a valid access token, refreshing if necessary.
func (p *SessionTokenProvider) GetToken(ctx context.Context) (string, error) {
	// Fast path: check cache with read lock.
	p.mu.RLock()
	if p.cachedToken != "" && time.Now().Before(p.cacheExpiry) {
		token := p.cachedToken
		p.mu.RUnlock()
		return token, nil
	}
	p.mu.RUnlock()

	// Slow path: need refresh, acquire write lock.
	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock.
	if p.cachedToken != "" && time.Now().Before(p.cacheExpiry) {
		return p.cachedToken, nil
	}

	creds, err := p.store.GetCurrent(ctx)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	if creds == nil || creds.OAuth == nil || creds.OAuth.AccessToken == "" {
		return "", domain.ErrAuthRequired
	}

	// An expired token with no way to refresh it is a dead session.
	if creds.OAuth.IsExpired() && creds.OAuth.RefreshToken == "" {
		return "", domain.ErrAuthExpired
	}

	needsRefresh := creds.OAuth.IsExpired()
	if !creds.OAuth.Expiry.IsZero() {
		needsRefresh = needsRefresh || time.Until(creds.OAuth.Expiry) < refreshBuffer
	}

	if needsRefresh && creds.OAuth.RefreshToken != "" {
		refreshed, err := p.oauth.Refresh(ctx, creds.OAuth.RefreshToken)
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrTokenRefreshFailed, err)
		}

		creds.OAuth.AccessToken = refreshed.AccessToken
		if refreshed.RefreshToken != "" {
			creds.OAuth.RefreshToken = refreshed.RefreshToken
		}
		creds.OAuth.Expiry = refreshed.Expiry
		creds.OAuth.TokenType = refreshed.TokenType
		creds.UpdatedAt = time.Now()

		if err := p.store.Save(ctx, *creds); err != nil {
			return "", fmt.Errorf("save refreshed session: %w", err)
		}
		logger.Debug("Refreshed access token for %s", creds.AccountIdentifier)
	}

	// Cache the token, expiring the cache just before the token itself.
	p.cachedToken = creds.OAuth.AccessToken
	p.account = creds.AccountIdentifier
	if !creds.OAuth.Expiry.IsZero() {
		p.cacheExpiry = creds.OAuth.Expiry.Add(-refreshBuffer)
	} else {
		p.cacheExpiry = time.Now().Add(1 * time.Hour)
	}

	return p.cachedToken, nil
}

// AccountIdentifier returns the signed-in account's identifier.
func (p *SessionTokenProvider) AccountIdentifier() string {
	p.mu.RLock()
	if p.account != "" {
		account := p.account
		p.mu.RUnlock()
		return account
	}
	p.mu.RUnlock()

	creds, err := p.store.GetCurrent(context.Background())
	if err != nil || creds == nil {
		return ""
	}
	return creds.AccountIdentifier
}

// IsAuthenticated returns true if a usable session exists.
func (p *SessionTokenProvider) IsAuthenticated() bool {
	p.mu.RLock()
	if p.cachedToken != "" && time.Now().Before(p.cacheExpiry) {
		p.mu.RUnlock()
		return true
	}
	p.mu.RUnlock()

	creds, err := p.store.GetCurrent(context.Background())
	if err != nil || creds == nil {
		return false
	}
	return creds.IsAuthenticated()
}

// InvalidateCache clears the cached token. Called after logout so the
// next GetToken consults the store again.
func (p *SessionTokenProvider) InvalidateCache() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cachedToken = ""
	p.cacheExpiry = time.Time{}
	p.account = ""
}
