package auth

import (
	"context"

	"github.com/meridian-labs/graphseek-cli/internal/core/ports/driven"
)

// Ensure StaticTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*StaticTokenProvider)(nil)

// StaticTokenProvider serves a fixed, externally supplied access token.
// Used for scripted runs and CI where a token is minted out of band.
// Static tokens are never refreshed.
type StaticTokenProvider struct {
	token   string
	account string
}

// NewStaticTokenProvider creates a token provider around a fixed token.
func NewStaticTokenProvider(token, account string) *StaticTokenProvider {
	return &StaticTokenProvider{
		token:   token,
		account: account,
	}
}

// GetToken returns the fixed token.
func (p *StaticTokenProvider) GetToken(_ context.Context) (string, error) {
	return p.token, nil
}

// AccountIdentifier returns the configured account label, if any.
func (p *StaticTokenProvider) AccountIdentifier() string {
	return p.account
}

// IsAuthenticated returns true when a token is present.
func (p *StaticTokenProvider) IsAuthenticated() bool {
	return p.token != ""
}
