package auth

import (
	"os"

	"github.com/meridian-labs/graphseek-cli/internal/core/ports/driven"
	"github.com/meridian-labs/graphseek-cli/internal/logger"
)

// TokenEnvVar names the environment variable that, when set, bypasses
// the stored session with a fixed token.
const TokenEnvVar = "GRAPHSEEK_TOKEN"

// NewTokenProvider picks the token provider for this invocation. A
// token in the environment wins over the stored session, so scripted
// runs never touch the credentials store.
func NewTokenProvider(store driven.CredentialsStore, oauth driven.OAuthClient) driven.TokenProvider {
	if token := os.Getenv(TokenEnvVar); token != "" {
		logger.Debug("Using static token from %s", TokenEnvVar)
		return NewStaticTokenProvider(token, "")
	}
	return NewSessionTokenProvider(store, oauth)
}
