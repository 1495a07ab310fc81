package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// Verifier length in random bytes before encoding. RFC 7636 allows
// 43-128 characters; 64 bytes encodes to 86.
const codeVerifierLength = 64

// generateCodeVerifier creates the random PKCE code verifier for one
// login attempt.
func generateCodeVerifier() (string, error) {
	raw := make([]byte, codeVerifierLength)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// generateCodeChallenge derives the S256 challenge sent in the
// authorization request.
func generateCodeChallenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

// generateState creates the opaque state parameter that ties the
// callback to this flow.
func generateState() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
