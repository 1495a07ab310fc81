package driven

import (
	"context"

	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
)

// CredentialsStore persists the signed-in session. One credentials row
// exists per tenant/client pair; signing in again replaces it.
type CredentialsStore interface {
	// Save stores credentials. Creates if new, updates if exists.
	Save(ctx context.Context, creds domain.Credentials) error

	// Get retrieves credentials by ID.
	Get(ctx context.Context, id string) (*domain.Credentials, error)

	// GetCurrent retrieves the active session.
	// Returns nil if no session exists.
	GetCurrent(ctx context.Context) (*domain.Credentials, error)

	// Delete removes credentials by ID.
	Delete(ctx context.Context, id string) error
}
