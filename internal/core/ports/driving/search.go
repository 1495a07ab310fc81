package driving

import (
	"context"

	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
)

// SearchService provides unified search capabilities to external actors.
type SearchService interface {
	// Search plans and executes one unified search across tenant
	// content. Zero hits is a valid response, not an error.
	Search(ctx context.Context, query domain.Query) (*domain.SearchResponse, error)
}
