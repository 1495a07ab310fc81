package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
	"github.com/meridian-labs/graphseek-cli/internal/core/ports/driven"
	"github.com/meridian-labs/graphseek-cli/internal/core/ports/driving"
	"github.com/meridian-labs/graphseek-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService plans and executes unified searches: it resolves the
// entity-type set, synthesises the backend query, plans aggregations
// and walks the execution tiers, then normalises whatever tier served
// the request.
type SearchService struct {
	tokens     driven.TokenProvider
	engine     *TierEngine
	normalizer *Normalizer
	history    driven.HistoryStore
}

// NewSearchService creates a new search service.
// The history store is optional (can be nil); searches then simply go
// unrecorded.
func NewSearchService(
	tokens driven.TokenProvider,
	api driven.APIClient,
	policy TierPolicy,
	history driven.HistoryStore,
) *SearchService {
	return &SearchService{
		tokens:     tokens,
		engine:     NewTierEngine(api, policy),
		normalizer: NewNormalizer(api),
		history:    history,
	}
}

// Search plans and executes one unified search.
func (s *SearchService) Search(ctx context.Context, query domain.Query) (*domain.SearchResponse, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query.Text)

	started := time.Now()

	// Reject input the backend could never answer meaningfully.
	query.Text = strings.TrimSpace(query.Text)
	if query.Text == "" && query.Filters.IsZero() {
		return nil, fmt.Errorf("%w: query text or at least one filter is required", domain.ErrInvalidInput)
	}

	query.Size = ClampSize(query.Size)
	query.From = ClampOffset(query.From)
	logger.Debug("Size: %d, From: %d", query.Size, query.From)

	// One token per invocation. Auth failures are never retried here.
	if s.tokens == nil {
		return nil, domain.ErrAuthRequired
	}
	token, err := s.tokens.GetToken(ctx)
	if err != nil {
		return nil, err
	}

	resolution := ResolveEntityTypes(query.EntityTypes)
	logger.Debug("Resolved entity types: %v (class %s)", resolution.EntityTypes, resolution.Class)
	if resolution.Advisory != "" {
		logger.Info("Advisory: %s", resolution.Advisory)
	}

	now := time.Now()
	synthesised, err := Synthesize(query, now)
	if err != nil {
		return nil, err
	}
	logger.Debug("Synthesised query: %s", synthesised)

	facetPlans := PlanFacets(query.Facets, resolution.Class, now)
	logger.Debug("Facet plans: %d", len(facetPlans))

	plan := ExecutionPlan{
		Query:       query,
		EntityTypes: resolution.EntityTypes,
		Class:       resolution.Class,
		Synthesised: synthesised,
		Facets:      facetPlans,
		Token:       token,
		RequestID:   uuid.NewString(),
		Now:         now,
	}

	outcome, err := s.engine.Execute(ctx, plan)
	if err != nil {
		logger.Warn("Search failed: %v", err)
		return nil, err
	}

	resp := s.normalizer.Normalize(ctx, outcome, plan)
	resp.Advisory = joinAdvisories(resolution.Advisory, resp.Advisory)
	logger.Info("Final results: %d (total %d, tier %s)", len(resp.Hits), resp.Total, resp.Tier)

	s.recordHistory(ctx, query, synthesised, resolution, resp, time.Since(started))

	return resp, nil
}

// recordHistory appends the completed search to the history store.
// Best-effort: failures are logged and never surfaced to the caller.
func (s *SearchService) recordHistory(
	ctx context.Context,
	query domain.Query,
	synthesised string,
	resolution Resolution,
	resp *domain.SearchResponse,
	duration time.Duration,
) {
	if s.history == nil {
		return
	}

	entry := domain.HistoryEntry{
		ID:          uuid.NewString(),
		QueryText:   query.Text,
		Synthesised: synthesised,
		EntityTypes: resolution.EntityTypes,
		Tier:        resp.Tier,
		ResultCount: len(resp.Hits),
		Total:       resp.Total,
		Advisory:    resp.Advisory,
		Duration:    duration,
		CreatedAt:   time.Now(),
	}
	if err := s.history.Record(ctx, entry); err != nil {
		logger.Warn("Failed to record search history: %v", err)
	}
}

func joinAdvisories(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "; ")
}
