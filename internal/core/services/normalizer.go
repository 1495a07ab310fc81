package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
	"github.com/meridian-labs/graphseek-cli/internal/core/ports/driven"
	"github.com/meridian-labs/graphseek-cli/internal/logger"
)

const (
	// enrichmentConcurrency bounds the parallel detail calls per search.
	enrichmentConcurrency = 4

	// enrichmentTimeout caps each individual detail call.
	enrichmentTimeout = 5 * time.Second
)

// Normalizer flattens backend envelopes into the unified result shape
// and optionally enriches hits with secondary detail calls.
type Normalizer struct {
	api driven.APIClient
}

// NewNormalizer creates a normalizer. The API client is only used for
// enrichment and may be nil when enrichment is never requested.
func NewNormalizer(api driven.APIClient) *Normalizer {
	return &Normalizer{api: api}
}

// Normalize flattens the winning tier's envelope: containers in arrival
// order, hits in the backend's rank order, totals summed across
// containers. The backend's ordering is authoritative and is never
// re-sorted locally. Facets are matched back to their plans by field.
func (n *Normalizer) Normalize(ctx context.Context, outcome *tierOutcome, plan ExecutionPlan) *domain.SearchResponse {
	resp := &domain.SearchResponse{Tier: outcome.tier}

	var advisories []string
	for _, part := range outcome.envelope.Value {
		for _, container := range part.HitsContainers {
			for _, hit := range container.Hits {
				resp.Hits = append(resp.Hits, domain.Hit{
					EntityType: domain.EntityType(container.EntityType),
					Rank:       hit.Rank,
					Summary:    hit.Summary,
					Resource:   hit.Resource,
				})
			}
			resp.Total += container.Total
		}
		if len(part.Aggregations) > 0 && resp.Facets == nil {
			resp.Facets = extractFacets(part.Aggregations, plan.Facets)
		}
		if qa := part.QueryAlterationResponse; qa != nil && qa.AlteredQueryString != "" {
			advisories = append(advisories, fmt.Sprintf("backend altered the query to %q", qa.AlteredQueryString))
		}
	}
	resp.Advisory = strings.Join(advisories, "; ")

	logger.Debug("Normalized %d hits (total %d) from tier %s", len(resp.Hits), resp.Total, outcome.tier)

	if plan.Query.Enrich {
		n.enrich(ctx, resp.Hits, plan.Token, plan.RequestID)
	}
	return resp
}

// extractFacets maps wire aggregations back to the dimensions that
// requested them, preserving plan order. Buckets beyond a plan's size
// are trimmed and the result marked truncated.
func extractFacets(aggregations []wireAggregationResult, plans []domain.FacetPlan) []domain.FacetResult {
	byField := make(map[string]wireAggregationResult, len(aggregations))
	for _, agg := range aggregations {
		byField[agg.Field] = agg
	}

	results := make([]domain.FacetResult, 0, len(plans))
	for _, plan := range plans {
		agg, ok := byField[plan.Field]
		if !ok {
			continue
		}
		result := domain.FacetResult{Dimension: plan.Dimension}
		for _, b := range agg.Buckets {
			result.Buckets = append(result.Buckets, domain.FacetBucket{Key: b.Key, Count: b.Count})
		}
		if plan.Size > 0 && len(result.Buckets) > plan.Size {
			result.Buckets = result.Buckets[:plan.Size]
			result.Truncated = true
		}
		results = append(results, result)
	}
	if len(results) == 0 {
		return nil
	}
	return results
}

// enrich runs the per-hit detail calls. Strictly best-effort: each task
// writes only its own hit, a failed call marks that hit unavailable,
// and nothing here ever fails the batch.
func (n *Normalizer) enrich(ctx context.Context, hits []domain.Hit, token, requestID string) {
	if n.api == nil {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichmentConcurrency)

	for i := range hits {
		hit := &hits[i]
		if !enrichable(hit.EntityType) {
			continue
		}
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, enrichmentTimeout)
			defer cancel()

			detail, err := n.fetchDetail(callCtx, hit, token, requestID)
			if err != nil {
				hit.Enrichment = &domain.Enrichment{Err: "enrichment unavailable: " + err.Error()}
				return nil
			}
			hit.Enrichment = &domain.Enrichment{Available: true, Detail: detail}
			return nil
		})
	}
	// Tasks never return errors; Wait only synchronises.
	_ = g.Wait()
}

// enrichable reports whether a detail endpoint exists for the type.
func enrichable(et domain.EntityType) bool {
	return et == domain.EntityDriveItem || et == domain.EntityListItem
}

// spreadsheetExtensions are the drive-item types whose enrichment lists
// workbook sheet names instead of generic metadata.
var spreadsheetExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xls":  true,
}

// fetchDetail issues the per-type enrichment call.
func (n *Normalizer) fetchDetail(ctx context.Context, hit *domain.Hit, token, requestID string) (map[string]any, error) {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+token)
	headers.Set("client-request-id", requestID)

	switch hit.EntityType {
	case domain.EntityDriveItem:
		return n.fetchDriveItemDetail(ctx, hit, headers)
	case domain.EntityListItem:
		return n.fetchListItemDetail(ctx, hit, headers)
	default:
		return nil, fmt.Errorf("no detail endpoint for %s", hit.EntityType)
	}
}

func (n *Normalizer) fetchDriveItemDetail(ctx context.Context, hit *domain.Hit, headers http.Header) (map[string]any, error) {
	itemID, _ := hit.Resource["id"].(string)
	driveID := nestedString(hit.Resource, "parentReference", "driveId")
	if itemID == "" || driveID == "" {
		return nil, fmt.Errorf("missing resource ids")
	}

	name, _ := hit.Resource["name"].(string)
	if spreadsheetExtensions[strings.ToLower(filepath.Ext(name))] {
		path := fmt.Sprintf("/drives/%s/items/%s/workbook/worksheets", driveID, itemID)
		raw, err := n.api.Invoke(ctx, http.MethodGet, path, nil, nil, headers)
		if err != nil {
			return nil, err
		}
		var listing listingResponse
		if err := json.Unmarshal(raw, &listing); err != nil {
			return nil, fmt.Errorf("decode worksheets: %w", err)
		}
		sheets := make([]string, 0, len(listing.Value))
		for _, ws := range listing.Value {
			if wsName, ok := ws["name"].(string); ok {
				sheets = append(sheets, wsName)
			}
		}
		return map[string]any{"worksheets": sheets}, nil
	}

	path := fmt.Sprintf("/drives/%s/items/%s", driveID, itemID)
	query := url.Values{}
	query.Set("$select", "name,webUrl,size,lastModifiedDateTime")
	raw, err := n.api.Invoke(ctx, http.MethodGet, path, nil, query, headers)
	if err != nil {
		return nil, err
	}
	var detail map[string]any
	if err := json.Unmarshal(raw, &detail); err != nil {
		return nil, fmt.Errorf("decode item detail: %w", err)
	}
	return detail, nil
}

func (n *Normalizer) fetchListItemDetail(ctx context.Context, hit *domain.Hit, headers http.Header) (map[string]any, error) {
	itemID, _ := hit.Resource["id"].(string)
	siteID := nestedString(hit.Resource, "parentReference", "siteId")
	listID := nestedString(hit.Resource, "sharepointIds", "listId")
	if listID == "" {
		listID = nestedString(hit.Resource, "parentReference", "listId")
	}
	if itemID == "" || siteID == "" || listID == "" {
		return nil, fmt.Errorf("missing resource ids")
	}

	path := fmt.Sprintf("/sites/%s/lists/%s/items/%s", siteID, listID, itemID)
	query := url.Values{}
	query.Set("$expand", "fields")
	raw, err := n.api.Invoke(ctx, http.MethodGet, path, nil, query, headers)
	if err != nil {
		return nil, err
	}
	var detail map[string]any
	if err := json.Unmarshal(raw, &detail); err != nil {
		return nil, fmt.Errorf("decode list item detail: %w", err)
	}
	return detail, nil
}

// nestedString digs one level into a raw resource payload.
func nestedString(resource map[string]any, key, subkey string) string {
	nested, ok := resource[key].(map[string]any)
	if !ok {
		return ""
	}
	v, _ := nested[subkey].(string)
	return v
}
