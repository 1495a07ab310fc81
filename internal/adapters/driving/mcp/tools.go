package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query       string   `json:"query" jsonschema:"the search query text"`
	EntityTypes []string `json:"entityTypes,omitempty" jsonschema:"entity types to search (driveItem, listItem, site, drive, message, event, chatMessage, person; aliases such as file, mail and chat are accepted); defaults to library content"`
	FileTypes   []string `json:"fileTypes,omitempty" jsonschema:"restrict file results to these extensions, without dots"`
	After       string   `json:"after,omitempty" jsonschema:"only items modified after this date (YYYY-MM-DD or a relative phrase such as '7 days ago')"`
	Before      string   `json:"before,omitempty" jsonschema:"only items modified before this date"`
	Filter      string   `json:"filter,omitempty" jsonschema:"raw backend filter clause appended to the query verbatim"`
	Facets      []string `json:"facets,omitempty" jsonschema:"aggregation dimensions to compute (fileType, lastModifiedTime, modifiedBy, author, contentType)"`
	Limit       int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 25, ceiling 500)"`
	From        int      `json:"from,omitempty" jsonschema:"result offset for pagination"`
	SortBy      string   `json:"sortBy,omitempty" jsonschema:"backend field to sort by instead of relevance rank"`
	Descending  bool     `json:"descending,omitempty" jsonschema:"sort high to low when sortBy is set"`
	Enrich      bool     `json:"enrich,omitempty" jsonschema:"fetch per-result detail metadata (best effort)"`
	Relevance   bool     `json:"relevance,omitempty" jsonschema:"force backend relevance ranking"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results    []SearchResultOutput `json:"results"`
	Facets     []FacetOutput        `json:"facets,omitempty"`
	TotalCount int                  `json:"totalCount"`
	Tier       string               `json:"tier"`
	Advisory   string               `json:"advisory,omitempty"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	EntityType string         `json:"entityType"`
	Rank       int            `json:"rank"`
	Title      string         `json:"title"`
	WebURL     string         `json:"webUrl,omitempty"`
	Summary    string         `json:"summary,omitempty"`
	Detail     map[string]any `json:"detail,omitempty"`
}

// FacetOutput represents one aggregated dimension.
type FacetOutput struct {
	Dimension string              `json:"dimension"`
	Buckets   []FacetBucketOutput `json:"buckets"`
	Truncated bool                `json:"truncated,omitempty"`
}

// FacetBucketOutput is a single facet bucket.
type FacetBucketOutput struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.inner, &mcp.Tool{
		Name:        "search",
		Description: "Search files, mail, calendar events, list records, pages, people and chat messages in the signed-in workplace account",
	}, s.handleSearch)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	query := domain.Query{
		Text:        input.Query,
		EntityTypes: parseEntityTags(input.EntityTypes),
		Filters: domain.FilterSet{
			FileTypes: input.FileTypes,
			After:     input.After,
			Before:    input.Before,
			Raw:       input.Filter,
		},
		Facets:    input.Facets,
		Size:      input.Limit,
		From:      input.From,
		Relevance: input.Relevance,
		Enrich:    input.Enrich,
	}
	if input.SortBy != "" {
		query.Sort = &domain.SortSpec{Field: input.SortBy, Descending: input.Descending}
	}

	// Configured defaults fill whatever the caller left unset. The
	// config store live-reloads, so edits apply to the next call.
	if s.ports.Config != nil {
		defaults := s.ports.Config.SearchDefaults()
		if query.Size <= 0 {
			query.Size = defaults.Limit
		}
		if len(query.EntityTypes) == 0 {
			query.EntityTypes = defaults.EntityTypes
		}
		query.Enrich = query.Enrich || defaults.Enrich
		query.Relevance = query.Relevance || defaults.Relevance
	}

	resp, err := s.ports.Search.Search(ctx, query)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results:    make([]SearchResultOutput, len(resp.Hits)),
		TotalCount: resp.Total,
		Tier:       resp.Tier.String(),
		Advisory:   resp.Advisory,
	}

	for i := range resp.Hits {
		hit := &resp.Hits[i]
		result := SearchResultOutput{
			EntityType: string(hit.EntityType),
			Rank:       hit.Rank,
			Title:      hit.Title(),
			WebURL:     hit.WebURL(),
			Summary:    hit.Summary,
		}
		if hit.Enrichment != nil && hit.Enrichment.Available {
			result.Detail = hit.Enrichment.Detail
		}
		output.Results[i] = result
	}

	if len(resp.Facets) > 0 {
		output.Facets = make([]FacetOutput, len(resp.Facets))
		for i, facet := range resp.Facets {
			buckets := make([]FacetBucketOutput, len(facet.Buckets))
			for j, bucket := range facet.Buckets {
				buckets[j] = FacetBucketOutput{Key: bucket.Key, Count: bucket.Count}
			}
			output.Facets[i] = FacetOutput{
				Dimension: facet.Dimension,
				Buckets:   buckets,
				Truncated: facet.Truncated,
			}
		}
	}

	return nil, output, nil
}

// parseEntityTags maps user-supplied entity tags to domain entity types.
// Unrecognised tags are passed through raw; the resolver drops them with
// an advisory rather than failing the call.
func parseEntityTags(tags []string) []domain.EntityType {
	if len(tags) == 0 {
		return nil
	}
	types := make([]domain.EntityType, 0, len(tags))
	for _, tag := range tags {
		if et, ok := domain.ParseEntityType(tag); ok {
			types = append(types, et)
			continue
		}
		types = append(types, domain.EntityType(tag))
	}
	return types
}
