package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
	"github.com/meridian-labs/graphseek-cli/internal/core/ports/driving"
)

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns search results", func(t *testing.T) {
		mockSearch := &mockSearchService{
			resp: &domain.SearchResponse{
				Hits: []domain.Hit{
					{
						EntityType: domain.EntityDriveItem,
						Rank:       1,
						Summary:    "Q3 <b>budget</b> figures",
						Resource: map[string]any{
							"name":   "Budget.xlsx",
							"webUrl": "https://contoso.example/docs/Budget.xlsx",
						},
					},
				},
				Total: 42,
				Tier:  domain.TierText,
			},
		}

		ports := &Ports{Search: mockSearch}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := SearchInput{Query: "budget"}
		_, output, err := server.handleSearch(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 42, output.TotalCount)
		assert.Equal(t, "text", output.Tier)
		require.Len(t, output.Results, 1)
		assert.Equal(t, "driveItem", output.Results[0].EntityType)
		assert.Equal(t, 1, output.Results[0].Rank)
		assert.Equal(t, "Budget.xlsx", output.Results[0].Title)
		assert.Equal(t, "https://contoso.example/docs/Budget.xlsx", output.Results[0].WebURL)
		assert.Equal(t, "Q3 <b>budget</b> figures", output.Results[0].Summary)
		assert.Nil(t, output.Results[0].Detail)
	})

	t.Run("maps input onto the query", func(t *testing.T) {
		mockSearch := &mockSearchService{}
		ports := &Ports{Search: mockSearch}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := SearchInput{
			Query:       "design review",
			EntityTypes: []string{"file", "listItem"},
			FileTypes:   []string{"docx", "pptx"},
			After:       "2026-01-01",
			Before:      "2026-02-01",
			Filter:      "path:\"https://contoso.example/sites/eng\"",
			Facets:      []string{"fileType", "author"},
			Limit:       50,
			From:        25,
			SortBy:      "lastModifiedDateTime",
			Descending:  true,
			Enrich:      true,
			Relevance:   true,
		}
		_, _, err = server.handleSearch(ctx, nil, input)
		require.NoError(t, err)

		query := mockSearch.lastQuery
		assert.Equal(t, "design review", query.Text)
		assert.Equal(t, []domain.EntityType{domain.EntityDriveItem, domain.EntityListItem}, query.EntityTypes)
		assert.Equal(t, []string{"docx", "pptx"}, query.Filters.FileTypes)
		assert.Equal(t, "2026-01-01", query.Filters.After)
		assert.Equal(t, "2026-02-01", query.Filters.Before)
		assert.Equal(t, "path:\"https://contoso.example/sites/eng\"", query.Filters.Raw)
		assert.Equal(t, []string{"fileType", "author"}, query.Facets)
		assert.Equal(t, 50, query.Size)
		assert.Equal(t, 25, query.From)
		require.NotNil(t, query.Sort)
		assert.Equal(t, "lastModifiedDateTime", query.Sort.Field)
		assert.True(t, query.Sort.Descending)
		assert.True(t, query.Enrich)
		assert.True(t, query.Relevance)
	})

	t.Run("applies configured defaults to unset inputs", func(t *testing.T) {
		mockSearch := &mockSearchService{}
		mockConfig := &mockConfigService{
			defaults: driving.SearchDefaults{
				Limit:       100,
				EntityTypes: []domain.EntityType{domain.EntityMessage},
				Enrich:      true,
			},
		}
		ports := &Ports{Search: mockSearch, Config: mockConfig}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "status report"})
		require.NoError(t, err)

		query := mockSearch.lastQuery
		assert.Equal(t, 100, query.Size)
		assert.Equal(t, []domain.EntityType{domain.EntityMessage}, query.EntityTypes)
		assert.True(t, query.Enrich)
		assert.False(t, query.Relevance)
	})

	t.Run("explicit inputs win over configured defaults", func(t *testing.T) {
		mockSearch := &mockSearchService{}
		mockConfig := &mockConfigService{
			defaults: driving.SearchDefaults{
				Limit:       100,
				EntityTypes: []domain.EntityType{domain.EntityMessage},
			},
		}
		ports := &Ports{Search: mockSearch, Config: mockConfig}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := SearchInput{Query: "status report", Limit: 5, EntityTypes: []string{"event"}}
		_, _, err = server.handleSearch(ctx, nil, input)
		require.NoError(t, err)

		assert.Equal(t, 5, mockSearch.lastQuery.Size)
		assert.Equal(t, []domain.EntityType{domain.EntityEvent}, mockSearch.lastQuery.EntityTypes)
	})

	t.Run("omits sort when sortBy is empty", func(t *testing.T) {
		mockSearch := &mockSearchService{}
		ports := &Ports{Search: mockSearch}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := SearchInput{Query: "test", Descending: true}
		_, _, err = server.handleSearch(ctx, nil, input)

		require.NoError(t, err)
		assert.Nil(t, mockSearch.lastQuery.Sort)
	})

	t.Run("unknown entity tags pass through for the resolver", func(t *testing.T) {
		mockSearch := &mockSearchService{}
		ports := &Ports{Search: mockSearch}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := SearchInput{Query: "test", EntityTypes: []string{"mail", "bookmark"}}
		_, _, err = server.handleSearch(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t,
			[]domain.EntityType{domain.EntityMessage, domain.EntityType("bookmark")},
			mockSearch.lastQuery.EntityTypes)
	})

	t.Run("includes detail only when enrichment is available", func(t *testing.T) {
		mockSearch := &mockSearchService{
			resp: &domain.SearchResponse{
				Hits: []domain.Hit{
					{
						EntityType: domain.EntityDriveItem,
						Rank:       1,
						Resource:   map[string]any{"name": "enriched.docx"},
						Enrichment: &domain.Enrichment{
							Available: true,
							Detail:    map[string]any{"createdBy": "dana@contoso.example"},
						},
					},
					{
						EntityType: domain.EntityDriveItem,
						Rank:       2,
						Resource:   map[string]any{"name": "failed.docx"},
						Enrichment: &domain.Enrichment{Err: "item not accessible"},
					},
					{
						EntityType: domain.EntityDriveItem,
						Rank:       3,
						Resource:   map[string]any{"name": "plain.docx"},
					},
				},
				Total: 3,
			},
		}

		ports := &Ports{Search: mockSearch}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "docx", Enrich: true})

		require.NoError(t, err)
		require.Len(t, output.Results, 3)
		assert.Equal(t, map[string]any{"createdBy": "dana@contoso.example"}, output.Results[0].Detail)
		assert.Nil(t, output.Results[1].Detail)
		assert.Nil(t, output.Results[2].Detail)
	})

	t.Run("maps facets and advisory", func(t *testing.T) {
		mockSearch := &mockSearchService{
			resp: &domain.SearchResponse{
				Facets: []domain.FacetResult{
					{
						Dimension: "fileType",
						Buckets: []domain.FacetBucket{
							{Key: "docx", Count: 12},
							{Key: "xlsx", Count: 5},
						},
						Truncated: true,
					},
				},
				Advisory: "entity types message cannot be combined with driveItem; searching driveItem only",
				Tier:     domain.TierRich,
			},
		}

		ports := &Ports{Search: mockSearch}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "budget", Facets: []string{"fileType"}})

		require.NoError(t, err)
		require.Len(t, output.Facets, 1)
		assert.Equal(t, "fileType", output.Facets[0].Dimension)
		assert.True(t, output.Facets[0].Truncated)
		require.Len(t, output.Facets[0].Buckets, 2)
		assert.Equal(t, "docx", output.Facets[0].Buckets[0].Key)
		assert.Equal(t, 12, output.Facets[0].Buckets[0].Count)
		assert.Contains(t, output.Advisory, "cannot be combined")
		assert.Equal(t, "rich", output.Tier)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		mockSearch := &mockSearchService{
			err: errors.New("search failed"),
		}

		ports := &Ports{Search: mockSearch}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := SearchInput{Query: "test"}
		_, _, err = server.handleSearch(ctx, nil, input)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestParseEntityTags(t *testing.T) {
	t.Run("nil for empty input", func(t *testing.T) {
		assert.Nil(t, parseEntityTags(nil))
		assert.Nil(t, parseEntityTags([]string{}))
	})

	t.Run("resolves aliases case-insensitively", func(t *testing.T) {
		types := parseEntityTags([]string{"File", "EMAIL", "chat"})
		assert.Equal(t, []domain.EntityType{
			domain.EntityDriveItem,
			domain.EntityMessage,
			domain.EntityChatMessage,
		}, types)
	})

	t.Run("keeps unknown tags verbatim", func(t *testing.T) {
		types := parseEntityTags([]string{"bookmark"})
		assert.Equal(t, []domain.EntityType{domain.EntityType("bookmark")}, types)
	})
}
