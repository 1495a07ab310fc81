package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
)

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleHistoryResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil history service returns empty list", func(t *testing.T) {
		ports := &Ports{Search: &mockSearchService{}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest(historyURI)
		result, err := server.handleHistoryResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	})

	t.Run("returns history entries", func(t *testing.T) {
		executedAt := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
		mockHistory := &mockHistoryService{
			entries: []domain.HistoryEntry{
				{
					ID:          "entry-1",
					QueryText:   "quarterly budget",
					Synthesised: "quarterly budget filetype:xlsx",
					EntityTypes: []domain.EntityType{domain.EntityDriveItem, domain.EntityListItem},
					Tier:        domain.TierText,
					ResultCount: 12,
					Total:       48,
					CreatedAt:   executedAt,
				},
			},
		}

		ports := &Ports{Search: &mockSearchService{}, History: mockHistory}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest(historyURI)
		result, err := server.handleHistoryResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, historyLimit, mockHistory.lastLimit)

		var infos []map[string]any
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &infos))
		require.Len(t, infos, 1)
		assert.Equal(t, "quarterly budget", infos[0]["query"])
		assert.Equal(t, "quarterly budget filetype:xlsx", infos[0]["synthesised"])
		assert.Equal(t, []any{"driveItem", "listItem"}, infos[0]["entityTypes"])
		assert.Equal(t, "text", infos[0]["tier"])
		assert.Equal(t, float64(12), infos[0]["results"])
		assert.Equal(t, float64(48), infos[0]["total"])
		assert.NotContains(t, infos[0], "advisory")
	})

	t.Run("includes advisory when present", func(t *testing.T) {
		mockHistory := &mockHistoryService{
			entries: []domain.HistoryEntry{
				{
					ID:        "entry-1",
					QueryText: "budgit",
					Advisory:  `backend altered the query to "budget"`,
					CreatedAt: time.Now().UTC(),
				},
			},
		}

		ports := &Ports{Search: &mockSearchService{}, History: mockHistory}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest(historyURI)
		result, err := server.handleHistoryResource(ctx, req)

		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, "altered the query")
	})

	t.Run("empty history returns empty list", func(t *testing.T) {
		mockHistory := &mockHistoryService{}
		ports := &Ports{Search: &mockSearchService{}, History: mockHistory}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest(historyURI)
		result, err := server.handleHistoryResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns error on history failure", func(t *testing.T) {
		mockHistory := &mockHistoryService{
			recentErr: errors.New("database error"),
		}

		ports := &Ports{Search: &mockSearchService{}, History: mockHistory}
		server, err := NewServer(ports)
		require.NoError(t, err)

		req := makeReadResourceRequest(historyURI)
		_, err = server.handleHistoryResource(ctx, req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading search history")
	})
}
