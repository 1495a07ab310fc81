package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for GraphSeek resources.
	uriScheme = "graphseek://"

	// historyURI addresses the recent-search-history resource.
	historyURI = uriScheme + "history/recent"

	// historyLimit caps how many history entries the resource exposes.
	historyLimit = 20
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.inner.AddResource(&mcp.Resource{
		URI:         historyURI,
		Name:        "recent-searches",
		Description: "Recently executed searches with their query text and result counts",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

// handleHistoryResource returns the most recent search history entries.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	entries, err := s.ports.History.Recent(ctx, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("loading search history: %w", err)
	}

	// Build simplified history list.
	type historyInfo struct {
		Query       string    `json:"query"`
		Synthesised string    `json:"synthesised"`
		EntityTypes []string  `json:"entityTypes"`
		Tier        string    `json:"tier"`
		Results     int       `json:"results"`
		Total       int       `json:"total"`
		Advisory    string    `json:"advisory,omitempty"`
		ExecutedAt  time.Time `json:"executedAt"`
	}

	infos := make([]historyInfo, len(entries))
	for i := range entries {
		types := make([]string, len(entries[i].EntityTypes))
		for j, et := range entries[i].EntityTypes {
			types[j] = string(et)
		}
		infos[i] = historyInfo{
			Query:       entries[i].QueryText,
			Synthesised: entries[i].Synthesised,
			EntityTypes: types,
			Tier:        entries[i].Tier.String(),
			Results:     entries[i].ResultCount,
			Total:       entries[i].Total,
			Advisory:    entries[i].Advisory,
			ExecutedAt:  entries[i].CreatedAt,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling history: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
