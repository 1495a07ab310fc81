package mcp

import (
	"github.com/meridian-labs/graphseek-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides unified search capabilities.
	Search driving.SearchService

	// History exposes the locally recorded search history.
	History driving.HistoryService

	// Config supplies the per-query search defaults. The backing store
	// reloads on file edits, so a long-running server picks up changed
	// defaults without restarting.
	Config driving.ConfigService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// History and Config are optional; the resource degrades to an
	// empty list and defaults fall back to the built-ins.
	return nil
}
