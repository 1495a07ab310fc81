// Package tui provides an interactive terminal user interface for
// GraphSeek. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/meridian-labs/graphseek-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides unified search capabilities.
	Search driving.SearchService

	// History exposes past searches. Optional; the history view shows
	// an empty list without it.
	History driving.HistoryService

	// Config supplies live search defaults. Optional; built-in
	// defaults apply without it.
	Config driving.ConfigService

	// Auth reports the signed-in session. Optional; the menu omits
	// the account line without it.
	Auth driving.AuthService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	search driving.SearchService,
	history driving.HistoryService,
	config driving.ConfigService,
	auth driving.AuthService,
) *Ports {
	return &Ports{
		Search:  search,
		History: history,
		Config:  config,
		Auth:    auth,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
