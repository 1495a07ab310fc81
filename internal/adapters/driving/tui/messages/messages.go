// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
)

// SearchCompleted carries the search response back to the model.
type SearchCompleted struct {
	Response *domain.SearchResponse
	Err      error
}

// HitSelected is sent when a search result is chosen for detail view.
type HitSelected struct {
	Hit domain.Hit
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewSearch is the search input and results view.
	ViewSearch
	// ViewHistory lists past searches.
	ViewHistory
	// ViewHitDetails shows one result's payload and enrichment.
	ViewHitDetails
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSearch:
		return "search"
	case ViewHistory:
		return "history"
	case ViewHitDetails:
		return "hit_details"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// HistoryLoaded carries the recent searches from the history service.
type HistoryLoaded struct {
	Entries []domain.HistoryEntry
	Err     error
}

// HistoryCleared signals the history was cleared.
type HistoryCleared struct {
	Err error
}

// RerunRequested asks the search view to replay a past search.
type RerunRequested struct {
	Entry domain.HistoryEntry
}

// SessionLoaded carries the signed-in account for display.
// Account is empty when signed out.
type SessionLoaded struct {
	Account string
	Err     error
}

// BrowserOpened reports the outcome of opening a hit in the browser.
type BrowserOpened struct {
	URL string
	Err error
}
