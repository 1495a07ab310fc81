// Package history provides the search history view component for the TUI.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/meridian-labs/graphseek-cli/internal/adapters/driving/tui/messages"
	"github.com/meridian-labs/graphseek-cli/internal/adapters/driving/tui/styles"
	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
	"github.com/meridian-labs/graphseek-cli/internal/core/ports/driving"
)

// recentLimit caps how many entries the view loads at once.
const recentLimit = 50

// View is the search history view. Entries can be re-run with enter.
type View struct {
	styles         *styles.Styles
	historyService driving.HistoryService

	entries      []domain.HistoryEntry
	selected     int
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
	scrollOffset int
}

// NewView creates a new history view. The history service may be nil,
// in which case the view stays empty.
func NewView(s *styles.Styles, historyService driving.HistoryService) *View {
	return &View{
		styles:         s,
		historyService: historyService,
		entries:        []domain.HistoryEntry{},
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Load returns a command that loads recent history entries.
func (v *View) Load() tea.Cmd {
	v.loading = true
	v.selected = 0
	v.scrollOffset = 0
	return func() tea.Msg {
		if v.historyService == nil {
			return messages.HistoryLoaded{}
		}

		entries, err := v.historyService.Recent(context.Background(), recentLimit)
		return messages.HistoryLoaded{Entries: entries, Err: err}
	}
}

// clearHistory returns a command that deletes all history entries.
func (v *View) clearHistory() tea.Cmd {
	return func() tea.Msg {
		if v.historyService == nil {
			return messages.HistoryCleared{}
		}

		err := v.historyService.Clear(context.Background())
		return messages.HistoryCleared{Err: err}
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.HistoryLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.entries = msg.Entries
			v.err = nil
		}
		return v, nil

	case messages.HistoryCleared:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		// Reload after clearing
		return v, v.Load()

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.entries)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "enter":
		if v.selected < len(v.entries) {
			entry := v.entries[v.selected]
			return v, func() tea.Msg {
				return messages.RerunRequested{Entry: entry}
			}
		}
	case "r":
		// Reload entries
		return v, v.Load()
	case "x":
		return v, v.clearHistory()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	return v, nil
}

// adjustScroll adjusts the scroll offset to keep the selected item visible.
func (v *View) adjustScroll() {
	visibleItems := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visibleItems {
		v.scrollOffset = v.selected - visibleItems + 1
	}
}

// visibleItemCount returns the number of items that can be displayed.
func (v *View) visibleItemCount() int {
	// Reserve lines for title, separator, help, and padding
	reserved := 8
	available := v.height - reserved
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the history view.
func (v *View) View() string {
	var b strings.Builder

	// Title
	title := fmt.Sprintf("Search History (%d)", len(v.entries))
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	// Loading state
	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading history..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	// Error state
	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	// Empty state
	if len(v.entries) == 0 {
		b.WriteString(v.styles.Muted.Render("No searches recorded yet."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	// Entry list
	visibleItems := v.visibleItemCount()
	for i := v.scrollOffset; i < len(v.entries) && i < v.scrollOffset+visibleItems; i++ {
		line := v.renderEntry(i, &v.entries[i])
		b.WriteString(line)
		b.WriteString("\n")
	}

	// Scroll indicator
	if len(v.entries) > visibleItems {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
			v.scrollOffset+1,
			min(v.scrollOffset+visibleItems, len(v.entries)),
			len(v.entries))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderEntry renders a single history entry line.
func (v *View) renderEntry(index int, entry *domain.HistoryEntry) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	query := entry.QueryText
	if query == "" {
		query = "(filters only)"
	}

	// Truncate query if needed
	maxQueryLen := v.width/2 - 4
	if maxQueryLen < 10 {
		maxQueryLen = 10
	}
	if len(query) > maxQueryLen {
		query = query[:maxQueryLen-3] + "..."
	}

	meta := fmt.Sprintf("%d of %d  %s  %s",
		entry.ResultCount, entry.Total, entry.Tier, entry.CreatedAt.Format("Jan 2 15:04"))

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxQueryLen, query, meta))
	}

	return v.styles.Normal.Render(indicator) +
		v.styles.Normal.Render(fmt.Sprintf("%-*s  ", maxQueryLen, query)) +
		v.styles.Muted.Render(meta)
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] navigate  [enter] re-run  [r] reload  [x] clear  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Entries returns the current history entries.
func (v *View) Entries() []domain.HistoryEntry {
	return v.entries
}

// SelectedIndex returns the currently selected entry index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedEntry returns the currently selected entry.
func (v *View) SelectedEntry() *domain.HistoryEntry {
	if v.selected < len(v.entries) {
		return &v.entries[v.selected]
	}
	return nil
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
