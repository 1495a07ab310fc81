// Package status provides the status bar shown under every view.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/meridian-labs/graphseek-cli/internal/adapters/driving/tui/keymap"
	"github.com/meridian-labs/graphseek-cli/internal/adapters/driving/tui/styles"
)

// State selects what the left side of the bar shows.
type State string

const (
	StateReady     State = "ready"
	StateSearching State = "searching"
	StateError     State = "error"
	StateHelp      State = "help"
	StateResults   State = "results"
)

// Bar shows the search state on the left (result counts, the serving
// tier, errors) and keybinding hints on the right. It is passive:
// views drive it through the Set methods rather than messages.
type Bar struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	width  int

	state       State
	message     string
	resultCount int
	total       int
	tier        string
}

// NewBar creates a status bar with default width.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init implements the component contract; the bar has no startup work.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update is a no-op; the owning view mutates the bar directly.
func (s *Bar) Update(tea.Msg) (*Bar, tea.Cmd) {
	return s, nil
}

// View renders the bar at the configured width, state on the left and
// hints right-aligned.
func (s *Bar) View() string {
	left := s.renderState()
	right := s.renderHints()

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", gap) + right,
	)
}

func (s *Bar) renderState() string {
	switch s.state {
	case StateSearching:
		return s.styles.Muted.Render("Searching...")
	case StateError:
		if s.message == "" {
			return s.styles.Error.Render("Error")
		}
		return s.styles.Error.Render("Error: " + s.message)
	case StateHelp:
		return s.styles.Normal.Render("Help")
	case StateReady, StateResults:
		if s.resultCount == 0 {
			return s.styles.Muted.Render("Ready")
		}
		text := fmt.Sprintf("%d results", s.resultCount)
		if s.total > s.resultCount {
			text = fmt.Sprintf("%d of %d results", s.resultCount, s.total)
		}
		if s.tier != "" {
			text += fmt.Sprintf(" (%s tier)", s.tier)
		}
		return s.styles.Normal.Render(text)
	}
	return s.styles.Muted.Render("Ready")
}

func (s *Bar) renderHints() string {
	var bindings []key.Binding
	if s.state == StateResults && s.resultCount > 0 {
		bindings = s.keymap.ResultsHelp()
	} else {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, h.Key+": "+h.Desc)
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) { s.state = state }

// State returns the current state.
func (s *Bar) State() State { return s.state }

// SetMessage sets the text shown for error states.
func (s *Bar) SetMessage(message string) { s.message = message }

// Message returns the current message.
func (s *Bar) Message() string { return s.message }

// SetResultCount sets how many hits the current page holds.
func (s *Bar) SetResultCount(count int) { s.resultCount = count }

// ResultCount returns the current result count.
func (s *Bar) ResultCount() int { return s.resultCount }

// SetTotal sets the backend total shown next to the result count.
func (s *Bar) SetTotal(total int) { s.total = total }

// Total returns the current backend total.
func (s *Bar) Total() int { return s.total }

// SetTier sets the serving tier label shown after the counts.
func (s *Bar) SetTier(tier string) { s.tier = tier }

// Tier returns the current tier label.
func (s *Bar) Tier() string { return s.tier }

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) { s.width = width }

// Width returns the current width.
func (s *Bar) Width() int { return s.width }

// Clear resets the bar to the ready state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.resultCount = 0
	s.total = 0
	s.tier = ""
}
