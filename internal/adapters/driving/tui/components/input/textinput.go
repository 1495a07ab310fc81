// Package input provides the query bar for the search view.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/meridian-labs/graphseek-cli/internal/adapters/driving/tui/styles"
)

const (
	charLimit     = 256
	defaultWidth  = 50
	minFieldWidth = 20

	// recallDepth caps the in-session recall ring.
	recallDepth = 50
)

// SearchInput is the query bar: a single-line prompt backed by an
// in-session recall ring. While the bar is focused, Up and Down walk
// through previously submitted queries; the live draft is kept and
// restored when walking back past the newest entry.
type SearchInput struct {
	field  textinput.Model
	styles *styles.Styles
	width  int

	recall []string // submitted queries, oldest first
	cursor int      // position in recall; len(recall) means live draft
	draft  string   // live input parked while browsing the ring
}

// NewSearchInput creates a focused query bar with default width.
func NewSearchInput(s *styles.Styles) *SearchInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	f := textinput.New()
	f.Placeholder = "Search files, mail, events, people..."
	f.CharLimit = charLimit
	f.Width = defaultWidth
	f.Focus()

	return &SearchInput{
		field:  f,
		styles: s,
		width:  defaultWidth,
	}
}

// Init starts the cursor blink.
func (s *SearchInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages. Arrow keys walk the recall ring when
// the bar is focused; everything else goes to the inner field.
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && s.field.Focused() {
		//nolint:exhaustive // only the ring keys are intercepted
		switch key.Type {
		case tea.KeyUp:
			s.recallPrev()
			return s, nil
		case tea.KeyDown:
			s.recallNext()
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.field, cmd = s.field.Update(msg)
	return s, cmd
}

// Remember records a submitted query at the head of the recall ring
// and snaps the cursor back to the live draft. Consecutive duplicates
// collapse into one entry.
func (s *SearchInput) Remember(query string) {
	if query == "" {
		return
	}
	if n := len(s.recall); n == 0 || s.recall[n-1] != query {
		s.recall = append(s.recall, query)
		if len(s.recall) > recallDepth {
			s.recall = s.recall[len(s.recall)-recallDepth:]
		}
	}
	s.cursor = len(s.recall)
	s.draft = ""
}

// recallPrev steps to the next-older submitted query. The live draft
// is parked on the first step into the ring.
func (s *SearchInput) recallPrev() {
	if len(s.recall) == 0 || s.cursor == 0 {
		return
	}
	if s.cursor == len(s.recall) {
		s.draft = s.field.Value()
	}
	s.cursor--
	s.field.SetValue(s.recall[s.cursor])
	s.field.CursorEnd()
}

// recallNext steps back toward the live draft.
func (s *SearchInput) recallNext() {
	if s.cursor >= len(s.recall) {
		return
	}
	s.cursor++
	if s.cursor == len(s.recall) {
		s.field.SetValue(s.draft)
	} else {
		s.field.SetValue(s.recall[s.cursor])
	}
	s.field.CursorEnd()
}

// View renders the labelled query bar.
func (s *SearchInput) View() string {
	label := s.styles.Title.Render("Search: ")
	bar := s.styles.InputField.Render(s.field.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, bar)
}

// Value returns the current input value.
func (s *SearchInput) Value() string {
	return s.field.Value()
}

// SetValue replaces the input value and leaves the recall ring.
func (s *SearchInput) SetValue(value string) {
	s.field.SetValue(value)
	s.cursor = len(s.recall)
	s.draft = ""
}

// Focus sets focus on the bar.
func (s *SearchInput) Focus() tea.Cmd {
	return s.field.Focus()
}

// Blur removes focus from the bar.
func (s *SearchInput) Blur() {
	s.field.Blur()
}

// Focused reports whether the bar has focus.
func (s *SearchInput) Focused() bool {
	return s.field.Focused()
}

// SetWidth resizes the bar, reserving room for the label.
func (s *SearchInput) SetWidth(width int) {
	s.width = width
	fieldWidth := width - 10
	if fieldWidth < minFieldWidth {
		fieldWidth = minFieldWidth
	}
	s.field.Width = fieldWidth
}

// Width returns the current outer width.
func (s *SearchInput) Width() int {
	return s.width
}

// Reset clears the input and leaves the recall ring. Remembered
// queries survive so Up still recalls them.
func (s *SearchInput) Reset() {
	s.field.Reset()
	s.cursor = len(s.recall)
	s.draft = ""
}
