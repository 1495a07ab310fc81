// Package hitdetails provides the hit details view component for the TUI.
package hitdetails

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/meridian-labs/graphseek-cli/internal/adapters/driving/oauth"
	"github.com/meridian-labs/graphseek-cli/internal/adapters/driving/tui/messages"
	"github.com/meridian-labs/graphseek-cli/internal/adapters/driving/tui/styles"
	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
)

// View is the hit details view. It shows the full resource payload and
// any enrichment for one selected hit.
type View struct {
	styles *styles.Styles

	hit          *domain.Hit
	scrollOffset int
	width        int
	height       int
	ready        bool
	err          error
}

// NewView creates a new hit details view.
func NewView(s *styles.Styles) *View {
	return &View{
		styles: s,
	}
}

// SetHit sets the hit to display.
func (v *View) SetHit(hit *domain.Hit) {
	v.hit = hit
	v.scrollOffset = 0
	v.err = nil
}

// SetError sets an error to display.
func (v *View) SetError(err error) {
	v.err = err
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the hit details view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.BrowserOpened:
		if msg.Err != nil {
			v.err = fmt.Errorf("open browser: %w", msg.Err)
		}
		return v, nil

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
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		maxOffset := v.maxScrollOffset()
		if v.scrollOffset < maxOffset {
			v.scrollOffset++
		}
	case "o":
		return v, v.openLink()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSearch}
		}
	}

	return v, nil
}

// openLink opens the hit's web link in the browser.
func (v *View) openLink() tea.Cmd {
	if v.hit == nil {
		return nil
	}
	url := v.hit.WebURL()
	if url == "" {
		return nil
	}
	return func() tea.Msg {
		return messages.BrowserOpened{URL: url, Err: oauth.OpenBrowser(url)}
	}
}

// visibleLines returns the number of lines that can be displayed.
func (v *View) visibleLines() int {
	// Reserve lines for title, separator, help, and padding
	reserved := 6
	available := v.height - reserved
	if available < 1 {
		available = 1
	}
	return available
}

// maxScrollOffset returns the maximum scroll offset.
func (v *View) maxScrollOffset() int {
	lines := v.buildContent()
	maxOffset := len(lines) - v.visibleLines()
	if maxOffset < 0 {
		maxOffset = 0
	}
	return maxOffset
}

// buildContent builds the content lines for display.
func (v *View) buildContent() []string {
	if v.hit == nil {
		return nil
	}

	var lines []string

	// Basic info
	title := v.hit.Title()
	if title == "" {
		title = "(untitled)"
	}
	lines = append(lines,
		v.formatField("Title", title),
		v.formatField("Type", string(v.hit.EntityType)),
		v.formatField("Rank", fmt.Sprintf("%d", v.hit.Rank)))
	if url := v.hit.WebURL(); url != "" {
		lines = append(lines, v.formatField("Link", url))
	}

	// Match snippet
	if summary := v.hit.PlainSummary(); summary != "" {
		lines = append(lines, "", "Summary:", "  "+summary)
	}

	// Raw resource payload
	if len(v.hit.Resource) > 0 {
		lines = append(lines, "", "Resource:")
		lines = append(lines, v.formatMap(v.hit.Resource)...)
	}

	// Enrichment section
	if v.hit.Enrichment != nil {
		lines = append(lines, "", "Enrichment:")
		if v.hit.Enrichment.Available {
			lines = append(lines, v.formatMap(v.hit.Enrichment.Detail)...)
		} else if v.hit.Enrichment.Err != "" {
			lines = append(lines, "  unavailable: "+v.hit.Enrichment.Err)
		} else {
			lines = append(lines, "  unavailable")
		}
	}

	return lines
}

// formatMap renders a payload map as sorted, indented key-value lines.
func (v *View) formatMap(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		value := fmt.Sprintf("%v", m[key])
		// Truncate long values
		if len(value) > 70 {
			value = value[:67] + "..."
		}
		lines = append(lines, fmt.Sprintf("  %s: %s", key, value))
	}
	return lines
}

// formatField formats a field for display.
func (v *View) formatField(label, value string) string {
	return fmt.Sprintf("%-12s %s", label+":", value)
}

// View renders the hit details view.
func (v *View) View() string {
	var b strings.Builder

	// Title
	b.WriteString(v.styles.Title.Render("Result Details"))
	b.WriteString("\n")

	// Separator
	b.WriteString(strings.Repeat("─", minInt(v.width-4, 60)))
	b.WriteString("\n\n")

	// Error state
	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	// No hit selected
	if v.hit == nil {
		b.WriteString(v.styles.Muted.Render("No result selected"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	// Content
	lines := v.buildContent()
	visibleLines := v.visibleLines()
	for i := v.scrollOffset; i < len(lines) && i < v.scrollOffset+visibleLines; i++ {
		line := lines[i]

		// Style based on content
		//nolint:nestif // View rendering requires nested conditional styling
		if line == "Summary:" || line == "Resource:" || line == "Enrichment:" {
			b.WriteString(v.styles.Subtitle.Render(line))
		} else if strings.HasPrefix(line, "  ") {
			// Indented key-value or snippet text
			parts := strings.SplitN(line, ":", 2)
			if len(parts) == 2 {
				b.WriteString(v.styles.Muted.Render(parts[0] + ":"))
				b.WriteString(v.styles.Normal.Render(parts[1]))
			} else {
				b.WriteString(v.styles.Muted.Render(line))
			}
		} else if strings.Contains(line, ":") {
			// Field label-value
			parts := strings.SplitN(line, ":", 2)
			if len(parts) == 2 {
				b.WriteString(v.styles.Subtitle.Render(parts[0] + ":"))
				b.WriteString(v.styles.Normal.Render(parts[1]))
			} else {
				b.WriteString(v.styles.Normal.Render(line))
			}
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	// Scroll indicator
	if len(lines) > visibleLines {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [Line %d-%d of %d]",
			v.scrollOffset+1,
			minInt(v.scrollOffset+visibleLines, len(lines)),
			len(lines))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] scroll  [o] open  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Hit returns the current hit.
func (v *View) Hit() *domain.Hit {
	return v.hit
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
