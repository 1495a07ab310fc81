// Package list renders search hits as a navigable two-line-per-hit
// list.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/meridian-labs/graphseek-cli/internal/adapters/driving/tui/styles"
	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
)

// ResultList displays one page of hits. Each hit renders as a title
// line tagged with its entity type, plus a snippet line with the
// backend highlight markup stripped.
type ResultList struct {
	hits     []domain.Hit
	total    int
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates an empty list with default dimensions.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init implements the component contract.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation keys.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // only navigation keys matter here
		switch key.Type {
		case tea.KeyUp:
			r.MoveUp()
		case tea.KeyDown:
			r.MoveDown()
		default:
		}
		switch key.String() {
		case "k":
			r.MoveUp()
		case "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the header and the window of hits around the selection.
func (r *ResultList) View() string {
	if len(r.hits) == 0 {
		return r.styles.Muted.Render("No results")
	}

	header := fmt.Sprintf("Results (%d)", len(r.hits))
	if r.total > len(r.hits) {
		header = fmt.Sprintf("Results (%d of %d)", len(r.hits), r.total)
	}

	lines := []string{r.styles.Subtitle.Render(header), ""}
	start, end := r.window()
	for i := start; i < end; i++ {
		lines = append(lines, r.renderHit(i, &r.hits[i]))
	}
	return strings.Join(lines, "\n")
}

// window computes the visible hit range, keeping the selection in
// view. Each hit occupies two lines under a two-line header.
func (r *ResultList) window() (int, int) {
	visible := (r.height - 4) / 2
	if visible < 1 {
		visible = 1
	}

	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := start + visible
	if end > len(r.hits) {
		end = len(r.hits)
	}
	return start, end
}

func (r *ResultList) renderHit(index int, hit *domain.Hit) string {
	title := hit.Title()
	if title == "" {
		title = "(Untitled)"
	}
	titleWidth := r.width - 20
	if titleWidth < 10 {
		titleWidth = 10
	}
	title = truncate(title, titleWidth)

	tag := string(hit.EntityType)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(
			fmt.Sprintf("> %-*s  %s", titleWidth, title, tag))
	} else {
		titleLine = r.styles.Normal.Render(fmt.Sprintf("  %-*s  ", titleWidth, title)) +
			r.styles.Muted.Render(tag)
	}

	previewWidth := r.width - 6
	if previewWidth < 20 {
		previewWidth = 20
	}
	preview := truncate(hit.PlainSummary(), previewWidth)

	return titleLine + "\n" + r.styles.Muted.Render("    "+preview)
}

// truncate shortens s to max characters with a trailing ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// SetResults replaces the listed hits and resets the selection.
func (r *ResultList) SetResults(hits []domain.Hit, total int) {
	r.hits = hits
	r.total = total
	r.selected = 0
}

// Results returns the current hits.
func (r *ResultList) Results() []domain.Hit { return r.hits }

// Total returns the backend's total match count.
func (r *ResultList) Total() int { return r.total }

// Selected returns the index of the selected hit.
func (r *ResultList) Selected() int { return r.selected }

// SetSelected sets the selected index; out-of-range values are
// ignored.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.hits) {
		r.selected = index
	}
}

// SelectedHit returns the currently selected hit, or nil if none.
func (r *ResultList) SelectedHit() *domain.Hit {
	if len(r.hits) == 0 || r.selected < 0 || r.selected >= len(r.hits) {
		return nil
	}
	return &r.hits[r.selected]
}

// MoveUp moves the selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves the selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.hits)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *ResultList) Width() int { return r.width }

// Height returns the current height.
func (r *ResultList) Height() int { return r.height }

// Count returns the number of hits.
func (r *ResultList) Count() int { return len(r.hits) }

// IsEmpty reports whether the list holds no hits.
func (r *ResultList) IsEmpty() bool { return len(r.hits) == 0 }
