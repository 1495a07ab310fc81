package list

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/graphseek-cli/internal/adapters/driving/tui/styles"
	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
)

func sampleHits() []domain.Hit {
	return []domain.Hit{
		{
			EntityType: domain.EntityDriveItem,
			Rank:       1,
			Summary:    "Budget figures for <c0>Q3</c0> planning",
			Resource:   map[string]any{"name": "Budget.xlsx"},
		},
		{
			EntityType: domain.EntityMessage,
			Rank:       2,
			Summary:    "Re: <c0>Q3</c0> numbers",
			Resource:   map[string]any{"subject": "Re: Q3 numbers"},
		},
		{
			EntityType: domain.EntityEvent,
			Rank:       3,
			Resource:   map[string]any{"subject": "Q3 review"},
		},
	}
}

func TestNewResultList(t *testing.T) {
	s := styles.DefaultStyles()
	list := NewResultList(s)

	require.NotNil(t, list)
	assert.Equal(t, 0, list.Selected())
	assert.True(t, list.IsEmpty())
}

func TestNewResultList_NilStyles(t *testing.T) {
	list := NewResultList(nil)

	require.NotNil(t, list)
	assert.NotNil(t, list.styles)
}

func TestResultList_Init(t *testing.T) {
	list := NewResultList(nil)

	cmd := list.Init()

	assert.Nil(t, cmd)
}

func TestResultList_SetResults(t *testing.T) {
	list := NewResultList(nil)
	hits := sampleHits()

	list.SetResults(hits, 3)

	assert.Equal(t, 3, list.Count())
	assert.False(t, list.IsEmpty())
	assert.Equal(t, 0, list.Selected())
	assert.Equal(t, 3, list.Total())
}

func TestResultList_Results(t *testing.T) {
	list := NewResultList(nil)
	hits := sampleHits()
	list.SetResults(hits, 3)

	got := list.Results()

	assert.Equal(t, hits, got)
}

func TestResultList_Selected(t *testing.T) {
	list := NewResultList(nil)
	list.SetResults(sampleHits(), 3)

	assert.Equal(t, 0, list.Selected())

	list.SetSelected(1)
	assert.Equal(t, 1, list.Selected())
}

func TestResultList_SetSelected_Valid(t *testing.T) {
	list := NewResultList(nil)
	list.SetResults(sampleHits(), 3)

	list.SetSelected(2)

	assert.Equal(t, 2, list.Selected())
}

func TestResultList_SetSelected_OutOfBounds(t *testing.T) {
	list := NewResultList(nil)
	list.SetResults(sampleHits(), 3)

	list.SetSelected(99)

	assert.Equal(t, 0, list.Selected()) // Unchanged
}

func TestResultList_SetSelected_Negative(t *testing.T) {
	list := NewResultList(nil)
	list.SetResults(sampleHits(), 3)

	list.SetSelected(-1)

	assert.Equal(t, 0, list.Selected()) // Unchanged
}

func TestResultList_SelectedHit(t *testing.T) {
	list := NewResultList(nil)
	hits := sampleHits()
	list.SetResults(hits, 3)

	hit := list.SelectedHit()

	require.NotNil(t, hit)
	assert.Equal(t, "Budget.xlsx", hit.Title())
}

func TestResultList_SelectedHit_Empty(t *testing.T) {
	list := NewResultList(nil)

	hit := list.SelectedHit()

	assert.Nil(t, hit)
}

func TestResultList_MoveUp(t *testing.T) {
	list := NewResultList(nil)
	list.SetResults(sampleHits(), 3)
	list.SetSelected(1)

	list.MoveUp()

	assert.Equal(t, 0, list.Selected())
}

func TestResultList_MoveUp_AtTop(t *testing.T) {
	list := NewResultList(nil)
	list.SetResults(sampleHits(), 3)

	list.MoveUp()

	assert.Equal(t, 0, list.Selected()) // Stays at 0
}

func TestResultList_MoveDown(t *testing.T) {
	list := NewResultList(nil)
	list.SetResults(sampleHits(), 3)

	list.MoveDown()

	assert.Equal(t, 1, list.Selected())
}

func TestResultList_MoveDown_AtBottom(t *testing.T) {
	list := NewResultList(nil)
	list.SetResults(sampleHits(), 3)
	list.SetSelected(2)

	list.MoveDown()

	assert.Equal(t, 2, list.Selected()) // Stays at 2
}

func TestResultList_Update_KeyUp(t *testing.T) {
	list := NewResultList(nil)
	list.SetResults(sampleHits(), 3)
	list.SetSelected(1)

	msg := tea.KeyMsg{Type: tea.KeyUp}
	updated, cmd := list.Update(msg)

	assert.Equal(t, list, updated)
	assert.Nil(t, cmd)
	assert.Equal(t, 0, list.Selected())
}

func TestResultList_Update_KeyDown(t *testing.T) {
	list := NewResultList(nil)
	list.SetResults(sampleHits(), 3)

	msg := tea.KeyMsg{Type: tea.KeyDown}
	updated, cmd := list.Update(msg)

	assert.Equal(t, list, updated)
	assert.Nil(t, cmd)
	assert.Equal(t, 1, list.Selected())
}

func TestResultList_Update_KeyK(t *testing.T) {
	list := NewResultList(nil)
	list.SetResults(sampleHits(), 3)
	list.SetSelected(1)

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}
	list.Update(msg)

	assert.Equal(t, 0, list.Selected())
}

func TestResultList_Update_KeyJ(t *testing.T) {
	list := NewResultList(nil)
	list.SetResults(sampleHits(), 3)

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}
	list.Update(msg)

	assert.Equal(t, 1, list.Selected())
}

func TestResultList_View_Empty(t *testing.T) {
	list := NewResultList(nil)

	view := list.View()

	assert.Contains(t, view, "No results")
}

func TestResultList_View_WithHits(t *testing.T) {
	list := NewResultList(nil)
	list.SetResults(sampleHits(), 3)

	view := list.View()

	assert.Contains(t, view, "Results (3)")
	assert.Contains(t, view, "Budget.xlsx")
	assert.Contains(t, view, "driveItem")
}

func TestResultList_View_TotalHeader(t *testing.T) {
	list := NewResultList(nil)
	list.SetResults(sampleHits(), 48)

	view := list.View()

	assert.Contains(t, view, "Results (3 of 48)")
}

func TestResultList_View_StripsHighlightMarkup(t *testing.T) {
	list := NewResultList(nil)
	list.SetResults(sampleHits(), 3)
	list.SetDimensions(120, 24)

	view := list.View()

	assert.Contains(t, view, "Budget figures for Q3 planning")
	assert.NotContains(t, view, "<c0>")
}

func TestResultList_View_SelectedIndicator(t *testing.T) {
	list := NewResultList(nil)
	list.SetResults(sampleHits(), 3)

	view := list.View()

	assert.Contains(t, view, ">") // Selected indicator
}

func TestResultList_SetDimensions(t *testing.T) {
	list := NewResultList(nil)

	list.SetDimensions(100, 20)

	assert.Equal(t, 100, list.Width())
	assert.Equal(t, 20, list.Height())
}

func TestResultList_Width(t *testing.T) {
	list := NewResultList(nil)

	assert.Equal(t, 80, list.Width()) // Default
}

func TestResultList_Height(t *testing.T) {
	list := NewResultList(nil)

	assert.Equal(t, 10, list.Height()) // Default
}

func TestResultList_Count(t *testing.T) {
	list := NewResultList(nil)

	assert.Equal(t, 0, list.Count())

	list.SetResults(sampleHits(), 3)
	assert.Equal(t, 3, list.Count())
}

func TestResultList_IsEmpty(t *testing.T) {
	list := NewResultList(nil)

	assert.True(t, list.IsEmpty())

	list.SetResults(sampleHits(), 3)
	assert.False(t, list.IsEmpty())
}

func TestResultList_View_UntitledHit(t *testing.T) {
	list := NewResultList(nil)
	list.SetResults([]domain.Hit{
		{EntityType: domain.EntityDriveItem, Rank: 1, Resource: map[string]any{}},
	}, 1)

	view := list.View()

	assert.Contains(t, view, "(Untitled)")
}

func TestResultList_View_LongTitle(t *testing.T) {
	list := NewResultList(nil)
	longTitle := "This is a very long document title that should be truncated when displayed in the list view"
	list.SetResults([]domain.Hit{
		{EntityType: domain.EntityDriveItem, Rank: 1, Resource: map[string]any{"name": longTitle}},
	}, 1)

	view := list.View()

	// Should be truncated with ellipsis
	assert.Contains(t, view, "...")
}
