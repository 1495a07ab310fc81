// Package styles provides the colour theme and lipgloss styles for
// the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the colour palette. Accents follow the graphseek sign-in
// page: periwinkle primary on a dark slate background.
type Theme struct {
	Primary    lipgloss.Color // main accent
	Secondary  lipgloss.Color // secondary accent
	Background lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color // de-emphasised text
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Border     lipgloss.Color
}

// DefaultTheme returns the graphseek palette.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#6675FF"),
		Secondary:  lipgloss.Color("#3DD6C3"),
		Background: lipgloss.Color("#15171F"),
		Foreground: lipgloss.Color("#D9DEEA"),
		Muted:      lipgloss.Color("#7B8088"),
		Success:    lipgloss.Color("#7ED491"),
		Warning:    lipgloss.Color("#E8C468"),
		Error:      lipgloss.Color("#E66A70"),
		Border:     lipgloss.Color("#3A4056"),
	}
}

// Styles holds the pre-built lipgloss styles every component shares.
type Styles struct {
	theme *Theme

	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Normal     lipgloss.Style
	Muted      lipgloss.Style
	Selected   lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style
	Border     lipgloss.Style
}

// NewStyles builds the style set from a theme. A nil theme falls back
// to the default palette.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary),
		Normal:   lipgloss.NewStyle().Foreground(theme.Foreground),
		Muted:    lipgloss.NewStyle().Foreground(theme.Muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary),

		Error:   lipgloss.NewStyle().Foreground(theme.Error),
		Success: lipgloss.NewStyle().Foreground(theme.Success),
		Warning: lipgloss.NewStyle().Foreground(theme.Warning),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(lipgloss.Color("#101218")).
			Padding(0, 1),

		Help: lipgloss.NewStyle().Foreground(theme.Muted),

		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
