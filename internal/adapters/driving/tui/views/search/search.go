// Package search provides the main search view for the TUI.
package search

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/meridian-labs/graphseek-cli/internal/adapters/driving/oauth"
	"github.com/meridian-labs/graphseek-cli/internal/adapters/driving/tui/components/input"
	"github.com/meridian-labs/graphseek-cli/internal/adapters/driving/tui/components/list"
	"github.com/meridian-labs/graphseek-cli/internal/adapters/driving/tui/components/status"
	"github.com/meridian-labs/graphseek-cli/internal/adapters/driving/tui/keymap"
	"github.com/meridian-labs/graphseek-cli/internal/adapters/driving/tui/messages"
	"github.com/meridian-labs/graphseek-cli/internal/adapters/driving/tui/styles"
	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
	"github.com/meridian-labs/graphseek-cli/internal/core/ports/driving"
)

// scope is one entry in the entity-type cycle bound to tab.
type scope struct {
	label string
	types []domain.EntityType
}

// scopes the search can cycle through. The empty set leaves type
// selection to the configured defaults.
var scopes = []scope{
	{label: "all", types: nil},
	{label: "files", types: []domain.EntityType{domain.EntityDriveItem}},
	{label: "mail", types: []domain.EntityType{domain.EntityMessage}},
	{label: "events", types: []domain.EntityType{domain.EntityEvent}},
	{label: "people", types: []domain.EntityType{domain.EntityPerson}},
	{label: "chat", types: []domain.EntityType{domain.EntityChatMessage}},
}

// View represents the search view with input, results list, and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.ResultList
	statusbar *status.Bar

	searchService driving.SearchService
	configService driving.ConfigService
	ctx           context.Context

	width      int
	height     int
	ready      bool
	err        error
	advisory   string
	scopeIndex int
	focusInput bool // true = input mode (typing), false = results mode (navigating)
}

// NewView creates a new search view. The config service is optional;
// without it searches run with built-in defaults.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	searchService driving.SearchService,
	configService driving.ConfigService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewSearchInput(s),
		list:          list.NewResultList(s),
		statusbar:     status.NewBar(s, km),
		searchService: searchService,
		configService: configService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
		ready:         false,
		focusInput:    true, // Start in input mode
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.BrowserOpened:
		if msg.Err != nil {
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage("open browser: " + msg.Err.Error())
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	// Forward to input component
	var inputCmd tea.Cmd
	v.input, inputCmd = v.input.Update(msg)
	if inputCmd != nil {
		cmds = append(cmds, inputCmd)
	}

	// Forward to list component
	var listCmd tea.Cmd
	v.list, listCmd = v.list.Update(msg)
	if listCmd != nil {
		cmds = append(cmds, listCmd)
	}

	return v, tea.Batch(cmds...)
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	// Esc always signals to go back to menu
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	// Tab cycles the entity scope in either mode
	if msg.Type == tea.KeyTab {
		v.CycleScope()
		return v, nil
	}

	// Enter in input mode submits search
	if msg.Type == tea.KeyEnter && v.focusInput {
		return v, v.Submit()
	}

	// Input mode: all keys go to input
	if v.focusInput {
		v.input, _ = v.input.Update(msg)
		return v, nil
	}

	// Results mode: Enter opens the details view for the selected hit
	if msg.Type == tea.KeyEnter {
		hit := v.list.SelectedHit()
		if hit == nil {
			return v, nil
		}
		selected := *hit
		return v, func() tea.Msg {
			return messages.HitSelected{Hit: selected}
		}
	}

	// Results mode: handle navigation
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyUp:
		v.list.MoveUp()
		return v, nil
	case tea.KeyDown:
		v.list.MoveDown()
		return v, nil
	}

	switch msg.String() {
	case "k":
		v.list.MoveUp()
		return v, nil
	case "j":
		v.list.MoveDown()
		return v, nil
	case "o":
		return v, v.openSelected()
	case "n":
		// New search: clear input and focus it
		v.focusInput = true
		v.input.Focus()
		v.input.SetValue("")
		return v, nil
	}

	return v, nil
}

// Submit runs a search for the current input value. Returns nil when
// the input is empty.
func (v *View) Submit() tea.Cmd {
	query := strings.TrimSpace(v.input.Value())
	if query == "" {
		return nil
	}
	v.input.Remember(query)
	v.statusbar.SetState(status.StateSearching)
	v.focusInput = false // Move to results mode after search
	v.input.Blur()
	return v.performSearch(query)
}

// performSearch executes a search against the configured service.
// Defaults are read from the config service at execution time so a
// reloaded config file takes effect on the next search.
func (v *View) performSearch(text string) tea.Cmd {
	types := scopes[v.scopeIndex].types
	return func() tea.Msg {
		if v.searchService == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}

		query := domain.Query{
			Text:        text,
			EntityTypes: types,
		}
		if v.configService != nil {
			defaults := v.configService.SearchDefaults()
			if defaults.Limit > 0 {
				query.Size = defaults.Limit
			}
			if len(query.EntityTypes) == 0 {
				query.EntityTypes = defaults.EntityTypes
			}
			query.Enrich = defaults.Enrich
			query.Relevance = defaults.Relevance
		}

		resp, err := v.searchService.Search(v.ctx, query)
		if err != nil {
			return messages.SearchCompleted{Err: err}
		}
		return messages.SearchCompleted{Response: resp}
	}
}

// openSelected opens the selected hit's web link in the browser.
func (v *View) openSelected() tea.Cmd {
	hit := v.list.SelectedHit()
	if hit == nil {
		return nil
	}
	url := hit.WebURL()
	if url == "" {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage("no link on this result")
		return nil
	}
	return func() tea.Msg {
		return messages.BrowserOpened{URL: url, Err: oauth.OpenBrowser(url)}
	}
}

// handleSearchCompleted processes a finished search.
func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	v.advisory = msg.Response.Advisory
	v.list.SetResults(msg.Response.Hits, msg.Response.Total)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetResultCount(len(msg.Response.Hits))
	v.statusbar.SetTotal(msg.Response.Total)
	v.statusbar.SetTier(msg.Response.Tier.String())

	// Switch to results mode after successful search
	v.focusInput = false
	v.input.Blur()
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)

	// Header
	header := v.styles.Title.Render("GraphSeek")
	sections = append(sections, header, "")

	// Search input
	inputView := v.input.View()
	sections = append(sections, inputView)

	// Scope selector
	scopeLine := v.styles.Muted.Render("Scope: " + scopes[v.scopeIndex].label + "  (tab to change)")
	sections = append(sections, scopeLine, "")

	// Error display
	if v.err != nil {
		errView := v.styles.Error.Render("Error: " + v.err.Error())
		sections = append(sections, errView, "")
	}

	// Advisory from the resolver or backend
	if v.advisory != "" {
		advisoryView := v.styles.Warning.Render("Note: " + v.advisory)
		sections = append(sections, advisoryView, "")
	}

	// Results list
	listView := v.list.View()
	sections = append(sections, listView)

	// Status bar at bottom
	sections = append(sections, "")
	statusView := v.statusbar.View()
	sections = append(sections, statusView)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	// Allocate space to components
	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10) // Reserve space for header, input, status
	v.statusbar.SetWidth(width)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current search query.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the search query.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Results returns the current hits.
func (v *View) Results() []domain.Hit {
	return v.list.Results()
}

// SelectedIndex returns the index of the selected hit.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// SelectedHit returns the currently selected hit.
func (v *View) SelectedHit() *domain.Hit {
	return v.list.SelectedHit()
}

// Advisory returns the advisory from the last search, if any.
func (v *View) Advisory() string {
	return v.advisory
}

// CycleScope advances the entity scope to the next preset.
func (v *View) CycleScope() {
	v.scopeIndex = (v.scopeIndex + 1) % len(scopes)
}

// ScopeLabel returns the label of the active entity scope.
func (v *View) ScopeLabel() string {
	return scopes[v.scopeIndex].label
}

// ScopeTypes returns the entity types of the active scope. Nil means
// the configured defaults apply.
func (v *View) ScopeTypes() []domain.EntityType {
	return scopes[v.scopeIndex].types
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// ClearError clears the current error.
func (v *View) ClearError() {
	v.err = nil
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
}

// Reset resets the view to initial input mode. The entity scope is
// kept so repeated searches stay scoped.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.list.SetResults(nil, 0)
	v.err = nil
	v.advisory = ""
	v.statusbar.Clear()
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
