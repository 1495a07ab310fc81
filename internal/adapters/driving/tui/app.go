package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/meridian-labs/graphseek-cli/internal/adapters/driving/tui/messages"
	"github.com/meridian-labs/graphseek-cli/internal/adapters/driving/tui/styles"
	"github.com/meridian-labs/graphseek-cli/internal/adapters/driving/tui/views/history"
	"github.com/meridian-labs/graphseek-cli/internal/adapters/driving/tui/views/hitdetails"
	"github.com/meridian-labs/graphseek-cli/internal/adapters/driving/tui/views/menu"
	"github.com/meridian-labs/graphseek-cli/internal/adapters/driving/tui/views/search"
	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
)

// App is the root tea.Model. It owns the four views (menu, search,
// history, hit details) and routes messages to whichever one is
// active; navigation happens through messages.ViewChanged rather than
// views reaching into each other.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles

	menuView       *menu.View
	searchView     *search.View
	historyView    *history.View
	hitDetailsView *hitdetails.View

	currentView messages.ViewType
	selectedHit *domain.Hit

	// Mirrors of the search view's state, exposed through accessors.
	query         string
	results       []domain.Hit
	selectedIndex int
	err           error

	width  int
	height int
	ready  bool
}

var _ tea.Model = (*App)(nil)

// NewApp creates the TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:          ports,
		ctx:            context.Background(),
		styles:         s,
		menuView:       menu.NewView(s),
		searchView:     search.NewView(s, nil, ports.Search, ports.Config),
		historyView:    history.NewView(s, ports.History),
		hitDetailsView: hitdetails.NewView(s),
		currentView:    messages.ViewMenu,
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("graphseek - Workplace Search"),
		a.loadSession(),
	)
}

// loadSession probes the auth service so the menu can show who is
// signed in. Returns nil when no auth service is wired.
func (a *App) loadSession() tea.Cmd {
	if a.ports.Auth == nil {
		return nil
	}
	return func() tea.Msg {
		creds, err := a.ports.Auth.Status(a.ctx)
		if err != nil {
			return messages.SessionLoaded{Err: err}
		}
		if creds == nil || !creds.IsAuthenticated() {
			return messages.SessionLoaded{}
		}
		return messages.SessionLoaded{Account: creds.AccountIdentifier}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.menuView.SetDimensions(msg.Width, msg.Height)
		a.searchView.SetDimensions(msg.Width, msg.Height)
		a.historyView.SetDimensions(msg.Width, msg.Height)
		a.hitDetailsView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}
		return a, a.route(msg)

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.HitSelected:
		a.selectedHit = &msg.Hit
		a.hitDetailsView.SetHit(&msg.Hit)
		a.currentView = messages.ViewHitDetails
		return a, nil

	case messages.RerunRequested:
		// Replay a past search from the history view.
		a.currentView = messages.ViewSearch
		a.searchView.Reset()
		a.searchView.SetQuery(msg.Entry.QueryText)
		return a, tea.Batch(a.searchView.Init(), a.searchView.Submit())

	case messages.SearchCompleted:
		var cmd tea.Cmd
		a.searchView, cmd = a.searchView.Update(msg)
		a.syncSearchState()
		a.selectedIndex = 0
		return a, cmd

	case messages.HistoryLoaded, messages.HistoryCleared:
		var cmd tea.Cmd
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd

	case messages.SessionLoaded:
		if msg.Err == nil {
			a.menuView.SetAccount(msg.Account)
		}
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, a.route(msg)

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.route(msg)
}

// route forwards a message to the active view and keeps the mirrored
// search state fresh. Unknown messages are each view's problem.
func (a *App) route(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
		a.syncSearchState()
	case messages.ViewHistory:
		a.historyView, cmd = a.historyView.Update(msg)
	case messages.ViewHitDetails:
		a.hitDetailsView, cmd = a.hitDetailsView.Update(msg)
	case messages.ViewHelp:
		// Help is static.
	}
	return cmd
}

// switchTo activates a view, running whatever setup it needs.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	a.currentView = view
	switch view {
	case messages.ViewSearch:
		a.searchView.Reset()
		return a.searchView.Init()
	case messages.ViewHistory:
		return a.historyView.Load()
	case messages.ViewMenu, messages.ViewHelp, messages.ViewHitDetails:
	}
	return nil
}

// syncSearchState mirrors the search view's state into the accessors.
func (a *App) syncSearchState() {
	a.query = a.searchView.Query()
	a.results = a.searchView.Results()
	a.selectedIndex = a.searchView.SelectedIndex()
	a.err = a.searchView.Err()
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewHistory:
		return a.historyView.View()
	case messages.ViewHitDetails:
		return a.hitDetailsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewMenu:
		return a.menuView.View()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back to Menu
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Search:
  (type)      Enter search query
  ↑/↓         Recall earlier queries
  tab         Cycle entity scope
  enter       Submit search
  esc         Back to Menu

Results:
  j/k, ↑/↓    Navigate results
  enter       Result details
  o           Open in browser
  n           New search
  esc         Back to Menu

History:
  j/k, ↑/↓    Navigate entries
  enter       Re-run search
  x           Clear history
  esc         Back to Menu

[esc] back to menu`
}

// Run starts the TUI program in the alternate screen.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Query returns the current search query.
func (a *App) Query() string {
	return a.query
}

// Results returns the current hits.
func (a *App) Results() []domain.Hit {
	return a.results
}

// SelectedIndex returns the currently selected result index.
func (a *App) SelectedIndex() int {
	return a.selectedIndex
}

// CurrentView returns the active view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready reports whether the first window size arrived.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.searchView.SetDimensions(width, height)
}
