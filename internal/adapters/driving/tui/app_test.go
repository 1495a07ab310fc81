package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-labs/graphseek-cli/internal/adapters/driving/tui/messages"
	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
)

// The shared port mocks live in ports_test.go.

func testPorts() *Ports {
	return NewPorts(&MockSearchService{}, &MockHistoryService{}, nil, nil)
}

func testApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(testPorts())
	require.NoError(t, err)
	return app
}

func appResponse() *domain.SearchResponse {
	return &domain.SearchResponse{
		Hits: []domain.Hit{
			{
				EntityType: domain.EntityDriveItem,
				Rank:       1,
				Resource:   map[string]any{"name": "Budget.xlsx"},
			},
		},
		Total: 1,
		Tier:  domain.TierText,
	}
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(testPorts())

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.False(t, app.Ready())
}

func TestNewApp_MissingSearchService(t *testing.T) {
	_, err := NewApp(&Ports{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingSearchService)
}

func TestPorts_Validate(t *testing.T) {
	assert.NoError(t, testPorts().Validate())
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingSearchService)
}

func TestApp_Init(t *testing.T) {
	app := testApp(t)

	assert.NotNil(t, app.Init())
}

func TestApp_WithContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")

	app := testApp(t).WithContext(ctx)

	assert.Equal(t, ctx, app.ctx)
}

func TestApp_WindowSize(t *testing.T) {
	app := testApp(t)

	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.True(t, app.Ready())
	assert.Equal(t, 120, app.width)
	assert.Equal(t, 40, app.height)
}

func TestApp_CtrlC_Quits(t *testing.T) {
	app := testApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_QuitMessage(t *testing.T) {
	app := testApp(t)

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_ViewChanged_Search(t *testing.T) {
	app := testApp(t)

	app.Update(messages.ViewChanged{View: messages.ViewSearch})

	assert.Equal(t, messages.ViewSearch, app.CurrentView())
}

func TestApp_ViewChanged_History(t *testing.T) {
	loaded := false
	ports := NewPorts(&MockSearchService{}, &MockHistoryService{
		RecentFunc: func(context.Context, int) ([]domain.HistoryEntry, error) {
			loaded = true
			return nil, nil
		},
	}, nil, nil)
	app, err := NewApp(ports)
	require.NoError(t, err)

	_, cmd := app.Update(messages.ViewChanged{View: messages.ViewHistory})

	assert.Equal(t, messages.ViewHistory, app.CurrentView())
	require.NotNil(t, cmd)
	cmd()
	assert.True(t, loaded)
}

func TestApp_MenuNavigation_EnterOpensSearch(t *testing.T) {
	app := testApp(t)
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	app.Update(cmd())

	assert.Equal(t, messages.ViewSearch, app.CurrentView())
}

func TestApp_SearchCompleted_SyncsResults(t *testing.T) {
	app := testApp(t)
	app.Update(messages.ViewChanged{View: messages.ViewSearch})

	app.Update(messages.SearchCompleted{Response: appResponse()})

	assert.Len(t, app.Results(), 1)
	assert.Equal(t, 0, app.SelectedIndex())
	assert.NoError(t, app.Err())
}

func TestApp_SearchCompleted_Error(t *testing.T) {
	app := testApp(t)
	app.Update(messages.ViewChanged{View: messages.ViewSearch})
	searchErr := errors.New("backend unavailable")

	app.Update(messages.SearchCompleted{Err: searchErr})

	assert.Equal(t, searchErr, app.Err())
	assert.Empty(t, app.Results())
}

func TestApp_HitSelected_OpensDetails(t *testing.T) {
	app := testApp(t)
	hit := appResponse().Hits[0]

	app.Update(messages.HitSelected{Hit: hit})

	assert.Equal(t, messages.ViewHitDetails, app.CurrentView())
	require.NotNil(t, app.selectedHit)
	assert.Equal(t, "Budget.xlsx", app.selectedHit.Title())
}

func TestApp_RerunRequested(t *testing.T) {
	app := testApp(t)
	app.Update(messages.ViewChanged{View: messages.ViewHistory})

	_, cmd := app.Update(messages.RerunRequested{Entry: domain.HistoryEntry{
		QueryText: "budget report",
	}})

	assert.Equal(t, messages.ViewSearch, app.CurrentView())
	assert.Equal(t, "budget report", app.searchView.Query())
	assert.NotNil(t, cmd)
}

func TestApp_SessionLoaded_SetsAccount(t *testing.T) {
	app := testApp(t)

	app.Update(messages.SessionLoaded{Account: "casey@contoso.example"})

	assert.Equal(t, "casey@contoso.example", app.menuView.Account())
}

func TestApp_SessionLoaded_ErrorIgnored(t *testing.T) {
	app := testApp(t)

	app.Update(messages.SessionLoaded{Err: errors.New("no session")})

	assert.Empty(t, app.menuView.Account())
}

func TestApp_LoadSession(t *testing.T) {
	ports := NewPorts(&MockSearchService{}, nil, nil, &MockAuthService{
		StatusFunc: func(context.Context) (*domain.Credentials, error) {
			return &domain.Credentials{
				AccountIdentifier: "casey@contoso.example",
				OAuth:             &domain.OAuthCredentials{AccessToken: "tok"},
			}, nil
		},
	})
	app, err := NewApp(ports)
	require.NoError(t, err)

	cmd := app.loadSession()
	require.NotNil(t, cmd)

	msg := cmd()
	loaded, ok := msg.(messages.SessionLoaded)
	require.True(t, ok)
	assert.Equal(t, "casey@contoso.example", loaded.Account)
}

func TestApp_LoadSession_NoAuthService(t *testing.T) {
	app := testApp(t)

	assert.Nil(t, app.loadSession())
}

func TestApp_LoadSession_SignedOut(t *testing.T) {
	ports := NewPorts(&MockSearchService{}, nil, nil, &MockAuthService{})
	app, err := NewApp(ports)
	require.NoError(t, err)

	cmd := app.loadSession()
	require.NotNil(t, cmd)

	loaded, ok := cmd().(messages.SessionLoaded)
	require.True(t, ok)
	assert.Empty(t, loaded.Account)
}

func TestApp_View_NotReady(t *testing.T) {
	app := testApp(t)

	assert.Contains(t, app.View(), "Initialising")
}

func TestApp_View_Menu(t *testing.T) {
	app := testApp(t)
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	view := app.View()

	assert.Contains(t, view, "GraphSeek")
	assert.Contains(t, view, "Search")
}

func TestApp_View_Help(t *testing.T) {
	app := testApp(t)
	app.SetDimensions(80, 24)
	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	view := app.View()

	assert.Contains(t, view, "Help")
	assert.Contains(t, view, "ctrl+c")
}

func TestApp_Help_EscReturnsToMenu(t *testing.T) {
	app := testApp(t)
	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_SetDimensions(t *testing.T) {
	app := testApp(t)

	app.SetDimensions(100, 30)

	assert.True(t, app.Ready())
	assert.Equal(t, 100, app.width)
}

func TestApp_ErrorOccurred(t *testing.T) {
	app := testApp(t)
	app.Update(messages.ViewChanged{View: messages.ViewSearch})
	occurred := errors.New("boom")

	app.Update(messages.ErrorOccurred{Err: occurred})

	assert.Equal(t, occurred, app.Err())
}
