package tui

import (
	"database/sql"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jobdeck/jobdeck/internal/auth"
	"github.com/jobdeck/jobdeck/internal/config"
	"github.com/jobdeck/jobdeck/internal/feed"
	"github.com/jobdeck/jobdeck/internal/state"
	"github.com/jobdeck/jobdeck/internal/storage"
	"github.com/jobdeck/jobdeck/internal/tui/screens"
)

type screen interface {
	Init() tea.Cmd
	Update(tea.Msg) tea.Cmd
	View() string
	SetSize(width, height int)
}

type App struct {
	db     *sql.DB
	cfg    *config.Config
	ui     state.Store
	auth   *auth.Manager
	feed   *feed.Feed
	bucket *storage.Bucket

	session *auth.Session
	route   string
	width   int
	height  int

	login   *screens.Login
	screens map[string]screen

	feedCh <-chan feed.Event
}

func NewApp(db *sql.DB, cfg *config.Config, ui state.Store, manager *auth.Manager, f *feed.Feed, bucket *storage.Bucket, session *auth.Session) *App {
	return &App{
		db:      db,
		cfg:     cfg,
		ui:      ui,
		auth:    manager,
		feed:    f,
		bucket:  bucket,
		session: session,
	}
}

type feedMsg feed.Event

func (a *App) waitForFeed() tea.Cmd {
	return func() tea.Msg {
		return feedMsg(<-a.feedCh)
	}
}

func (a *App) Init() tea.Cmd {
	a.login = screens.NewLogin(a.auth)
	a.feedCh = a.feed.Subscribe()

	if a.session == nil {
		// Access guard: everything except login needs a session
		a.route = "login"
		return tea.Batch(a.login.Init(), a.waitForFeed())
	}

	a.buildScreens()
	a.route = state.LastRoute(a.ui)
	return tea.Batch(a.current().Init(), a.waitForFeed())
}

func (a *App) buildScreens() {
	userID := a.session.UserID
	a.screens = map[string]screen{
		"dashboard":    screens.NewDashboard(a.db, userID),
		"applications": screens.NewApplications(a.db, userID, a.ui, a.feed),
		"tasks":        screens.NewTasks(a.db, userID, a.feed),
		"calendar":     screens.NewCalendar(a.db, userID, a.feed),
		"documents":    screens.NewDocuments(a.db, userID, a.bucket, a.feed),
		"insights":     screens.NewInsights(a.db, userID, a.cfg),
		"profile":      screens.NewProfile(a.auth, a.session),
	}

	for _, s := range a.screens {
		s.SetSize(a.width, a.height)
	}
}

func (a *App) current() screen {
	if a.route == "login" || a.session == nil {
		return a.login
	}
	s, ok := a.screens[a.route]
	if !ok {
		return a.screens["dashboard"]
	}
	return s
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.route == "dashboard" {
				return a, tea.Quit
			}
			// Let individual screens handle 'q' for going back
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.login.SetSize(msg.Width, msg.Height)
		for _, s := range a.screens {
			s.SetSize(msg.Width, msg.Height)
		}
		return a, nil

	case screens.SignedInMsg:
		a.session = msg.Session
		a.buildScreens()
		// Restore where the user left off before signing out
		a.route = state.LastRoute(a.ui)
		return a, a.current().Init()

	case screens.SignOutMsg:
		_ = a.auth.SignOut()
		a.session = nil
		a.screens = nil
		a.route = "login"
		return a, a.login.Init()

	case screens.NavigateMsg:
		return a.handleNavigation(msg)

	case feedMsg:
		// Any change on a source table invalidates the current view
		cmd := a.current().Update(screens.RefreshMsg{})
		return a, tea.Batch(cmd, a.waitForFeed())
	}

	return a, a.current().Update(msg)
}

func (a *App) handleNavigation(msg screens.NavigateMsg) (tea.Model, tea.Cmd) {
	if a.session == nil {
		a.route = "login"
		return a, a.login.Init()
	}

	if _, ok := a.screens[msg.Route]; !ok {
		return a, nil
	}

	a.route = msg.Route
	_ = state.SetLastRoute(a.ui, a.route)
	return a, a.current().Init()
}

func (a *App) View() string {
	return lipgloss.NewStyle().
		Width(a.width).
		Height(a.height).
		Render(a.current().View())
}

func Run(db *sql.DB, cfg *config.Config, ui state.Store, manager *auth.Manager, f *feed.Feed, bucket *storage.Bucket, session *auth.Session) error {
	app := NewApp(db, cfg, ui, manager, f, bucket, session)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
