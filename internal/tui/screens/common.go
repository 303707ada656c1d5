package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jobdeck/jobdeck/internal/auth"
)

// NavigateMsg is sent when navigation to another route is requested
type NavigateMsg struct {
	Route string
}

func Navigate(route string) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Route: route}
	}
}

// RefreshMsg is sent when data should be refreshed
type RefreshMsg struct{}

func Refresh() tea.Cmd {
	return func() tea.Msg {
		return RefreshMsg{}
	}
}

// SignedInMsg is sent by the login screen after a successful sign-in or
// sign-up.
type SignedInMsg struct {
	Session *auth.Session
}

// SignOutMsg asks the app to drop the session and return to login.
type SignOutMsg struct{}

func SignOut() tea.Cmd {
	return func() tea.Msg {
		return SignOutMsg{}
	}
}

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginBottom(1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	NormalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)

	ColumnStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1).
			Width(24)

	TodayStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))
)

// Kind colors for calendar events
var (
	InterviewStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	DeadlineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	FollowupStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	OverdueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)
