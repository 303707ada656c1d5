package screens

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jobdeck/jobdeck/internal/calendar"
	"github.com/jobdeck/jobdeck/internal/models"
	"github.com/jobdeck/jobdeck/internal/repository"
)

type Dashboard struct {
	db     *sql.DB
	userID int64
	width  int
	height int

	counts        map[models.Status]int
	overdue       int
	nextInterview *models.Application
	recent        []models.Application
	loading       bool
	err           error
}

func NewDashboard(db *sql.DB, userID int64) *Dashboard {
	return &Dashboard{
		db:      db,
		userID:  userID,
		loading: true,
	}
}

func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

type dashboardDataMsg struct {
	counts        map[models.Status]int
	overdue       int
	nextInterview *models.Application
	recent        []models.Application
	err           error
}

func (d *Dashboard) Init() tea.Cmd {
	d.loading = true
	return d.loadData
}

func (d *Dashboard) loadData() tea.Msg {
	apps := repository.NewApplicationRepo(d.db, nil)
	acts := repository.NewActivityRepo(d.db, nil)

	counts, err := apps.CountByStatus(d.userID)
	if err != nil {
		return dashboardDataMsg{err: err}
	}

	now := time.Now()
	overdue, err := acts.CountOverdue(d.userID, calendar.StartOfDay(now))
	if err != nil {
		return dashboardDataMsg{err: err}
	}

	// Soonest upcoming interview. An application in Interview status
	// without a scheduled date is not shown as "today".
	upcoming, err := apps.GetWithInterviews(d.userID, now, now.AddDate(1, 0, 0))
	if err != nil {
		return dashboardDataMsg{err: err}
	}
	var next *models.Application
	if len(upcoming) > 0 {
		next = &upcoming[0]
	}

	all, err := apps.GetAll(d.userID)
	if err != nil {
		return dashboardDataMsg{err: err}
	}
	if len(all) > 5 {
		all = all[:5]
	}

	return dashboardDataMsg{
		counts:        counts,
		overdue:       overdue,
		nextInterview: next,
		recent:        all,
	}
}

func (d *Dashboard) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.loading = false
		d.err = msg.err
		d.counts = msg.counts
		d.overdue = msg.overdue
		d.nextInterview = msg.nextInterview
		d.recent = msg.recent
		return nil

	case RefreshMsg:
		return d.Init()

	case tea.KeyMsg:
		switch msg.String() {
		case "a":
			return Navigate("applications")
		case "t":
			return Navigate("tasks")
		case "c":
			return Navigate("calendar")
		case "o":
			return Navigate("documents")
		case "i":
			return Navigate("insights")
		case "p":
			return Navigate("profile")
		}
	}

	return nil
}

func (d *Dashboard) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("JOBDECK"))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("Job Application Tracker"))
	b.WriteString("\n\n")

	if d.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if d.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", d.err)))
		b.WriteString("\n")
		return b.String()
	}

	total := 0
	for _, n := range d.counts {
		total += n
	}

	statsContent := fmt.Sprintf(
		"Applications: %d   Applied: %d  Interview: %d  Offer: %d  Rejected: %d\nOverdue tasks: %s\nNext interview: %s",
		total,
		d.counts[models.StatusApplied],
		d.counts[models.StatusInterview],
		d.counts[models.StatusOffer],
		d.counts[models.StatusRejected],
		d.formatOverdue(),
		d.formatNextInterview(),
	)
	b.WriteString(BoxStyle.Render(statsContent))
	b.WriteString("\n\n")

	if len(d.recent) > 0 {
		b.WriteString(SubtitleStyle.Render("Recent applications"))
		b.WriteString("\n")
		for _, app := range d.recent {
			b.WriteString(fmt.Sprintf("  %s %s at %s (%s)\n",
				DimStyle.Render(app.AppliedAt.Format("Jan 02")),
				NormalStyle.Render(app.Position),
				NormalStyle.Render(app.Company),
				statusStyle(app.Status).Render(string(app.Status)),
			))
		}
	} else {
		b.WriteString(DimStyle.Render("No applications yet. Press 'a' to add one."))
		b.WriteString("\n")
	}

	b.WriteString("\n")

	help := "[a] Applications  [t] Tasks  [c] Calendar  [o] Documents  [i] Insights  [p] Profile  [q] Quit"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}

func (d *Dashboard) formatOverdue() string {
	if d.overdue == 0 {
		return SuccessStyle.Render("0")
	}
	return WarningStyle.Render(fmt.Sprintf("%d", d.overdue))
}

func (d *Dashboard) formatNextInterview() string {
	if d.nextInterview == nil {
		return DimStyle.Render("none scheduled")
	}
	return fmt.Sprintf("%s — %s at %s",
		d.nextInterview.InterviewDate.Format("Jan 02 15:04"),
		d.nextInterview.Position,
		d.nextInterview.Company,
	)
}

func statusStyle(s models.Status) lipgloss.Style {
	switch s {
	case models.StatusInterview:
		return FollowupStyle
	case models.StatusOffer:
		return SuccessStyle
	case models.StatusRejected:
		return ErrorStyle
	}
	return DimStyle
}
