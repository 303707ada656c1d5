package screens

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jobdeck/jobdeck/internal/config"
	"github.com/jobdeck/jobdeck/internal/exporter"
	"github.com/jobdeck/jobdeck/internal/insights"
	"github.com/jobdeck/jobdeck/internal/models"
	"github.com/jobdeck/jobdeck/internal/repository"
)

type Insights struct {
	db     *sql.DB
	userID int64
	cfg    *config.Config
	width  int
	height int

	stats   *insights.Stats
	loading bool
	err     error
	message string
}

func NewInsights(db *sql.DB, userID int64, cfg *config.Config) *Insights {
	return &Insights{
		db:     db,
		userID: userID,
		cfg:    cfg,
	}
}

func (s *Insights) SetSize(width, height int) {
	s.width = width
	s.height = height
}

type insightsDataMsg struct {
	stats *insights.Stats
	err   error
}

type insightsExportMsg struct {
	path string
	err  error
}

func (s *Insights) Init() tea.Cmd {
	s.loading = true
	s.message = ""
	return s.loadData
}

func (s *Insights) loadData() tea.Msg {
	apps, err := repository.NewApplicationRepo(s.db, nil).GetAll(s.userID)
	if err != nil {
		return insightsDataMsg{err: err}
	}

	activities, err := repository.NewActivityRepo(s.db, nil).GetAll(s.userID)
	if err != nil {
		return insightsDataMsg{err: err}
	}

	return insightsDataMsg{stats: insights.Compute(apps, activities, time.Now())}
}

func (s *Insights) export() tea.Msg {
	apps, err := repository.NewApplicationRepo(s.db, nil).GetAll(s.userID)
	if err != nil {
		return insightsExportMsg{err: err}
	}

	if err := os.MkdirAll(s.cfg.ExportsOutput, 0755); err != nil {
		return insightsExportMsg{err: err}
	}

	path := filepath.Join(s.cfg.ExportsOutput,
		fmt.Sprintf("applications-%s.csv", time.Now().Format("2006-01-02")))

	if err := exporter.NewCSVExporter(path).ExportApplications(apps); err != nil {
		return insightsExportMsg{err: err}
	}
	return insightsExportMsg{path: path}
}

func (s *Insights) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case insightsDataMsg:
		s.loading = false
		s.err = msg.err
		s.stats = msg.stats
		return nil

	case insightsExportMsg:
		if msg.err != nil {
			s.err = msg.err
		} else {
			s.message = fmt.Sprintf("Exported to %s", msg.path)
		}
		return nil

	case RefreshMsg:
		return s.Init()

	case tea.KeyMsg:
		switch msg.String() {
		case "e":
			return s.export
		case "q", "esc":
			return Navigate("dashboard")
		}
	}

	return nil
}

func (s *Insights) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("INSIGHTS"))
	b.WriteString("\n\n")

	if s.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if s.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", s.err)))
		b.WriteString("\n\n")
		s.err = nil
	}

	if s.message != "" {
		b.WriteString(SuccessStyle.Render(s.message))
		b.WriteString("\n\n")
	}

	if s.stats == nil {
		return b.String()
	}

	summary := fmt.Sprintf(
		"Total applications: %d\nInterview rate: %.0f%%   Offer rate: %.0f%%\nOpen tasks: %d (%d overdue)",
		s.stats.Total,
		s.stats.InterviewRate*100,
		s.stats.OfferRate*100,
		s.stats.OpenTasks,
		s.stats.OverdueTasks,
	)
	b.WriteString(BoxStyle.Render(summary))
	b.WriteString("\n\n")

	b.WriteString(SubtitleStyle.Render("Pipeline"))
	b.WriteString("\n")
	for _, status := range models.Statuses {
		n := s.stats.ByStatus[status]
		b.WriteString(fmt.Sprintf("  %-10s %s %d\n",
			status, statusStyle(status).Render(strings.Repeat("█", n)), n))
	}
	b.WriteString("\n")

	b.WriteString(SubtitleStyle.Render("Applications per week"))
	b.WriteString("\n")
	for _, week := range s.stats.Weekly {
		b.WriteString(fmt.Sprintf("  wk %2d  %s %d\n",
			week.ISOWeek, SuccessStyle.Render(strings.Repeat("▇", week.Count)), week.Count))
	}
	b.WriteString("\n")

	help := "[e] Export CSV  [q] Back"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}
