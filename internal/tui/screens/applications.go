package screens

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jobdeck/jobdeck/internal/feed"
	"github.com/jobdeck/jobdeck/internal/models"
	"github.com/jobdeck/jobdeck/internal/repository"
	"github.com/jobdeck/jobdeck/internal/state"
)

type applicationsMode int

const (
	applicationsModeList applicationsMode = iota
	applicationsModeAddCompany
	applicationsModeAddPosition
	applicationsModeInterview
	applicationsModeDelete
)

type Applications struct {
	db     *sql.DB
	userID int64
	ui     state.Store
	feed   *feed.Feed
	width  int
	height int

	apps           []models.Application
	cursor         int
	kanbanCol      int
	kanbanRow      int
	viewMode       string // "list" or "kanban"
	mode           applicationsMode
	input          textinput.Model
	pendingCompany string
	loading        bool
	err            error
	message        string
}

func NewApplications(db *sql.DB, userID int64, ui state.Store, f *feed.Feed) *Applications {
	ti := textinput.New()
	ti.CharLimit = 120
	ti.Width = 40

	return &Applications{
		db:       db,
		userID:   userID,
		ui:       ui,
		feed:     f,
		viewMode: state.ViewMode(ui),
		input:    ti,
	}
}

func (a *Applications) SetSize(width, height int) {
	a.width = width
	a.height = height
}

type applicationsDataMsg struct {
	apps []models.Application
	err  error
}

func (a *Applications) Init() tea.Cmd {
	a.loading = true
	a.mode = applicationsModeList
	a.message = ""
	return a.loadData
}

func (a *Applications) loadData() tea.Msg {
	apps, err := a.repo().GetAll(a.userID)
	return applicationsDataMsg{apps: apps, err: err}
}

func (a *Applications) repo() *repository.ApplicationRepo {
	return repository.NewApplicationRepo(a.db, a.feed)
}

func (a *Applications) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case applicationsDataMsg:
		a.loading = false
		a.err = msg.err
		a.apps = msg.apps
		if a.cursor >= len(a.apps) {
			a.cursor = max(0, len(a.apps)-1)
		}
		return nil

	case RefreshMsg:
		return a.Init()

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	if a.mode != applicationsModeList && a.mode != applicationsModeDelete {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return cmd
	}

	return nil
}

func (a *Applications) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch a.mode {
	case applicationsModeList:
		return a.handleListKey(msg)
	case applicationsModeAddCompany, applicationsModeAddPosition, applicationsModeInterview:
		return a.handleInputKey(msg)
	case applicationsModeDelete:
		return a.handleDeleteKey(msg)
	}
	return nil
}

func (a *Applications) selected() *models.Application {
	if a.viewMode == "kanban" {
		column := a.column(models.Statuses[a.kanbanCol])
		if a.kanbanRow < len(column) {
			return &column[a.kanbanRow]
		}
		return nil
	}
	if a.cursor < len(a.apps) {
		return &a.apps[a.cursor]
	}
	return nil
}

func (a *Applications) column(status models.Status) []models.Application {
	var column []models.Application
	for _, app := range a.apps {
		if app.Status == status {
			column = append(column, app)
		}
	}
	return column
}

func (a *Applications) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if a.viewMode == "kanban" {
			if a.kanbanRow > 0 {
				a.kanbanRow--
			}
		} else if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.viewMode == "kanban" {
			if a.kanbanRow < len(a.column(models.Statuses[a.kanbanCol]))-1 {
				a.kanbanRow++
			}
		} else if a.cursor < len(a.apps)-1 {
			a.cursor++
		}
	case "left", "h":
		if a.viewMode == "kanban" && a.kanbanCol > 0 {
			a.kanbanCol--
			a.clampKanbanRow()
		}
	case "right", "l":
		if a.viewMode == "kanban" && a.kanbanCol < len(models.Statuses)-1 {
			a.kanbanCol++
			a.clampKanbanRow()
		}
	case "v":
		if a.viewMode == "list" {
			a.viewMode = "kanban"
		} else {
			a.viewMode = "list"
		}
		_ = state.SetViewMode(a.ui, a.viewMode)
	case "a":
		a.mode = applicationsModeAddCompany
		a.input.Placeholder = "Company"
		a.input.SetValue("")
		a.input.Focus()
	case "s":
		if app := a.selected(); app != nil {
			return a.advanceStatus(app)
		}
	case "i":
		if app := a.selected(); app != nil {
			a.mode = applicationsModeInterview
			a.input.Placeholder = "2006-01-02 15:04 (empty clears)"
			if app.InterviewDate != nil {
				a.input.SetValue(app.InterviewDate.Format("2006-01-02 15:04"))
			} else {
				a.input.SetValue("")
			}
			a.input.Focus()
		}
	case "d":
		if a.selected() != nil {
			a.mode = applicationsModeDelete
		}
	case "q", "esc":
		return Navigate("dashboard")
	}
	return nil
}

// advanceStatus cycles the application to the next lifecycle stage.
func (a *Applications) advanceStatus(app *models.Application) tea.Cmd {
	next := models.Statuses[0]
	for i, s := range models.Statuses {
		if s == app.Status {
			next = models.Statuses[(i+1)%len(models.Statuses)]
			break
		}
	}

	if err := a.repo().SetStatus(a.userID, app.ID, next, time.Now()); err != nil {
		a.err = err
	} else {
		a.message = fmt.Sprintf("%s at %s → %s", app.Position, app.Company, next)
	}
	return a.loadData
}

func (a *Applications) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		return a.submitInput()
	case "esc":
		a.mode = applicationsModeList
		a.input.Blur()
	default:
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return cmd
	}
	return nil
}

func (a *Applications) submitInput() tea.Cmd {
	value := strings.TrimSpace(a.input.Value())

	switch a.mode {
	case applicationsModeAddCompany:
		if value == "" {
			a.err = fmt.Errorf("company is required")
			a.mode = applicationsModeList
			a.input.Blur()
			return nil
		}
		a.pendingCompany = value
		a.mode = applicationsModeAddPosition
		a.input.Placeholder = "Position"
		a.input.SetValue("")
		return nil

	case applicationsModeAddPosition:
		if value == "" {
			a.err = fmt.Errorf("position is required")
			a.mode = applicationsModeList
			a.input.Blur()
			return nil
		}
		_, err := a.repo().Create(a.userID, a.pendingCompany, value, time.Now(), "")
		if err != nil {
			a.err = err
		} else {
			a.message = fmt.Sprintf("Added %s at %s", value, a.pendingCompany)
		}
		a.mode = applicationsModeList
		a.input.Blur()
		return a.loadData

	case applicationsModeInterview:
		app := a.selected()
		if app == nil {
			a.mode = applicationsModeList
			a.input.Blur()
			return nil
		}

		if value == "" {
			if err := a.repo().SetInterviewDate(a.userID, app.ID, nil); err != nil {
				a.err = err
			} else {
				a.message = "Interview date cleared"
			}
		} else {
			when, err := time.ParseInLocation("2006-01-02 15:04", value, time.Local)
			if err != nil {
				a.err = fmt.Errorf("expected YYYY-MM-DD HH:MM")
				return nil
			}
			if err := a.repo().SetInterviewDate(a.userID, app.ID, &when); err != nil {
				a.err = err
			} else {
				a.message = fmt.Sprintf("Interview set for %s", when.Format("Jan 02 15:04"))
			}
		}
		a.mode = applicationsModeList
		a.input.Blur()
		return a.loadData
	}

	return nil
}

func (a *Applications) handleDeleteKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		if app := a.selected(); app != nil {
			if err := a.repo().Delete(a.userID, app.ID); err != nil {
				a.err = err
			} else {
				a.message = fmt.Sprintf("Deleted %s at %s", app.Position, app.Company)
			}
		}
		a.mode = applicationsModeList
		return a.loadData

	case "n", "N", "esc":
		a.mode = applicationsModeList
	}
	return nil
}

func (a *Applications) clampKanbanRow() {
	column := a.column(models.Statuses[a.kanbanCol])
	if a.kanbanRow >= len(column) {
		a.kanbanRow = max(0, len(column)-1)
	}
}

func (a *Applications) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("APPLICATIONS"))
	b.WriteString("\n\n")

	if a.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if a.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", a.err)))
		b.WriteString("\n\n")
		a.err = nil
	}

	if a.message != "" {
		b.WriteString(SuccessStyle.Render(a.message))
		b.WriteString("\n\n")
	}

	switch a.mode {
	case applicationsModeAddCompany:
		b.WriteString("New application — company:\n")
		b.WriteString(a.input.View())
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[enter] Next  [esc] Cancel"))
		return b.String()

	case applicationsModeAddPosition:
		b.WriteString(fmt.Sprintf("New application at %s — position:\n", a.pendingCompany))
		b.WriteString(a.input.View())
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[enter] Save  [esc] Cancel"))
		return b.String()

	case applicationsModeInterview:
		b.WriteString("Interview date and time:\n")
		b.WriteString(a.input.View())
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[enter] Save  [esc] Cancel"))
		return b.String()

	case applicationsModeDelete:
		if app := a.selected(); app != nil {
			b.WriteString(WarningStyle.Render(fmt.Sprintf(
				"Delete application '%s at %s'? (y/n)", app.Position, app.Company,
			)))
			b.WriteString("\n")
		}
		return b.String()
	}

	if a.viewMode == "kanban" {
		b.WriteString(a.kanbanView())
	} else {
		b.WriteString(a.listView())
	}

	help := "[a] Add  [s] Next status  [i] Interview date  [d] Delete  [v] Toggle kanban  [q] Back"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}

func (a *Applications) listView() string {
	var b strings.Builder

	if len(a.apps) == 0 {
		b.WriteString(DimStyle.Render("No applications yet."))
		b.WriteString("\n\n")
		return b.String()
	}

	for i, app := range a.apps {
		cursor := "  "
		style := NormalStyle
		if i == a.cursor {
			cursor = "> "
			style = SelectedStyle
		}

		interview := ""
		if app.InterviewDate != nil {
			interview = " · interview " + app.InterviewDate.Format("Jan 02 15:04")
		}

		line := fmt.Sprintf("%s%s at %s [%s]%s",
			cursor, app.Position, app.Company, app.Status, interview)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	return b.String()
}

func (a *Applications) kanbanView() string {
	columns := make([]string, 0, len(models.Statuses))

	for colIdx, status := range models.Statuses {
		var col strings.Builder
		col.WriteString(statusStyle(status).Render(strings.ToUpper(string(status))))
		col.WriteString("\n\n")

		for rowIdx, app := range a.column(status) {
			style := NormalStyle
			prefix := "  "
			if colIdx == a.kanbanCol && rowIdx == a.kanbanRow {
				style = SelectedStyle
				prefix = "> "
			}
			col.WriteString(style.Render(fmt.Sprintf("%s%s\n%s  %s", prefix, app.Company, prefix, app.Position)))
			col.WriteString("\n")
		}

		columns = append(columns, ColumnStyle.Render(col.String()))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, columns...) + "\n"
}
