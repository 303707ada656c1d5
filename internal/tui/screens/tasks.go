package screens

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jobdeck/jobdeck/internal/calendar"
	"github.com/jobdeck/jobdeck/internal/feed"
	"github.com/jobdeck/jobdeck/internal/models"
	"github.com/jobdeck/jobdeck/internal/repository"
)

type tasksMode int

const (
	tasksModeList tasksMode = iota
	tasksModeAddTitle
	tasksModeAddDue
	tasksModeAddType
	tasksModeReschedule
	tasksModeDelete
)

type Tasks struct {
	db     *sql.DB
	userID int64
	feed   *feed.Feed
	width  int
	height int

	activities   []models.Activity
	cursor       int
	showDone     bool
	mode         tasksMode
	input        textinput.Model
	pendingTitle string
	pendingDue   *time.Time
	loading      bool
	err          error
	message      string
}

func NewTasks(db *sql.DB, userID int64, f *feed.Feed) *Tasks {
	ti := textinput.New()
	ti.CharLimit = 120
	ti.Width = 40

	return &Tasks{
		db:     db,
		userID: userID,
		feed:   f,
		input:  ti,
	}
}

func (t *Tasks) SetSize(width, height int) {
	t.width = width
	t.height = height
}

type tasksDataMsg struct {
	activities []models.Activity
	err        error
}

func (t *Tasks) Init() tea.Cmd {
	t.loading = true
	t.mode = tasksModeList
	t.message = ""
	return t.loadData
}

func (t *Tasks) repo() *repository.ActivityRepo {
	return repository.NewActivityRepo(t.db, t.feed)
}

func (t *Tasks) loadData() tea.Msg {
	var activities []models.Activity
	var err error

	if t.showDone {
		activities, err = t.repo().GetAll(t.userID)
	} else {
		activities, err = t.repo().GetOpen(t.userID)
	}
	return tasksDataMsg{activities: activities, err: err}
}

func (t *Tasks) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tasksDataMsg:
		t.loading = false
		t.err = msg.err
		t.activities = msg.activities
		if t.cursor >= len(t.activities) {
			t.cursor = max(0, len(t.activities)-1)
		}
		return nil

	case RefreshMsg:
		return t.Init()

	case tea.KeyMsg:
		return t.handleKey(msg)
	}

	if t.mode != tasksModeList && t.mode != tasksModeDelete {
		var cmd tea.Cmd
		t.input, cmd = t.input.Update(msg)
		return cmd
	}

	return nil
}

func (t *Tasks) selected() *models.Activity {
	if t.cursor < len(t.activities) {
		return &t.activities[t.cursor]
	}
	return nil
}

func (t *Tasks) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch t.mode {
	case tasksModeList:
		return t.handleListKey(msg)
	case tasksModeDelete:
		return t.handleDeleteKey(msg)
	default:
		return t.handleInputKey(msg)
	}
}

func (t *Tasks) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if t.cursor > 0 {
			t.cursor--
		}
	case "down", "j":
		if t.cursor < len(t.activities)-1 {
			t.cursor++
		}
	case "a":
		t.mode = tasksModeAddTitle
		t.input.Placeholder = "Task title"
		t.input.SetValue("")
		t.input.Focus()
	case "x", " ":
		if act := t.selected(); act != nil {
			if err := t.repo().SetCompleted(t.userID, act.ID, !act.Completed); err != nil {
				t.err = err
			}
			return t.loadData
		}
	case "r":
		if act := t.selected(); act != nil {
			t.mode = tasksModeReschedule
			t.input.Placeholder = "2006-01-02 15:04 (empty clears)"
			if act.DueDate != nil {
				t.input.SetValue(act.DueDate.Format("2006-01-02 15:04"))
			} else {
				t.input.SetValue("")
			}
			t.input.Focus()
		}
	case "z":
		t.showDone = !t.showDone
		return t.loadData
	case "d":
		if t.selected() != nil {
			t.mode = tasksModeDelete
		}
	case "q", "esc":
		return Navigate("dashboard")
	}
	return nil
}

func (t *Tasks) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		return t.submitInput()
	case "esc":
		t.mode = tasksModeList
		t.input.Blur()
	default:
		var cmd tea.Cmd
		t.input, cmd = t.input.Update(msg)
		return cmd
	}
	return nil
}

func (t *Tasks) submitInput() tea.Cmd {
	value := strings.TrimSpace(t.input.Value())

	switch t.mode {
	case tasksModeAddTitle:
		if value == "" {
			t.err = fmt.Errorf("title is required")
			t.mode = tasksModeList
			t.input.Blur()
			return nil
		}
		t.pendingTitle = value
		t.pendingDue = nil
		t.mode = tasksModeAddDue
		t.input.Placeholder = "Due 2006-01-02 15:04 (optional)"
		t.input.SetValue("")
		return nil

	case tasksModeAddDue:
		if value != "" {
			due, err := parseWhen(value)
			if err != nil {
				t.err = err
				return nil
			}
			t.pendingDue = &due
		}
		t.mode = tasksModeAddType
		t.input.Placeholder = "Type: call, email, meeting (optional)"
		t.input.SetValue("")
		return nil

	case tasksModeAddType:
		_, err := t.repo().Create(t.userID, t.pendingTitle, "", strings.ToLower(value), nil, t.pendingDue)
		if err != nil {
			t.err = err
		} else {
			t.message = fmt.Sprintf("Added task: %s", t.pendingTitle)
		}
		t.mode = tasksModeList
		t.input.Blur()
		return t.loadData

	case tasksModeReschedule:
		act := t.selected()
		if act == nil {
			t.mode = tasksModeList
			t.input.Blur()
			return nil
		}

		if value == "" {
			if err := t.repo().SetDueDate(t.userID, act.ID, nil); err != nil {
				t.err = err
			} else {
				t.message = "Due date cleared"
			}
		} else {
			due, err := parseWhen(value)
			if err != nil {
				t.err = err
				return nil
			}
			if err := t.repo().SetDueDate(t.userID, act.ID, &due); err != nil {
				t.err = err
			} else {
				t.message = fmt.Sprintf("Rescheduled to %s", due.Format("Jan 02 15:04"))
			}
		}
		t.mode = tasksModeList
		t.input.Blur()
		return t.loadData
	}

	return nil
}

func parseWhen(value string) (time.Time, error) {
	when, err := time.ParseInLocation("2006-01-02 15:04", value, time.Local)
	if err == nil {
		return when, nil
	}
	when, err = time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD or YYYY-MM-DD HH:MM")
	}
	return when, nil
}

func (t *Tasks) handleDeleteKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		if act := t.selected(); act != nil {
			if err := t.repo().Delete(t.userID, act.ID); err != nil {
				t.err = err
			} else {
				t.message = fmt.Sprintf("Deleted task: %s", act.Title)
			}
		}
		t.mode = tasksModeList
		return t.loadData

	case "n", "N", "esc":
		t.mode = tasksModeList
	}
	return nil
}

func (t *Tasks) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("TASKS"))
	b.WriteString("\n\n")

	if t.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if t.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", t.err)))
		b.WriteString("\n\n")
		t.err = nil
	}

	if t.message != "" {
		b.WriteString(SuccessStyle.Render(t.message))
		b.WriteString("\n\n")
	}

	switch t.mode {
	case tasksModeAddTitle, tasksModeAddDue, tasksModeAddType, tasksModeReschedule:
		b.WriteString(t.input.Placeholder)
		b.WriteString("\n")
		b.WriteString(t.input.View())
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[enter] Next/Save  [esc] Cancel"))
		return b.String()

	case tasksModeDelete:
		if act := t.selected(); act != nil {
			b.WriteString(WarningStyle.Render(fmt.Sprintf("Delete task '%s'? (y/n)", act.Title)))
			b.WriteString("\n")
		}
		return b.String()
	}

	if len(t.activities) == 0 {
		b.WriteString(DimStyle.Render("No tasks. Press 'a' to add a reminder."))
		b.WriteString("\n\n")
	} else {
		today := calendar.StartOfDay(time.Now())
		for i, act := range t.activities {
			cursor := "  "
			style := NormalStyle
			if i == t.cursor {
				cursor = "> "
				style = SelectedStyle
			}

			check := "[ ]"
			if act.Completed {
				check = "[x]"
				style = DimStyle
			}

			due := ""
			if act.DueDate != nil {
				label := act.DueDate.Format("Jan 02 15:04")
				if !act.Completed && act.DueDate.Before(today) {
					due = " · " + OverdueStyle.Render("overdue "+label)
				} else {
					due = " · due " + label
				}
			}

			linked := ""
			if act.Company != "" {
				linked = fmt.Sprintf(" (%s)", act.Company)
			}

			b.WriteString(style.Render(fmt.Sprintf("%s%s %s", cursor, check, act.Title)))
			b.WriteString(due + linked)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	help := "[a] Add  [space] Toggle done  [r] Reschedule  [z] Show done  [d] Delete  [q] Back"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}
