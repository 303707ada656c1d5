package screens

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jobdeck/jobdeck/internal/calendar"
	"github.com/jobdeck/jobdeck/internal/feed"
	"github.com/jobdeck/jobdeck/internal/repository"
)

type calendarMode int

const (
	calendarModeBrowse calendarMode = iota
	calendarModeEvents
)

type Calendar struct {
	db     *sql.DB
	userID int64
	agg    *calendar.Aggregator
	width  int
	height int

	anchor      time.Time
	view        calendar.View
	dayCursor   int
	eventCursor int
	mode        calendarMode

	events  []calendar.Event
	loading bool
	err     error
	message string
}

func NewCalendar(db *sql.DB, userID int64, f *feed.Feed) *Calendar {
	apps := repository.NewApplicationRepo(db, f)
	acts := repository.NewActivityRepo(db, f)

	return &Calendar{
		db:     db,
		userID: userID,
		agg:    calendar.NewAggregator(apps, acts),
		anchor: time.Now(),
		view:   calendar.ViewMonth,
	}
}

func (c *Calendar) SetSize(width, height int) {
	c.width = width
	c.height = height
}

type calendarDataMsg struct {
	events []calendar.Event
	err    error
}

func (c *Calendar) Init() tea.Cmd {
	c.loading = true
	c.mode = calendarModeBrowse
	c.message = ""
	return c.loadData
}

func (c *Calendar) loadData() tea.Msg {
	events, err := c.agg.Events(c.userID)
	return calendarDataMsg{events: events, err: err}
}

func (c *Calendar) days() []time.Time {
	return calendar.Days(c.anchor, c.view)
}

func (c *Calendar) selectedDay() time.Time {
	days := c.days()
	if c.dayCursor >= len(days) {
		c.dayCursor = len(days) - 1
	}
	return days[c.dayCursor]
}

func (c *Calendar) dayEvents(day time.Time) []calendar.Event {
	buckets := calendar.Bucket(c.events, []time.Time{day})
	return buckets[calendar.StartOfDay(day)]
}

func (c *Calendar) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case calendarDataMsg:
		c.loading = false
		c.err = msg.err
		// A failed read renders an empty calendar, never stale events
		if msg.err != nil {
			c.events = nil
		} else {
			c.events = msg.events
		}
		return nil

	case RefreshMsg:
		return c.Init()

	case tea.KeyMsg:
		if c.mode == calendarModeEvents {
			return c.handleEventKey(msg)
		}
		return c.handleBrowseKey(msg)
	}

	return nil
}

func (c *Calendar) handleBrowseKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "m":
		c.setView(calendar.ViewMonth)
	case "w":
		c.setView(calendar.ViewWeek)
	case "D":
		c.setView(calendar.ViewDay)
	case "t":
		c.anchor = time.Now()
		c.snapCursorToAnchor()
	case "n":
		c.shiftAnchor(1)
	case "p":
		c.shiftAnchor(-1)
	case "left", "h":
		if c.dayCursor > 0 {
			c.dayCursor--
		} else {
			c.shiftAnchor(-1)
			c.dayCursor = len(c.days()) - 1
		}
	case "right", "l":
		if c.dayCursor < len(c.days())-1 {
			c.dayCursor++
		} else {
			c.shiftAnchor(1)
			c.dayCursor = 0
		}
	case "up", "k":
		if c.view == calendar.ViewMonth && c.dayCursor >= 7 {
			c.dayCursor -= 7
		}
	case "down", "j":
		if c.view == calendar.ViewMonth && c.dayCursor < len(c.days())-7 {
			c.dayCursor += 7
		}
	case "a":
		return Navigate("tasks")
	case "enter":
		if len(c.dayEvents(c.selectedDay())) > 0 {
			c.mode = calendarModeEvents
			c.eventCursor = 0
		}
	case "q", "esc":
		return Navigate("dashboard")
	}
	return nil
}

func (c *Calendar) handleEventKey(msg tea.KeyMsg) tea.Cmd {
	events := c.dayEvents(c.selectedDay())
	if len(events) == 0 {
		c.mode = calendarModeBrowse
		return nil
	}
	if c.eventCursor >= len(events) {
		c.eventCursor = len(events) - 1
	}

	switch msg.String() {
	case "up", "k":
		if c.eventCursor > 0 {
			c.eventCursor--
		}
	case "down", "j":
		if c.eventCursor < len(events)-1 {
			c.eventCursor++
		}
	case "left", "h":
		return c.reschedule(events[c.eventCursor], -1)
	case "right", "l":
		return c.reschedule(events[c.eventCursor], 1)
	case "q", "esc":
		c.mode = calendarModeBrowse
	}
	return nil
}

// reschedule moves the event by whole days, keeping its time-of-day, and
// reloads regardless of whether the write succeeded.
func (c *Calendar) reschedule(ev calendar.Event, deltaDays int) tea.Cmd {
	target := calendar.StartOfDay(ev.At).AddDate(0, 0, deltaDays)

	if err := c.agg.Reschedule(c.userID, ev, target); err != nil {
		c.err = err
	} else {
		c.message = fmt.Sprintf("Moved '%s' to %s", ev.Title, target.Format("Jan 02"))
	}
	return c.loadData
}

func (c *Calendar) setView(view calendar.View) {
	c.view = view
	c.snapCursorToAnchor()
}

func (c *Calendar) snapCursorToAnchor() {
	anchor := calendar.StartOfDay(c.anchor)
	for i, day := range c.days() {
		if day.Equal(anchor) {
			c.dayCursor = i
			return
		}
	}
	c.dayCursor = 0
}

func (c *Calendar) shiftAnchor(dir int) {
	switch c.view {
	case calendar.ViewMonth:
		c.anchor = c.anchor.AddDate(0, dir, 0)
	case calendar.ViewWeek:
		c.anchor = c.anchor.AddDate(0, 0, 7*dir)
	default:
		c.anchor = c.anchor.AddDate(0, 0, dir)
	}
	c.dayCursor = 0
}

func (c *Calendar) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("CALENDAR"))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render(c.headerLabel()))
	b.WriteString("\n\n")

	if c.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if c.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", c.err)))
		b.WriteString("\n\n")
	}

	if c.message != "" {
		b.WriteString(SuccessStyle.Render(c.message))
		b.WriteString("\n\n")
	}

	switch c.view {
	case calendar.ViewMonth:
		b.WriteString(c.monthView())
	case calendar.ViewWeek:
		b.WriteString(c.weekView())
	default:
		b.WriteString(c.singleDayView())
	}

	b.WriteString("\n")
	b.WriteString(c.selectedDayPanel())

	var help string
	if c.mode == calendarModeEvents {
		help = "[j/k] Select event  [h/l] Move event a day  [esc] Back"
	} else {
		help = "[m/w/D] View  [t] Today  [n/p] Next/Prev  [arrows] Move  [enter] Events  [a] Add reminder  [q] Back"
	}
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}

func (c *Calendar) headerLabel() string {
	switch c.view {
	case calendar.ViewMonth:
		return c.anchor.Format("January 2006")
	case calendar.ViewWeek:
		return fmt.Sprintf("Week %d, %s", calendar.ISOWeek(c.selectedDay()), c.anchor.Format("2006"))
	default:
		return c.selectedDay().Format("Monday, Jan 02 2006")
	}
}

func (c *Calendar) monthView() string {
	var b strings.Builder

	days := c.days()
	buckets := calendar.Bucket(c.events, days)
	today := calendar.StartOfDay(time.Now())

	b.WriteString(DimStyle.Render(" wk   Mon  Tue  Wed  Thu  Fri  Sat  Sun"))
	b.WriteString("\n")

	for row := 0; row < 6; row++ {
		monday := days[row*7]
		b.WriteString(DimStyle.Render(fmt.Sprintf(" %2d  ", calendar.ISOWeek(monday))))

		for col := 0; col < 7; col++ {
			idx := row*7 + col
			day := days[idx]

			marker := " "
			if len(buckets[calendar.StartOfDay(day)]) > 0 {
				marker = "•"
			}

			cell := fmt.Sprintf("%2d%s ", day.Day(), marker)

			style := NormalStyle
			if day.Month() != c.anchor.Month() {
				style = DimStyle
			}
			if day.Equal(today) {
				style = TodayStyle
			}
			if idx == c.dayCursor {
				style = SelectedStyle
			}

			b.WriteString(style.Render(cell))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (c *Calendar) weekView() string {
	var b strings.Builder

	days := c.days()
	buckets := calendar.Bucket(c.events, days)
	today := calendar.StartOfDay(time.Now())

	for i, day := range days {
		style := NormalStyle
		if day.Equal(today) {
			style = TodayStyle
		}
		if i == c.dayCursor {
			style = SelectedStyle
		}

		events := buckets[calendar.StartOfDay(day)]
		b.WriteString(style.Render(fmt.Sprintf("%-14s", day.Format("Mon Jan 02"))))
		if len(events) == 0 {
			b.WriteString(DimStyle.Render("—"))
		} else {
			labels := make([]string, 0, len(events))
			for _, ev := range events {
				labels = append(labels, eventStyle(ev.Kind).Render(ev.Title))
			}
			b.WriteString(strings.Join(labels, DimStyle.Render(" · ")))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (c *Calendar) singleDayView() string {
	return ""
}

func (c *Calendar) selectedDayPanel() string {
	var b strings.Builder

	day := c.selectedDay()
	events := c.dayEvents(day)

	b.WriteString(SubtitleStyle.Render(day.Format("Mon Jan 02")))
	b.WriteString("\n")

	if len(events) == 0 {
		b.WriteString(DimStyle.Render("No events."))
		b.WriteString("\n")
		return b.String()
	}

	for i, ev := range events {
		cursor := "  "
		if c.mode == calendarModeEvents && i == c.eventCursor {
			cursor = "> "
		}
		b.WriteString(fmt.Sprintf("%s%s %s %s\n",
			cursor,
			DimStyle.Render(ev.At.Format("15:04")),
			eventStyle(ev.Kind).Render(fmt.Sprintf("[%s]", ev.Kind)),
			ev.Title,
		))
	}

	return b.String()
}

func eventStyle(kind calendar.Kind) lipgloss.Style {
	switch kind {
	case calendar.KindInterview:
		return InterviewStyle
	case calendar.KindFollowup:
		return FollowupStyle
	case calendar.KindOverdue:
		return OverdueStyle
	}
	return DeadlineStyle
}
