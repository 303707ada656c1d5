// Package calendar derives a unified event timeline from applications and
// activities. Events are a read-only projection; every event traces back to
// exactly one source record, and mutations are dispatched to that record.
package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/jobdeck/jobdeck/internal/models"
	"github.com/jobdeck/jobdeck/internal/repository"
)

type Kind string

const (
	KindInterview Kind = "interview"
	KindDeadline  Kind = "deadline"
	KindFollowup  Kind = "followup"
	KindOverdue   Kind = "overdue"
)

type Source string

const (
	SourceApplication Source = "application"
	SourceActivity    Source = "activity"
)

type Event struct {
	Kind   Kind
	Title  string
	At     time.Time
	Source Source
	RawID  int64
}

// followupTypes are the activity type tags rendered as follow-ups rather
// than plain deadlines.
var followupTypes = map[string]bool{
	"call":    true,
	"email":   true,
	"meeting": true,
}

// FromApplications maps each application with an interview date to one
// interview event. Applications without one yield nothing.
func FromApplications(apps []models.Application) []Event {
	var events []Event
	for _, app := range apps {
		if app.InterviewDate == nil {
			continue
		}
		events = append(events, Event{
			Kind:   KindInterview,
			Title:  fmt.Sprintf("Interview — %s", app.Position),
			At:     *app.InterviewDate,
			Source: SourceApplication,
			RawID:  app.ID,
		})
	}
	return events
}

// FromActivities maps each due-dated activity to one event. An incomplete
// activity due before startOfToday is overdue; otherwise the type tag
// decides between followup and deadline.
func FromActivities(activities []models.Activity, startOfToday time.Time) []Event {
	var events []Event
	for _, act := range activities {
		if act.DueDate == nil {
			continue
		}

		kind := KindDeadline
		switch {
		case !act.Completed && act.DueDate.Before(startOfToday):
			kind = KindOverdue
		case followupTypes[act.Type]:
			kind = KindFollowup
		}

		events = append(events, Event{
			Kind:   kind,
			Title:  act.Title,
			At:     *act.DueDate,
			Source: SourceActivity,
			RawID:  act.ID,
		})
	}
	return events
}

// Merge concatenates event sets and sorts by timestamp. Ties order
// applications before activities, then by record id, so output is stable
// across recomputes.
func Merge(sets ...[]Event) []Event {
	var merged []Event
	for _, set := range sets {
		merged = append(merged, set...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if !merged[i].At.Equal(merged[j].At) {
			return merged[i].At.Before(merged[j].At)
		}
		if merged[i].Source != merged[j].Source {
			return merged[i].Source == SourceApplication
		}
		return merged[i].RawID < merged[j].RawID
	})

	return merged
}

// Aggregator reads both source tables and produces the merged timeline.
type Aggregator struct {
	apps *repository.ApplicationRepo
	acts *repository.ActivityRepo
	now  func() time.Time
}

func NewAggregator(apps *repository.ApplicationRepo, acts *repository.ActivityRepo) *Aggregator {
	return &Aggregator{apps: apps, acts: acts, now: time.Now}
}

// Events fetches both sources and merges them. On any read failure the
// caller gets an empty list plus the error, never a partial merge.
func (g *Aggregator) Events(userID int64) ([]Event, error) {
	applications, err := g.apps.GetAll(userID)
	if err != nil {
		return nil, err
	}

	activities, err := g.acts.GetAll(userID)
	if err != nil {
		return nil, err
	}

	today := StartOfDay(g.now())
	return Merge(FromApplications(applications), FromActivities(activities, today)), nil
}

// Reschedule moves an event to a new day, preserving its original
// time-of-day, and writes through to the owning record. The caller must
// re-fetch after the write attempt regardless of the outcome.
func (g *Aggregator) Reschedule(userID int64, ev Event, newDay time.Time) error {
	moved := MoveToDay(ev.At, newDay)

	switch ev.Source {
	case SourceApplication:
		return g.apps.SetInterviewDate(userID, ev.RawID, &moved)
	case SourceActivity:
		return g.acts.SetDueDate(userID, ev.RawID, &moved)
	}
	return fmt.Errorf("unknown event source %q", ev.Source)
}

// MoveToDay replaces the date component of at with day's date, keeping the
// clock time and location.
func MoveToDay(at, day time.Time) time.Time {
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		at.Hour(), at.Minute(), at.Second(), at.Nanosecond(),
		at.Location(),
	)
}
