package insights

import (
	"time"

	"github.com/jobdeck/jobdeck/internal/calendar"
	"github.com/jobdeck/jobdeck/internal/models"
)

type WeekCount struct {
	WeekStart time.Time
	ISOWeek   int
	Count     int
}

type Stats struct {
	Total         int
	ByStatus      map[models.Status]int
	InterviewRate float64 // share of applications that reached an interview
	OfferRate     float64
	Weekly        []WeekCount // applications per week, oldest first
	OpenTasks     int
	OverdueTasks  int
}

const weeklyWindow = 8

// Compute derives analytics from the user's records. Pure over its inputs
// so the insights screen and the CSV export agree.
func Compute(apps []models.Application, activities []models.Activity, now time.Time) *Stats {
	stats := &Stats{
		Total:    len(apps),
		ByStatus: make(map[models.Status]int),
	}

	interviewed := 0
	offers := 0
	for _, app := range apps {
		stats.ByStatus[app.Status]++
		if app.Status == models.StatusInterview || app.Status == models.StatusOffer || app.InterviewDate != nil {
			interviewed++
		}
		if app.Status == models.StatusOffer {
			offers++
		}
	}

	if stats.Total > 0 {
		stats.InterviewRate = float64(interviewed) / float64(stats.Total)
		stats.OfferRate = float64(offers) / float64(stats.Total)
	}

	stats.Weekly = weeklyApplied(apps, now)

	today := calendar.StartOfDay(now)
	for _, act := range activities {
		if act.Completed {
			continue
		}
		stats.OpenTasks++
		if act.DueDate != nil && act.DueDate.Before(today) {
			stats.OverdueTasks++
		}
	}

	return stats
}

func weeklyApplied(apps []models.Application, now time.Time) []WeekCount {
	currentWeek := calendar.StartOfWeek(now)

	// Applied dates come back from the database in UTC; key the weeks in
	// now's location so the map lookup below matches.
	counts := make(map[time.Time]int)
	for _, app := range apps {
		counts[calendar.StartOfWeek(app.AppliedAt.In(now.Location()))]++
	}

	weeks := make([]WeekCount, 0, weeklyWindow)
	for i := weeklyWindow - 1; i >= 0; i-- {
		start := currentWeek.AddDate(0, 0, -7*i)
		weeks = append(weeks, WeekCount{
			WeekStart: start,
			ISOWeek:   calendar.ISOWeek(start),
			Count:     counts[start],
		})
	}
	return weeks
}
