package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobdeck/jobdeck/internal/models"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestCompute(t *testing.T) {
	now := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC) // Wednesday

	apps := []models.Application{
		{Status: models.StatusApplied, AppliedAt: now.AddDate(0, 0, -1)},
		{Status: models.StatusInterview, AppliedAt: now.AddDate(0, 0, -8)},
		{Status: models.StatusOffer, AppliedAt: now.AddDate(0, 0, -15)},
		{Status: models.StatusRejected, AppliedAt: now.AddDate(0, 0, -15)},
	}
	activities := []models.Activity{
		{DueDate: timePtr(now.AddDate(0, 0, -3))},             // overdue
		{DueDate: timePtr(now.AddDate(0, 0, 2))},              // open
		{DueDate: timePtr(now.AddDate(0, 0, -3)), Completed: true},
	}

	stats := Compute(apps, activities, now)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.ByStatus[models.StatusApplied])
	assert.Equal(t, 1, stats.ByStatus[models.StatusOffer])
	assert.InDelta(t, 0.5, stats.InterviewRate, 1e-9)
	assert.InDelta(t, 0.25, stats.OfferRate, 1e-9)
	assert.Equal(t, 2, stats.OpenTasks)
	assert.Equal(t, 1, stats.OverdueTasks)

	require.Len(t, stats.Weekly, 8)
	last := stats.Weekly[len(stats.Weekly)-1]
	assert.Equal(t, 1, last.Count)
	assert.Equal(t, time.Monday, last.WeekStart.Weekday())

	prev := stats.Weekly[len(stats.Weekly)-2]
	assert.Equal(t, 1, prev.Count)
}

// Applied dates come back from the database in UTC; the weekly chart must
// still count them against week starts derived from local now.
func TestComputeCountsWeeksAcrossLocations(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*3600)
	now := time.Date(2024, 6, 12, 10, 0, 0, 0, zone) // Wednesday

	apps := []models.Application{
		{Status: models.StatusApplied, AppliedAt: now.Add(-24 * time.Hour).UTC()},
	}

	stats := Compute(apps, nil, now)

	require.Len(t, stats.Weekly, 8)
	last := stats.Weekly[len(stats.Weekly)-1]
	assert.Equal(t, 1, last.Count)
}

func TestComputeEmpty(t *testing.T) {
	stats := Compute(nil, nil, time.Now())
	assert.Equal(t, 0, stats.Total)
	assert.Zero(t, stats.InterviewRate)
	assert.Zero(t, stats.OfferRate)
	assert.Len(t, stats.Weekly, 8)
}
