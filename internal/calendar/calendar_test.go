package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobdeck/jobdeck/internal/db"
	"github.com/jobdeck/jobdeck/internal/models"
	"github.com/jobdeck/jobdeck/internal/repository"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestFromApplications(t *testing.T) {
	interview := time.Date(2024, 3, 4, 14, 30, 0, 0, time.UTC)

	apps := []models.Application{
		{ID: 1, Position: "Backend Engineer", InterviewDate: timePtr(interview)},
		{ID: 2, Position: "SRE"}, // no interview date, no event
	}

	events := FromApplications(apps)

	require.Len(t, events, 1)
	assert.Equal(t, KindInterview, events[0].Kind)
	assert.Equal(t, "Interview — Backend Engineer", events[0].Title)
	assert.True(t, events[0].At.Equal(interview))
	assert.Equal(t, SourceApplication, events[0].Source)
	assert.Equal(t, int64(1), events[0].RawID)
}

func TestFromActivitiesKinds(t *testing.T) {
	today := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1).Add(9 * time.Hour)
	tomorrow := today.AddDate(0, 0, 1).Add(9 * time.Hour)

	tests := []struct {
		name     string
		activity models.Activity
		want     Kind
	}{
		{
			name:     "incomplete past due is overdue",
			activity: models.Activity{DueDate: timePtr(yesterday)},
			want:     KindOverdue,
		},
		{
			name:     "completed past due is not overdue",
			activity: models.Activity{DueDate: timePtr(yesterday), Completed: true},
			want:     KindDeadline,
		},
		{
			name:     "call type is followup",
			activity: models.Activity{DueDate: timePtr(tomorrow), Type: "call"},
			want:     KindFollowup,
		},
		{
			name:     "meeting type is followup",
			activity: models.Activity{DueDate: timePtr(tomorrow), Type: "meeting"},
			want:     KindFollowup,
		},
		{
			name:     "untyped future due is deadline",
			activity: models.Activity{DueDate: timePtr(tomorrow)},
			want:     KindDeadline,
		},
		{
			name:     "overdue wins over followup type",
			activity: models.Activity{DueDate: timePtr(yesterday), Type: "email"},
			want:     KindOverdue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := FromActivities([]models.Activity{tt.activity}, today)
			require.Len(t, events, 1)
			assert.Equal(t, tt.want, events[0].Kind)
		})
	}
}

func TestFromActivitiesSkipsUndated(t *testing.T) {
	today := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	events := FromActivities([]models.Activity{{Title: "someday"}}, today)
	assert.Empty(t, events)
}

func TestCompletionClearsOverdueWithoutMovingDueDate(t *testing.T) {
	today := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	due := today.AddDate(0, 0, -2).Add(17 * time.Hour)

	act := models.Activity{ID: 7, Title: "Send portfolio", DueDate: timePtr(due)}

	before := FromActivities([]models.Activity{act}, today)
	require.Len(t, before, 1)
	require.Equal(t, KindOverdue, before[0].Kind)

	act.Completed = true
	after := FromActivities([]models.Activity{act}, today)
	require.Len(t, after, 1)
	assert.NotEqual(t, KindOverdue, after[0].Kind)
	assert.True(t, after[0].At.Equal(due))
}

func TestMergeSortsByTimestamp(t *testing.T) {
	t1 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	t3 := time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC)

	merged := Merge(
		[]Event{{Kind: KindInterview, At: t3, Source: SourceApplication, RawID: 1}},
		[]Event{
			{Kind: KindDeadline, At: t1, Source: SourceActivity, RawID: 2},
			{Kind: KindFollowup, At: t2, Source: SourceActivity, RawID: 3},
		},
	)

	require.Len(t, merged, 3)
	assert.True(t, merged[0].At.Equal(t1))
	assert.True(t, merged[1].At.Equal(t2))
	assert.True(t, merged[2].At.Equal(t3))
}

func TestMergeTiesAreStable(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	merged := Merge(
		[]Event{{At: at, Source: SourceActivity, RawID: 9}},
		[]Event{{At: at, Source: SourceApplication, RawID: 4}},
		[]Event{{At: at, Source: SourceActivity, RawID: 2}},
	)

	require.Len(t, merged, 3)
	assert.Equal(t, SourceApplication, merged[0].Source)
	assert.Equal(t, int64(2), merged[1].RawID)
	assert.Equal(t, int64(9), merged[2].RawID)
}

func TestMoveToDayPreservesTimeOfDay(t *testing.T) {
	at := time.Date(2024, 3, 4, 14, 30, 0, 0, time.UTC)
	target := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)

	moved := MoveToDay(at, target)

	assert.True(t, moved.Equal(time.Date(2024, 3, 6, 14, 30, 0, 0, time.UTC)))
}

// End-to-end: an overdue reminder shows up once, disappears on completion.
func TestAggregatorOverdueLifecycle(t *testing.T) {
	conn, err := db.OpenPath(":memory:")
	require.NoError(t, err)
	defer conn.Close()

	users := repository.NewUserRepo(conn)
	user, err := users.Create("sam@example.com", "Sam", "x")
	require.NoError(t, err)

	apps := repository.NewApplicationRepo(conn, nil)
	acts := repository.NewActivityRepo(conn, nil)

	yesterday := time.Now().AddDate(0, 0, -1)
	activity, err := acts.Create(user.ID, "Follow up", "", "", nil, &yesterday)
	require.NoError(t, err)

	agg := NewAggregator(apps, acts)

	events, err := agg.Events(user.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, KindOverdue, events[0].Kind)
	assert.Equal(t, "Follow up", events[0].Title)
	assert.Equal(t, SourceActivity, events[0].Source)
	assert.Equal(t, activity.ID, events[0].RawID)

	require.NoError(t, acts.SetCompleted(user.ID, activity.ID, true))

	events, err = agg.Events(user.ID)
	require.NoError(t, err)
	for _, ev := range events {
		assert.NotEqual(t, KindOverdue, ev.Kind)
	}
}

// Timestamps read back from the database carry UTC while screens build
// their window days from local time; a stored event must still land in
// today's bucket.
func TestBucketMatchesStoredTimestamps(t *testing.T) {
	conn, err := db.OpenPath(":memory:")
	require.NoError(t, err)
	defer conn.Close()

	users := repository.NewUserRepo(conn)
	user, err := users.Create("sam@example.com", "Sam", "x")
	require.NoError(t, err)

	apps := repository.NewApplicationRepo(conn, nil)
	acts := repository.NewActivityRepo(conn, nil)

	due := StartOfDay(time.Now()).Add(9 * time.Hour)
	_, err = acts.Create(user.ID, "Prep questions", "", "", nil, &due)
	require.NoError(t, err)

	events, err := NewAggregator(apps, acts).Events(user.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)

	today := StartOfDay(time.Now())
	buckets := Bucket(events, []time.Time{today})
	require.Len(t, buckets[today], 1)
	assert.Equal(t, "Prep questions", buckets[today][0].Title)
}

func TestAggregatorReschedulePreservesClock(t *testing.T) {
	conn, err := db.OpenPath(":memory:")
	require.NoError(t, err)
	defer conn.Close()

	users := repository.NewUserRepo(conn)
	user, err := users.Create("sam@example.com", "Sam", "x")
	require.NoError(t, err)

	apps := repository.NewApplicationRepo(conn, nil)
	acts := repository.NewActivityRepo(conn, nil)

	app, err := apps.Create(user.ID, "Acme", "Backend Engineer", time.Now(), "")
	require.NoError(t, err)

	interview := time.Date(2024, 3, 4, 14, 30, 0, 0, time.UTC)
	require.NoError(t, apps.SetInterviewDate(user.ID, app.ID, &interview))

	agg := NewAggregator(apps, acts)

	events, err := agg.Events(user.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)

	target := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)
	require.NoError(t, agg.Reschedule(user.ID, events[0], target))

	// Always re-fetch after a write attempt before trusting state.
	events, err = agg.Events(user.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].At.Equal(time.Date(2024, 3, 6, 14, 30, 0, 0, time.UTC)))
}
