package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobdeck/jobdeck/internal/db"
	"github.com/jobdeck/jobdeck/internal/feed"
	"github.com/jobdeck/jobdeck/internal/models"
)

func setup(t *testing.T) (*UserRepo, *ApplicationRepo, *ActivityRepo, *feed.Feed) {
	t.Helper()

	conn, err := db.OpenPath(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	f := feed.New()
	return NewUserRepo(conn), NewApplicationRepo(conn, f), NewActivityRepo(conn, f), f
}

func TestApplicationLifecycle(t *testing.T) {
	users, apps, _, _ := setup(t)

	user, err := users.Create("sam@example.com", "Sam", "hash")
	require.NoError(t, err)

	applied := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	app, err := apps.Create(user.ID, "Acme", "Backend Engineer", applied, "https://acme.example/jobs/1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApplied, app.Status)
	assert.Nil(t, app.InterviewDate)

	interview := time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)
	require.NoError(t, apps.SetInterviewDate(user.ID, app.ID, &interview))
	require.NoError(t, apps.SetStatus(user.ID, app.ID, models.StatusInterview, time.Now()))

	got, err := apps.GetByID(user.ID, app.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.StatusInterview, got.Status)
	require.NotNil(t, got.InterviewDate)
	assert.True(t, got.InterviewDate.Equal(interview))
	assert.Nil(t, got.OfferDate)

	stamp := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
	require.NoError(t, apps.SetStatus(user.ID, app.ID, models.StatusOffer, stamp))

	got, err = apps.GetByID(user.ID, app.ID)
	require.NoError(t, err)
	require.NotNil(t, got.OfferDate)
	assert.True(t, got.OfferDate.Equal(stamp))

	counts, err := apps.CountByStatus(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[models.StatusOffer])
}

func TestApplicationUserScoping(t *testing.T) {
	users, apps, _, _ := setup(t)

	alice, err := users.Create("alice@example.com", "Alice", "hash")
	require.NoError(t, err)
	bob, err := users.Create("bob@example.com", "Bob", "hash")
	require.NoError(t, err)

	app, err := apps.Create(alice.ID, "Acme", "SRE", time.Now(), "")
	require.NoError(t, err)

	// Bob cannot see or touch Alice's application
	got, err := apps.GetByID(bob.ID, app.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	all, err := apps.GetAll(bob.ID)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, apps.Delete(bob.ID, app.ID))
	got, err = apps.GetByID(alice.ID, app.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestWritesPublishToFeed(t *testing.T) {
	users, apps, acts, f := setup(t)

	user, err := users.Create("sam@example.com", "Sam", "hash")
	require.NoError(t, err)

	ch := f.Subscribe("applications", "activities")

	app, err := apps.Create(user.ID, "Acme", "SRE", time.Now(), "")
	require.NoError(t, err)

	ev := <-ch
	assert.Equal(t, "applications", ev.Table)
	assert.Equal(t, feed.OpInsert, ev.Op)
	assert.Equal(t, app.ID, ev.RecordID)

	due := time.Now().AddDate(0, 0, 1)
	act, err := acts.Create(user.ID, "Follow up", "", "call", &app.ID, &due)
	require.NoError(t, err)

	ev = <-ch
	assert.Equal(t, "activities", ev.Table)
	assert.Equal(t, act.ID, ev.RecordID)

	require.NoError(t, acts.SetCompleted(user.ID, act.ID, true))
	ev = <-ch
	assert.Equal(t, feed.OpUpdate, ev.Op)
}

func TestActivityOrderingAndOverdueCount(t *testing.T) {
	users, _, acts, _ := setup(t)

	user, err := users.Create("sam@example.com", "Sam", "hash")
	require.NoError(t, err)

	past := time.Now().AddDate(0, 0, -2)
	future := time.Now().AddDate(0, 0, 2)

	_, err = acts.Create(user.ID, "no due date", "", "", nil, nil)
	require.NoError(t, err)
	_, err = acts.Create(user.ID, "future", "", "", nil, &future)
	require.NoError(t, err)
	_, err = acts.Create(user.ID, "past", "", "", nil, &past)
	require.NoError(t, err)

	all, err := acts.GetAll(user.ID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "past", all[0].Title)
	assert.Equal(t, "future", all[1].Title)
	assert.Equal(t, "no due date", all[2].Title)

	startOfToday := time.Now().Truncate(24 * time.Hour)
	n, err := acts.CountOverdue(user.ID, startOfToday)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
