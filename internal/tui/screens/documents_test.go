package screens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobdeck/jobdeck/internal/db"
	"github.com/jobdeck/jobdeck/internal/models"
	"github.com/jobdeck/jobdeck/internal/repository"
	"github.com/jobdeck/jobdeck/internal/storage"
)

// A failed object removal must keep the metadata row, so the delete can be
// retried instead of the orphaned file coming back as an unlinked row on
// the next reconcile.
func TestDocumentsDeleteKeepsRowWhenObjectRemovalFails(t *testing.T) {
	conn, err := db.OpenPath(":memory:")
	require.NoError(t, err)
	defer conn.Close()

	users := repository.NewUserRepo(conn)
	user, err := users.Create("sam@example.com", "Sam", "x")
	require.NoError(t, err)

	docs := repository.NewDocumentRepo(conn, nil)
	// Drifted row pointing outside the user's namespace; the bucket
	// refuses to remove it.
	doc, err := docs.Create(user.ID, nil, "resume.pdf", "999/resume.pdf", "pdf")
	require.NoError(t, err)

	bucket := storage.NewBucket(t.TempDir(), time.Minute)
	screen := NewDocuments(conn, user.ID, bucket, nil)
	screen.documents = []models.Document{*doc}
	screen.mode = documentsModeDelete

	screen.Update(keyMsg('y'))

	assert.Error(t, screen.err)
	got, err := docs.GetByID(user.ID, doc.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}
