package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobdeck/jobdeck/internal/db"
	"github.com/jobdeck/jobdeck/internal/repository"
)

func TestUploadListDelete(t *testing.T) {
	bucket := NewBucket(t.TempDir(), time.Minute)

	path, err := bucket.Upload(1, "resume.pdf", strings.NewReader("pdf bytes"))
	require.NoError(t, err)
	assert.Equal(t, "1/resume.pdf", path)

	_, err = bucket.Upload(1, "cover-letter.pdf", strings.NewReader("more bytes"))
	require.NoError(t, err)

	_, err = bucket.Upload(2, "other-user.pdf", strings.NewReader("x"))
	require.NoError(t, err)

	objects, err := bucket.List(1, "")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "cover-letter.pdf", objects[0].Name)
	assert.Equal(t, "resume.pdf", objects[1].Name)

	objects, err = bucket.List(1, "resume")
	require.NoError(t, err)
	require.Len(t, objects, 1)

	require.NoError(t, bucket.Delete(1, "1/resume.pdf"))

	objects, err = bucket.List(1, "")
	require.NoError(t, err)
	require.Len(t, objects, 1)
}

func TestNamespaceIsolation(t *testing.T) {
	bucket := NewBucket(t.TempDir(), time.Minute)

	_, err := bucket.Upload(1, "resume.pdf", strings.NewReader("x"))
	require.NoError(t, err)

	// User 2 cannot address user 1's objects
	err = bucket.Delete(2, "1/resume.pdf")
	assert.Error(t, err)

	_, _, err = bucket.SignedURL(2, "1/resume.pdf")
	assert.Error(t, err)
}

func TestSignedURLExpiry(t *testing.T) {
	bucket := NewBucket(t.TempDir(), 10*time.Minute)

	current := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	bucket.now = func() time.Time { return current }

	path, err := bucket.Upload(1, "resume.pdf", strings.NewReader("x"))
	require.NoError(t, err)

	url, expires, err := bucket.SignedURL(1, path)
	require.NoError(t, err)
	assert.True(t, expires.Equal(current.Add(10*time.Minute)))

	resolved, err := bucket.Resolve(url)
	require.NoError(t, err)
	assert.NotEmpty(t, resolved)

	current = current.Add(11 * time.Minute)
	_, err = bucket.Resolve(url)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestReconcileInsertsMissingRows(t *testing.T) {
	conn, err := db.OpenPath(":memory:")
	require.NoError(t, err)
	defer conn.Close()

	users := repository.NewUserRepo(conn)
	user, err := users.Create("sam@example.com", "Sam", "x")
	require.NoError(t, err)

	docs := repository.NewDocumentRepo(conn, nil)
	bucket := NewBucket(t.TempDir(), time.Minute)

	// One object already tracked, one orphaned
	tracked, err := bucket.Upload(user.ID, "resume.pdf", strings.NewReader("x"))
	require.NoError(t, err)
	_, err = docs.Create(user.ID, nil, "resume.pdf", tracked, "pdf")
	require.NoError(t, err)

	_, err = bucket.Upload(user.ID, "notes.txt", strings.NewReader("y"))
	require.NoError(t, err)

	inserted, err := NewReconciler(bucket, docs).Reconcile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	all, err := docs.GetAll(user.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Second run is a no-op
	inserted, err = NewReconciler(bucket, docs).Reconcile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
}

func TestFileType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"resume.pdf", "pdf"},
		{"photo.PNG", "png"},
		{"README", "file"},
	}
	for _, tt := range tests {
		if got := FileType(tt.name); got != tt.want {
			t.Errorf("FileType(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
