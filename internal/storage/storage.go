// Package storage is a filesystem-backed object store for user documents,
// namespaced by user id, with time-limited signed URLs for handing paths to
// external viewers.
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrExpired = errors.New("signed url expired or unknown")

type Object struct {
	Path    string // storage path: "<userID>/<name>"
	Name    string
	Size    int64
	ModTime time.Time
}

type signedEntry struct {
	absPath string
	expires time.Time
}

type Bucket struct {
	root string
	ttl  time.Duration

	mu     sync.Mutex
	tokens map[string]signedEntry
	now    func() time.Time
}

func NewBucket(root string, ttl time.Duration) *Bucket {
	return &Bucket{
		root:   root,
		ttl:    ttl,
		tokens: make(map[string]signedEntry),
		now:    time.Now,
	}
}

func (b *Bucket) objectPath(userID int64, name string) string {
	return fmt.Sprintf("%d/%s", userID, name)
}

// abs resolves a storage path to an absolute file path, refusing anything
// that escapes the user's namespace.
func (b *Bucket) abs(userID int64, storagePath string) (string, error) {
	prefix := fmt.Sprintf("%d/", userID)
	if !strings.HasPrefix(storagePath, prefix) {
		return "", fmt.Errorf("storage path %q outside user namespace", storagePath)
	}

	clean := filepath.Clean(filepath.FromSlash(storagePath))
	if strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid storage path %q", storagePath)
	}

	return filepath.Join(b.root, clean), nil
}

// Upload writes src into the user's namespace and returns the storage path.
func (b *Bucket) Upload(userID int64, name string, src io.Reader) (string, error) {
	name = filepath.Base(name)
	if name == "" || name == "." {
		return "", errors.New("file name is required")
	}

	storagePath := b.objectPath(userID, name)
	absPath, err := b.abs(userID, storagePath)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return "", err
	}

	f, err := os.Create(absPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, src); err != nil {
		return "", err
	}

	return storagePath, nil
}

// UploadFile copies a local file into the bucket under its base name.
func (b *Bucket) UploadFile(userID int64, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return b.Upload(userID, filepath.Base(localPath), f)
}

// List returns the user's objects whose names start with prefix, sorted by
// name. An empty prefix lists everything.
func (b *Bucket) List(userID int64, prefix string) ([]Object, error) {
	dir := filepath.Join(b.root, fmt.Sprintf("%d", userID))

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var objects []Object
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		objects = append(objects, Object{
			Path:    b.objectPath(userID, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].Name < objects[j].Name })
	return objects, nil
}

func (b *Bucket) Delete(userID int64, storagePath string) error {
	absPath, err := b.abs(userID, storagePath)
	if err != nil {
		return err
	}

	err = os.Remove(absPath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// SignedURL mints a time-limited opaque URL for an object. The token is
// single-bucket and expires after the configured TTL.
func (b *Bucket) SignedURL(userID int64, storagePath string) (string, time.Time, error) {
	absPath, err := b.abs(userID, storagePath)
	if err != nil {
		return "", time.Time{}, err
	}

	if _, err := os.Stat(absPath); err != nil {
		return "", time.Time{}, err
	}

	token := uuid.NewString()
	expires := b.now().Add(b.ttl)

	b.mu.Lock()
	b.tokens[token] = signedEntry{absPath: absPath, expires: expires}
	b.mu.Unlock()

	return "jobdeck://object/" + token, expires, nil
}

// Resolve exchanges a signed URL for the underlying file path, failing once
// the URL has expired.
func (b *Bucket) Resolve(url string) (string, error) {
	token := strings.TrimPrefix(url, "jobdeck://object/")

	b.mu.Lock()
	entry, ok := b.tokens[token]
	if ok && b.now().After(entry.expires) {
		delete(b.tokens, token)
		ok = false
	}
	b.mu.Unlock()

	if !ok {
		return "", ErrExpired
	}
	return entry.absPath, nil
}

// FileType infers a short type tag from the file name extension.
func FileType(name string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		return "file"
	}
	return ext
}
