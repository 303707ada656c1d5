package state

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jobdeck/jobdeck/internal/config"
)

// Store is the key-value port for non-authoritative UI state. Everything
// kept here must be reconstructible from defaults.
type Store interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
	Delete(key string) error
}

const (
	KeyLastRoute        = "last_route"
	KeyViewMode         = "applications_view"
	KeyLastSeenNotified = "last_seen_notification"
)

// FileStore persists keys to state.toml in the app directory.
type FileStore struct {
	path   string
	values map[string]string
}

func Open() (*FileStore, error) {
	path, err := config.StatePath()
	if err != nil {
		return nil, err
	}
	return OpenFile(path)
}

func OpenFile(path string) (*FileStore, error) {
	s := &FileStore{path: path, values: map[string]string{}}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return s, nil
	}

	if _, err := toml.DecodeFile(path, &s.values); err != nil {
		// Corrupt state file is not worth failing startup over
		s.values = map[string]string{}
	}

	return s, nil
}

func (s *FileStore) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *FileStore) Set(key, value string) error {
	s.values[key] = value
	return s.flush()
}

func (s *FileStore) Delete(key string) error {
	delete(s.values, key)
	return s.flush()
}

func (s *FileStore) flush() error {
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(s.values)
}

// MemStore is an in-memory Store for tests.
type MemStore map[string]string

func (m MemStore) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m MemStore) Set(key, value string) error {
	m[key] = value
	return nil
}

func (m MemStore) Delete(key string) error {
	delete(m, key)
	return nil
}

// Typed helpers over the raw port.

func LastRoute(s Store) string {
	route, ok := s.Get(KeyLastRoute)
	if !ok {
		return "dashboard"
	}
	return route
}

func SetLastRoute(s Store, route string) error {
	return s.Set(KeyLastRoute, route)
}

func ViewMode(s Store) string {
	mode, ok := s.Get(KeyViewMode)
	if !ok || (mode != "list" && mode != "kanban") {
		return "list"
	}
	return mode
}

func SetViewMode(s Store, mode string) error {
	return s.Set(KeyViewMode, mode)
}

func LastSeenNotification(s Store) time.Time {
	raw, ok := s.Get(KeyLastSeenNotified)
	if !ok {
		return time.Time{}
	}
	unix, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(unix, 0)
}

func SetLastSeenNotification(s Store, t time.Time) error {
	return s.Set(KeyLastSeenNotified, strconv.FormatInt(t.Unix(), 10))
}
