package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/crypto/bcrypt"

	"github.com/jobdeck/jobdeck/internal/config"
	"github.com/jobdeck/jobdeck/internal/models"
	"github.com/jobdeck/jobdeck/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
)

// Session is the signed-in user as seen by the UI.
type Session struct {
	UserID      int64  `toml:"user_id"`
	Email       string `toml:"email"`
	DisplayName string `toml:"display_name"`
	AvatarURL   string `toml:"avatar_url"`
}

// Manager handles account creation and the persisted session, so reopening
// the app keeps the user signed in.
type Manager struct {
	users       *repository.UserRepo
	sessionPath string
}

func NewManager(users *repository.UserRepo) (*Manager, error) {
	path, err := config.SessionPath()
	if err != nil {
		return nil, err
	}
	return NewManagerAt(users, path), nil
}

func NewManagerAt(users *repository.UserRepo, sessionPath string) *Manager {
	return &Manager{users: users, sessionPath: sessionPath}
}

func (m *Manager) SignUp(email, password, displayName string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("a valid email is required")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	existing, err := m.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := m.users.Create(email, displayName, string(hash))
	if err != nil {
		return nil, err
	}

	return m.open(user)
}

func (m *Manager) SignIn(email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := m.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return m.open(user)
}

func (m *Manager) SignOut() error {
	err := os.Remove(m.sessionPath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Current returns the persisted session, or nil when nobody is signed in.
// A session pointing at a deleted account is discarded.
func (m *Manager) Current() (*Session, error) {
	if _, err := os.Stat(m.sessionPath); os.IsNotExist(err) {
		return nil, nil
	}

	var s Session
	if _, err := toml.DecodeFile(m.sessionPath, &s); err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	user, err := m.users.GetByID(s.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = m.SignOut()
		return nil, nil
	}

	return sessionFor(user), nil
}

// UpdateProfile writes profile changes and keeps the persisted session in
// step with the user row.
func (m *Manager) UpdateProfile(userID int64, displayName, avatarURL string) error {
	if err := m.users.UpdateProfile(userID, displayName, avatarURL); err != nil {
		return err
	}
	_, err := m.Refresh(userID)
	return err
}

// Refresh rewrites the persisted session from the current user row, after
// profile edits.
func (m *Manager) Refresh(userID int64) (*Session, error) {
	user, err := m.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("account no longer exists")
	}
	return m.open(user)
}

func (m *Manager) open(user *models.User) (*Session, error) {
	s := sessionFor(user)

	f, err := os.Create(m.sessionPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(s); err != nil {
		return nil, err
	}

	return s, nil
}

func sessionFor(user *models.User) *Session {
	return &Session{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
	}
}
