package repository

import (
	"database/sql"

	"github.com/jobdeck/jobdeck/internal/models"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(email, displayName, passwordHash string) (*models.User, error) {
	result, err := r.db.Exec(`
		INSERT INTO users (email, display_name, password_hash)
		VALUES (?, ?, ?)
	`, email, displayName, passwordHash)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

func (r *UserRepo) GetByID(id int64) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(`
		SELECT id, email, display_name, avatar_url, password_hash, created_at
		FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Email, &u.DisplayName, &u.AvatarURL, &u.PasswordHash, &u.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(email string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(`
		SELECT id, email, display_name, avatar_url, password_hash, created_at
		FROM users WHERE email = ?
	`, email).Scan(&u.ID, &u.Email, &u.DisplayName, &u.AvatarURL, &u.PasswordHash, &u.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UpdateProfile(id int64, displayName, avatarURL string) error {
	_, err := r.db.Exec(
		"UPDATE users SET display_name = ?, avatar_url = ? WHERE id = ?",
		displayName, avatarURL, id,
	)
	return err
}
