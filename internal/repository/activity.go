package repository

import (
	"database/sql"
	"time"

	"github.com/jobdeck/jobdeck/internal/feed"
	"github.com/jobdeck/jobdeck/internal/models"
)

type ActivityRepo struct {
	db   *sql.DB
	feed *feed.Feed
}

func NewActivityRepo(db *sql.DB, f *feed.Feed) *ActivityRepo {
	return &ActivityRepo{db: db, feed: f}
}

func (r *ActivityRepo) publish(op feed.Op, userID, id int64) {
	if r.feed != nil {
		r.feed.Publish(feed.Event{Table: "activities", Op: op, UserID: userID, RecordID: id})
	}
}

func (r *ActivityRepo) Create(userID int64, title, description, activityType string, applicationID *int64, dueDate *time.Time) (*models.Activity, error) {
	result, err := r.db.Exec(`
		INSERT INTO activities (user_id, application_id, title, description, type, due_date)
		VALUES (?, ?, ?, ?, ?, ?)
	`, userID, applicationID, title, description, activityType, dueDate)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	r.publish(feed.OpInsert, userID, id)
	return r.GetByID(userID, id)
}

const activityQuery = `
	SELECT
		t.id, t.user_id, t.application_id, t.title, t.description, t.type,
		t.due_date, t.completed, t.created_at, a.company, a.position
	FROM activities t
	LEFT JOIN applications a ON a.id = t.application_id
`

func (r *ActivityRepo) GetByID(userID, id int64) (*models.Activity, error) {
	row := r.db.QueryRow(activityQuery+`WHERE t.id = ? AND t.user_id = ?`, id, userID)

	act, err := scanActivity(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return act, nil
}

// GetAll returns every activity for the user, undated ones last.
func (r *ActivityRepo) GetAll(userID int64) ([]models.Activity, error) {
	rows, err := r.db.Query(activityQuery+`
		WHERE t.user_id = ?
		ORDER BY t.due_date IS NULL, t.due_date ASC, t.id ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

func (r *ActivityRepo) GetOpen(userID int64) ([]models.Activity, error) {
	rows, err := r.db.Query(activityQuery+`
		WHERE t.user_id = ? AND t.completed = 0
		ORDER BY t.due_date IS NULL, t.due_date ASC, t.id ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

func (r *ActivityRepo) GetDueInRange(userID int64, from, to time.Time) ([]models.Activity, error) {
	rows, err := r.db.Query(activityQuery+`
		WHERE t.user_id = ? AND t.due_date IS NOT NULL
		  AND t.due_date >= ? AND t.due_date <= ?
		ORDER BY t.due_date ASC, t.id ASC
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

func (r *ActivityRepo) CountOverdue(userID int64, startOfToday time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM activities
		WHERE user_id = ? AND completed = 0
		  AND due_date IS NOT NULL AND due_date < ?
	`, userID, startOfToday).Scan(&n)
	return n, err
}

func (r *ActivityRepo) SetCompleted(userID, id int64, completed bool) error {
	_, err := r.db.Exec(
		"UPDATE activities SET completed = ? WHERE id = ? AND user_id = ?",
		completed, id, userID,
	)
	if err != nil {
		return err
	}

	r.publish(feed.OpUpdate, userID, id)
	return nil
}

func (r *ActivityRepo) SetDueDate(userID, id int64, due *time.Time) error {
	_, err := r.db.Exec(
		"UPDATE activities SET due_date = ? WHERE id = ? AND user_id = ?",
		due, id, userID,
	)
	if err != nil {
		return err
	}

	r.publish(feed.OpUpdate, userID, id)
	return nil
}

func (r *ActivityRepo) Update(userID, id int64, title, description, activityType string) error {
	_, err := r.db.Exec(`
		UPDATE activities SET title = ?, description = ?, type = ?
		WHERE id = ? AND user_id = ?
	`, title, description, activityType, id, userID)
	if err != nil {
		return err
	}

	r.publish(feed.OpUpdate, userID, id)
	return nil
}

func (r *ActivityRepo) Delete(userID, id int64) error {
	_, err := r.db.Exec("DELETE FROM activities WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}

	r.publish(feed.OpDelete, userID, id)
	return nil
}

func scanActivity(row rowScanner) (*models.Activity, error) {
	var t models.Activity
	var applicationID sql.NullInt64
	var due sql.NullTime
	var company, position sql.NullString

	err := row.Scan(
		&t.ID, &t.UserID, &applicationID, &t.Title, &t.Description, &t.Type,
		&due, &t.Completed, &t.CreatedAt, &company, &position,
	)
	if err != nil {
		return nil, err
	}

	if applicationID.Valid {
		t.ApplicationID = &applicationID.Int64
	}
	if due.Valid {
		t.DueDate = &due.Time
	}
	t.Company = company.String
	t.Position = position.String

	return &t, nil
}

func scanActivities(rows *sql.Rows) ([]models.Activity, error) {
	var activities []models.Activity
	for rows.Next() {
		t, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *t)
	}
	return activities, rows.Err()
}
