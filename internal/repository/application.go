package repository

import (
	"database/sql"
	"time"

	"github.com/jobdeck/jobdeck/internal/feed"
	"github.com/jobdeck/jobdeck/internal/models"
)

type ApplicationRepo struct {
	db   *sql.DB
	feed *feed.Feed
}

func NewApplicationRepo(db *sql.DB, f *feed.Feed) *ApplicationRepo {
	return &ApplicationRepo{db: db, feed: f}
}

func (r *ApplicationRepo) publish(op feed.Op, userID, id int64) {
	if r.feed != nil {
		r.feed.Publish(feed.Event{Table: "applications", Op: op, UserID: userID, RecordID: id})
	}
}

func (r *ApplicationRepo) Create(userID int64, company, position string, appliedAt time.Time, sourceURL string) (*models.Application, error) {
	result, err := r.db.Exec(`
		INSERT INTO applications (user_id, company, position, status, applied_at, source_url)
		VALUES (?, ?, ?, ?, ?, ?)
	`, userID, company, position, models.StatusApplied, appliedAt, sourceURL)
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

const applicationColumns = `
	id, user_id, company, position, status, applied_at,
	interview_date, offer_date, rejection_date, notes, source_url, created_at
`

func (r *ApplicationRepo) GetByID(userID, id int64) (*models.Application, error) {
	row := r.db.QueryRow(`
		SELECT `+applicationColumns+`
		FROM applications
		WHERE id = ? AND user_id = ?
	`, id, userID)

	app, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (r *ApplicationRepo) GetAll(userID int64) ([]models.Application, error) {
	rows, err := r.db.Query(`
		SELECT `+applicationColumns+`
		FROM applications
		WHERE user_id = ?
		ORDER BY applied_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanApplications(rows)
}

func (r *ApplicationRepo) GetByStatus(userID int64, status models.Status) ([]models.Application, error) {
	rows, err := r.db.Query(`
		SELECT `+applicationColumns+`
		FROM applications
		WHERE user_id = ? AND status = ?
		ORDER BY applied_at DESC, id DESC
	`, userID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanApplications(rows)
}

// GetWithInterviews returns applications carrying an interview date within
// the given range, ordered soonest first.
func (r *ApplicationRepo) GetWithInterviews(userID int64, from, to time.Time) ([]models.Application, error) {
	rows, err := r.db.Query(`
		SELECT `+applicationColumns+`
		FROM applications
		WHERE user_id = ? AND interview_date IS NOT NULL
		  AND interview_date >= ? AND interview_date <= ?
		ORDER BY interview_date ASC
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanApplications(rows)
}

func (r *ApplicationRepo) CountByStatus(userID int64) (map[models.Status]int, error) {
	rows, err := r.db.Query(`
		SELECT status, COUNT(*)
		FROM applications
		WHERE user_id = ?
		GROUP BY status
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.Status]int)
	for rows.Next() {
		var status models.Status
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// SetStatus moves an application to a new lifecycle stage. Transitions to
// Offer or Rejected stamp the matching date column if it is still unset.
func (r *ApplicationRepo) SetStatus(userID, id int64, status models.Status, stamped time.Time) error {
	_, err := r.db.Exec(`
		UPDATE applications SET
			status = ?,
			offer_date = CASE WHEN ? = 'Offer' AND offer_date IS NULL THEN ? ELSE offer_date END,
			rejection_date = CASE WHEN ? = 'Rejected' AND rejection_date IS NULL THEN ? ELSE rejection_date END
		WHERE id = ? AND user_id = ?
	`, status, status, stamped, status, stamped, id, userID)
	if err != nil {
		return err
	}

	r.publish(feed.OpUpdate, userID, id)
	return nil
}

func (r *ApplicationRepo) SetInterviewDate(userID, id int64, t *time.Time) error {
	_, err := r.db.Exec(
		"UPDATE applications SET interview_date = ? WHERE id = ? AND user_id = ?",
		t, id, userID,
	)
	if err != nil {
		return err
	}

	r.publish(feed.OpUpdate, userID, id)
	return nil
}

func (r *ApplicationRepo) UpdateDetails(userID, id int64, company, position, notes, sourceURL string) error {
	_, err := r.db.Exec(`
		UPDATE applications SET company = ?, position = ?, notes = ?, source_url = ?
		WHERE id = ? AND user_id = ?
	`, company, position, notes, sourceURL, id, userID)
	if err != nil {
		return err
	}

	r.publish(feed.OpUpdate, userID, id)
	return nil
}

func (r *ApplicationRepo) Delete(userID, id int64) error {
	_, err := r.db.Exec("DELETE FROM applications WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}

	r.publish(feed.OpDelete, userID, id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var a models.Application
	var interview, offer, rejection sql.NullTime

	err := row.Scan(
		&a.ID, &a.UserID, &a.Company, &a.Position, &a.Status, &a.AppliedAt,
		&interview, &offer, &rejection, &a.Notes, &a.SourceURL, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if interview.Valid {
		a.InterviewDate = &interview.Time
	}
	if offer.Valid {
		a.OfferDate = &offer.Time
	}
	if rejection.Valid {
		a.RejectionDate = &rejection.Time
	}

	return &a, nil
}

func scanApplications(rows *sql.Rows) ([]models.Application, error) {
	var apps []models.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}
