package repository

import (
	"database/sql"

	"github.com/jobdeck/jobdeck/internal/feed"
	"github.com/jobdeck/jobdeck/internal/models"
)

type DocumentRepo struct {
	db   *sql.DB
	feed *feed.Feed
}

func NewDocumentRepo(db *sql.DB, f *feed.Feed) *DocumentRepo {
	return &DocumentRepo{db: db, feed: f}
}

func (r *DocumentRepo) publish(op feed.Op, userID, id int64) {
	if r.feed != nil {
		r.feed.Publish(feed.Event{Table: "documents", Op: op, UserID: userID, RecordID: id})
	}
}

func (r *DocumentRepo) Create(userID int64, applicationID *int64, fileName, storagePath, fileType string) (*models.Document, error) {
	result, err := r.db.Exec(`
		INSERT INTO documents (user_id, application_id, file_name, storage_path, file_type)
		VALUES (?, ?, ?, ?, ?)
	`, userID, applicationID, fileName, storagePath, fileType)
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

const documentQuery = `
	SELECT
		d.id, d.user_id, d.application_id, d.file_name, d.storage_path,
		d.file_type, d.created_at, a.company
	FROM documents d
	LEFT JOIN applications a ON a.id = d.application_id
`

func (r *DocumentRepo) GetByID(userID, id int64) (*models.Document, error) {
	row := r.db.QueryRow(documentQuery+`WHERE d.id = ? AND d.user_id = ?`, id, userID)

	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *DocumentRepo) GetAll(userID int64) ([]models.Document, error) {
	rows, err := r.db.Query(documentQuery+`
		WHERE d.user_id = ?
		ORDER BY d.created_at DESC, d.id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDocuments(rows)
}

func (r *DocumentRepo) GetByStoragePath(userID int64, storagePath string) (*models.Document, error) {
	row := r.db.QueryRow(documentQuery+`WHERE d.storage_path = ? AND d.user_id = ?`, storagePath, userID)

	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *DocumentRepo) Delete(userID, id int64) error {
	_, err := r.db.Exec("DELETE FROM documents WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}

	r.publish(feed.OpDelete, userID, id)
	return nil
}

func scanDocument(row rowScanner) (*models.Document, error) {
	var d models.Document
	var applicationID sql.NullInt64
	var company sql.NullString

	err := row.Scan(
		&d.ID, &d.UserID, &applicationID, &d.FileName, &d.StoragePath,
		&d.FileType, &d.CreatedAt, &company,
	)
	if err != nil {
		return nil, err
	}

	if applicationID.Valid {
		d.ApplicationID = &applicationID.Int64
	}
	d.Company = company.String

	return &d, nil
}

func scanDocuments(rows *sql.Rows) ([]models.Document, error) {
	var docs []models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}
