package storage

import (
	"github.com/jobdeck/jobdeck/internal/repository"
)

// Reconciler repairs drift between the bucket listing and document rows.
// Objects without a metadata row get one inserted silently; the view never
// fails over a mismatch.
type Reconciler struct {
	bucket *Bucket
	docs   *repository.DocumentRepo
}

func NewReconciler(bucket *Bucket, docs *repository.DocumentRepo) *Reconciler {
	return &Reconciler{bucket: bucket, docs: docs}
}

// Reconcile lists the user's objects and inserts rows for any missing
// metadata. It returns how many rows were inserted.
func (r *Reconciler) Reconcile(userID int64) (int, error) {
	objects, err := r.bucket.List(userID, "")
	if err != nil {
		return 0, err
	}

	inserted := 0
	for _, obj := range objects {
		existing, err := r.docs.GetByStoragePath(userID, obj.Path)
		if err != nil {
			return inserted, err
		}
		if existing != nil {
			continue
		}

		if _, err := r.docs.Create(userID, nil, obj.Name, obj.Path, FileType(obj.Name)); err != nil {
			return inserted, err
		}
		inserted++
	}

	return inserted, nil
}
