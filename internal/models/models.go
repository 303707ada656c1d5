package models

import "time"

type Status string

const (
	StatusApplied   Status = "Applied"
	StatusInterview Status = "Interview"
	StatusOffer     Status = "Offer"
	StatusRejected  Status = "Rejected"
)

// Statuses lists the lifecycle stages in kanban column order.
var Statuses = []Status{StatusApplied, StatusInterview, StatusOffer, StatusRejected}

func (s Status) Valid() bool {
	switch s {
	case StatusApplied, StatusInterview, StatusOffer, StatusRejected:
		return true
	}
	return false
}

type User struct {
	ID           int64
	Email        string
	DisplayName  string
	AvatarURL    string
	PasswordHash string
	CreatedAt    time.Time
}

type Application struct {
	ID            int64
	UserID        int64
	Company       string
	Position      string
	Status        Status
	AppliedAt     time.Time
	InterviewDate *time.Time
	OfferDate     *time.Time
	RejectionDate *time.Time
	Notes         string
	SourceURL     string
	CreatedAt     time.Time
}

type Activity struct {
	ID            int64
	UserID        int64
	ApplicationID *int64 // nullable, free-standing reminders allowed
	Title         string
	Description   string
	Type          string
	DueDate       *time.Time
	Completed     bool
	CreatedAt     time.Time

	// Joined fields
	Company  string
	Position string
}

type Document struct {
	ID            int64
	UserID        int64
	ApplicationID *int64
	FileName      string
	StoragePath   string
	FileType      string
	CreatedAt     time.Time

	// Joined fields
	Company string
}
