package jobs

import "time"

// Status values a tracked job moves through.
const (
	StatusSaved        = "saved"
	StatusApplied      = "applied"
	StatusInterviewing = "interviewing"
	StatusOffer        = "offer"
	StatusRejected     = "rejected"
)

// Job is one tracked job application owned by a user. ResumeID optionally
// links the resume used for the application.
type Job struct {
	ID        string
	UserID    string
	ResumeID  *string
	Title     string
	Company   string
	Location  string
	URL       string
	Status    string
	Notes     string
	AppliedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidStatus reports whether s is a known job status.
func ValidStatus(s string) bool {
	switch s {
	case StatusSaved, StatusApplied, StatusInterviewing, StatusOffer, StatusRejected:
		return true
	default:
		return false
	}
}
