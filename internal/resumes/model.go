package resumes

import "time"

// Resume belongs to exactly one profile. UserID is resolved through the
// owning profile and carried for authorization checks.
type Resume struct {
	ID        string
	ProfileID string
	UserID    string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContactInfo is the optional 1:1 contact block of a resume.
type ContactInfo struct {
	ID       string
	ResumeID string
	FullName string
	Email    string
	Phone    string
	Location string
	Links    string
}
