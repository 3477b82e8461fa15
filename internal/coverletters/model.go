package coverletters

import "time"

// CoverLetter is one version of a job's cover letter. Version is assigned at
// creation and never changes; for a given job exactly one letter is current.
type CoverLetter struct {
	ID         string
	JobID      string
	Title      string
	Content    string
	TemplateID *string
	Version    int
	IsCurrent  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Template is a reusable cover letter starting point owned by a user. At
// most one template per user is the default.
type Template struct {
	ID        string
	UserID    string
	Title     string
	Content   string
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
