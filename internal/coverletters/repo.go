package coverletters

import "context"

// Repo persists cover letters and templates.
//
// Version numbering and the single-current invariant are enforced here:
// CreateVersioned and SetCurrent must each apply their unset/set pair
// atomically so that concurrent callers can never observe a job with zero
// or two current letters.
type Repo interface {
	// CreateVersioned assigns the next version for letter.JobID
	// (max existing + 1, or 1 when the job has none), marks every other
	// letter of the job not current and inserts the new letter as current,
	// all in one atomic step.
	CreateVersioned(ctx context.Context, letter CoverLetter) (CoverLetter, error)
	GetByID(ctx context.Context, coverLetterID string) (CoverLetter, error)
	// ListByJob returns the job's letters ordered by version descending.
	ListByJob(ctx context.Context, jobID string) ([]CoverLetter, error)
	UpdateContent(ctx context.Context, coverLetterID, title, content string) (CoverLetter, error)
	// SetCurrent atomically unsets is_current on the job's letters and sets
	// it on coverLetterID.
	SetCurrent(ctx context.Context, jobID, coverLetterID string) error
	Delete(ctx context.Context, coverLetterID string) error

	CreateTemplate(ctx context.Context, tpl Template) (Template, error)
	GetTemplate(ctx context.Context, templateID string) (Template, error)
	ListTemplates(ctx context.Context, userID string) ([]Template, error)
	UpdateTemplate(ctx context.Context, tpl Template) (Template, error)
	// SetDefaultTemplate atomically clears the user's previous default and
	// marks templateID as the default.
	SetDefaultTemplate(ctx context.Context, userID, templateID string) error
	DeleteTemplate(ctx context.Context, templateID string) error
}
