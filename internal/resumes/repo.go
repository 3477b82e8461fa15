package resumes

import "context"

// Repo defines persistence operations for resumes and their contact info.
// Delete removes the resume together with its contact info, sections, and
// section children in a single transaction.
type Repo interface {
	Create(ctx context.Context, resume Resume) error
	GetByID(ctx context.Context, resumeID string) (Resume, error)
	ListByUser(ctx context.Context, userID string) ([]Resume, error)
	UpdateTitle(ctx context.Context, resumeID, title string) error
	Delete(ctx context.Context, resumeID string) error

	UpsertContactInfo(ctx context.Context, info ContactInfo) error
	GetContactInfo(ctx context.Context, resumeID string) (ContactInfo, error)

	// ResumeDirectory methods used by the shared authorizer.
	OwnerOf(ctx context.Context, resumeID string) (string, error)
	ListIDsByUser(ctx context.Context, userID string) ([]string, error)
}
