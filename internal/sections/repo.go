package sections

import "context"

// Repo defines persistence operations for resume sections and their children.
//
// CreateSection must report ErrNullSummaryTaken when inserting a section with
// a nil SummaryID while another nil-SummaryID section already exists anywhere
// in the table; the Resolver's retry depends on that signal being
// distinguishable from other failures.
type Repo interface {
	GetSection(ctx context.Context, sectionID string) (Section, error)
	ListByResume(ctx context.Context, resumeID string) ([]Section, error)
	FindNullSummary(ctx context.Context, resumeIDs []string) (Section, error)
	FindTyped(ctx context.Context, resumeID string, sectionType SectionType) (Section, error)
	CreateSection(ctx context.Context, section Section) error
	Reparent(ctx context.Context, sectionID, resumeID, title string) (Section, error)
	DeleteByResume(ctx context.Context, resumeID string) error

	CreateSummarySection(ctx context.Context, section Section, summary Summary) error
	GetSummary(ctx context.Context, summaryID string) (Summary, error)
	UpdateSummary(ctx context.Context, summaryID, content string) error

	CreateExperience(ctx context.Context, exp WorkExperience) error
	GetExperience(ctx context.Context, experienceID string) (WorkExperience, error)
	UpdateExperience(ctx context.Context, exp WorkExperience) error
	DeleteExperience(ctx context.Context, experienceID string) error
	ListExperiences(ctx context.Context, sectionID string) ([]WorkExperience, error)

	CreateEducation(ctx context.Context, edu Education) error
	GetEducation(ctx context.Context, educationID string) (Education, error)
	UpdateEducation(ctx context.Context, edu Education) error
	DeleteEducation(ctx context.Context, educationID string) error
	ListEducations(ctx context.Context, sectionID string) ([]Education, error)
}
