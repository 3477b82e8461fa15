package sections

import "time"

// SectionType tags what a resume section holds.
type SectionType string

const (
	TypeSummary    SectionType = "SUMMARY"
	TypeExperience SectionType = "EXPERIENCE"
	TypeEducation  SectionType = "EDUCATION"
)

// Section is a container inside a resume: either the summary block
// (SummaryID set) or a miscellaneous holder of experience and education
// entries (SummaryID nil). The data layer enforces SummaryID uniqueness
// across the whole table with NULLs participating, so at most one
// nil-SummaryID section exists system-wide. The Resolver works around that.
type Section struct {
	ID           string
	ResumeID     string
	SectionType  SectionType
	SectionTitle string
	SummaryID    *string
	Position     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Summary is the 1:1 free-text block of a SUMMARY section.
type Summary struct {
	ID      string
	Content string
}

// WorkExperience is one experience entry in a section. A nil EndDate means
// the position is ongoing.
type WorkExperience struct {
	ID          string
	SectionID   string
	JobTitle    string
	Company     string
	Location    string
	StartDate   *time.Time
	EndDate     *time.Time
	Description string
	Position    int
}

// Education is one education entry in a section. A nil EndDate means the
// program is ongoing.
type Education struct {
	ID           string
	SectionID    string
	Institution  string
	Degree       string
	FieldOfStudy string
	StartDate    *time.Time
	EndDate      *time.Time
	Description  string
	Position     int
}
