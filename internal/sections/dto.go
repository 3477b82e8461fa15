package sections

import "time"

const dateLayout = "2006-01-02"

// SectionResponse is the outward-facing representation of a section with its
// contents.
type SectionResponse struct {
	ID           string               `json:"id"`
	ResumeID     string               `json:"resumeId"`
	SectionType  string               `json:"sectionType"`
	SectionTitle string               `json:"sectionTitle"`
	Summary      *string              `json:"summary,omitempty"`
	Experiences  []ExperienceResponse `json:"experiences,omitempty"`
	Educations   []EducationResponse  `json:"educations,omitempty"`
}

// ExperienceResponse is the outward-facing representation of an experience
// entry. An absent endDate means the position is ongoing.
type ExperienceResponse struct {
	ID          string  `json:"id"`
	SectionID   string  `json:"sectionId"`
	JobTitle    string  `json:"jobTitle"`
	Company     string  `json:"company"`
	Location    string  `json:"location"`
	StartDate   *string `json:"startDate,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
	Description string  `json:"description"`
}

// EducationResponse is the outward-facing representation of an education
// entry.
type EducationResponse struct {
	ID           string  `json:"id"`
	SectionID    string  `json:"sectionId"`
	Institution  string  `json:"institution"`
	Degree       string  `json:"degree"`
	FieldOfStudy string  `json:"fieldOfStudy"`
	StartDate    *string `json:"startDate,omitempty"`
	EndDate      *string `json:"endDate,omitempty"`
	Description  string  `json:"description"`
}

func toSectionResponse(view SectionView) SectionResponse {
	out := SectionResponse{
		ID:           view.Section.ID,
		ResumeID:     view.Section.ResumeID,
		SectionType:  string(view.Section.SectionType),
		SectionTitle: view.Section.SectionTitle,
	}
	if view.Summary != nil {
		out.Summary = &view.Summary.Content
	}
	for _, exp := range view.Experiences {
		out.Experiences = append(out.Experiences, toExperienceResponse(exp))
	}
	for _, edu := range view.Educations {
		out.Educations = append(out.Educations, toEducationResponse(edu))
	}
	return out
}

func toExperienceResponse(exp WorkExperience) ExperienceResponse {
	return ExperienceResponse{
		ID:          exp.ID,
		SectionID:   exp.SectionID,
		JobTitle:    exp.JobTitle,
		Company:     exp.Company,
		Location:    exp.Location,
		StartDate:   formatDate(exp.StartDate),
		EndDate:     formatDate(exp.EndDate),
		Description: exp.Description,
	}
}

func toEducationResponse(edu Education) EducationResponse {
	return EducationResponse{
		ID:           edu.ID,
		SectionID:    edu.SectionID,
		Institution:  edu.Institution,
		Degree:       edu.Degree,
		FieldOfStudy: edu.FieldOfStudy,
		StartDate:    formatDate(edu.StartDate),
		EndDate:      formatDate(edu.EndDate),
		Description:  edu.Description,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
