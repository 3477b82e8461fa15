package sections

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobtrack-backend/internal/shared/authz"
)

// ExperienceInput carries the fields of an experience entry. On updates a
// nil EndDate leaves the stored value alone; ClearEndDate marks the role as
// ongoing again.
type ExperienceInput struct {
	SectionID    string
	Title        string // section title hint, used only if a section is created
	JobTitle     string
	Company      string
	Location     string
	StartDate    *time.Time
	EndDate      *time.Time
	ClearEndDate bool
	Description  string
}

// EducationInput carries the fields of an education entry. EndDate and
// ClearEndDate follow the same update semantics as ExperienceInput.
type EducationInput struct {
	SectionID    string
	Title        string
	Institution  string
	Degree       string
	FieldOfStudy string
	StartDate    *time.Time
	EndDate      *time.Time
	ClearEndDate bool
	Description  string
}

// SectionView is a section with its resolved contents.
type SectionView struct {
	Section     Section
	Summary     *Summary
	Experiences []WorkExperience
	Educations  []Education
}

// Service contains business logic for resume sections and their entries.
type Service struct {
	Repo     Repo
	Resolver *Resolver
	Auth     *authz.Authorizer
}

// CreateExperience attaches a new experience entry to the resolved section.
func (s *Service) CreateExperience(ctx context.Context, userID, resumeID string, input ExperienceInput) (WorkExperience, error) {
	if strings.TrimSpace(input.JobTitle) == "" {
		return WorkExperience{}, ErrInvalidInput
	}

	section, err := s.Resolver.ResolveNonSummary(ctx, userID, resumeID, ResolveOptions{
		SectionID: input.SectionID,
		Title:     input.Title,
	})
	if err != nil {
		return WorkExperience{}, err
	}

	existing, err := s.Repo.ListExperiences(ctx, section.ID)
	if err != nil {
		return WorkExperience{}, err
	}

	exp := WorkExperience{
		ID:          uuid.NewString(),
		SectionID:   section.ID,
		JobTitle:    strings.TrimSpace(input.JobTitle),
		Company:     strings.TrimSpace(input.Company),
		Location:    strings.TrimSpace(input.Location),
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Description: input.Description,
		Position:    len(existing) + 1,
	}
	if err := s.Repo.CreateExperience(ctx, exp); err != nil {
		return WorkExperience{}, err
	}
	return exp, nil
}

// UpdateExperience edits an experience entry owned by the caller.
func (s *Service) UpdateExperience(ctx context.Context, userID, experienceID string, input ExperienceInput) (WorkExperience, error) {
	exp, err := s.Repo.GetExperience(ctx, experienceID)
	if err != nil {
		return WorkExperience{}, err
	}
	if err := s.requireSectionOwner(ctx, userID, exp.SectionID); err != nil {
		return WorkExperience{}, err
	}

	if input.JobTitle != "" {
		exp.JobTitle = strings.TrimSpace(input.JobTitle)
	}
	if input.Company != "" {
		exp.Company = strings.TrimSpace(input.Company)
	}
	if input.Location != "" {
		exp.Location = strings.TrimSpace(input.Location)
	}
	if input.StartDate != nil {
		exp.StartDate = input.StartDate
	}
	if input.ClearEndDate {
		exp.EndDate = nil
	} else if input.EndDate != nil {
		exp.EndDate = input.EndDate
	}
	if input.Description != "" {
		exp.Description = input.Description
	}

	if err := s.Repo.UpdateExperience(ctx, exp); err != nil {
		return WorkExperience{}, err
	}
	return exp, nil
}

// DeleteExperience removes an experience entry owned by the caller.
func (s *Service) DeleteExperience(ctx context.Context, userID, experienceID string) error {
	exp, err := s.Repo.GetExperience(ctx, experienceID)
	if err != nil {
		return err
	}
	if err := s.requireSectionOwner(ctx, userID, exp.SectionID); err != nil {
		return err
	}
	return s.Repo.DeleteExperience(ctx, experienceID)
}

// CreateEducation attaches a new education entry to the resolved section,
// preferring an existing EDUCATION-typed section in the resume.
func (s *Service) CreateEducation(ctx context.Context, userID, resumeID string, input EducationInput) (Education, error) {
	if strings.TrimSpace(input.Institution) == "" {
		return Education{}, ErrInvalidInput
	}

	section, err := s.Resolver.ResolveNonSummary(ctx, userID, resumeID, ResolveOptions{
		SectionID:  input.SectionID,
		Title:      input.Title,
		PreferType: TypeEducation,
	})
	if err != nil {
		return Education{}, err
	}

	existing, err := s.Repo.ListEducations(ctx, section.ID)
	if err != nil {
		return Education{}, err
	}

	edu := Education{
		ID:           uuid.NewString(),
		SectionID:    section.ID,
		Institution:  strings.TrimSpace(input.Institution),
		Degree:       strings.TrimSpace(input.Degree),
		FieldOfStudy: strings.TrimSpace(input.FieldOfStudy),
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		Description:  input.Description,
		Position:     len(existing) + 1,
	}
	if err := s.Repo.CreateEducation(ctx, edu); err != nil {
		return Education{}, err
	}
	return edu, nil
}

// UpdateEducation edits an education entry owned by the caller.
func (s *Service) UpdateEducation(ctx context.Context, userID, educationID string, input EducationInput) (Education, error) {
	edu, err := s.Repo.GetEducation(ctx, educationID)
	if err != nil {
		return Education{}, err
	}
	if err := s.requireSectionOwner(ctx, userID, edu.SectionID); err != nil {
		return Education{}, err
	}

	if input.Institution != "" {
		edu.Institution = strings.TrimSpace(input.Institution)
	}
	if input.Degree != "" {
		edu.Degree = strings.TrimSpace(input.Degree)
	}
	if input.FieldOfStudy != "" {
		edu.FieldOfStudy = strings.TrimSpace(input.FieldOfStudy)
	}
	if input.StartDate != nil {
		edu.StartDate = input.StartDate
	}
	if input.ClearEndDate {
		edu.EndDate = nil
	} else if input.EndDate != nil {
		edu.EndDate = input.EndDate
	}
	if input.Description != "" {
		edu.Description = input.Description
	}

	if err := s.Repo.UpdateEducation(ctx, edu); err != nil {
		return Education{}, err
	}
	return edu, nil
}

// DeleteEducation removes an education entry owned by the caller.
func (s *Service) DeleteEducation(ctx context.Context, userID, educationID string) error {
	edu, err := s.Repo.GetEducation(ctx, educationID)
	if err != nil {
		return err
	}
	if err := s.requireSectionOwner(ctx, userID, edu.SectionID); err != nil {
		return err
	}
	return s.Repo.DeleteEducation(ctx, educationID)
}

// UpsertSummary creates or updates the resume's single SUMMARY section.
func (s *Service) UpsertSummary(ctx context.Context, userID, resumeID, title, content string) (SectionView, error) {
	if err := s.Auth.RequireResumeOwner(ctx, userID, resumeID); err != nil {
		return SectionView{}, err
	}

	section, err := s.Repo.FindTyped(ctx, resumeID, TypeSummary)
	if err == nil {
		if section.SummaryID == nil {
			return SectionView{}, errors.New("summary section without summary row")
		}
		if err := s.Repo.UpdateSummary(ctx, *section.SummaryID, content); err != nil {
			return SectionView{}, err
		}
		summary, err := s.Repo.GetSummary(ctx, *section.SummaryID)
		if err != nil {
			return SectionView{}, err
		}
		return SectionView{Section: section, Summary: &summary}, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return SectionView{}, err
	}

	summary := Summary{ID: uuid.NewString(), Content: content}
	now := time.Now().UTC()
	if title == "" {
		title = "Summary"
	}
	section = Section{
		ID:           uuid.NewString(),
		ResumeID:     resumeID,
		SectionType:  TypeSummary,
		SectionTitle: title,
		SummaryID:    &summary.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.CreateSummarySection(ctx, section, summary); err != nil {
		return SectionView{}, err
	}
	return SectionView{Section: section, Summary: &summary}, nil
}

// List returns a resume's sections with their contents.
func (s *Service) List(ctx context.Context, userID, resumeID string) ([]SectionView, error) {
	if err := s.Auth.RequireResumeOwner(ctx, userID, resumeID); err != nil {
		return nil, err
	}

	all, err := s.Repo.ListByResume(ctx, resumeID)
	if err != nil {
		return nil, err
	}

	views := make([]SectionView, 0, len(all))
	for _, section := range all {
		view := SectionView{Section: section}
		if section.SummaryID != nil {
			summary, err := s.Repo.GetSummary(ctx, *section.SummaryID)
			if err != nil && !errors.Is(err, ErrNotFound) {
				return nil, err
			}
			if err == nil {
				view.Summary = &summary
			}
		} else {
			if view.Experiences, err = s.Repo.ListExperiences(ctx, section.ID); err != nil {
				return nil, err
			}
			if view.Educations, err = s.Repo.ListEducations(ctx, section.ID); err != nil {
				return nil, err
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *Service) requireSectionOwner(ctx context.Context, userID, sectionID string) error {
	section, err := s.Repo.GetSection(ctx, sectionID)
	if err != nil {
		return err
	}
	return s.Auth.RequireResumeOwner(ctx, userID, section.ResumeID)
}
