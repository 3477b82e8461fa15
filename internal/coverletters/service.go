package coverletters

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jobtrack-backend/internal/shared/authz"
	"jobtrack-backend/internal/shared/telemetry"
)

// Service owns cover letter versioning. Writes surface
// ErrSchemaUnprovisioned; reads degrade to empty results so a job page still
// renders on deployments that have not run the cover letter migration yet.
type Service struct {
	Repo Repo
	Auth *authz.Authorizer
}

type CreateInput struct {
	Title      string
	Content    string
	TemplateID *string
}

type UpdateInput struct {
	Title   string
	Content string
}

func (s *Service) Create(ctx context.Context, userID, jobID string, in CreateInput) (CoverLetter, error) {
	if err := s.Auth.RequireJobOwner(ctx, userID, jobID); err != nil {
		return CoverLetter{}, err
	}

	title := strings.TrimSpace(in.Title)
	content := in.Content
	if in.TemplateID != nil {
		tpl, err := s.ownedTemplate(ctx, userID, *in.TemplateID)
		if err != nil {
			return CoverLetter{}, err
		}
		if title == "" {
			title = tpl.Title
		}
		if content == "" {
			content = tpl.Content
		}
	}
	if title == "" {
		return CoverLetter{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	created, err := s.Repo.CreateVersioned(ctx, CoverLetter{
		JobID:      jobID,
		Title:      title,
		Content:    content,
		TemplateID: in.TemplateID,
	})
	if err != nil {
		return CoverLetter{}, err
	}
	telemetry.Info("coverletters.created", map[string]any{
		"job_id":  jobID,
		"version": created.Version,
	})
	return created, nil
}

func (s *Service) List(ctx context.Context, userID, jobID string) ([]CoverLetter, error) {
	if err := s.Auth.RequireJobOwner(ctx, userID, jobID); err != nil {
		return nil, err
	}
	letters, err := s.Repo.ListByJob(ctx, jobID)
	if errors.Is(err, ErrSchemaUnprovisioned) {
		telemetry.Warn("coverletters.schema_unprovisioned", map[string]any{"job_id": jobID})
		return []CoverLetter{}, nil
	}
	if err != nil {
		return nil, err
	}
	if letters == nil {
		letters = []CoverLetter{}
	}
	return letters, nil
}

func (s *Service) Get(ctx context.Context, userID, coverLetterID string) (CoverLetter, error) {
	return s.ownedLetter(ctx, userID, coverLetterID)
}

func (s *Service) Update(ctx context.Context, userID, coverLetterID string, in UpdateInput) (CoverLetter, error) {
	letter, err := s.ownedLetter(ctx, userID, coverLetterID)
	if err != nil {
		return CoverLetter{}, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = letter.Title
	}
	return s.Repo.UpdateContent(ctx, coverLetterID, title, in.Content)
}

// SetAsCurrent promotes one of the job's letters to current. The unset/set
// pair happens in a single repo operation, so there is no window where the
// job has no current letter.
func (s *Service) SetAsCurrent(ctx context.Context, userID, coverLetterID string) (CoverLetter, error) {
	letter, err := s.ownedLetter(ctx, userID, coverLetterID)
	if err != nil {
		return CoverLetter{}, err
	}
	if err := s.Repo.SetCurrent(ctx, letter.JobID, coverLetterID); err != nil {
		return CoverLetter{}, err
	}
	letter.IsCurrent = true
	return letter, nil
}

func (s *Service) Delete(ctx context.Context, userID, coverLetterID string) error {
	letter, err := s.ownedLetter(ctx, userID, coverLetterID)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, coverLetterID); err != nil {
		return err
	}
	// Deleting the current letter leaves the newest remaining version
	// current, matching what a user expects after discarding a draft.
	if letter.IsCurrent {
		remaining, err := s.Repo.ListByJob(ctx, letter.JobID)
		if err != nil || len(remaining) == 0 {
			return err
		}
		return s.Repo.SetCurrent(ctx, letter.JobID, remaining[0].ID)
	}
	return nil
}

type TemplateInput struct {
	Title     string
	Content   string
	IsDefault bool
}

func (s *Service) CreateTemplate(ctx context.Context, userID string, in TemplateInput) (Template, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Template{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	return s.Repo.CreateTemplate(ctx, Template{
		UserID:    userID,
		Title:     title,
		Content:   in.Content,
		IsDefault: in.IsDefault,
	})
}

func (s *Service) GetTemplate(ctx context.Context, userID, templateID string) (Template, error) {
	return s.ownedTemplate(ctx, userID, templateID)
}

func (s *Service) ListTemplates(ctx context.Context, userID string) ([]Template, error) {
	templates, err := s.Repo.ListTemplates(ctx, userID)
	if errors.Is(err, ErrSchemaUnprovisioned) {
		telemetry.Warn("coverletters.schema_unprovisioned", map[string]any{"user_id": userID})
		return []Template{}, nil
	}
	if err != nil {
		return nil, err
	}
	if templates == nil {
		templates = []Template{}
	}
	return templates, nil
}

func (s *Service) UpdateTemplate(ctx context.Context, userID, templateID string, in TemplateInput) (Template, error) {
	tpl, err := s.ownedTemplate(ctx, userID, templateID)
	if err != nil {
		return Template{}, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = tpl.Title
	}
	updated, err := s.Repo.UpdateTemplate(ctx, Template{ID: templateID, Title: title, Content: in.Content})
	if err != nil {
		return Template{}, err
	}
	if in.IsDefault && !tpl.IsDefault {
		if err := s.Repo.SetDefaultTemplate(ctx, userID, templateID); err != nil {
			return Template{}, err
		}
		updated.IsDefault = true
	}
	return updated, nil
}

func (s *Service) SetDefaultTemplate(ctx context.Context, userID, templateID string) error {
	if _, err := s.ownedTemplate(ctx, userID, templateID); err != nil {
		return err
	}
	return s.Repo.SetDefaultTemplate(ctx, userID, templateID)
}

func (s *Service) DeleteTemplate(ctx context.Context, userID, templateID string) error {
	if _, err := s.ownedTemplate(ctx, userID, templateID); err != nil {
		return err
	}
	return s.Repo.DeleteTemplate(ctx, templateID)
}

// ownedLetter loads a letter and checks the caller owns the job it belongs
// to.
func (s *Service) ownedLetter(ctx context.Context, userID, coverLetterID string) (CoverLetter, error) {
	letter, err := s.Repo.GetByID(ctx, coverLetterID)
	if err != nil {
		return CoverLetter{}, err
	}
	if err := s.Auth.RequireJobOwner(ctx, userID, letter.JobID); err != nil {
		return CoverLetter{}, err
	}
	return letter, nil
}

func (s *Service) ownedTemplate(ctx context.Context, userID, templateID string) (Template, error) {
	tpl, err := s.Repo.GetTemplate(ctx, templateID)
	if err != nil {
		return Template{}, err
	}
	if tpl.UserID != userID {
		return Template{}, ErrNotFound
	}
	return tpl, nil
}
