package jobs

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobtrack-backend/internal/shared/authz"
)

// Input carries the mutable fields of a job.
type Input struct {
	ResumeID  *string
	Title     string
	Company   string
	Location  string
	URL       string
	Status    string
	Notes     string
	AppliedAt *time.Time
}

// Service contains business logic for tracked jobs.
type Service struct {
	Repo Repo
	Auth *authz.Authorizer
}

// Create logs a new job for the caller.
func (s *Service) Create(ctx context.Context, userID string, input Input) (Job, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(input.Title) == "" {
		return Job{}, ErrInvalidInput
	}
	status := input.Status
	if status == "" {
		status = StatusSaved
	}
	if !ValidStatus(status) {
		return Job{}, ErrInvalidInput
	}
	if input.ResumeID != nil {
		if err := s.Auth.RequireResumeOwner(ctx, userID, *input.ResumeID); err != nil {
			return Job{}, err
		}
	}

	now := time.Now().UTC()
	job := Job{
		ID:        uuid.NewString(),
		UserID:    userID,
		ResumeID:  input.ResumeID,
		Title:     strings.TrimSpace(input.Title),
		Company:   strings.TrimSpace(input.Company),
		Location:  strings.TrimSpace(input.Location),
		URL:       strings.TrimSpace(input.URL),
		Status:    status,
		Notes:     input.Notes,
		AppliedAt: input.AppliedAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, job); err != nil {
		return Job{}, err
	}
	return job, nil
}

// Get returns a job owned by the caller.
func (s *Service) Get(ctx context.Context, userID, jobID string) (Job, error) {
	if err := s.Auth.RequireJobOwner(ctx, userID, jobID); err != nil {
		return Job{}, err
	}
	return s.Repo.GetByID(ctx, jobID)
}

// List returns the caller's jobs.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Job, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Update edits a job owned by the caller.
func (s *Service) Update(ctx context.Context, userID, jobID string, input Input) (Job, error) {
	if err := s.Auth.RequireJobOwner(ctx, userID, jobID); err != nil {
		return Job{}, err
	}
	job, err := s.Repo.GetByID(ctx, jobID)
	if err != nil {
		return Job{}, err
	}

	if input.Title != "" {
		job.Title = strings.TrimSpace(input.Title)
	}
	if input.Company != "" {
		job.Company = strings.TrimSpace(input.Company)
	}
	if input.Location != "" {
		job.Location = strings.TrimSpace(input.Location)
	}
	if input.URL != "" {
		job.URL = strings.TrimSpace(input.URL)
	}
	if input.Status != "" {
		if !ValidStatus(input.Status) {
			return Job{}, ErrInvalidInput
		}
		job.Status = input.Status
		if input.Status == StatusApplied && job.AppliedAt == nil {
			now := time.Now().UTC()
			job.AppliedAt = &now
		}
	}
	if input.Notes != "" {
		job.Notes = input.Notes
	}
	if input.AppliedAt != nil {
		job.AppliedAt = input.AppliedAt
	}
	if input.ResumeID != nil {
		if err := s.Auth.RequireResumeOwner(ctx, userID, *input.ResumeID); err != nil {
			return Job{}, err
		}
		job.ResumeID = input.ResumeID
	}

	if err := s.Repo.Update(ctx, job); err != nil {
		return Job{}, err
	}
	return job, nil
}

// Delete removes a job owned by the caller.
func (s *Service) Delete(ctx context.Context, userID, jobID string) error {
	if err := s.Auth.RequireJobOwner(ctx, userID, jobID); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, jobID)
}
