package resumes

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobtrack-backend/internal/profiles"
	"jobtrack-backend/internal/shared/authz"
)

// Service contains business logic for resumes.
type Service struct {
	Repo     Repo
	Profiles *profiles.Service
	Auth     *authz.Authorizer
}

// Create makes a new resume under the caller's profile, creating the profile
// on first use.
func (s *Service) Create(ctx context.Context, userID, title string) (Resume, error) {
	if strings.TrimSpace(userID) == "" {
		return Resume{}, ErrInvalidInput
	}

	profile, err := s.Profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return Resume{}, err
	}

	now := time.Now().UTC()
	resume := Resume{
		ID:        uuid.NewString(),
		ProfileID: profile.ID,
		UserID:    userID,
		Title:     strings.TrimSpace(title),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, resume); err != nil {
		return Resume{}, err
	}
	return resume, nil
}

// Get returns a resume owned by the caller.
func (s *Service) Get(ctx context.Context, userID, resumeID string) (Resume, error) {
	if err := s.Auth.RequireResumeOwner(ctx, userID, resumeID); err != nil {
		return Resume{}, err
	}
	return s.Repo.GetByID(ctx, resumeID)
}

// List returns the caller's resumes.
func (s *Service) List(ctx context.Context, userID string) ([]Resume, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID)
}

// Rename updates a resume title.
func (s *Service) Rename(ctx context.Context, userID, resumeID, title string) (Resume, error) {
	if err := s.Auth.RequireResumeOwner(ctx, userID, resumeID); err != nil {
		return Resume{}, err
	}
	if err := s.Repo.UpdateTitle(ctx, resumeID, strings.TrimSpace(title)); err != nil {
		return Resume{}, err
	}
	return s.Repo.GetByID(ctx, resumeID)
}

// Delete removes a resume. The repository cascades to contact info,
// sections, and section children in the same transaction.
func (s *Service) Delete(ctx context.Context, userID, resumeID string) error {
	if err := s.Auth.RequireResumeOwner(ctx, userID, resumeID); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, resumeID)
}

// SetContactInfo creates or replaces the resume's contact block.
func (s *Service) SetContactInfo(ctx context.Context, userID string, info ContactInfo) (ContactInfo, error) {
	if strings.TrimSpace(info.ResumeID) == "" {
		return ContactInfo{}, ErrInvalidInput
	}
	if err := s.Auth.RequireResumeOwner(ctx, userID, info.ResumeID); err != nil {
		return ContactInfo{}, err
	}
	if info.ID == "" {
		info.ID = uuid.NewString()
	}
	if err := s.Repo.UpsertContactInfo(ctx, info); err != nil {
		return ContactInfo{}, err
	}
	return s.Repo.GetContactInfo(ctx, info.ResumeID)
}

// ContactInfo returns the resume's contact block.
func (s *Service) ContactInfo(ctx context.Context, userID, resumeID string) (ContactInfo, error) {
	if err := s.Auth.RequireResumeOwner(ctx, userID, resumeID); err != nil {
		return ContactInfo{}, err
	}
	return s.Repo.GetContactInfo(ctx, resumeID)
}
