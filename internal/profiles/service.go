package profiles

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service contains business logic for profiles.
type Service struct {
	Repo Repo
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// GetOrCreate returns the profile for a user, creating it on first use.
func (s *Service) GetOrCreate(ctx context.Context, userID string) (Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return Profile{}, ErrInvalidInput
	}

	profile, err := s.Repo.GetByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Profile{}, err
	}

	profile = Profile{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, profile); err != nil {
		// Lost a create race; the winner's row is the profile.
		if existing, getErr := s.Repo.GetByUserID(ctx, userID); getErr == nil {
			return existing, nil
		}
		return Profile{}, err
	}
	return profile, nil
}

// UpdateHeadline sets the profile headline for a user.
func (s *Service) UpdateHeadline(ctx context.Context, userID, headline string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrInvalidInput
	}
	return s.Repo.UpdateHeadline(ctx, userID, headline)
}
