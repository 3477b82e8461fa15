package profiles

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Profile // userID -> profile
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Profile)}
}

// Create stores a profile keyed by its user.
func (r *MemoryRepo) Create(ctx context.Context, profile Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[profile.UserID]; exists {
		return ErrInvalidInput
	}
	r.data[profile.UserID] = profile
	return nil
}

// GetByUserID returns the profile for a user.
func (r *MemoryRepo) GetByUserID(ctx context.Context, userID string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.data[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return profile, nil
}

// UpdateHeadline updates the profile headline for a user.
func (r *MemoryRepo) UpdateHeadline(ctx context.Context, userID, headline string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.data[userID]
	if !ok {
		return ErrNotFound
	}
	profile.Headline = headline
	r.data[userID] = profile
	return nil
}
