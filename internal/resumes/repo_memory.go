package resumes

import (
	"context"
	"sort"
	"sync"
)

// SectionPurger removes all sections (and their children) for a resume.
// Implemented by the sections repository; the memory repo calls it from
// Delete to mirror the Postgres ON DELETE CASCADE.
type SectionPurger interface {
	DeleteByResume(ctx context.Context, resumeID string) error
}

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	// Sections, when set, is purged together with the resume.
	Sections SectionPurger

	mu      sync.RWMutex
	data    map[string]Resume      // resumeID -> resume
	contact map[string]ContactInfo // resumeID -> contact info
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data:    make(map[string]Resume),
		contact: make(map[string]ContactInfo),
	}
}

// Create stores a resume.
func (r *MemoryRepo) Create(ctx context.Context, resume Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[resume.ID] = resume
	return nil
}

// GetByID returns a resume by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, resumeID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	resume, ok := r.data[resumeID]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return resume, nil
}

// ListByUser returns a user's resumes, newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Resume{}
	for _, resume := range r.data {
		if resume.UserID == userID {
			out = append(out, resume)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// UpdateTitle updates a resume title.
func (r *MemoryRepo) UpdateTitle(ctx context.Context, resumeID, title string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	resume, ok := r.data[resumeID]
	if !ok {
		return ErrNotFound
	}
	resume.Title = title
	r.data[resumeID] = resume
	return nil
}

// Delete removes the resume with its contact info and sections.
func (r *MemoryRepo) Delete(ctx context.Context, resumeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	if _, ok := r.data[resumeID]; !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	delete(r.data, resumeID)
	delete(r.contact, resumeID)
	r.mu.Unlock()

	if r.Sections != nil {
		return r.Sections.DeleteByResume(ctx, resumeID)
	}
	return nil
}

// UpsertContactInfo creates or replaces the contact block of a resume.
func (r *MemoryRepo) UpsertContactInfo(ctx context.Context, info ContactInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[info.ResumeID]; !ok {
		return ErrNotFound
	}
	if existing, ok := r.contact[info.ResumeID]; ok {
		info.ID = existing.ID
	}
	r.contact[info.ResumeID] = info
	return nil
}

// GetContactInfo returns the contact block of a resume.
func (r *MemoryRepo) GetContactInfo(ctx context.Context, resumeID string) (ContactInfo, error) {
	if err := ctx.Err(); err != nil {
		return ContactInfo{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.contact[resumeID]
	if !ok {
		return ContactInfo{}, ErrNotFound
	}
	return info, nil
}

// OwnerOf returns the user owning a resume.
func (r *MemoryRepo) OwnerOf(ctx context.Context, resumeID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	resume, ok := r.data[resumeID]
	if !ok {
		return "", ErrNotFound
	}
	return resume.UserID, nil
}

// ListIDsByUser returns the IDs of all resumes owned by a user.
func (r *MemoryRepo) ListIDsByUser(ctx context.Context, userID string) ([]string, error) {
	resumesByUser, err := r.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(resumesByUser))
	for _, resume := range resumesByUser {
		ids = append(ids, resume.ID)
	}
	return ids, nil
}
