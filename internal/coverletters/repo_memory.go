package coverletters

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory Repo used in tests and when no database is
// configured.
type MemoryRepo struct {
	mu        sync.RWMutex
	letters   map[string]CoverLetter
	templates map[string]Template
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		letters:   map[string]CoverLetter{},
		templates: map[string]Template{},
	}
}

func (r *MemoryRepo) CreateVersioned(ctx context.Context, letter CoverLetter) (CoverLetter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := 1
	for id, l := range r.letters {
		if l.JobID != letter.JobID {
			continue
		}
		if l.Version >= next {
			next = l.Version + 1
		}
		if l.IsCurrent {
			l.IsCurrent = false
			r.letters[id] = l
		}
	}

	now := time.Now().UTC()
	letter.ID = uuid.NewString()
	letter.Version = next
	letter.IsCurrent = true
	letter.CreatedAt = now
	letter.UpdatedAt = now
	r.letters[letter.ID] = letter
	return letter, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, coverLetterID string) (CoverLetter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.letters[coverLetterID]
	if !ok {
		return CoverLetter{}, ErrNotFound
	}
	return l, nil
}

func (r *MemoryRepo) ListByJob(ctx context.Context, jobID string) ([]CoverLetter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []CoverLetter
	for _, l := range r.letters {
		if l.JobID == jobID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version > out[j].Version })
	return out, nil
}

func (r *MemoryRepo) UpdateContent(ctx context.Context, coverLetterID, title, content string) (CoverLetter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.letters[coverLetterID]
	if !ok {
		return CoverLetter{}, ErrNotFound
	}
	l.Title = title
	l.Content = content
	l.UpdatedAt = time.Now().UTC()
	r.letters[coverLetterID] = l
	return l, nil
}

func (r *MemoryRepo) SetCurrent(ctx context.Context, jobID, coverLetterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.letters[coverLetterID]
	if !ok || target.JobID != jobID {
		return ErrNotFound
	}
	for id, l := range r.letters {
		if l.JobID != jobID {
			continue
		}
		l.IsCurrent = id == coverLetterID
		r.letters[id] = l
	}
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, coverLetterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.letters[coverLetterID]; !ok {
		return ErrNotFound
	}
	delete(r.letters, coverLetterID)
	return nil
}

func (r *MemoryRepo) CreateTemplate(ctx context.Context, tpl Template) (Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	tpl.ID = uuid.NewString()
	tpl.CreatedAt = now
	tpl.UpdatedAt = now
	if tpl.IsDefault {
		r.clearDefaultLocked(tpl.UserID)
	}
	r.templates[tpl.ID] = tpl
	return tpl, nil
}

func (r *MemoryRepo) GetTemplate(ctx context.Context, templateID string) (Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[templateID]
	if !ok {
		return Template{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryRepo) ListTemplates(ctx context.Context, userID string) ([]Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Template
	for _, t := range r.templates {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepo) UpdateTemplate(ctx context.Context, tpl Template) (Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.templates[tpl.ID]
	if !ok {
		return Template{}, ErrNotFound
	}
	existing.Title = tpl.Title
	existing.Content = tpl.Content
	existing.UpdatedAt = time.Now().UTC()
	r.templates[tpl.ID] = existing
	return existing, nil
}

func (r *MemoryRepo) SetDefaultTemplate(ctx context.Context, userID, templateID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.templates[templateID]
	if !ok || target.UserID != userID {
		return ErrNotFound
	}
	r.clearDefaultLocked(userID)
	target.IsDefault = true
	target.UpdatedAt = time.Now().UTC()
	r.templates[templateID] = target
	return nil
}

func (r *MemoryRepo) DeleteTemplate(ctx context.Context, templateID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[templateID]; !ok {
		return ErrNotFound
	}
	delete(r.templates, templateID)
	return nil
}

func (r *MemoryRepo) clearDefaultLocked(userID string) {
	for id, t := range r.templates {
		if t.UserID == userID && t.IsDefault {
			t.IsDefault = false
			r.templates[id] = t
		}
	}
}
