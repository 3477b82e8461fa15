package sections

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo. It reproduces the
// whole-table summary-ID uniqueness of the SQL schema, NULLs included.
type MemoryRepo struct {
	mu        sync.RWMutex
	sections  map[string]Section
	summaries map[string]Summary
	exps      map[string]WorkExperience
	edus      map[string]Education
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		sections:  make(map[string]Section),
		summaries: make(map[string]Summary),
		exps:      make(map[string]WorkExperience),
		edus:      make(map[string]Education),
	}
}

// GetSection returns a section by ID.
func (r *MemoryRepo) GetSection(ctx context.Context, sectionID string) (Section, error) {
	if err := ctx.Err(); err != nil {
		return Section{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	section, ok := r.sections[sectionID]
	if !ok {
		return Section{}, ErrNotFound
	}
	return section, nil
}

// ListByResume returns a resume's sections in position order.
func (r *MemoryRepo) ListByResume(ctx context.Context, resumeID string) ([]Section, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Section{}
	for _, section := range r.sections {
		if section.ResumeID == resumeID {
			out = append(out, section)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// FindNullSummary returns the nil-SummaryID section within the given resumes,
// oldest first, or ErrNotFound.
func (r *MemoryRepo) FindNullSummary(ctx context.Context, resumeIDs []string) (Section, error) {
	if err := ctx.Err(); err != nil {
		return Section{}, err
	}
	wanted := make(map[string]struct{}, len(resumeIDs))
	for _, id := range resumeIDs {
		wanted[id] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	candidates := []Section{}
	for _, section := range r.sections {
		if section.SummaryID != nil {
			continue
		}
		if _, ok := wanted[section.ResumeID]; ok {
			candidates = append(candidates, section)
		}
	}
	if len(candidates) == 0 {
		return Section{}, ErrNotFound
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})
	return candidates[0], nil
}

// FindTyped returns the oldest section of the given type within a resume.
func (r *MemoryRepo) FindTyped(ctx context.Context, resumeID string, sectionType SectionType) (Section, error) {
	if err := ctx.Err(); err != nil {
		return Section{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	candidates := []Section{}
	for _, section := range r.sections {
		if section.ResumeID == resumeID && section.SectionType == sectionType {
			candidates = append(candidates, section)
		}
	}
	if len(candidates) == 0 {
		return Section{}, ErrNotFound
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})
	return candidates[0], nil
}

// CreateSection stores a section, enforcing the table-wide summary-ID
// uniqueness with NULLs participating.
func (r *MemoryRepo) CreateSection(ctx context.Context, section Section) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.sections {
		if section.SummaryID == nil && existing.SummaryID == nil {
			return ErrNullSummaryTaken
		}
		if section.SummaryID != nil && existing.SummaryID != nil && *existing.SummaryID == *section.SummaryID {
			return ErrInvalidInput
		}
	}
	r.sections[section.ID] = section
	return nil
}

// Reparent moves a section to another resume. An empty title keeps the
// section's existing one.
func (r *MemoryRepo) Reparent(ctx context.Context, sectionID, resumeID, title string) (Section, error) {
	if err := ctx.Err(); err != nil {
		return Section{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	section, ok := r.sections[sectionID]
	if !ok {
		return Section{}, ErrNotFound
	}
	section.ResumeID = resumeID
	if title != "" {
		section.SectionTitle = title
	}
	section.UpdatedAt = time.Now().UTC()
	r.sections[sectionID] = section
	return section, nil
}

// DeleteByResume removes a resume's sections with their summaries and
// children in one locked step.
func (r *MemoryRepo) DeleteByResume(ctx context.Context, resumeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, section := range r.sections {
		if section.ResumeID != resumeID {
			continue
		}
		if section.SummaryID != nil {
			delete(r.summaries, *section.SummaryID)
		}
		for expID, exp := range r.exps {
			if exp.SectionID == id {
				delete(r.exps, expID)
			}
		}
		for eduID, edu := range r.edus {
			if edu.SectionID == id {
				delete(r.edus, eduID)
			}
		}
		delete(r.sections, id)
	}
	return nil
}

// CreateSummarySection stores a SUMMARY section together with its summary row
// in one locked step.
func (r *MemoryRepo) CreateSummarySection(ctx context.Context, section Section, summary Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if section.SummaryID == nil || *section.SummaryID != summary.ID {
		return ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.sections {
		if existing.SummaryID != nil && *existing.SummaryID == summary.ID {
			return ErrInvalidInput
		}
	}
	r.summaries[summary.ID] = summary
	r.sections[section.ID] = section
	return nil
}

// GetSummary returns a summary row by ID.
func (r *MemoryRepo) GetSummary(ctx context.Context, summaryID string) (Summary, error) {
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	summary, ok := r.summaries[summaryID]
	if !ok {
		return Summary{}, ErrNotFound
	}
	return summary, nil
}

// UpdateSummary replaces the content of a summary row.
func (r *MemoryRepo) UpdateSummary(ctx context.Context, summaryID, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	summary, ok := r.summaries[summaryID]
	if !ok {
		return ErrNotFound
	}
	summary.Content = content
	r.summaries[summaryID] = summary
	return nil
}

// CreateExperience stores an experience entry.
func (r *MemoryRepo) CreateExperience(ctx context.Context, exp WorkExperience) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sections[exp.SectionID]; !ok {
		return ErrNotFound
	}
	r.exps[exp.ID] = exp
	return nil
}

// GetExperience returns an experience entry by ID.
func (r *MemoryRepo) GetExperience(ctx context.Context, experienceID string) (WorkExperience, error) {
	if err := ctx.Err(); err != nil {
		return WorkExperience{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	exp, ok := r.exps[experienceID]
	if !ok {
		return WorkExperience{}, ErrNotFound
	}
	return exp, nil
}

// UpdateExperience replaces an experience entry.
func (r *MemoryRepo) UpdateExperience(ctx context.Context, exp WorkExperience) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exps[exp.ID]; !ok {
		return ErrNotFound
	}
	r.exps[exp.ID] = exp
	return nil
}

// DeleteExperience removes an experience entry.
func (r *MemoryRepo) DeleteExperience(ctx context.Context, experienceID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exps[experienceID]; !ok {
		return ErrNotFound
	}
	delete(r.exps, experienceID)
	return nil
}

// ListExperiences returns a section's experience entries in position order.
func (r *MemoryRepo) ListExperiences(ctx context.Context, sectionID string) ([]WorkExperience, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []WorkExperience{}
	for _, exp := range r.exps {
		if exp.SectionID == sectionID {
			out = append(out, exp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// CreateEducation stores an education entry.
func (r *MemoryRepo) CreateEducation(ctx context.Context, edu Education) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sections[edu.SectionID]; !ok {
		return ErrNotFound
	}
	r.edus[edu.ID] = edu
	return nil
}

// GetEducation returns an education entry by ID.
func (r *MemoryRepo) GetEducation(ctx context.Context, educationID string) (Education, error) {
	if err := ctx.Err(); err != nil {
		return Education{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	edu, ok := r.edus[educationID]
	if !ok {
		return Education{}, ErrNotFound
	}
	return edu, nil
}

// UpdateEducation replaces an education entry.
func (r *MemoryRepo) UpdateEducation(ctx context.Context, edu Education) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.edus[edu.ID]; !ok {
		return ErrNotFound
	}
	r.edus[edu.ID] = edu
	return nil
}

// DeleteEducation removes an education entry.
func (r *MemoryRepo) DeleteEducation(ctx context.Context, educationID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.edus[educationID]; !ok {
		return ErrNotFound
	}
	delete(r.edus, educationID)
	return nil
}

// ListEducations returns a section's education entries in position order.
func (r *MemoryRepo) ListEducations(ctx context.Context, sectionID string) ([]Education, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Education{}
	for _, edu := range r.edus {
		if edu.SectionID == sectionID {
			out = append(out, edu)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}
