package sections

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"jobtrack-backend/internal/shared/authz"
	"jobtrack-backend/internal/shared/telemetry"
)

// ResolveOptions carries the caller's hints for section resolution.
type ResolveOptions struct {
	// SectionID pins the target section explicitly; resolution is then just
	// an ownership check.
	SectionID string

	// Title is applied only when a section is created, or re-parented while
	// untitled.
	Title string

	// PreferType, when set, makes the resolver try an existing section of
	// that type in the resume before touching the nil-summary slot.
	PreferType SectionType
}

// Resolver finds or creates the section an experience/education entry
// attaches to.
//
// The storage layer permits exactly one nil-summary_id section across all
// users, so a section cannot always be created where it belongs. Resolution
// therefore walks outward: the target resume's own slot, then any slot among
// the caller's other resumes (re-parented over), and only then a fresh
// insert, retrying the search once if the insert loses the global slot to a
// concurrent request.
type Resolver struct {
	Repo    Repo
	Resumes authz.ResumeDirectory
	Auth    *authz.Authorizer
}

// ResolveNonSummary returns the section a new experience or education entry
// should attach to, creating or re-parenting one only if strictly necessary.
func (r *Resolver) ResolveNonSummary(ctx context.Context, userID, resumeID string, opts ResolveOptions) (Section, error) {
	if userID == "" || resumeID == "" {
		return Section{}, ErrInvalidInput
	}
	if err := r.Auth.RequireResumeOwner(ctx, userID, resumeID); err != nil {
		return Section{}, err
	}

	// Step 1: explicit section, ownership check only.
	if opts.SectionID != "" {
		section, err := r.Repo.GetSection(ctx, opts.SectionID)
		if err != nil {
			return Section{}, err
		}
		if section.ResumeID != resumeID {
			return Section{}, authz.ErrAccessDenied
		}
		return section, nil
	}

	// Typed preference: keep semantically-typed sections stable when one
	// already exists in the resume.
	if opts.PreferType != "" && opts.PreferType != TypeSummary {
		typed, err := r.Repo.FindTyped(ctx, resumeID, opts.PreferType)
		if err == nil {
			return typed, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Section{}, err
		}
	}

	// Step 2: the resume's own nil-summary section, returned untouched. It
	// may already hold the opposite entry type; type and title stay as they
	// are.
	section, err := r.Repo.FindNullSummary(ctx, []string{resumeID})
	if err == nil {
		return section, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Section{}, err
	}

	// Step 3: the slot may live under another of the caller's resumes.
	section, err = r.reparentFromUser(ctx, userID, resumeID, opts.Title)
	if err == nil {
		return section, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Section{}, err
	}

	// Step 4: claim the global slot with a fresh section.
	sectionType := opts.PreferType
	if sectionType == "" {
		sectionType = TypeExperience
	}
	now := time.Now().UTC()
	fresh := Section{
		ID:           uuid.NewString(),
		ResumeID:     resumeID,
		SectionType:  sectionType,
		SectionTitle: opts.Title,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = r.Repo.CreateSection(ctx, fresh)
	if err == nil {
		return fresh, nil
	}
	if !errors.Is(err, ErrNullSummaryTaken) {
		return Section{}, err
	}

	// Lost the insert race. The winner may be one of the caller's own
	// resumes (a concurrent request on their behalf), so search once more
	// before giving up.
	telemetry.Warn("sections.null_slot_conflict", map[string]any{
		"user_id":   userID,
		"resume_id": resumeID,
	})
	section, err = r.reparentFromUser(ctx, userID, resumeID, opts.Title)
	if err == nil {
		return section, nil
	}
	if errors.Is(err, ErrNotFound) {
		return Section{}, ErrSectionQuotaExceeded
	}
	return Section{}, err
}

// reparentFromUser searches all of the user's resumes for the nil-summary
// section and moves it under resumeID. The move keeps the section's title
// unless the caller supplied one and the section had none.
func (r *Resolver) reparentFromUser(ctx context.Context, userID, resumeID, title string) (Section, error) {
	ids, err := r.Resumes.ListIDsByUser(ctx, userID)
	if err != nil {
		return Section{}, err
	}
	section, err := r.Repo.FindNullSummary(ctx, ids)
	if err != nil {
		return Section{}, err
	}
	if section.ResumeID == resumeID {
		return section, nil
	}

	newTitle := ""
	if title != "" && section.SectionTitle == "" {
		newTitle = title
	}
	moved, err := r.Repo.Reparent(ctx, section.ID, resumeID, newTitle)
	if err != nil {
		return Section{}, err
	}
	telemetry.Info("sections.reparented", map[string]any{
		"section_id":  moved.ID,
		"from_resume": section.ResumeID,
		"to_resume":   resumeID,
		"user_id":     userID,
	})
	return moved, nil
}
