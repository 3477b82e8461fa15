package sections

import (
	"context"
	"errors"
	"testing"

	"jobtrack-backend/internal/shared/authz"
)

// fakeResumeDir maps resume IDs to owners without pulling in the resumes
// package.
type fakeResumeDir struct {
	owners map[string]string
}

func (d fakeResumeDir) OwnerOf(ctx context.Context, resumeID string) (string, error) {
	owner, ok := d.owners[resumeID]
	if !ok {
		return "", authz.ErrNotFound
	}
	return owner, nil
}

func (d fakeResumeDir) ListIDsByUser(ctx context.Context, userID string) ([]string, error) {
	var out []string
	for id, owner := range d.owners {
		if owner == userID {
			out = append(out, id)
		}
	}
	return out, nil
}

func newResolver(repo Repo, owners map[string]string) *Resolver {
	dir := fakeResumeDir{owners: owners}
	return &Resolver{
		Repo:    repo,
		Resumes: dir,
		Auth:    &authz.Authorizer{Resumes: dir},
	}
}

func TestResolveCreatesSectionWhenSlotFree(t *testing.T) {
	repo := NewMemoryRepo()
	r := newResolver(repo, map[string]string{"r1": "u1"})

	section, err := r.ResolveNonSummary(context.Background(), "u1", "r1", ResolveOptions{Title: "Experience"})
	if err != nil {
		t.Fatalf("ResolveNonSummary: %v", err)
	}
	if section.ResumeID != "r1" {
		t.Fatalf("resume = %q, want r1", section.ResumeID)
	}
	if section.SectionType != TypeExperience {
		t.Fatalf("type = %q, want %q", section.SectionType, TypeExperience)
	}
	if section.SectionTitle != "Experience" {
		t.Fatalf("title = %q, want Experience", section.SectionTitle)
	}
	if section.SummaryID != nil {
		t.Fatalf("expected nil summary id")
	}
}

func TestResolveReusesOwnSlotUntouched(t *testing.T) {
	repo := NewMemoryRepo()
	seed := Section{ID: "s1", ResumeID: "r1", SectionType: TypeEducation, SectionTitle: "Schooling"}
	if err := repo.CreateSection(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}
	r := newResolver(repo, map[string]string{"r1": "u1"})

	// Asking for an experience home still reuses the education-typed slot;
	// type and title stay as they are.
	section, err := r.ResolveNonSummary(context.Background(), "u1", "r1", ResolveOptions{Title: "Work"})
	if err != nil {
		t.Fatalf("ResolveNonSummary: %v", err)
	}
	if section.ID != "s1" {
		t.Fatalf("section = %q, want s1", section.ID)
	}
	if section.SectionType != TypeEducation || section.SectionTitle != "Schooling" {
		t.Fatalf("section mutated: %+v", section)
	}
}

func TestResolveReparentsFromAnotherResume(t *testing.T) {
	repo := NewMemoryRepo()
	seed := Section{ID: "s1", ResumeID: "r1", SectionType: TypeExperience}
	if err := repo.CreateSection(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}
	r := newResolver(repo, map[string]string{"r1": "u1", "r2": "u1"})

	section, err := r.ResolveNonSummary(context.Background(), "u1", "r2", ResolveOptions{Title: "Experience"})
	if err != nil {
		t.Fatalf("ResolveNonSummary: %v", err)
	}
	if section.ID != "s1" {
		t.Fatalf("section = %q, want reparented s1", section.ID)
	}
	if section.ResumeID != "r2" {
		t.Fatalf("resume = %q, want r2", section.ResumeID)
	}
	// The slot was untitled, so the caller's title lands on it.
	if section.SectionTitle != "Experience" {
		t.Fatalf("title = %q, want Experience", section.SectionTitle)
	}
}

func TestResolveReparentKeepsExistingTitle(t *testing.T) {
	repo := NewMemoryRepo()
	seed := Section{ID: "s1", ResumeID: "r1", SectionType: TypeExperience, SectionTitle: "Old Roles"}
	if err := repo.CreateSection(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}
	r := newResolver(repo, map[string]string{"r1": "u1", "r2": "u1"})

	section, err := r.ResolveNonSummary(context.Background(), "u1", "r2", ResolveOptions{Title: "Experience"})
	if err != nil {
		t.Fatalf("ResolveNonSummary: %v", err)
	}
	if section.SectionTitle != "Old Roles" {
		t.Fatalf("title = %q, want Old Roles", section.SectionTitle)
	}
}

func TestResolveQuotaExceededWhenSlotHeldByOtherUser(t *testing.T) {
	repo := NewMemoryRepo()
	seed := Section{ID: "s1", ResumeID: "other", SectionType: TypeExperience}
	if err := repo.CreateSection(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}
	r := newResolver(repo, map[string]string{"r1": "u1", "other": "u2"})

	_, err := r.ResolveNonSummary(context.Background(), "u1", "r1", ResolveOptions{})
	if !errors.Is(err, ErrSectionQuotaExceeded) {
		t.Fatalf("err = %v, want ErrSectionQuotaExceeded", err)
	}
}

// conflictRepo simulates losing the insert race: the first CreateSection
// fails with ErrNullSummaryTaken and plants the winning section under
// another of the caller's resumes, as a concurrent request would.
type conflictRepo struct {
	*MemoryRepo
	conflicted bool
}

func (r *conflictRepo) CreateSection(ctx context.Context, section Section) error {
	if !r.conflicted && section.SummaryID == nil {
		r.conflicted = true
		winner := Section{ID: "winner", ResumeID: "r2", SectionType: TypeExperience}
		if err := r.MemoryRepo.CreateSection(ctx, winner); err != nil {
			return err
		}
		return ErrNullSummaryTaken
	}
	return r.MemoryRepo.CreateSection(ctx, section)
}

func TestResolveRetriesReparentAfterInsertConflict(t *testing.T) {
	repo := &conflictRepo{MemoryRepo: NewMemoryRepo()}
	r := newResolver(repo, map[string]string{"r1": "u1", "r2": "u1"})

	section, err := r.ResolveNonSummary(context.Background(), "u1", "r1", ResolveOptions{})
	if err != nil {
		t.Fatalf("ResolveNonSummary: %v", err)
	}
	if section.ID != "winner" {
		t.Fatalf("section = %q, want the conflicting winner", section.ID)
	}
	if section.ResumeID != "r1" {
		t.Fatalf("resume = %q, want r1 after reparent", section.ResumeID)
	}
}

func TestResolveExplicitSectionMustBelongToResume(t *testing.T) {
	repo := NewMemoryRepo()
	seed := Section{ID: "s1", ResumeID: "r1", SectionType: TypeExperience}
	if err := repo.CreateSection(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}
	r := newResolver(repo, map[string]string{"r1": "u1", "r2": "u1"})

	_, err := r.ResolveNonSummary(context.Background(), "u1", "r2", ResolveOptions{SectionID: "s1"})
	if !errors.Is(err, authz.ErrAccessDenied) {
		t.Fatalf("err = %v, want ErrAccessDenied", err)
	}
}

func TestResolveDeniesForeignResume(t *testing.T) {
	repo := NewMemoryRepo()
	r := newResolver(repo, map[string]string{"r1": "u2"})

	_, err := r.ResolveNonSummary(context.Background(), "u1", "r1", ResolveOptions{})
	if !errors.Is(err, authz.ErrAccessDenied) {
		t.Fatalf("err = %v, want ErrAccessDenied", err)
	}
}

func TestResolvePrefersExistingTypedSection(t *testing.T) {
	repo := NewMemoryRepo()
	summaryID := "sum-1"
	typed := Section{ID: "edu", ResumeID: "r1", SectionType: TypeEducation, SummaryID: nil}
	if err := repo.CreateSection(context.Background(), typed); err != nil {
		t.Fatalf("seed typed: %v", err)
	}
	other := Section{ID: "exp", ResumeID: "r1", SectionType: TypeExperience, SummaryID: &summaryID}
	if err := repo.CreateSection(context.Background(), other); err != nil {
		t.Fatalf("seed other: %v", err)
	}
	r := newResolver(repo, map[string]string{"r1": "u1"})

	section, err := r.ResolveNonSummary(context.Background(), "u1", "r1", ResolveOptions{PreferType: TypeEducation})
	if err != nil {
		t.Fatalf("ResolveNonSummary: %v", err)
	}
	if section.ID != "edu" {
		t.Fatalf("section = %q, want typed edu section", section.ID)
	}
}
