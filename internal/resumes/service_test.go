package resumes_test

import (
	"context"
	"errors"
	"testing"

	"jobtrack-backend/internal/profiles"
	"jobtrack-backend/internal/resumes"
	"jobtrack-backend/internal/sections"
	"jobtrack-backend/internal/shared/authz"
)

type fixture struct {
	resumes      *resumes.Service
	sections     *sections.Service
	sectionsRepo sections.Repo
}

func newFixture() fixture {
	sectionsRepo := sections.NewMemoryRepo()
	resumesRepo := resumes.NewMemoryRepo()
	resumesRepo.Sections = sectionsRepo

	auth := &authz.Authorizer{Resumes: resumesRepo}
	return fixture{
		resumes: &resumes.Service{
			Repo:     resumesRepo,
			Profiles: &profiles.Service{Repo: profiles.NewMemoryRepo()},
			Auth:     auth,
		},
		sections: &sections.Service{
			Repo:     sectionsRepo,
			Resolver: &sections.Resolver{Repo: sectionsRepo, Resumes: resumesRepo, Auth: auth},
			Auth:     auth,
		},
		sectionsRepo: sectionsRepo,
	}
}

func TestDeleteCascadesToSections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	resume, err := f.resumes.Create(ctx, "u1", "Main")
	if err != nil {
		t.Fatalf("create resume: %v", err)
	}
	exp, err := f.sections.CreateExperience(ctx, "u1", resume.ID, sections.ExperienceInput{
		JobTitle: "Engineer",
	})
	if err != nil {
		t.Fatalf("create experience: %v", err)
	}
	if _, err := f.resumes.SetContactInfo(ctx, "u1", resumes.ContactInfo{
		ResumeID: resume.ID,
		FullName: "Sam Doe",
	}); err != nil {
		t.Fatalf("set contact info: %v", err)
	}

	if err := f.resumes.Delete(ctx, "u1", resume.ID); err != nil {
		t.Fatalf("delete resume: %v", err)
	}

	if _, err := f.resumes.Get(ctx, "u1", resume.ID); !errors.Is(err, authz.ErrNotFound) && !errors.Is(err, resumes.ErrNotFound) {
		t.Fatalf("get deleted resume: err = %v, want not found", err)
	}

	remaining, err := f.sectionsRepo.ListByResume(ctx, resume.ID)
	if err != nil {
		t.Fatalf("list sections: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("sections survived the resume delete: %+v", remaining)
	}
	if _, err := f.sectionsRepo.GetExperience(ctx, exp.ID); !errors.Is(err, sections.ErrNotFound) {
		t.Fatalf("get deleted experience: err = %v, want %v", err, sections.ErrNotFound)
	}
}

func TestDeleteDeniedForForeignUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	resume, err := f.resumes.Create(ctx, "u1", "Main")
	if err != nil {
		t.Fatalf("create resume: %v", err)
	}

	if err := f.resumes.Delete(ctx, "u2", resume.ID); !errors.Is(err, authz.ErrAccessDenied) {
		t.Fatalf("foreign delete: err = %v, want %v", err, authz.ErrAccessDenied)
	}
	if _, err := f.resumes.Get(ctx, "u1", resume.ID); err != nil {
		t.Fatalf("resume should survive a denied delete: %v", err)
	}
}
