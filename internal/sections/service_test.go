package sections

import (
	"context"
	"testing"
	"time"

	"jobtrack-backend/internal/shared/authz"
)

func newService(owners map[string]string) *Service {
	repo := NewMemoryRepo()
	dir := fakeResumeDir{owners: owners}
	auth := &authz.Authorizer{Resumes: dir}
	return &Service{
		Repo:     repo,
		Resolver: &Resolver{Repo: repo, Resumes: dir, Auth: auth},
		Auth:     auth,
	}
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestUpdateExperienceKeepsEndDateWhenOmitted(t *testing.T) {
	svc := newService(map[string]string{"r1": "u1"})

	exp, err := svc.CreateExperience(context.Background(), "u1", "r1", ExperienceInput{
		JobTitle:  "Engineer",
		Company:   "Acme",
		StartDate: date(2022, time.January, 1),
		EndDate:   date(2024, time.June, 30),
	})
	if err != nil {
		t.Fatalf("CreateExperience: %v", err)
	}

	updated, err := svc.UpdateExperience(context.Background(), "u1", exp.ID, ExperienceInput{
		Company: "Acme Corp",
	})
	if err != nil {
		t.Fatalf("UpdateExperience: %v", err)
	}
	if updated.Company != "Acme Corp" {
		t.Fatalf("company = %q, want Acme Corp", updated.Company)
	}
	if updated.EndDate == nil {
		t.Fatal("end date was cleared by an update that did not mention it")
	}
	if !updated.EndDate.Equal(*exp.EndDate) {
		t.Fatalf("end date = %v, want %v", updated.EndDate, exp.EndDate)
	}
}

func TestUpdateExperienceClearsEndDateExplicitly(t *testing.T) {
	svc := newService(map[string]string{"r1": "u1"})

	exp, err := svc.CreateExperience(context.Background(), "u1", "r1", ExperienceInput{
		JobTitle: "Engineer",
		EndDate:  date(2024, time.June, 30),
	})
	if err != nil {
		t.Fatalf("CreateExperience: %v", err)
	}

	updated, err := svc.UpdateExperience(context.Background(), "u1", exp.ID, ExperienceInput{
		ClearEndDate: true,
	})
	if err != nil {
		t.Fatalf("UpdateExperience: %v", err)
	}
	if updated.EndDate != nil {
		t.Fatalf("end date = %v, want nil (ongoing)", updated.EndDate)
	}
}

func TestUpdateEducationKeepsEndDateWhenOmitted(t *testing.T) {
	svc := newService(map[string]string{"r1": "u1"})

	edu, err := svc.CreateEducation(context.Background(), "u1", "r1", EducationInput{
		Institution: "State University",
		EndDate:     date(2020, time.May, 15),
	})
	if err != nil {
		t.Fatalf("CreateEducation: %v", err)
	}

	updated, err := svc.UpdateEducation(context.Background(), "u1", edu.ID, EducationInput{
		Degree: "BSc",
	})
	if err != nil {
		t.Fatalf("UpdateEducation: %v", err)
	}
	if updated.Degree != "BSc" {
		t.Fatalf("degree = %q, want BSc", updated.Degree)
	}
	if updated.EndDate == nil || !updated.EndDate.Equal(*edu.EndDate) {
		t.Fatalf("end date = %v, want %v", updated.EndDate, edu.EndDate)
	}
}

func TestOneSectionHoldsExperiencesAndEducationsTogether(t *testing.T) {
	svc := newService(map[string]string{"r1": "u1"})

	exp, err := svc.CreateExperience(context.Background(), "u1", "r1", ExperienceInput{
		JobTitle: "Engineer",
	})
	if err != nil {
		t.Fatalf("CreateExperience: %v", err)
	}
	edu, err := svc.CreateEducation(context.Background(), "u1", "r1", EducationInput{
		Institution: "State University",
	})
	if err != nil {
		t.Fatalf("CreateEducation: %v", err)
	}

	// Only one summary-less section exists, so both entries share it.
	if exp.SectionID != edu.SectionID {
		t.Fatalf("experience section %q and education section %q differ, want shared section", exp.SectionID, edu.SectionID)
	}

	views, err := svc.List(context.Background(), "u1", "r1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("len(views) = %d, want 1", len(views))
	}
	view := views[0]
	if view.Section.ID != exp.SectionID {
		t.Fatalf("listed section = %q, want %q", view.Section.ID, exp.SectionID)
	}
	if len(view.Experiences) != 1 || view.Experiences[0].ID != exp.ID {
		t.Fatalf("experiences = %+v, want the created entry", view.Experiences)
	}
	if len(view.Educations) != 1 || view.Educations[0].ID != edu.ID {
		t.Fatalf("educations = %+v, want the created entry", view.Educations)
	}
}
