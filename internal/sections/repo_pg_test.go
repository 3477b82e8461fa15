package sections

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestPGRepoCreateSectionMapsUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	section := Section{
		ID:          "sec-1",
		ResumeID:    "res-1",
		SectionType: TypeExperience,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	mock.ExpectExec("INSERT INTO resume_sections").
		WithArgs(
			section.ID,
			section.ResumeID,
			string(TypeExperience),
			"",
			sqlmock.AnyArg(), // summary_id NULL
			0,
			now,
			now,
		).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "resume_sections_summary_id_key"})

	err = repo.CreateSection(context.Background(), section)
	if !errors.Is(err, ErrNullSummaryTaken) {
		t.Fatalf("err = %v, want ErrNullSummaryTaken", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoFindNullSummaryBuildsInList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "resume_id", "section_type", "section_title", "summary_id", "position", "created_at", "updated_at",
	}).AddRow("sec-1", "res-2", "EXPERIENCE", "Roles", nil, 0, now, now)

	mock.ExpectQuery("SELECT (.+) FROM resume_sections\\s+WHERE summary_id IS NULL AND resume_id IN \\(\\$1, \\$2\\)").
		WithArgs("res-1", "res-2").
		WillReturnRows(rows)

	section, err := repo.FindNullSummary(context.Background(), []string{"res-1", "res-2"})
	if err != nil {
		t.Fatalf("FindNullSummary: %v", err)
	}
	if section.ID != "sec-1" || section.ResumeID != "res-2" {
		t.Fatalf("unexpected section: %+v", section)
	}
	if section.SummaryID != nil {
		t.Fatalf("expected nil summary id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoFindNullSummaryEmptyInput(t *testing.T) {
	repo := &PGRepo{}
	_, err := repo.FindNullSummary(context.Background(), nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPGRepoReparentKeepsTitleWhenEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "resume_id", "section_type", "section_title", "summary_id", "position", "created_at", "updated_at",
	}).AddRow("sec-1", "res-2", "EXPERIENCE", "Old Roles", nil, 0, now, now)

	mock.ExpectQuery("UPDATE resume_sections").
		WithArgs("sec-1", "res-2", "").
		WillReturnRows(rows)

	section, err := repo.Reparent(context.Background(), "sec-1", "res-2", "")
	if err != nil {
		t.Fatalf("Reparent: %v", err)
	}
	if section.ResumeID != "res-2" || section.SectionTitle != "Old Roles" {
		t.Fatalf("unexpected section: %+v", section)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
