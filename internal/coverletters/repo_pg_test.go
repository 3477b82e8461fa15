package coverletters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestPGRepoCreateVersionedRunsInOneTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := NewPGRepo(db)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(version\), 0\) \+ 1 FROM cover_letters`).
		WithArgs("job-1").
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(3))
	mock.ExpectExec(`UPDATE cover_letters SET is_current = FALSE`).
		WithArgs("job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO cover_letters`).
		WithArgs(sqlmock.AnyArg(), "job-1", "Draft", "body", nil, 3).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "job_id", "title", "content", "template_id", "version", "is_current", "created_at", "updated_at",
		}).AddRow("cl-1", "job-1", "Draft", "body", nil, 3, true, now, now))
	mock.ExpectCommit()

	created, err := repo.CreateVersioned(context.Background(), CoverLetter{
		JobID:   "job-1",
		Title:   "Draft",
		Content: "body",
	})
	if err != nil {
		t.Fatalf("CreateVersioned: %v", err)
	}
	if created.Version != 3 || !created.IsCurrent {
		t.Fatalf("unexpected letter: %+v", created)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateVersionedRetriesOnVersionConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := NewPGRepo(db)
	now := time.Now().UTC()

	// First attempt loses the version race.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(version\), 0\) \+ 1 FROM cover_letters`).
		WithArgs("job-1").
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(1))
	mock.ExpectExec(`UPDATE cover_letters SET is_current = FALSE`).
		WithArgs("job-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO cover_letters`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "cover_letters_job_id_version_key"})
	mock.ExpectRollback()

	// Second attempt sees the winner and takes the next version.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(version\), 0\) \+ 1 FROM cover_letters`).
		WithArgs("job-1").
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(2))
	mock.ExpectExec(`UPDATE cover_letters SET is_current = FALSE`).
		WithArgs("job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO cover_letters`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "job_id", "title", "content", "template_id", "version", "is_current", "created_at", "updated_at",
		}).AddRow("cl-2", "job-1", "Draft", "body", nil, 2, true, now, now))
	mock.ExpectCommit()

	created, err := repo.CreateVersioned(context.Background(), CoverLetter{
		JobID:   "job-1",
		Title:   "Draft",
		Content: "body",
	})
	if err != nil {
		t.Fatalf("CreateVersioned: %v", err)
	}
	if created.Version != 2 {
		t.Fatalf("version = %d, want 2", created.Version)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByJobMapsUndefinedTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := NewPGRepo(db)

	mock.ExpectQuery(`SELECT (.+) FROM cover_letters`).
		WithArgs("job-1").
		WillReturnError(&pgconn.PgError{Code: "42P01", Message: `relation "cover_letters" does not exist`})

	_, err = repo.ListByJob(context.Background(), "job-1")
	if !errors.Is(err, ErrSchemaUnprovisioned) {
		t.Fatalf("err = %v, want ErrSchemaUnprovisioned", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSetCurrentUnsetsAndSetsAtomically(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := NewPGRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE cover_letters SET is_current = FALSE`).
		WithArgs("job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE cover_letters SET is_current = TRUE`).
		WithArgs("cl-1", "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.SetCurrent(context.Background(), "job-1", "cl-1"); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSetCurrentUnknownLetter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := NewPGRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE cover_letters SET is_current = FALSE`).
		WithArgs("job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE cover_letters SET is_current = TRUE`).
		WithArgs("cl-missing", "job-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = repo.SetCurrent(context.Background(), "job-1", "cl-missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
