package jobs

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const jobColumns = `id, user_id, resume_id, title, company, location, url, status, notes, applied_at, created_at, updated_at`

func scanJob(row interface{ Scan(...any) error }) (Job, error) {
	var job Job
	var resumeID sql.NullString
	var appliedAt sql.NullTime
	err := row.Scan(
		&job.ID,
		&job.UserID,
		&resumeID,
		&job.Title,
		&job.Company,
		&job.Location,
		&job.URL,
		&job.Status,
		&job.Notes,
		&appliedAt,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return Job{}, err
	}
	if resumeID.Valid {
		job.ResumeID = &resumeID.String
	}
	if appliedAt.Valid {
		t := appliedAt.Time
		job.AppliedAt = &t
	}
	return job, nil
}

// Create inserts a new job.
func (r *PGRepo) Create(ctx context.Context, job Job) error {
	const query = `
INSERT INTO jobs (id, user_id, resume_id, title, company, location, url, status, notes, applied_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.DB.ExecContext(ctx, query,
		job.ID, job.UserID, job.ResumeID, job.Title, job.Company, job.Location,
		job.URL, job.Status, job.Notes, job.AppliedAt, job.CreatedAt, job.UpdatedAt)
	return err
}

// GetByID returns a job by ID.
func (r *PGRepo) GetByID(ctx context.Context, jobID string) (Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	job, err := scanJob(r.DB.QueryRowContext(ctx, query, jobID))
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, ErrNotFound
	}
	return job, err
}

// ListByUser returns a user's jobs, newest first, honoring limit/offset.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Job, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

// Update replaces a job's mutable fields.
func (r *PGRepo) Update(ctx context.Context, job Job) error {
	const query = `
UPDATE jobs
SET resume_id = $2, title = $3, company = $4, location = $5, url = $6, status = $7, notes = $8, applied_at = $9, updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		job.ID, job.ResumeID, job.Title, job.Company, job.Location,
		job.URL, job.Status, job.Notes, job.AppliedAt)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a job; its cover letters follow via ON DELETE CASCADE.
func (r *PGRepo) Delete(ctx context.Context, jobID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, jobID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// OwnerOf returns the user owning a job.
func (r *PGRepo) OwnerOf(ctx context.Context, jobID string) (string, error) {
	var owner string
	err := r.DB.QueryRowContext(ctx, `SELECT user_id FROM jobs WHERE id = $1`, jobID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return owner, nil
}
