package resumes

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new resume.
func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	const query = `
INSERT INTO resumes (id, profile_id, title, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.ExecContext(ctx, query, resume.ID, resume.ProfileID, resume.Title, resume.CreatedAt, resume.UpdatedAt)
	return err
}

// GetByID returns a resume with its owner resolved through the profile.
func (r *PGRepo) GetByID(ctx context.Context, resumeID string) (Resume, error) {
	const query = `
SELECT r.id, r.profile_id, p.user_id, r.title, r.created_at, r.updated_at
FROM resumes r
JOIN profiles p ON p.id = r.profile_id
WHERE r.id = $1`
	var resume Resume
	err := r.DB.QueryRowContext(ctx, query, resumeID).Scan(
		&resume.ID,
		&resume.ProfileID,
		&resume.UserID,
		&resume.Title,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Resume{}, ErrNotFound
	}
	if err != nil {
		return Resume{}, err
	}
	return resume, nil
}

// ListByUser returns a user's resumes, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	const query = `
SELECT r.id, r.profile_id, p.user_id, r.title, r.created_at, r.updated_at
FROM resumes r
JOIN profiles p ON p.id = r.profile_id
WHERE p.user_id = $1
ORDER BY r.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Resume{}
	for rows.Next() {
		var resume Resume
		if err := rows.Scan(
			&resume.ID,
			&resume.ProfileID,
			&resume.UserID,
			&resume.Title,
			&resume.CreatedAt,
			&resume.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

// UpdateTitle updates a resume title.
func (r *PGRepo) UpdateTitle(ctx context.Context, resumeID, title string) error {
	const query = `
UPDATE resumes SET title = $2, updated_at = now() WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, resumeID, title)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the resume in one transaction. Contact info, sections, and
// section children follow via ON DELETE CASCADE.
func (r *PGRepo) Delete(ctx context.Context, resumeID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Summaries are parents of sections, so the cascade does not reach them.
	const deleteSummaries = `
DELETE FROM summaries
WHERE id IN (SELECT summary_id FROM resume_sections WHERE resume_id = $1 AND summary_id IS NOT NULL)`
	if _, err := tx.ExecContext(ctx, deleteSummaries, resumeID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1`, resumeID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// UpsertContactInfo creates or replaces the contact block of a resume.
func (r *PGRepo) UpsertContactInfo(ctx context.Context, info ContactInfo) error {
	const query = `
INSERT INTO contact_info (id, resume_id, full_name, email, phone, location, links)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (resume_id) DO UPDATE SET
    full_name = EXCLUDED.full_name,
    email = EXCLUDED.email,
    phone = EXCLUDED.phone,
    location = EXCLUDED.location,
    links = EXCLUDED.links`
	_, err := r.DB.ExecContext(ctx, query,
		info.ID, info.ResumeID, info.FullName, info.Email, info.Phone, info.Location, info.Links)
	return err
}

// GetContactInfo returns the contact block of a resume.
func (r *PGRepo) GetContactInfo(ctx context.Context, resumeID string) (ContactInfo, error) {
	const query = `
SELECT id, resume_id, full_name, email, phone, location, links
FROM contact_info
WHERE resume_id = $1`
	var info ContactInfo
	err := r.DB.QueryRowContext(ctx, query, resumeID).Scan(
		&info.ID,
		&info.ResumeID,
		&info.FullName,
		&info.Email,
		&info.Phone,
		&info.Location,
		&info.Links,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ContactInfo{}, ErrNotFound
	}
	if err != nil {
		return ContactInfo{}, err
	}
	return info, nil
}

// OwnerOf returns the user owning a resume.
func (r *PGRepo) OwnerOf(ctx context.Context, resumeID string) (string, error) {
	const query = `
SELECT p.user_id
FROM resumes r
JOIN profiles p ON p.id = r.profile_id
WHERE r.id = $1`
	var owner string
	err := r.DB.QueryRowContext(ctx, query, resumeID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return owner, nil
}

// ListIDsByUser returns the IDs of all resumes owned by a user.
func (r *PGRepo) ListIDsByUser(ctx context.Context, userID string) ([]string, error) {
	const query = `
SELECT r.id
FROM resumes r
JOIN profiles p ON p.id = r.profile_id
WHERE p.user_id = $1
ORDER BY r.created_at`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
