package sections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const sectionColumns = `id, resume_id, section_type, section_title, summary_id, position, created_at, updated_at`

func scanSection(row interface{ Scan(...any) error }) (Section, error) {
	var section Section
	var summaryID sql.NullString
	var sectionType string
	err := row.Scan(
		&section.ID,
		&section.ResumeID,
		&sectionType,
		&section.SectionTitle,
		&summaryID,
		&section.Position,
		&section.CreatedAt,
		&section.UpdatedAt,
	)
	if err != nil {
		return Section{}, err
	}
	section.SectionType = SectionType(sectionType)
	if summaryID.Valid {
		section.SummaryID = &summaryID.String
	}
	return section, nil
}

// GetSection returns a section by ID.
func (r *PGRepo) GetSection(ctx context.Context, sectionID string) (Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM resume_sections WHERE id = $1`
	section, err := scanSection(r.DB.QueryRowContext(ctx, query, sectionID))
	if errors.Is(err, sql.ErrNoRows) {
		return Section{}, ErrNotFound
	}
	return section, err
}

// ListByResume returns a resume's sections in position order.
func (r *PGRepo) ListByResume(ctx context.Context, resumeID string) ([]Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM resume_sections WHERE resume_id = $1 ORDER BY position, created_at`
	rows, err := r.DB.QueryContext(ctx, query, resumeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Section{}
	for rows.Next() {
		section, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, section)
	}
	return out, rows.Err()
}

// FindNullSummary returns the oldest nil-summary_id section within the given
// resumes, or ErrNotFound.
func (r *PGRepo) FindNullSummary(ctx context.Context, resumeIDs []string) (Section, error) {
	if len(resumeIDs) == 0 {
		return Section{}, ErrNotFound
	}

	placeholders := make([]string, len(resumeIDs))
	args := make([]any, len(resumeIDs))
	for i, id := range resumeIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := `SELECT ` + sectionColumns + ` FROM resume_sections
WHERE summary_id IS NULL AND resume_id IN (` + strings.Join(placeholders, ", ") + `)
ORDER BY created_at
LIMIT 1`

	section, err := scanSection(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Section{}, ErrNotFound
	}
	return section, err
}

// FindTyped returns the oldest section of the given type within a resume.
func (r *PGRepo) FindTyped(ctx context.Context, resumeID string, sectionType SectionType) (Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM resume_sections
WHERE resume_id = $1 AND section_type = $2
ORDER BY created_at
LIMIT 1`
	section, err := scanSection(r.DB.QueryRowContext(ctx, query, resumeID, string(sectionType)))
	if errors.Is(err, sql.ErrNoRows) {
		return Section{}, ErrNotFound
	}
	return section, err
}

// CreateSection inserts a section. A unique violation on summary_id maps to
// ErrNullSummaryTaken so callers can tell the global-slot conflict apart.
func (r *PGRepo) CreateSection(ctx context.Context, section Section) error {
	const query = `
INSERT INTO resume_sections (id, resume_id, section_type, section_title, summary_id, position, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	var summaryID sql.NullString
	if section.SummaryID != nil {
		summaryID = sql.NullString{String: *section.SummaryID, Valid: true}
	}

	_, err := r.DB.ExecContext(ctx, query,
		section.ID,
		section.ResumeID,
		string(section.SectionType),
		section.SectionTitle,
		summaryID,
		section.Position,
		section.CreatedAt,
		section.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrNullSummaryTaken
	}
	return err
}

// Reparent moves a section to another resume. An empty title keeps the
// section's existing one.
func (r *PGRepo) Reparent(ctx context.Context, sectionID, resumeID, title string) (Section, error) {
	const query = `
UPDATE resume_sections
SET resume_id = $2,
    section_title = CASE WHEN $3 <> '' THEN $3 ELSE section_title END,
    updated_at = now()
WHERE id = $1
RETURNING ` + sectionColumns
	section, err := scanSection(r.DB.QueryRowContext(ctx, query, sectionID, resumeID, title))
	if errors.Is(err, sql.ErrNoRows) {
		return Section{}, ErrNotFound
	}
	return section, err
}

// DeleteByResume removes a resume's sections and their summaries in one
// transaction; experience/education children follow via ON DELETE CASCADE.
func (r *PGRepo) DeleteByResume(ctx context.Context, resumeID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const deleteSummaries = `
DELETE FROM summaries
WHERE id IN (SELECT summary_id FROM resume_sections WHERE resume_id = $1 AND summary_id IS NOT NULL)`
	if _, err := tx.ExecContext(ctx, deleteSummaries, resumeID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM resume_sections WHERE resume_id = $1`, resumeID); err != nil {
		return err
	}
	return tx.Commit()
}

// CreateSummarySection inserts a SUMMARY section together with its summary
// row in one transaction.
func (r *PGRepo) CreateSummarySection(ctx context.Context, section Section, summary Summary) error {
	if section.SummaryID == nil || *section.SummaryID != summary.ID {
		return ErrInvalidInput
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO summaries (id, content) VALUES ($1, $2)`,
		summary.ID, summary.Content,
	); err != nil {
		return err
	}

	const insertSection = `
INSERT INTO resume_sections (id, resume_id, section_type, section_title, summary_id, position, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := tx.ExecContext(ctx, insertSection,
		section.ID,
		section.ResumeID,
		string(section.SectionType),
		section.SectionTitle,
		*section.SummaryID,
		section.Position,
		section.CreatedAt,
		section.UpdatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return ErrInvalidInput
		}
		return err
	}

	return tx.Commit()
}

// GetSummary returns a summary row by ID.
func (r *PGRepo) GetSummary(ctx context.Context, summaryID string) (Summary, error) {
	var summary Summary
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, content FROM summaries WHERE id = $1`, summaryID,
	).Scan(&summary.ID, &summary.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return Summary{}, ErrNotFound
	}
	if err != nil {
		return Summary{}, err
	}
	return summary, nil
}

// UpdateSummary replaces the content of a summary row.
func (r *PGRepo) UpdateSummary(ctx context.Context, summaryID, content string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE summaries SET content = $2 WHERE id = $1`, summaryID, content)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateExperience inserts an experience entry.
func (r *PGRepo) CreateExperience(ctx context.Context, exp WorkExperience) error {
	const query = `
INSERT INTO work_experiences (id, section_id, job_title, company, location, start_date, end_date, description, position)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.ExecContext(ctx, query,
		exp.ID, exp.SectionID, exp.JobTitle, exp.Company, exp.Location,
		exp.StartDate, exp.EndDate, exp.Description, exp.Position)
	return err
}

// GetExperience returns an experience entry by ID.
func (r *PGRepo) GetExperience(ctx context.Context, experienceID string) (WorkExperience, error) {
	const query = `
SELECT id, section_id, job_title, company, location, start_date, end_date, description, position
FROM work_experiences
WHERE id = $1`
	var exp WorkExperience
	err := r.DB.QueryRowContext(ctx, query, experienceID).Scan(
		&exp.ID, &exp.SectionID, &exp.JobTitle, &exp.Company, &exp.Location,
		&exp.StartDate, &exp.EndDate, &exp.Description, &exp.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return WorkExperience{}, ErrNotFound
	}
	if err != nil {
		return WorkExperience{}, err
	}
	return exp, nil
}

// UpdateExperience replaces an experience entry.
func (r *PGRepo) UpdateExperience(ctx context.Context, exp WorkExperience) error {
	const query = `
UPDATE work_experiences
SET job_title = $2, company = $3, location = $4, start_date = $5, end_date = $6, description = $7, position = $8
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		exp.ID, exp.JobTitle, exp.Company, exp.Location,
		exp.StartDate, exp.EndDate, exp.Description, exp.Position)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExperience removes an experience entry.
func (r *PGRepo) DeleteExperience(ctx context.Context, experienceID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM work_experiences WHERE id = $1`, experienceID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListExperiences returns a section's experience entries in position order.
func (r *PGRepo) ListExperiences(ctx context.Context, sectionID string) ([]WorkExperience, error) {
	const query = `
SELECT id, section_id, job_title, company, location, start_date, end_date, description, position
FROM work_experiences
WHERE section_id = $1
ORDER BY position, start_date DESC NULLS LAST`
	rows, err := r.DB.QueryContext(ctx, query, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []WorkExperience{}
	for rows.Next() {
		var exp WorkExperience
		if err := rows.Scan(
			&exp.ID, &exp.SectionID, &exp.JobTitle, &exp.Company, &exp.Location,
			&exp.StartDate, &exp.EndDate, &exp.Description, &exp.Position); err != nil {
			return nil, err
		}
		out = append(out, exp)
	}
	return out, rows.Err()
}

// CreateEducation inserts an education entry.
func (r *PGRepo) CreateEducation(ctx context.Context, edu Education) error {
	const query = `
INSERT INTO educations (id, section_id, institution, degree, field_of_study, start_date, end_date, description, position)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.ExecContext(ctx, query,
		edu.ID, edu.SectionID, edu.Institution, edu.Degree, edu.FieldOfStudy,
		edu.StartDate, edu.EndDate, edu.Description, edu.Position)
	return err
}

// GetEducation returns an education entry by ID.
func (r *PGRepo) GetEducation(ctx context.Context, educationID string) (Education, error) {
	const query = `
SELECT id, section_id, institution, degree, field_of_study, start_date, end_date, description, position
FROM educations
WHERE id = $1`
	var edu Education
	err := r.DB.QueryRowContext(ctx, query, educationID).Scan(
		&edu.ID, &edu.SectionID, &edu.Institution, &edu.Degree, &edu.FieldOfStudy,
		&edu.StartDate, &edu.EndDate, &edu.Description, &edu.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return Education{}, ErrNotFound
	}
	if err != nil {
		return Education{}, err
	}
	return edu, nil
}

// UpdateEducation replaces an education entry.
func (r *PGRepo) UpdateEducation(ctx context.Context, edu Education) error {
	const query = `
UPDATE educations
SET institution = $2, degree = $3, field_of_study = $4, start_date = $5, end_date = $6, description = $7, position = $8
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		edu.ID, edu.Institution, edu.Degree, edu.FieldOfStudy,
		edu.StartDate, edu.EndDate, edu.Description, edu.Position)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteEducation removes an education entry.
func (r *PGRepo) DeleteEducation(ctx context.Context, educationID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM educations WHERE id = $1`, educationID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListEducations returns a section's education entries in position order.
func (r *PGRepo) ListEducations(ctx context.Context, sectionID string) ([]Education, error) {
	const query = `
SELECT id, section_id, institution, degree, field_of_study, start_date, end_date, description, position
FROM educations
WHERE section_id = $1
ORDER BY position, start_date DESC NULLS LAST`
	rows, err := r.DB.QueryContext(ctx, query, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Education{}
	for rows.Next() {
		var edu Education
		if err := rows.Scan(
			&edu.ID, &edu.SectionID, &edu.Institution, &edu.Degree, &edu.FieldOfStudy,
			&edu.StartDate, &edu.EndDate, &edu.Description, &edu.Position); err != nil {
			return nil, err
		}
		out = append(out, edu)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
