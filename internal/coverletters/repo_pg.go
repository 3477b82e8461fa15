package coverletters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// PGRepo is the Postgres-backed Repo. The cover letter tables ship in a
// later migration than the rest of the schema, so every query maps the
// undefined-table error to ErrSchemaUnprovisioned instead of failing opaquely.
type PGRepo struct {
	db *sql.DB
}

func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{db: db}
}

const letterColumns = `id, job_id, title, content, template_id, version, is_current, created_at, updated_at`

func scanLetter(row interface{ Scan(...any) error }) (CoverLetter, error) {
	var l CoverLetter
	var templateID sql.NullString
	err := row.Scan(&l.ID, &l.JobID, &l.Title, &l.Content, &templateID, &l.Version, &l.IsCurrent, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return CoverLetter{}, err
	}
	if templateID.Valid {
		l.TemplateID = &templateID.String
	}
	return l, nil
}

// createAttempts bounds the retry loop in CreateVersioned. Two creates for
// the same job can both read the same max version; the UNIQUE(job_id, version)
// constraint rejects the loser and we recompute.
const createAttempts = 3

func (r *PGRepo) CreateVersioned(ctx context.Context, letter CoverLetter) (CoverLetter, error) {
	var lastErr error
	for attempt := 0; attempt < createAttempts; attempt++ {
		created, err := r.createOnce(ctx, letter)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return CoverLetter{}, err
		}
		lastErr = err
	}
	return CoverLetter{}, lastErr
}

func (r *PGRepo) createOnce(ctx context.Context, letter CoverLetter) (CoverLetter, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return CoverLetter{}, fmt.Errorf("begin create cover letter: %w", err)
	}
	defer tx.Rollback()

	var next int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) + 1 FROM cover_letters WHERE job_id = $1`,
		letter.JobID,
	).Scan(&next)
	if err != nil {
		return CoverLetter{}, mapSchemaErr(fmt.Errorf("next cover letter version: %w", err))
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE cover_letters SET is_current = FALSE, updated_at = NOW() WHERE job_id = $1 AND is_current`,
		letter.JobID,
	); err != nil {
		return CoverLetter{}, mapSchemaErr(fmt.Errorf("unset current cover letter: %w", err))
	}

	id := uuid.NewString()
	var templateID any
	if letter.TemplateID != nil {
		templateID = *letter.TemplateID
	}
	row := tx.QueryRowContext(ctx,
		`INSERT INTO cover_letters (id, job_id, title, content, template_id, version, is_current)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		 RETURNING `+letterColumns,
		id, letter.JobID, letter.Title, letter.Content, templateID, next,
	)
	created, err := scanLetter(row)
	if err != nil {
		if isUniqueViolation(err) {
			return CoverLetter{}, ErrVersionConflict
		}
		return CoverLetter{}, mapSchemaErr(fmt.Errorf("insert cover letter: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return CoverLetter{}, fmt.Errorf("commit create cover letter: %w", err)
	}
	return created, nil
}

func (r *PGRepo) GetByID(ctx context.Context, coverLetterID string) (CoverLetter, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+letterColumns+` FROM cover_letters WHERE id = $1`, coverLetterID)
	l, err := scanLetter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return CoverLetter{}, ErrNotFound
	}
	if err != nil {
		return CoverLetter{}, mapSchemaErr(fmt.Errorf("get cover letter: %w", err))
	}
	return l, nil
}

func (r *PGRepo) ListByJob(ctx context.Context, jobID string) ([]CoverLetter, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+letterColumns+` FROM cover_letters WHERE job_id = $1 ORDER BY version DESC`, jobID)
	if err != nil {
		return nil, mapSchemaErr(fmt.Errorf("list cover letters: %w", err))
	}
	defer rows.Close()

	var out []CoverLetter
	for rows.Next() {
		l, err := scanLetter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cover letter: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateContent(ctx context.Context, coverLetterID, title, content string) (CoverLetter, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE cover_letters SET title = $2, content = $3, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+letterColumns,
		coverLetterID, title, content)
	l, err := scanLetter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return CoverLetter{}, ErrNotFound
	}
	if err != nil {
		return CoverLetter{}, mapSchemaErr(fmt.Errorf("update cover letter: %w", err))
	}
	return l, nil
}

func (r *PGRepo) SetCurrent(ctx context.Context, jobID, coverLetterID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set current cover letter: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE cover_letters SET is_current = FALSE, updated_at = NOW() WHERE job_id = $1 AND is_current`,
		jobID,
	); err != nil {
		return mapSchemaErr(fmt.Errorf("unset current cover letter: %w", err))
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE cover_letters SET is_current = TRUE, updated_at = NOW() WHERE id = $1 AND job_id = $2`,
		coverLetterID, jobID,
	)
	if err != nil {
		return mapSchemaErr(fmt.Errorf("set current cover letter: %w", err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set current cover letter: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func (r *PGRepo) Delete(ctx context.Context, coverLetterID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cover_letters WHERE id = $1`, coverLetterID)
	if err != nil {
		return mapSchemaErr(fmt.Errorf("delete cover letter: %w", err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete cover letter: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

const templateColumns = `id, user_id, title, content, is_default, created_at, updated_at`

func scanTemplate(row interface{ Scan(...any) error }) (Template, error) {
	var t Template
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Content, &t.IsDefault, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *PGRepo) CreateTemplate(ctx context.Context, tpl Template) (Template, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Template{}, fmt.Errorf("begin create template: %w", err)
	}
	defer tx.Rollback()

	if tpl.IsDefault {
		if _, err := tx.ExecContext(ctx,
			`UPDATE cover_letter_templates SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_default`,
			tpl.UserID,
		); err != nil {
			return Template{}, mapSchemaErr(fmt.Errorf("clear default template: %w", err))
		}
	}

	row := tx.QueryRowContext(ctx,
		`INSERT INTO cover_letter_templates (id, user_id, title, content, is_default)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+templateColumns,
		uuid.NewString(), tpl.UserID, tpl.Title, tpl.Content, tpl.IsDefault)
	created, err := scanTemplate(row)
	if err != nil {
		return Template{}, mapSchemaErr(fmt.Errorf("insert template: %w", err))
	}
	if err := tx.Commit(); err != nil {
		return Template{}, fmt.Errorf("commit create template: %w", err)
	}
	return created, nil
}

func (r *PGRepo) GetTemplate(ctx context.Context, templateID string) (Template, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM cover_letter_templates WHERE id = $1`, templateID)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Template{}, ErrNotFound
	}
	if err != nil {
		return Template{}, mapSchemaErr(fmt.Errorf("get template: %w", err))
	}
	return t, nil
}

func (r *PGRepo) ListTemplates(ctx context.Context, userID string) ([]Template, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+templateColumns+` FROM cover_letter_templates WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, mapSchemaErr(fmt.Errorf("list templates: %w", err))
	}
	defer rows.Close()

	var out []Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateTemplate(ctx context.Context, tpl Template) (Template, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE cover_letter_templates SET title = $2, content = $3, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+templateColumns,
		tpl.ID, tpl.Title, tpl.Content)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Template{}, ErrNotFound
	}
	if err != nil {
		return Template{}, mapSchemaErr(fmt.Errorf("update template: %w", err))
	}
	return t, nil
}

func (r *PGRepo) SetDefaultTemplate(ctx context.Context, userID, templateID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set default template: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE cover_letter_templates SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_default`,
		userID,
	); err != nil {
		return mapSchemaErr(fmt.Errorf("clear default template: %w", err))
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE cover_letter_templates SET is_default = TRUE, updated_at = NOW() WHERE id = $1 AND user_id = $2`,
		templateID, userID,
	)
	if err != nil {
		return mapSchemaErr(fmt.Errorf("set default template: %w", err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set default template: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func (r *PGRepo) DeleteTemplate(ctx context.Context, templateID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cover_letter_templates WHERE id = $1`, templateID)
	if err != nil {
		return mapSchemaErr(fmt.Errorf("delete template: %w", err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// mapSchemaErr translates Postgres undefined_table (42P01) into
// ErrSchemaUnprovisioned so the service layer can degrade reads and explain
// failed writes.
func mapSchemaErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42P01" {
		return ErrSchemaUnprovisioned
	}
	return err
}
