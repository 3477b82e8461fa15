package profiles

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new profile.
func (r *PGRepo) Create(ctx context.Context, profile Profile) error {
	const query = `
INSERT INTO profiles (id, user_id, headline, created_at)
VALUES ($1, $2, $3, $4)`
	_, err := r.DB.ExecContext(ctx, query, profile.ID, profile.UserID, profile.Headline, profile.CreatedAt)
	return err
}

// GetByUserID returns the profile for a user.
func (r *PGRepo) GetByUserID(ctx context.Context, userID string) (Profile, error) {
	const query = `
SELECT id, user_id, headline, created_at
FROM profiles
WHERE user_id = $1`
	var profile Profile
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Headline,
		&profile.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// UpdateHeadline updates the profile headline for a user.
func (r *PGRepo) UpdateHeadline(ctx context.Context, userID, headline string) error {
	const query = `
UPDATE profiles SET headline = $2 WHERE user_id = $1`
	res, err := r.DB.ExecContext(ctx, query, userID, headline)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
