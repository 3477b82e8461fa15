package profiles

import "context"

// Repo defines persistence operations for profiles.
type Repo interface {
	Create(ctx context.Context, profile Profile) error
	GetByUserID(ctx context.Context, userID string) (Profile, error)
	UpdateHeadline(ctx context.Context, userID, headline string) error
}
