package jobs

import "context"

// Repo defines persistence operations for tracked jobs.
type Repo interface {
	Create(ctx context.Context, job Job) error
	GetByID(ctx context.Context, jobID string) (Job, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Job, error)
	Update(ctx context.Context, job Job) error
	Delete(ctx context.Context, jobID string) error

	// JobDirectory method used by the shared authorizer.
	OwnerOf(ctx context.Context, jobID string) (string, error)
}
