package authz

import (
	"context"
	"errors"
)

var (
	// ErrAccessDenied indicates the caller does not own the referenced resource.
	ErrAccessDenied = errors.New("access denied")

	// ErrNotFound indicates the referenced resource does not exist.
	ErrNotFound = errors.New("not found")
)

// ResumeDirectory resolves resume ownership through the Resume -> Profile -> User chain.
type ResumeDirectory interface {
	OwnerOf(ctx context.Context, resumeID string) (string, error)
	ListIDsByUser(ctx context.Context, userID string) ([]string, error)
}

// JobDirectory resolves job ownership.
type JobDirectory interface {
	OwnerOf(ctx context.Context, jobID string) (string, error)
}

// Authorizer is the single place ownership chains are checked. Services call
// it instead of re-deriving Job->User or Section->Resume->Profile->User
// per operation.
type Authorizer struct {
	Resumes ResumeDirectory
	Jobs    JobDirectory
}

// RequireResumeOwner verifies that userID owns resumeID.
func (a *Authorizer) RequireResumeOwner(ctx context.Context, userID, resumeID string) error {
	if a == nil || a.Resumes == nil {
		return errors.New("authorizer not configured")
	}
	owner, err := a.Resumes.OwnerOf(ctx, resumeID)
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrAccessDenied
	}
	return nil
}

// RequireJobOwner verifies that userID owns jobID.
func (a *Authorizer) RequireJobOwner(ctx context.Context, userID, jobID string) error {
	if a == nil || a.Jobs == nil {
		return errors.New("authorizer not configured")
	}
	owner, err := a.Jobs.OwnerOf(ctx, jobID)
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrAccessDenied
	}
	return nil
}
