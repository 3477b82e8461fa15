package coverletters

import "errors"

var (
	ErrNotFound     = errors.New("cover letter not found")
	ErrInvalidInput = errors.New("invalid cover letter input")

	// ErrSchemaUnprovisioned is returned when the cover letter tables have
	// not been created yet (a deployment running migrations older than the
	// cover letter schema). Reads degrade to empty results at the service
	// layer; writes surface this error so the caller knows to migrate.
	ErrSchemaUnprovisioned = errors.New("cover letter storage not provisioned")

	// ErrVersionConflict is returned by a repo when a concurrent create
	// claimed the same version number. CreateVersioned retries internally;
	// callers should not normally see it.
	ErrVersionConflict = errors.New("cover letter version conflict")
)
