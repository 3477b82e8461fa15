package sections

import "errors"

var (
	// ErrNotFound indicates an entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNullSummaryTaken is the storage-level uniqueness conflict on the
	// single system-wide nil-SummaryID slot.
	ErrNullSummaryTaken = errors.New("null-summary slot taken")

	// ErrSectionQuotaExceeded is the terminal, user-visible dead end when the
	// system-wide miscellaneous-section slot is held by another user and no
	// section of the caller's can be reused.
	ErrSectionQuotaExceeded = errors.New("section quota exceeded")
)
