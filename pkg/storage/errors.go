package storage

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict indicates a uniqueness violation (duplicate username or email).
	// The unique constraint at the database layer is the source of truth;
	// application-level pre-checks are advisory only.
	ErrConflict = errors.New("record already exists")

	// ErrNotOwner indicates the caller does not own the record it tried to mutate.
	ErrNotOwner = errors.New("caller is not the record owner")
)
