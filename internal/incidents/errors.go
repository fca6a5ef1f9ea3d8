package incidents

import "errors"

// Service errors.
var (
	// ErrEmptyTitle rejects a create before any store mutation.
	ErrEmptyTitle = errors.New("title is required")

	// ErrCreatorNotFound surfaces a foreign key violation on created_by.
	// Credential validation should have guaranteed the user exists, so this
	// is an invariant violation, not a user-facing validation error.
	ErrCreatorNotFound = errors.New("incident creator does not exist")
)
