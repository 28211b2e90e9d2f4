package store

import "errors"

// Sentinel errors returned by store operations. Callers match with errors.Is;
// wrapped variants carry operation context.
var (
	// ErrNotFound indicates the requested profile, conversation, or challenge
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a username or email uniqueness violation.
	ErrDuplicate = errors.New("duplicate value")

	// ErrValidation indicates input rejected before any mutation (empty
	// message text, malformed field, self-conversation).
	ErrValidation = errors.New("validation failed")

	// ErrExhausted indicates no more candidate profiles to browse.
	ErrExhausted = errors.New("no more profiles")

	// ErrIncomplete indicates a challenge answer pair is not yet complete.
	// Informational, not a failure.
	ErrIncomplete = errors.New("answer pair incomplete")
)
