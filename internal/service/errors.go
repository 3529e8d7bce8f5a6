package service

import "errors"

// Error taxonomy surfaced to handlers. Wrap with fmt.Errorf("%w: ...") for
// detail; handlers match with errors.Is.
var (
	// ErrNotFound: entity absent, or present but not owned by the caller.
	// The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState: the operation is well-formed but the entity cannot
	// accept it (closing a closed trade, deleting an account with
	// dependents, editing a closed trade's financial fields).
	ErrInvalidState = errors.New("invalid state")

	// ErrValidation: malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")
)
