package wallet

import "errors"

var (
	// ErrTransitionRejected is returned for a disallowed status edge or when
	// the server refuses the mutation, e.g. on an ownership check.
	ErrTransitionRejected = errors.New("transition rejected")

	// ErrAlreadyWalleted is returned when adding a flashcard that already
	// has a wallet entry.
	ErrAlreadyWalleted = errors.New("flashcard already in wallet")

	// ErrNotFound is returned when the flashcard has no wallet entry.
	ErrNotFound = errors.New("wallet entry not found")
)
