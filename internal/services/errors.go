package services

import "errors"

var (
	// ErrNotFound marks an expected absence, like a join-code miss. It is a
	// normal outcome, not a store failure.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks input rejected before any remote call was issued.
	ErrValidation = errors.New("invalid input")
)
