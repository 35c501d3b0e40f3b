package apperrors

import "errors"

var (
	// ErrInvalidActor is returned when no actor identity was supplied.
	ErrInvalidActor = errors.New("invalid actor")

	// ErrNotFound is returned for unknown actor or content references.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientCandidates is returned when the catalog holds too few
	// items of the requested type once exclusions are applied.
	ErrInsufficientCandidates = errors.New("insufficient candidates")

	// ErrValidation is returned for malformed input, e.g. an interaction
	// kind outside the fixed enum.
	ErrValidation = errors.New("validation failed")

	// ErrUpstreamUnavailable is returned when the catalog collaborator is
	// unreachable. Surfaced immediately, never retried inline.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
