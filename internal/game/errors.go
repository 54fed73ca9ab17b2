package game

import "errors"

var (
	// ErrNotFound is returned when a referenced entity does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition is returned when a lifecycle operation violates
	// the not_started -> started -> ended state machine.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrInvalidReference is returned when a record points at a team that is
	// not part of its game, when a goal's assister equals its scorer, or when
	// a player is added to the same game twice.
	ErrInvalidReference = errors.New("invalid reference")
)
