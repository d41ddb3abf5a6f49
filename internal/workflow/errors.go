package workflow

import "errors"

// Expected failure conditions of the workflow operations. Handlers map each
// of these to a distinct user-facing response; anything else is treated as a
// store fault.
var (
	// ErrNotFound means the referenced request, report, room, student or
	// facility does not exist.
	ErrNotFound = errors.New("referenced record not found")

	// ErrInvalidTransition means the request is no longer pending.
	ErrInvalidTransition = errors.New("request is no longer pending")

	// ErrCapacityExceeded means approving would assign more students to the
	// room than it has beds.
	ErrCapacityExceeded = errors.New("room is at capacity")

	// ErrDuplicateRequest means the student already has a pending request.
	// The check is global per student, not per room: an approval assigns the
	// student their one bed, so parallel pending requests could only race
	// each other.
	ErrDuplicateRequest = errors.New("student already has a pending request")
)
