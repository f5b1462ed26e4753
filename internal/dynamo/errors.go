package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a position or velocity with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrNonPositiveMass indicates a body whose mass is zero, negative or not finite.
	ErrNonPositiveMass = errors.New("dynamo: mass must be positive")

	// ErrNonPositiveRadius indicates a body whose display radius is zero, negative or not finite.
	ErrNonPositiveRadius = errors.New("dynamo: radius must be positive")

	// ErrInvalidTimestep indicates a non-positive or non-finite dt.
	ErrInvalidTimestep = errors.New("dynamo: timestep must be positive")

	// ErrNoBodies indicates a scenario that produced no bodies.
	ErrNoBodies = errors.New("dynamo: no bodies loaded")

	// ErrUnknownKind indicates a kind token that is neither star nor planet.
	ErrUnknownKind = errors.New("dynamo: unknown body kind")
)

// BodyError wraps a validation error with the index of the offending body.
type BodyError struct {
	Index   int
	Wrapped error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("body %d: %v", e.Index, e.Wrapped)
}

func (e *BodyError) Unwrap() error {
	return e.Wrapped
}
