package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState indicates a particle with NaN or Inf components.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig indicates a configuration that cannot be simulated.
	ErrInvalidConfig = errors.New("sim: invalid configuration")
)

// SimError wraps an error with the tick and particle it was detected at.
type SimError struct {
	Tick     int
	Time     float64
	Particle int
	Wrapped  error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f): particle %d: %v", e.Tick, e.Time, e.Particle, e.Wrapped)
}

func (e *SimError) Unwrap() error {
	return e.Wrapped
}
