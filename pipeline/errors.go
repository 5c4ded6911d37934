package pipeline

import "errors"

var (
	// ErrInvalidMaxRetries is returned when a retry policy allows a negative
	// number of retries.
	ErrInvalidMaxRetries = errors.New("max retries must not be negative")

	// ErrMissingName is returned when a stage config has no name.
	ErrMissingName = errors.New("stage name is required")

	// ErrMissingSelect is returned when a stage config has no select function.
	ErrMissingSelect = errors.New("stage select function is required")

	// ErrMissingTransform is returned when a stage config has no transform function.
	ErrMissingTransform = errors.New("stage transform function is required")

	// ErrMissingPersist is returned when a stage config has no persist function.
	ErrMissingPersist = errors.New("stage persist function is required")
)
