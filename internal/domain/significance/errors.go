package significance

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrInvalidSampleSize is returned for a zero, negative or non-finite sample size.
	ErrInvalidSampleSize = errors.New("invalid sample size")
	// ErrInvalidInput is returned for success counts or null proportions outside their domain.
	ErrInvalidInput = errors.New("invalid significance input")
)
