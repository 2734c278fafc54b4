package stats

import "errors"

// Sentinel errors for record extraction.
var (
	ErrMissingField    = errors.New("missing field")
	ErrNonNumericField = errors.New("non-numeric field")
)

// FieldError reports which field of a record failed to extract.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
