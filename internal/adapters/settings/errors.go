package settings

import "errors"

// Sentinel kinds for settings store errors.
var (
	ErrUnknownBackend = errors.New("unknown settings backend")
	ErrClosed         = errors.New("settings store closed")
)
