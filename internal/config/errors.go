package config

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
	// ErrConfigurationOutOfRange marks a setting that was clamped or replaced
	// by its default rather than rejected.
	ErrConfigurationOutOfRange = errors.New("configuration out of range")
	// ErrUnknownSetting is returned when writing a key the snapshot does not have.
	ErrUnknownSetting = errors.New("unknown setting")
)
