package model

import "errors"

// Sentinel errors for configuration loading.
var (
	// ErrConfigNotFound is returned when no config file exists in any known location.
	ErrConfigNotFound = errors.New("config file not found")
	// ErrInvalidConfig is returned when a loaded config fails validation.
	ErrInvalidConfig = errors.New("invalid config")
)
