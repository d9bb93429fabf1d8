package dynamo

import "errors"

// Domain errors for simulation setup.
var (
	// ErrInvalidConfig indicates a configuration rejected before the first frame.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrDimensionMismatch indicates slices or tables whose sizes disagree.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")

	// ErrNotFound indicates an unknown preset, run or metric.
	ErrNotFound = errors.New("dynamo: not found")
)

// ConfigError names the offending field of a rejected configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "dynamo: invalid configuration: " + e.Field + ": " + e.Message
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}
