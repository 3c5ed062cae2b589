package config

import "errors"

// Sentinel kinds returned by Load, LoadFrom and Validate.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
