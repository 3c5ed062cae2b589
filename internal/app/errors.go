package service

import "errors"

// Sentinel error kinds returned by Service.
var (
	ErrNotStarted      = errors.New("service not started")
	ErrBackpressure    = errors.New("evaluation queue is full")
	ErrNotFound        = errors.New("evaluation not found")
	ErrUnknownCategory = errors.New("unknown category")
)
