package scheduler

import "errors"

var (
	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrAlreadyRunning is returned by Start on a processor that was not stopped
	ErrAlreadyRunning = errors.New("processor is already running")
)
