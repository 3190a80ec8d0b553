package tuner

import "errors"

// Configuration errors. Analyze itself never fails; errors exist only at
// construction and config-file boundaries.
var (
	// ErrInvalidThreshold indicates a non-positive signal threshold.
	ErrInvalidThreshold = errors.New("signal thresholds must be positive")

	// ErrInvalidHistory indicates a non-positive smoothing history size.
	ErrInvalidHistory = errors.New("history size must be positive")

	// ErrInvalidLockFrames indicates a non-positive lock threshold.
	ErrInvalidLockFrames = errors.New("lock frame counts must be positive")

	// ErrInvalidTolerance indicates a smoothing tolerance outside (0, 1).
	ErrInvalidTolerance = errors.New("tolerances must be between 0 and 1")

	// ErrInvalidHold indicates a non-positive silence hold duration.
	ErrInvalidHold = errors.New("silence hold must be positive")
)
