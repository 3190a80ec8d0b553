// Package tuner turns raw per-frame pitch estimates into a stable note
// reading suitable for a display: it smooths candidate frequencies, maps
// them to notes, and applies hysteresis so the shown note does not flicker.
package tuner

import "time"

// Reference pitch limits. The reference is user-adjustable in half-Hz steps.
const (
	DefaultReferenceA4 = 440.0
	MinReferenceA4     = 420.0
	MaxReferenceA4     = 460.0
	ReferenceStep      = 0.5
)

// Signal energy thresholds (RMS of a normalized frame).
const (
	// DefaultSignalRMS must be cleared before a provisional note is accepted.
	DefaultSignalRMS = 0.010

	// DefaultSustainRMS keeps an already-detected signal alive through the
	// natural volume dips of a sustained note.
	DefaultSustainRMS = 0.005

	// DefaultLockedSustainScale further lowers the sustain threshold once a
	// note is locked, so the note survives its own decay.
	DefaultLockedSustainScale = 0.7

	// DefaultVeryLowSustainScale lowers it again for bass notes, whose
	// fundamentals decay with more inter-cycle variance.
	DefaultVeryLowSustainScale = 0.6
)

// Frequency smoothing defaults.
const (
	// DefaultHistorySize is the capacity of the accepted-candidate ring.
	DefaultHistorySize = 16

	// DefaultOctaveTolerance is the relative distance within which a
	// candidate is treated as an octave error of the buffer median.
	DefaultOctaveTolerance = 0.10

	// DefaultConsistencyTolerance tags candidates that stray from the
	// median; they are still inserted, never dropped.
	DefaultConsistencyTolerance = 0.05

	// DefaultOutlierTolerance is the deviation from the trailing average
	// beyond which a candidate is blended in with reduced influence.
	DefaultOutlierTolerance = 0.08

	// DefaultSmoothingDecay is the geometric weight decay of the moving
	// average, newest sample weighted highest.
	DefaultSmoothingDecay = 0.8
)

// Note locking and switching defaults.
const (
	// DefaultLockFrames consecutive agreeing frames confirm a note.
	DefaultLockFrames = 3

	// DefaultLowLockFrames applies to low and very-low range notes, which
	// yield fewer detections per second.
	DefaultLowLockFrames = 2

	// DefaultSwitchFrames consecutive disagreeing frames replace a locked
	// note.
	DefaultSwitchFrames = 4

	// DefaultAdjacentSwitchFrames applies when the challenger is within
	// AdjacentSemitones of the locked note; boundary jitter between
	// neighbors needs materially more evidence.
	DefaultAdjacentSwitchFrames = 8

	// DefaultAdjacentSemitones defines musical adjacency.
	DefaultAdjacentSemitones = 2

	// DefaultStableSwitchBonus extra frames required once the lock has been
	// near in-tune for DefaultInTuneStreakFrames.
	DefaultStableSwitchBonus = 2

	// DefaultInTuneStreakFrames of consecutive in-tune readings mark a lock
	// as settled.
	DefaultInTuneStreakFrames = 10

	// DefaultHeldSwitchBonus extra frames required once the lock is older
	// than DefaultLockAgeThreshold.
	DefaultHeldSwitchBonus = 2

	// DefaultLockAgeThreshold is the lock age past which switching gets
	// harder.
	DefaultLockAgeThreshold = 1500 * time.Millisecond

	// DefaultSilenceHold is how long the signal must stay below threshold
	// before the session returns to idle and all state clears.
	DefaultSilenceHold = 400 * time.Millisecond
)
