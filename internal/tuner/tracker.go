package tuner

import (
	"time"

	"github.com/brendanciccone/tempotuner/internal/note"
	"github.com/brendanciccone/tempotuner/internal/pitch"
)

// trackerState is the explicit tagged state of the note state machine, so a
// reading with cents but no note is unrepresentable by construction.
type trackerState int

const (
	stateIdle trackerState = iota
	stateProvisional
	stateLocked
)

// tracker decides, frame by frame, whether a newly mapped note becomes the
// displayed note. Single-writer by contract; the engine owns one per
// session and never calls it concurrently.
type tracker struct {
	cfg *Config

	state      trackerState
	current    note.Info        // displayed note while Provisional or Locked
	rangeClass pitch.RangeClass // range of the current note's candidates

	sameCount int
	diffCount int
	pending   note.Info // challenger note while Locked

	lockedAt     time.Time
	inTuneStreak int

	belowSince   time.Time // start of the current below-threshold stretch
	holdingBelow bool
}

func newTracker(cfg *Config) *tracker {
	return &tracker{cfg: cfg}
}

func (t *tracker) reset() {
	*t = tracker{cfg: t.cfg}
}

// signalThreshold returns the RMS the current frame must clear. Detection
// from idle needs the full threshold; a signal already being tracked is
// sustained at a lower one, lower again once locked, and lower still for
// very-low notes.
func (t *tracker) signalThreshold() float64 {
	switch t.state {
	case stateProvisional:
		return t.cfg.SustainRMS
	case stateLocked:
		th := t.cfg.SustainRMS * t.cfg.LockedSustainScale
		if t.rangeClass == pitch.RangeVeryLow {
			th *= t.cfg.VeryLowSustainScale
		}
		return th
	default:
		return t.cfg.SignalRMS
	}
}

// observeSilence handles a frame below the signal threshold. State survives
// short dips; once the signal has been gone for the hold duration the
// machine returns to idle. Reports whether a full clear happened so the
// owner can also reset the smoothing buffer.
func (t *tracker) observeSilence(now time.Time) (Reading, bool) {
	if t.state == stateIdle {
		return Reading{}, false
	}

	if !t.holdingBelow {
		t.holdingBelow = true
		t.belowSince = now
		return Reading{}, false
	}

	if now.Sub(t.belowSince) >= t.cfg.SilenceHold {
		t.reset()
		return Reading{}, true
	}
	return Reading{}, false
}

// observeUnpitched handles a frame with signal energy but no usable note
// candidate. The displayed note is sustained; counters do not advance.
func (t *tracker) observeUnpitched(now time.Time) Reading {
	t.holdingBelow = false

	switch t.state {
	case stateProvisional:
		n := t.current
		return Reading{SignalPresent: true, Note: &n}
	case stateLocked:
		n := t.current
		return Reading{SignalPresent: true, Note: &n, Locked: true}
	default:
		return Reading{SignalPresent: true}
	}
}

// observe advances the state machine with a freshly mapped note. The
// smoothed frequency is compared against the locked note's exact frequency
// so cents track fine pitch changes without remapping the note. The second
// return value reports a note switch, which requires the owner to reseed
// its smoothing buffer.
func (t *tracker) observe(mapped note.Info, cand pitch.Candidate, smoothed float64, now time.Time) (Reading, bool) {
	t.holdingBelow = false

	switch t.state {
	case stateIdle:
		t.state = stateProvisional
		t.current = mapped
		t.rangeClass = cand.Range
		t.sameCount = 1
		n := t.current
		return Reading{SignalPresent: true, Note: &n}, false

	case stateProvisional:
		if mapped.Number == t.current.Number {
			t.sameCount++
			t.current = mapped
			t.rangeClass = cand.Range
			if t.sameCount >= t.lockFrames() {
				t.state = stateLocked
				t.lockedAt = now
				t.diffCount = 0
				t.inTuneStreak = 0
			}
		} else {
			t.current = mapped
			t.rangeClass = cand.Range
			t.sameCount = 1
		}
		n := t.current
		return Reading{SignalPresent: true, Note: &n, Locked: t.state == stateLocked}, false

	default: // stateLocked
		if mapped.Number == t.current.Number {
			t.diffCount = 0
			t.refreshLocked(smoothed)
			n := t.current
			return Reading{SignalPresent: true, Note: &n, Locked: true}, false
		}
		return t.observeChallenger(mapped, cand, now)
	}
}

// refreshLocked updates cents and status live against the locked note's
// fixed exact frequency.
func (t *tracker) refreshLocked(smoothed float64) {
	cents := note.Cents(smoothed, t.current.Exact)
	t.current.Frequency = smoothed
	t.current.Cents = cents
	t.current.Status = note.StatusForCents(cents)

	if t.current.Status == note.StatusInTune {
		t.inTuneStreak++
	} else {
		t.inTuneStreak = 0
	}
}

// observeChallenger counts consecutive frames that map to a different note
// and switches only once the adaptive threshold is reached.
func (t *tracker) observeChallenger(mapped note.Info, cand pitch.Candidate, now time.Time) (Reading, bool) {
	if t.pending.Number != mapped.Number {
		t.pending = mapped
		t.diffCount = 1
	} else {
		t.diffCount++
	}

	if t.diffCount < t.switchThreshold(mapped, now) {
		// Keep showing the locked note; one stray frame must not flicker
		// the display.
		n := t.current
		return Reading{SignalPresent: true, Note: &n, Locked: true}, false
	}

	// Switch. The first frame on the new note is a neutral transition cue:
	// no tuning status until cents settle against the new exact frequency.
	t.current = mapped
	t.current.Status = note.StatusNone
	t.current.Cents = 0
	t.rangeClass = cand.Range
	t.lockedAt = now
	t.diffCount = 0
	t.inTuneStreak = 0
	t.pending = note.Info{}

	n := t.current
	return Reading{SignalPresent: true, Note: &n, Locked: true}, true
}

func (t *tracker) lockFrames() int {
	if t.rangeClass == pitch.RangeVeryLow || t.rangeClass == pitch.RangeLow {
		return t.cfg.LowLockFrames
	}
	return t.cfg.LockFrames
}

// switchThreshold adapts the required disagreement count: adjacent notes,
// settled in-tune locks, and old locks all resist switching harder.
func (t *tracker) switchThreshold(challenger note.Info, now time.Time) int {
	threshold := t.cfg.SwitchFrames
	if note.Adjacent(challenger, t.current, t.cfg.AdjacentSemitones) {
		threshold = t.cfg.AdjacentSwitchFrames
	}
	if t.inTuneStreak >= t.cfg.InTuneStreakFrames {
		threshold += t.cfg.StableSwitchBonus
	}
	if now.Sub(t.lockedAt) > t.cfg.LockAgeThreshold {
		threshold += t.cfg.HeldSwitchBonus
	}
	return threshold
}
