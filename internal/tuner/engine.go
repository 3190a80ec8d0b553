package tuner

import (
	"github.com/brendanciccone/tempotuner/internal/note"
	"github.com/brendanciccone/tempotuner/internal/pitch"
)

// Reading is the per-cycle output of the engine. Note is nil whenever
// SignalPresent is false; Locked distinguishes a confirmed note from a
// provisional one the host may render as "detecting".
type Reading struct {
	SignalPresent bool
	Note          *note.Info
	Locked        bool
}

// Engine is one tuning session: estimator plus the session-owned smoothing
// buffer and note state machine. It is single-writer by contract — the host
// guarantees at most one in-flight Analyze call; multichannel hosts run one
// Engine per channel.
type Engine struct {
	cfg    Config
	est    *pitch.Estimator
	smooth *smoother
	track  *tracker
}

// New builds an engine after validating the configuration.
func New(cfg Config) (*Engine, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg, est: pitch.NewEstimator()}
	e.smooth = newSmoother(&e.cfg)
	e.track = newTracker(&e.cfg)
	return e, nil
}

// Analyze runs one synchronous analysis cycle: gate on signal energy,
// estimate, smooth, map, update the state machine. It never fails;
// malformed input counts as a silent frame for this cycle.
func (e *Engine) Analyze(frame []float32, sampleRate int, referenceA4 float64, useFlats bool) Reading {
	now := e.cfg.Now()
	referenceA4 = ClampReference(referenceA4)

	rms, ok := pitch.RMS(frame)
	if !ok || sampleRate <= 0 || rms < e.track.signalThreshold() {
		reading, cleared := e.track.observeSilence(now)
		if cleared {
			e.smooth.reset()
		}
		return reading
	}

	cand, found := e.est.Estimate(frame, sampleRate)
	if !found {
		return e.track.observeUnpitched(now)
	}

	smoothed := e.smooth.push(cand.Frequency, cand.Range)
	mapped, valid := note.Map(smoothed, referenceA4, useFlats)
	if !valid {
		return e.track.observeUnpitched(now)
	}

	reading, switched := e.track.observe(mapped, cand, smoothed, now)
	if switched {
		e.smooth.reseed(cand.Frequency)
	}
	return reading
}

// Reset clears all session state — smoothing buffer, counters, locked note —
// without discarding the engine. Hosts call it on capture-device changes or
// explicit restart.
func (e *Engine) Reset() {
	e.smooth.reset()
	e.track.reset()
}
