// Package pitch estimates the fundamental frequency of buffered audio
// frames. Two estimators are used: a cumulative-mean-normalized difference
// function (YIN family) for most of the band, and a peak-timing estimator
// for low frequencies where the difference function needs more periods than
// a frame can hold.
package pitch

import "math"

// Frequency band boundaries used to pick the estimation algorithm from a
// cheap zero-crossing-rate pre-check.
const (
	lowBandCeiling     = 100.0 // below: peak-timing estimator leads
	overlapBandCeiling = 300.0 // below: both estimators run and cross-check
)

// Estimator produces at most one frequency candidate per frame. It holds
// only tuning parameters, no state, so a single instance can be shared by
// any number of frames.
type Estimator struct {
	MinFrequency float64 // Hz - lower edge of the supported band
	MaxFrequency float64 // Hz - upper edge of the supported band
	SilenceRMS   float64 // RMS floor below which a frame is skipped outright

	YINThreshold       float64 // CMNDF dip threshold for period acceptance
	YINFallbackCeiling float64 // max CMNDF value accepted for the global-minimum fallback

	PeakThreshold  float64 // fraction of the frame peak a local maximum must reach
	BlendAgreement float64 // max relative disagreement for cross-checked blending
	BlendWeight    float64 // weight of the difference-function result in a blend

	MinFrameLen int // frames shorter than this are rejected
}

// NewEstimator returns an estimator tuned for instrument frames at common
// sample rates.
func NewEstimator() *Estimator {
	return &Estimator{
		MinFrequency:       30.0,
		MaxFrequency:       1500.0,
		SilenceRMS:         0.002,
		YINThreshold:       0.08,
		YINFallbackCeiling: 0.30,
		PeakThreshold:      0.5,
		BlendAgreement:     0.10,
		BlendWeight:        0.75,
		MinFrameLen:        1024,
	}
}

// Estimate analyzes one frame and returns a candidate fundamental frequency.
// The second return value is false when the frame is silent, malformed, or
// no confident period was found. Pure; the frame is only read.
func (e *Estimator) Estimate(frame []float32, sampleRate int) (Candidate, bool) {
	if len(frame) < e.MinFrameLen || sampleRate <= 0 {
		return Candidate{}, false
	}

	rms, ok := RMS(frame)
	if !ok || rms < e.SilenceRMS {
		return Candidate{}, false
	}

	var freq float64
	var found bool

	zcr := crossingRate(frame, sampleRate)
	switch {
	case zcr < lowBandCeiling:
		freq, found = e.lowFrequencyEstimate(frame, sampleRate)
		if !found {
			freq, found = e.yinEstimate(frame, sampleRate)
		}
	case zcr < overlapBandCeiling:
		freq, found = e.crossCheckedEstimate(frame, sampleRate)
	default:
		freq, found = e.yinEstimate(frame, sampleRate)
	}
	if !found {
		return Candidate{}, false
	}

	if freq < e.MinFrequency || freq > e.MaxFrequency {
		return Candidate{}, false
	}
	return Candidate{Frequency: freq, Range: ClassifyRange(freq)}, true
}

// crossCheckedEstimate runs both estimators in the overlap band. When they
// agree within BlendAgreement the results are blended, favoring the
// difference function; otherwise the difference-function result wins.
func (e *Estimator) crossCheckedEstimate(frame []float32, sampleRate int) (float64, bool) {
	yin, okYin := e.yinEstimate(frame, sampleRate)
	low, okLow := e.lowFrequencyEstimate(frame, sampleRate)

	switch {
	case okYin && okLow:
		if math.Abs(yin-low)/yin <= e.BlendAgreement {
			return e.BlendWeight*yin + (1-e.BlendWeight)*low, true
		}
		return yin, true
	case okYin:
		return yin, true
	case okLow:
		return low, true
	default:
		return 0, false
	}
}

// RMS computes the root-mean-square level of a frame, subsampled for speed.
// Returns false when the frame is empty or contains non-finite samples.
func RMS(frame []float32) (float64, bool) {
	if len(frame) == 0 {
		return 0, false
	}

	const stride = 4
	sum := 0.0
	n := 0
	for i := 0; i < len(frame); i += stride {
		s := float64(frame[i])
		sum += s * s
		n++
	}
	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return 0, false
	}
	return math.Sqrt(sum / float64(n)), true
}

// crossingRate estimates frame frequency from the zero-crossing count. Each
// full period contains two crossings, so rate = crossings * fs / (2*(n-1)).
func crossingRate(frame []float32, sampleRate int) float64 {
	crossings := 0
	for i := 1; i < len(frame); i++ {
		if (frame[i-1] < 0) != (frame[i] < 0) {
			crossings++
		}
	}
	return float64(crossings) * float64(sampleRate) / (2 * float64(len(frame)-1))
}

// parabolicPeak refines the position of a local extremum from its two
// neighbors. Returns the fractional offset in [-1, 1]; zero when the
// curvature degenerates.
func parabolicPeak(prev, cur, next float64) float64 {
	denom := prev - 2*cur + next
	if denom == 0 {
		return 0
	}
	delta := 0.5 * (prev - next) / denom
	if delta < -1 {
		delta = -1
	} else if delta > 1 {
		delta = 1
	}
	return delta
}
