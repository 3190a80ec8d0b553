package tuner

import (
	"math"
	"sort"

	"github.com/brendanciccone/tempotuner/internal/pitch"
)

// smoother keeps a short history of accepted candidate frequencies and
// produces a de-noised value. The ring is a fixed-capacity slice with a
// cursor, so a push never allocates.
type smoother struct {
	cfg *Config

	ring []float64
	head int // next write position
	n    int // filled slots, <= len(ring)

	lastInconsistent bool // candidate strayed past the consistency tolerance
}

func newSmoother(cfg *Config) *smoother {
	return &smoother{
		cfg:  cfg,
		ring: make([]float64, cfg.HistorySize),
	}
}

// push folds octave errors, records the candidate, and returns the smoothed
// frequency rounded to 0.1 Hz for display stability. Internal state keeps
// full precision.
func (s *smoother) push(freq float64, class pitch.RangeClass) float64 {
	freq = s.foldOctave(freq)

	med := s.median()
	s.lastInconsistent = med > 0 && math.Abs(freq-med)/med > s.cfg.ConsistencyTolerance

	// Inconsistent candidates are inserted anyway; a real pitch change must
	// be able to win the buffer over.
	s.ring[s.head] = freq
	s.head = (s.head + 1) % len(s.ring)
	if s.n < len(s.ring) {
		s.n++
	}

	var out float64
	switch class {
	case pitch.RangeVeryLow, pitch.RangeLow:
		// Bass detections already have low variance; heavy smoothing would
		// only add perceptible lag.
		out = s.trailingMean(3)
	default:
		out = s.weightedAverage()
		if avg := s.trailingMean(5); avg > 0 &&
			math.Abs(freq-avg)/avg > s.cfg.OutlierTolerance {
			// Deviant candidate: let it pull the output harder than its
			// ring weight would, but not all the way.
			out = 0.5*out + 0.5*freq
		}
	}

	return math.Round(out*10) / 10
}

// foldOctave corrects candidates that land within tolerance of exactly
// double or half the buffer median.
func (s *smoother) foldOctave(freq float64) float64 {
	if s.n < 4 {
		return freq
	}
	med := s.median()
	if med <= 0 {
		return freq
	}

	tol := s.cfg.OctaveTolerance
	if math.Abs(freq-2*med) <= tol*2*med {
		return freq / 2
	}
	if math.Abs(freq-med/2) <= tol*med/2 {
		return freq * 2
	}
	return freq
}

// reseed refills the whole ring with one frequency, used when the tracker
// switches notes so the old note's history cannot drag the new one.
func (s *smoother) reseed(freq float64) {
	for i := range s.ring {
		s.ring[i] = freq
	}
	s.head = 0
	s.n = len(s.ring)
	s.lastInconsistent = false
}

func (s *smoother) reset() {
	s.head = 0
	s.n = 0
	s.lastInconsistent = false
}

// at returns the k-th most recent sample, k=0 being the newest.
func (s *smoother) at(k int) float64 {
	idx := s.head - 1 - k
	for idx < 0 {
		idx += len(s.ring)
	}
	return s.ring[idx]
}

func (s *smoother) median() float64 {
	if s.n == 0 {
		return 0
	}
	vals := make([]float64, s.n)
	for i := 0; i < s.n; i++ {
		vals[i] = s.at(i)
	}
	sort.Float64s(vals)
	mid := len(vals) / 2
	if len(vals)%2 == 0 {
		return (vals[mid-1] + vals[mid]) / 2
	}
	return vals[mid]
}

func (s *smoother) trailingMean(k int) float64 {
	if s.n == 0 {
		return 0
	}
	if k > s.n {
		k = s.n
	}
	sum := 0.0
	for i := 0; i < k; i++ {
		sum += s.at(i)
	}
	return sum / float64(k)
}

// weightedAverage computes a moving average with geometrically decaying
// weights, the most recent sample weighted highest.
func (s *smoother) weightedAverage() float64 {
	if s.n == 0 {
		return 0
	}
	sum, wsum := 0.0, 0.0
	w := 1.0
	for i := 0; i < s.n; i++ {
		sum += s.at(i) * w
		wsum += w
		w *= s.cfg.SmoothingDecay
	}
	return sum / wsum
}
