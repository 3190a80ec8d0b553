package tuner

import (
	"math"
	"testing"

	"github.com/brendanciccone/tempotuner/internal/pitch"
)

func newTestSmoother(t *testing.T) *smoother {
	t.Helper()
	cfg := DefaultConfig()
	return newSmoother(&cfg)
}

func TestSmootherSteadyInput(t *testing.T) {
	s := newTestSmoother(t)
	var out float64
	for i := 0; i < 10; i++ {
		out = s.push(440.0, pitch.RangeNormal)
	}
	if out != 440.0 {
		t.Fatalf("steady 440 input smoothed to %.2f", out)
	}
}

func TestSmootherFoldsOctaveDown(t *testing.T) {
	s := newTestSmoother(t)
	for i := 0; i < 6; i++ {
		s.push(440.0, pitch.RangeNormal)
	}
	// A double-frequency candidate is an octave error, not a new note.
	out := s.push(880.0, pitch.RangeNormal)
	if math.Abs(out-440.0) > 5 {
		t.Fatalf("octave-up error not folded: got %.2f", out)
	}
}

func TestSmootherFoldsOctaveUp(t *testing.T) {
	s := newTestSmoother(t)
	for i := 0; i < 6; i++ {
		s.push(440.0, pitch.RangeNormal)
	}
	out := s.push(220.0, pitch.RangeNormal)
	if math.Abs(out-440.0) > 5 {
		t.Fatalf("octave-down error not folded: got %.2f", out)
	}
}

func TestSmootherFoldTolerance(t *testing.T) {
	s := newTestSmoother(t)
	for i := 0; i < 8; i++ {
		s.push(440.0, pitch.RangeNormal)
	}
	// 860 is within 10% of 880, so it still folds.
	if got := s.foldOctave(860.0); math.Abs(got-430.0) > 0.01 {
		t.Errorf("foldOctave(860) = %.2f, want 430", got)
	}
	// 700 is nowhere near an octave of the median and passes through.
	if got := s.foldOctave(700.0); got != 700.0 {
		t.Errorf("foldOctave(700) = %.2f, want unchanged", got)
	}
}

func TestSmootherTagsInconsistent(t *testing.T) {
	s := newTestSmoother(t)
	for i := 0; i < 6; i++ {
		s.push(440.0, pitch.RangeNormal)
	}

	s.push(470.0, pitch.RangeNormal) // ~7% off the median
	if !s.lastInconsistent {
		t.Error("7%% deviation should be tagged inconsistent")
	}
	// Tagged, but still inserted.
	if s.at(0) != 470.0 {
		t.Error("inconsistent candidate must still be inserted")
	}

	s.push(441.0, pitch.RangeNormal)
	if s.lastInconsistent {
		t.Error("near-median candidate should not be tagged")
	}
}

func TestSmootherLowRangeBypass(t *testing.T) {
	s := newTestSmoother(t)
	for i := 0; i < 10; i++ {
		s.push(82.0, pitch.RangeVeryLow)
	}
	// A bass candidate is only lightly filtered, so the output follows the
	// new value much faster than the weighted average would.
	out := s.push(86.0, pitch.RangeVeryLow)
	if out < 83.0 {
		t.Fatalf("low-range candidate over-smoothed: got %.2f", out)
	}
}

func TestSmootherOutlierDamped(t *testing.T) {
	s := newTestSmoother(t)
	for i := 0; i < 10; i++ {
		s.push(440.0, pitch.RangeNormal)
	}

	// 500 deviates >8% from the trailing average: it pulls the output
	// beyond its ring weight, but is not accepted outright.
	out := s.push(500.0, pitch.RangeNormal)
	if out >= 500.0 {
		t.Fatalf("outlier accepted outright: %.2f", out)
	}
	if out < 455.0 {
		t.Fatalf("outlier should still pull the output hard, got %.2f", out)
	}
}

func TestSmootherReseed(t *testing.T) {
	s := newTestSmoother(t)
	for i := 0; i < 10; i++ {
		s.push(440.0, pitch.RangeNormal)
	}

	s.reseed(523.25)
	out := s.push(523.25, pitch.RangeNormal)
	if math.Abs(out-523.3) > 0.2 {
		t.Fatalf("after reseed expected ~523.3, got %.2f", out)
	}
}

func TestSmootherRingBounded(t *testing.T) {
	s := newTestSmoother(t)
	for i := 0; i < 100; i++ {
		s.push(440.0+float64(i), pitch.RangeNormal)
	}
	if s.n != DefaultHistorySize {
		t.Fatalf("ring grew past capacity: n=%d", s.n)
	}
	if s.at(0) != 539.0 {
		t.Fatalf("newest sample should be the last pushed, got %.1f", s.at(0))
	}
}

func TestSmootherDisplayRounding(t *testing.T) {
	s := newTestSmoother(t)
	out := s.push(440.123456, pitch.RangeNormal)
	if out != 440.1 {
		t.Fatalf("display value should round to 0.1 Hz, got %v", out)
	}
}
