package pitch

import (
	"math"
	"sort"
)

// lowFrequencyEstimate measures the period of a bass tone from the timing of
// its waveform peaks. The frame is low-pass filtered first so harmonics do
// not spawn extra peaks; inter-peak distances are cleaned with an
// interquartile filter before averaging. When fewer than three usable peaks
// are found it falls back to zero-crossing interval timing.
func (e *Estimator) lowFrequencyEstimate(frame []float32, sampleRate int) (float64, bool) {
	filtered := lowPass(frame, sampleRate)

	positions := findPeaks(filtered, e.PeakThreshold)
	if len(positions) >= 3 {
		periods := make([]float64, len(positions)-1)
		for i := 1; i < len(positions); i++ {
			periods[i-1] = positions[i] - positions[i-1]
		}
		inliers := iqrFilter(periods)
		if len(inliers) > 0 {
			mean := 0.0
			for _, p := range inliers {
				mean += p
			}
			mean /= float64(len(inliers))
			if mean > 0 {
				return float64(sampleRate) / mean, true
			}
		}
	}

	return e.zeroCrossingEstimate(filtered, sampleRate)
}

// lowPass applies a one-pole filter with a cutoff above the low band so peak
// shapes survive while upper harmonics are attenuated.
func lowPass(frame []float32, sampleRate int) []float64 {
	const cutoff = 250.0 // Hz
	rc := 1.0 / (2 * math.Pi * cutoff)
	dt := 1.0 / float64(sampleRate)
	alpha := dt / (rc + dt)

	out := make([]float64, len(frame))
	y := float64(frame[0])
	for i, s := range frame {
		y += alpha * (float64(s) - y)
		out[i] = y
	}
	return out
}

// findPeaks returns the sub-sample positions of local maxima whose amplitude
// clears an adaptive threshold derived from the frame peak. Positions are
// refined with parabolic interpolation.
func findPeaks(samples []float64, thresholdFrac float64) []float64 {
	peak := 0.0
	for _, s := range samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return nil
	}
	threshold := peak * thresholdFrac

	var positions []float64
	for i := 1; i < len(samples)-1; i++ {
		s := samples[i]
		if s < threshold {
			continue
		}
		if s > samples[i-1] && s >= samples[i+1] {
			delta := parabolicPeak(samples[i-1], s, samples[i+1])
			positions = append(positions, float64(i)+delta)
			// Skip ahead; adjacent samples of the same crest are not
			// independent peaks.
			i += 2
		}
	}
	return positions
}

// zeroCrossingEstimate times upward zero crossings with linear interpolation
// of the exact crossing point. Crossings with a shallow slope are rejected
// as noise; intervals are IQR-filtered like the peak path.
func (e *Estimator) zeroCrossingEstimate(samples []float64, sampleRate int) (float64, bool) {
	peak := 0.0
	for _, s := range samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return 0, false
	}
	minSlope := peak * 0.002 // per-sample rise required at the crossing

	var crossings []float64
	for i := 1; i < len(samples); i++ {
		if samples[i-1] < 0 && samples[i] >= 0 {
			slope := samples[i] - samples[i-1]
			if slope < minSlope {
				continue
			}
			frac := -samples[i-1] / slope
			crossings = append(crossings, float64(i-1)+frac)
		}
	}
	if len(crossings) < 3 {
		return 0, false
	}

	intervals := make([]float64, len(crossings)-1)
	for i := 1; i < len(crossings); i++ {
		intervals[i-1] = crossings[i] - crossings[i-1]
	}
	inliers := iqrFilter(intervals)
	if len(inliers) == 0 {
		return 0, false
	}

	mean := 0.0
	for _, v := range inliers {
		mean += v
	}
	mean /= float64(len(inliers))
	if mean <= 0 {
		return 0, false
	}
	return float64(sampleRate) / mean, true
}

// iqrFilter drops values outside 1.5 interquartile ranges of the middle
// half. Input order is preserved for the survivors.
func iqrFilter(values []float64) []float64 {
	if len(values) < 4 {
		return values
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	q1 := sorted[len(sorted)/4]
	q3 := sorted[(3*len(sorted))/4]
	iqr := q3 - q1
	lo := q1 - 1.5*iqr
	hi := q3 + 1.5*iqr

	var out []float64
	for _, v := range values {
		if v >= lo && v <= hi {
			out = append(out, v)
		}
	}
	return out
}
