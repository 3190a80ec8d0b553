package pitch

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// yinEstimate finds the fundamental period with a cumulative-mean-normalized
// difference function (CMNDF). The difference function is computed exactly
// via an FFT autocorrelation plus prefix energy sums, so the cost stays
// O(n log n) even for the long lags the low end of the band needs.
func (e *Estimator) yinEstimate(frame []float32, sampleRate int) (float64, bool) {
	n := len(frame)

	tauMin := int(float64(sampleRate) / e.MaxFrequency)
	if tauMin < 2 {
		tauMin = 2
	}
	tauMax := int(math.Ceil(float64(sampleRate) / e.MinFrequency))
	if tauMax > n/2 {
		tauMax = n / 2
	}
	if tauMax <= tauMin+2 {
		return 0, false
	}

	acf := autocorrelate(frame)

	// Prefix sums of squared samples: cum[i] = sum of frame[0:i]^2.
	cum := make([]float64, n+1)
	for i, s := range frame {
		v := float64(s)
		cum[i+1] = cum[i] + v*v
	}

	// d(tau) = sum_{j=0}^{n-tau-1} (x[j] - x[j+tau])^2
	//        = cum[n-tau] + (cum[n] - cum[tau]) - 2*acf[tau]
	d := make([]float64, tauMax+1)
	for tau := 1; tau <= tauMax; tau++ {
		v := cum[n-tau] + (cum[n] - cum[tau]) - 2*acf[tau]
		if v < 0 {
			v = 0 // rounding in the FFT path
		}
		d[tau] = v
	}

	cmndf := make([]float64, tauMax+1)
	cmndf[0] = 1
	running := 0.0
	for tau := 1; tau <= tauMax; tau++ {
		running += d[tau]
		if running > 0 {
			cmndf[tau] = d[tau] * float64(tau) / running
		} else {
			cmndf[tau] = 1
		}
	}

	// First dip below the threshold, then descend to its local minimum.
	tau := -1
	for t := tauMin; t <= tauMax; t++ {
		if cmndf[t] < e.YINThreshold {
			for t+1 <= tauMax && cmndf[t+1] < cmndf[t] {
				t++
			}
			tau = t
			break
		}
	}

	if tau < 0 {
		// No dip crossed the threshold. Accept the global minimum only if
		// it is itself convincing; a shallow minimum is noise.
		best := tauMin
		for t := tauMin + 1; t <= tauMax; t++ {
			if cmndf[t] < cmndf[best] {
				best = t
			}
		}
		if cmndf[best] >= e.YINFallbackCeiling {
			return 0, false
		}
		tau = best
	}

	betterTau := float64(tau)
	if tau > tauMin && tau < tauMax {
		betterTau += parabolicPeak(cmndf[tau-1], cmndf[tau], cmndf[tau+1])
	}
	if betterTau <= 0 {
		return 0, false
	}
	return float64(sampleRate) / betterTau, true
}

// autocorrelate computes the linear (zero-padded) autocorrelation of the
// frame: acf[tau] = sum_j x[j]*x[j+tau].
func autocorrelate(frame []float32) []float64 {
	n := len(frame)
	size := nextPowerOfTwo(2 * n)

	padded := make([]float64, size)
	for i, s := range frame {
		padded[i] = float64(s)
	}

	spectrum := fft.FFTReal(padded)
	for i, c := range spectrum {
		spectrum[i] = c * cmplx.Conj(c)
	}
	inverse := fft.IFFT(spectrum)

	acf := make([]float64, n)
	for i := range acf {
		acf[i] = real(inverse[i])
	}
	return acf
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
