package pitch

// RangeClass buckets a detected frequency so that downstream smoothing and
// locking can use gentler parameters for bass fundamentals, which produce
// fewer and noisier detections per second.
type RangeClass int

const (
	RangeVeryLow RangeClass = iota // below 100 Hz
	RangeLow                       // below 200 Hz
	RangeNormal
)

func (r RangeClass) String() string {
	switch r {
	case RangeVeryLow:
		return "very-low"
	case RangeLow:
		return "low"
	default:
		return "normal"
	}
}

// Range boundaries in Hz.
const (
	veryLowCeiling = 100.0
	lowCeiling     = 200.0
)

// ClassifyRange returns the range class for a frequency.
func ClassifyRange(freq float64) RangeClass {
	switch {
	case freq < veryLowCeiling:
		return RangeVeryLow
	case freq < lowCeiling:
		return RangeLow
	default:
		return RangeNormal
	}
}

// Candidate is a single per-frame frequency estimate together with its range
// classification. It lives for one analysis cycle.
type Candidate struct {
	Frequency float64
	Range     RangeClass
}
