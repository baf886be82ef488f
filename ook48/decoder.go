package ook48

import "sort"

// DecodeMode selects how the eight (or sixteen) per-slot scalars are derived
// from the tone-cache slice.
type DecodeMode int

const (
	Normal DecodeMode = iota
	Alt
	Rainscatter
)

// DefaultConfidenceThreshold is applied when the gate is not configured to
// something else via SET:confidence.
const DefaultConfidenceThreshold = 0.180

// OutcomeKind tags a Decoder.Decode result.
type OutcomeKind int

const (
	Decoded OutcomeKind = iota
	LowConfidence
	InvalidCode
)

// Outcome is the tagged result of one character decode.
type Outcome struct {
	Kind       OutcomeKind
	Char       byte
	Confidence float64
	Soft       [8]float64
}

// Decoder implements the OOK48 hard-decision decode pipeline.
type Decoder struct {
	Mode                DecodeMode
	HalfRate            bool
	ConfidenceThreshold float64
}

// NewDecoder returns a Decoder with the default confidence threshold.
func NewDecoder() *Decoder {
	return &Decoder{ConfidenceThreshold: DefaultConfidenceThreshold}
}

// Decode consumes one frame: cache is the tone-cache bin window for this
// character, shape [bin][slot] with bin covering
// [tone0-tol, tone0+tol) and slot covering [0, 8) or [0, 16) under
// half-rate. tone0 and tol locate the requested tone band within the wider
// magnitude vector that cache's rows index into — Decode itself only needs
// the already-sliced rows.
func (d *Decoder) Decode(cache [][]float64) Outcome {
	t := d.selectScalars(cache)

	if d.HalfRate {
		combined := make([]float64, 8)
		for i := 0; i < 8; i++ {
			combined[i] = t[i] + t[i+8]
		}
		t = combined
	}

	soft := [8]float64{}
	copy(soft[:], t)

	confidence := gapConfidence(t)
	if confidence < d.ConfidenceThreshold {
		return Outcome{Kind: LowConfidence, Char: Unknown, Confidence: confidence, Soft: soft}
	}

	dec := hardDecodeByte(t)
	ch := decode4from8[dec]
	if ch == 0 {
		return Outcome{Kind: InvalidCode, Char: 0, Confidence: confidence, Soft: soft}
	}
	return Outcome{Kind: Decoded, Char: ch, Confidence: confidence, Soft: soft}
}

// selectScalars picks the per-slot scalar depending on Mode: Normal picks the
// per-slot maximum across bins; Alt picks the single bin with the widest max-min range
// across slots and uses its values; Rainscatter sums all bins per slot.
func (d *Decoder) selectScalars(cache [][]float64) []float64 {
	numBins := len(cache)
	numSlots := 0
	if numBins > 0 {
		numSlots = len(cache[0])
	}
	t := make([]float64, numSlots)

	switch d.Mode {
	case Alt:
		best := 0
		bestRange := 0.0
		for b := 0; b < numBins; b++ {
			max, min := cache[b][0], cache[b][0]
			for _, v := range cache[b] {
				if v > max {
					max = v
				}
				if v < min {
					min = v
				}
			}
			if r := max - min; r > bestRange {
				bestRange = r
				best = b
			}
		}
		copy(t, cache[best])
	case Rainscatter:
		for s := 0; s < numSlots; s++ {
			sum := 0.0
			for b := 0; b < numBins; b++ {
				sum += cache[b][s]
			}
			t[s] = sum
		}
	default: // Normal
		for s := 0; s < numSlots; s++ {
			max := -1.0
			for b := 0; b < numBins; b++ {
				if cache[b][s] > max {
					max = cache[b][s]
				}
			}
			t[s] = max
		}
	}
	return t
}

// gapConfidence computes the soft-gap confidence metric.
func gapConfidence(t []float64) float64 {
	s := append([]float64(nil), t...)
	sort.Sort(sort.Reverse(sort.Float64Slice(s)))
	rng := s[0] - s[7]
	if rng <= 0 {
		return 0
	}
	return (s[3] - s[4]) / rng
}

// hardDecodeByte finds the four largest values in t (ties broken by lowest
// index, per the reference's linear scan) and builds the byte with a bit
// set at each of their positions, MSB at index 0.
func hardDecodeByte(t []float64) uint8 {
	remaining := append([]float64(nil), t...)
	var dec uint8
	for l := 0; l < 4; l++ {
		largest := 0.0
		pos := 0
		for i, v := range remaining {
			if v > largest {
				largest = v
				pos = i
			}
		}
		dec |= 0x80 >> uint(pos)
		remaining[pos] = 0
	}
	return dec
}
