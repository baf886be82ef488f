package cw

const (
	peakDecaySlow = 0.9995
	peakDecayFast = 0.985
	peakFastOnset = 120

	p20HistBins   = 256
	p20HistWindow = 128

	noiseFloorMinRise = 0.001
)

// p20Ring is the fixed window of recently-seen histogram buckets backing
// the 20th-percentile noise floor estimator.
type p20Ring struct {
	data  [p20HistWindow]uint8
	head  int
	count int
}

func (r *p20Ring) push(v uint8) {
	idx := (r.head + r.count) % p20HistWindow
	r.data[idx] = v
	if r.count < p20HistWindow {
		r.count++
	} else {
		r.head = (r.head + 1) % p20HistWindow
	}
}

func (r *p20Ring) oldest() uint8 { return r.data[r.head] }
func (r *p20Ring) full() bool    { return r.count == p20HistWindow }

// agc tracks an asymmetric peak hold and a 20th-percentile histogram noise
// floor over the single-bin magnitude stream.
type agc struct {
	peak          float64
	peakLowFrames int

	hist  [p20HistBins]uint16
	ring  p20Ring
	scale float64
	total int

	noiseFloor    float64
	noiseFloorMin float64
}

func (a *agc) updatePeak(mag float64) {
	if mag >= a.peak {
		a.peak = mag
		a.peakLowFrames = 0
		return
	}
	a.peakLowFrames++
	decay := peakDecaySlow
	if a.peakLowFrames > peakFastOnset {
		decay = peakDecayFast
	}
	a.peak *= decay
}

func (a *agc) updateNoiseFloor(mag float64) {
	if a.scale == 0 && mag > 0 {
		a.scale = float64(p20HistBins-1) / (mag * 8.0)
	}
	if a.scale <= 0 {
		return
	}

	bucket := int(mag * a.scale)
	if bucket >= p20HistBins {
		bucket = p20HistBins - 1
	}

	if a.ring.full() {
		old := a.ring.oldest()
		if a.hist[old] > 0 {
			a.hist[old]--
		}
		a.total = p20HistWindow
	}
	a.ring.push(uint8(bucket))
	a.hist[bucket]++
	if a.total < p20HistWindow {
		a.total++
	}

	target := a.total * 20 / 100
	if target < 1 {
		target = 1
	}
	cum, p20bucket := 0, 0
	for b := 0; b < p20HistBins; b++ {
		cum += int(a.hist[b])
		if cum >= target {
			p20bucket = b
			break
		}
	}

	shortTerm := float64(p20bucket) / (a.scale + 1e-12)
	if shortTerm > a.noiseFloorMin {
		a.noiseFloorMin += noiseFloorMinRise * (shortTerm - a.noiseFloorMin)
	}
	if shortTerm > a.noiseFloorMin {
		a.noiseFloor = shortTerm
	} else {
		a.noiseFloor = a.noiseFloorMin
	}
}
