package cw

import "math"

const (
	minAcquireMarkRuns = 20
	reestimateInterval = 6
	lockThreshold      = 0.65
	morphThreshFrac    = 0.38

	spaceWordWeight   = 0.15
	spaceLetterWeight = 0.30
	histReward        = 0.40
	histTolFrac       = 0.35
)

// morphFilter iteratively merges runs shorter than minRun into the larger
// adjacent neighbour, then merges newly-adjacent same-state runs, until no
// further merge occurs. It does not mutate its input.
func morphFilter(runs []runEntry, minRun int) []runEntry {
	if len(runs) <= 1 || minRun <= 1 {
		return runs
	}

	for {
		tmp := make([]runEntry, 0, len(runs))
		changed := false
		i := 0
		for i < len(runs) {
			cur := runs[i]
			if cur.length < minRun && len(runs) > 1 {
				switch {
				case i == 0:
					next := runs[i+1]
					tmp = append(tmp, runEntry{state: next.state, length: cur.length + next.length})
					i += 2
				case i == len(runs)-1:
					tmp[len(tmp)-1].length += cur.length
					i++
				default:
					prevLen := tmp[len(tmp)-1].length
					next := runs[i+1]
					if prevLen >= next.length {
						tmp[len(tmp)-1].length += cur.length
						i++
					} else {
						tmp = append(tmp, runEntry{state: next.state, length: cur.length + next.length})
						i += 2
					}
				}
				changed = true
			} else {
				tmp = append(tmp, cur)
				i++
			}
		}

		merged := make([]runEntry, 0, len(tmp))
		for _, r := range tmp {
			if len(merged) > 0 && merged[len(merged)-1].state == r.state {
				merged[len(merged)-1].length += r.length
			} else {
				merged = append(merged, r)
			}
		}
		runs = merged

		if !changed {
			return runs
		}
	}
}

// ditFrames is the ideal dit length, in frames, at the given wpm and frame
// rate.
func ditFrames(wpm, frameRate float64) float64 {
	return 1.2 / wpm * frameRate
}

// estimateWPM scores every half-wpm step in [wpmMin, wpmMax] against runs
// and returns the best-scoring wpm together with its confidence. If runs
// contains no mark runs at all, it reports wpmMin with
// zero confidence.
func estimateWPM(runs []runEntry, wpmMin, wpmMax, frameRate float64) (bestWPM, bestConf float64) {
	var markRuns []int
	for _, r := range runs {
		if r.state == 1 && r.length >= 2 {
			markRuns = append(markRuns, r.length)
		}
	}
	if len(markRuns) == 0 {
		return wpmMin, 0
	}

	bestWPM = wpmMin
	bestScore := math.Inf(-1)

	for wpm := wpmMin; wpm <= wpmMax+1e-4; wpm += 0.5 {
		uf := math.Round(ditFrames(wpm, frameRate))
		if uf < 1 {
			uf = 1
		}

		subThresh := 0
		for _, r := range runs {
			if float64(r.length)/uf < 0.5 {
				subThresh++
			}
		}
		runCount := len(runs)
		if runCount == 0 {
			runCount = 1
		}
		subFrac := float64(subThresh) / float64(runCount)

		pen, tw := 0.0, 0.0
		for _, r := range runs {
			units := float64(r.length) / uf
			if units < 0.5 {
				continue
			}
			weight := math.Min(float64(r.length), 10*uf)

			var errv, w float64
			switch {
			case r.state == 1:
				errv = math.Min(math.Abs(units-1), math.Abs(units-3))
				w = 1.0
			case units >= 6:
				errv = math.Abs(units - 7)
				w = spaceWordWeight
			default:
				errv = math.Min(math.Abs(units-1), math.Abs(units-3))
				w = spaceLetterWeight
			}
			pen += weight * w * errv
			tw += weight * w
		}
		if tw <= 1e-9 {
			continue
		}

		tol := histTolFrac * uf
		dashFrames := 3 * uf
		hits := 0
		for _, length := range markRuns {
			d1 := math.Abs(float64(length) - uf)
			d3 := math.Abs(float64(length) - dashFrames)
			if d1 <= tol || d3 <= tol {
				hits++
			}
		}
		conf := float64(hits) / float64(len(markRuns))
		score := -(pen / tw) + histReward*conf - 1.5*subFrac

		if score > bestScore {
			bestScore = score
			bestWPM = wpm
			bestConf = conf
		}
	}
	return bestWPM, bestConf
}
