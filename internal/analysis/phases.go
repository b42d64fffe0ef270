package analysis

import "math"

// phaseWeights is the proportional share of each phase used by the
// fallback split, roughly matching observed swing proportions.
var phaseWeights = []float64{0.10, 0.30, 0.10, 0.20, 0.30}

// DetectorParams holds the segmentation tunables
type DetectorParams struct {
	MinFrames      int
	MinPhaseFrames int
	SmoothWindow   int
	RiseThreshold  float64
	FallThreshold  float64
	DecelThreshold float64
}

// DefaultDetectorParams returns the standard tunables
func DefaultDetectorParams() DetectorParams {
	return DetectorParams{
		MinFrames:      10,
		MinPhaseFrames: 3,
		SmoothWindow:   5,
		RiseThreshold:  5.0,
		FallThreshold:  5.0,
		DecelThreshold: 2.0,
	}
}

// Detector segments a motion into the canonical phase sequence
type Detector struct {
	params DetectorParams
}

// NewDetector creates a phase detector
func NewDetector(params DetectorParams) *Detector {
	return &Detector{params: params}
}

// Segment produces a total, well-formed segmentation of [0, totalFrames-1].
// Boundary heuristics run in phase order; the first missing or invalid
// candidate voids itself and all later ones, and the remaining range is
// distributed by a deterministic proportional split.
func (d *Detector) Segment(ts AngleTimeSeries, totalFrames int, fps float64) (PhaseSegmentation, error) {
	if totalFrames < d.params.MinFrames {
		return nil, NewTooShort(totalFrames, d.params.MinFrames)
	}
	if fps <= 0 {
		fps = 24
	}

	starts := []int{0}
	if tracked := trackedSeries(ts); tracked != nil {
		vel := velocity(tracked, d.params.SmoothWindow)
		finders := []func(v []float64, after int) (int, bool){
			func(v []float64, after int) (int, bool) {
				return findBackswingOnset(v, after, d.params.RiseThreshold)
			},
			findTopOnset,
			func(v []float64, after int) (int, bool) {
				return findDownswingOnset(v, after, d.params.FallThreshold)
			},
			func(v []float64, after int) (int, bool) {
				return findFollowThroughOnset(v, after, d.params.DecelThreshold)
			},
		}
		for k, find := range finders {
			cand, ok := find(vel, starts[k])
			if !ok || !d.validBoundary(cand, starts[k], k+1, totalFrames) {
				break
			}
			starts = append(starts, cand)
		}
	}

	if len(starts) < len(PhaseOrder) {
		last := len(starts) - 1
		tail := splitProportionally(starts[last], totalFrames-1, phaseWeights[last:])
		starts = append(starts[:last], tail...)
	}

	return buildPhases(starts, totalFrames, fps), nil
}

// validBoundary checks ordering and minimum duration: the previous phase
// keeps at least MinPhaseFrames, and enough frames remain for every phase
// still to come.
func (d *Detector) validBoundary(cand, prev, phaseIndex, totalFrames int) bool {
	if cand < prev+d.params.MinPhaseFrames {
		return false
	}
	return cand <= totalFrames-(len(PhaseOrder)-phaseIndex)*d.params.MinPhaseFrames
}

// trackedSeries forward-fills the left arm angle, the signal tracked by
// the boundary heuristics. Returns nil when the angle is absent in every
// frame, which sends segmentation down the pure fallback path.
func trackedSeries(ts AngleTimeSeries) []float64 {
	out := make([]float64, len(ts))
	first := -1
	for i, sample := range ts {
		if v := sample[AngleLeftArm]; v != nil {
			out[i] = *v
			if first == -1 {
				first = i
			}
		} else if i > 0 {
			out[i] = out[i-1]
		}
	}
	if first == -1 {
		return nil
	}
	for i := 0; i < first; i++ {
		out[i] = out[first]
	}
	return out
}

// velocity returns the smoothed frame-to-frame delta of the tracked series
func velocity(tracked []float64, window int) []float64 {
	smoothed := movingAverage(tracked, window)
	vel := make([]float64, len(smoothed))
	for i := 1; i < len(smoothed); i++ {
		vel[i] = smoothed[i] - smoothed[i-1]
	}
	return movingAverage(vel, window)
}

// findBackswingOnset finds the first sustained rise above the threshold
func findBackswingOnset(vel []float64, after int, threshold float64) (int, bool) {
	for i := after + 1; i < len(vel); i++ {
		if vel[i] > threshold {
			return i, true
		}
	}
	return 0, false
}

// findTopOnset finds the crest: the first positive-to-non-positive
// velocity sign change after the backswing onset.
func findTopOnset(vel []float64, after int) (int, bool) {
	for i := after + 1; i < len(vel); i++ {
		if vel[i-1] > 0 && vel[i] <= 0 {
			return i, true
		}
	}
	return 0, false
}

// findDownswingOnset finds the first velocity below the negative threshold
func findDownswingOnset(vel []float64, after int, threshold float64) (int, bool) {
	for i := after + 1; i < len(vel); i++ {
		if vel[i] < -threshold {
			return i, true
		}
	}
	return 0, false
}

// findFollowThroughOnset finds the deceleration point where the absolute
// velocity drops below the threshold.
func findFollowThroughOnset(vel []float64, after int, threshold float64) (int, bool) {
	for i := after + 1; i < len(vel); i++ {
		if math.Abs(vel[i]) < threshold {
			return i, true
		}
	}
	return 0, false
}

// splitProportionally assigns phase start frames across [start, end] by
// cumulative weight. Every phase keeps at least one frame; the first
// start is always the range start. Deterministic for identical inputs.
func splitProportionally(start, end int, weights []float64) []int {
	n := len(weights)
	starts := make([]int, n)
	span := end - start + 1
	total := 0.0
	for _, w := range weights {
		total += w
	}
	cum := 0.0
	for i, w := range weights {
		if total > 0 {
			starts[i] = start + int(float64(span)*cum/total)
			cum += w
		} else {
			starts[i] = start + i*span/n
		}
	}
	for i := 1; i < n; i++ {
		lo := starts[i-1] + 1
		hi := end - (n - 1 - i)
		if starts[i] < lo {
			starts[i] = lo
		}
		if starts[i] > hi {
			starts[i] = hi
		}
	}
	return starts
}

func buildPhases(starts []int, totalFrames int, fps float64) PhaseSegmentation {
	phases := make(PhaseSegmentation, len(starts))
	for i, start := range starts {
		end := totalFrames - 1
		if i < len(starts)-1 {
			end = starts[i+1] - 1
		}
		frames := end - start + 1
		phases[i] = Phase{
			Name:       PhaseOrder[i],
			StartFrame: start,
			EndFrame:   end,
			DurationMS: int(math.Round(float64(frames) / fps * 1000)),
		}
	}
	return phases
}
