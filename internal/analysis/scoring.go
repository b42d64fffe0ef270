package analysis

import (
	"fmt"
	"sort"
	"strings"
)

// Deviation directions
const (
	DirectionAbove  = "above ideal range"
	DirectionBelow  = "below ideal range"
	DirectionWithin = "within ideal range"
	DirectionNoData = "no data"
)

// ConfigProvider supplies evaluation profiles by sport and sub-category
type ConfigProvider interface {
	Get(sportType, subCategory string) (SportProfile, bool)
}

// EvaluatorParams holds the evaluation tunables
type EvaluatorParams struct {
	TopK int
}

// DefaultEvaluatorParams returns the standard tunables
func DefaultEvaluatorParams() EvaluatorParams {
	return EvaluatorParams{TopK: 3}
}

// Evaluator scores a motion against sport-specific ideal ranges
type Evaluator struct {
	configs ConfigProvider
	params  EvaluatorParams
}

// NewEvaluator creates an evaluator. TopK is kept within [3,5].
func NewEvaluator(configs ConfigProvider, params EvaluatorParams) *Evaluator {
	if params.TopK < 3 {
		params.TopK = 3
	} else if params.TopK > 5 {
		params.TopK = 5
	}
	return &Evaluator{configs: configs, params: params}
}

// Evaluate computes the overall score and the full deviation list, sorted
// by magnitude descending with ties broken by angle name. Deterministic
// for identical inputs.
func (e *Evaluator) Evaluate(ts AngleTimeSeries, seg PhaseSegmentation, sportType, subCategory string) (float64, []Deviation, error) {
	profile, err := e.lookup(sportType, subCategory)
	if err != nil {
		return 0, nil, err
	}

	names := make([]string, 0, len(profile.Angles))
	for name := range profile.Angles {
		names = append(names, name)
	}
	sort.Strings(names)

	deviations := make([]Deviation, 0, len(names))
	weighted := 0.0
	weightTotal := 0.0
	for _, name := range names {
		rng := profile.Angles[name]
		ideal := [2]float64{rng.Min, rng.Max}
		rep, ok := representativeValue(ts, seg, name, rng.Phase)
		if !ok {
			deviations = append(deviations, Deviation{
				Angle:      name,
				Current:    0,
				IdealRange: ideal,
				Magnitude:  0,
				Direction:  DirectionNoData,
				Suggestion: suggestionText(name, DirectionNoData, rng),
			})
			continue
		}
		current := round1(rep)
		magnitude := 0.0
		direction := DirectionWithin
		if current < rng.Min {
			magnitude = round1(rng.Min - current)
			direction = DirectionBelow
		} else if current > rng.Max {
			magnitude = round1(current - rng.Max)
			direction = DirectionAbove
		}
		weighted += rng.Weight * magnitude
		weightTotal += rng.Weight
		deviations = append(deviations, Deviation{
			Angle:      name,
			Current:    current,
			IdealRange: ideal,
			Magnitude:  magnitude,
			Direction:  direction,
			Suggestion: suggestionText(name, direction, rng),
		})
	}

	score := 100.0
	if weightTotal > 0 {
		score = 100 - weighted/weightTotal
	}
	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}
	score = round1(score)

	sort.SliceStable(deviations, func(i, j int) bool {
		if deviations[i].Magnitude != deviations[j].Magnitude {
			return deviations[i].Magnitude > deviations[j].Magnitude
		}
		return deviations[i].Angle < deviations[j].Angle
	})

	return score, deviations, nil
}

// Improvements selects the top deviations that actually left the ideal
// range, preserving the evaluation order.
func (e *Evaluator) Improvements(deviations []Deviation) []Deviation {
	out := make([]Deviation, 0, e.params.TopK)
	for _, dev := range deviations {
		if dev.Magnitude <= 0 {
			continue
		}
		out = append(out, dev)
		if len(out) == e.params.TopK {
			break
		}
	}
	return out
}

// lookup resolves the profile: exact (sport, sub-category) first, then the
// sport-level default.
func (e *Evaluator) lookup(sportType, subCategory string) (SportProfile, error) {
	sport := strings.ToUpper(strings.TrimSpace(sportType))
	sub := strings.ToLower(strings.TrimSpace(subCategory))
	if sub == "" {
		sub = "default"
	}
	if profile, ok := e.configs.Get(sport, sub); ok {
		return profile, nil
	}
	if sub != "default" {
		if profile, ok := e.configs.Get(sport, "default"); ok {
			return profile, nil
		}
	}
	return SportProfile{}, NewConfigNotFound(sportType, subCategory)
}

// representativeValue averages the angle inside its configured phase,
// falling back to the whole sequence when the phase holds no samples or
// no phase is configured. False when the angle has no samples at all.
func representativeValue(ts AngleTimeSeries, seg PhaseSegmentation, name, phaseName string) (float64, bool) {
	if phaseName != "" {
		if start, end, ok := phaseRange(seg, phaseName); ok {
			if mean, count := meanInRange(ts, name, start, end); count > 0 {
				return mean, true
			}
		}
	}
	mean, count := meanInRange(ts, name, 0, len(ts)-1)
	return mean, count > 0
}

func phaseRange(seg PhaseSegmentation, name string) (int, int, bool) {
	for _, p := range seg {
		if p.Name == name {
			return p.StartFrame, p.EndFrame, true
		}
	}
	return 0, 0, false
}

func meanInRange(ts AngleTimeSeries, name string, start, end int) (float64, int) {
	if start < 0 {
		start = 0
	}
	if end > len(ts)-1 {
		end = len(ts) - 1
	}
	sum := 0.0
	count := 0
	for i := start; i <= end; i++ {
		if v := ts[i][name]; v != nil {
			sum += *v
			count++
		}
	}
	if count == 0 {
		return 0, 0
	}
	return sum / float64(count), count
}

// AggregateAngles returns the whole-sequence mean of every angle with at
// least one present sample, rounded to one decimal.
func AggregateAngles(ts AngleTimeSeries) map[string]float64 {
	out := make(map[string]float64, len(AngleNames))
	for _, name := range AngleNames {
		if mean, count := meanInRange(ts, name, 0, len(ts)-1); count > 0 {
			out[name] = round1(mean)
		}
	}
	return out
}

func suggestionText(name, direction string, rng AngleRange) string {
	words := angleWords(name)
	switch direction {
	case DirectionBelow:
		return fmt.Sprintf("Increase your %s toward the %g-%g degree range.", words, rng.Min, rng.Max)
	case DirectionAbove:
		return fmt.Sprintf("Reduce your %s toward the %g-%g degree range.", words, rng.Min, rng.Max)
	case DirectionNoData:
		return fmt.Sprintf("Not enough landmark data to evaluate %s.", words)
	}
	return fmt.Sprintf("Keep your %s within the %g-%g degree range.", words, rng.Min, rng.Max)
}
