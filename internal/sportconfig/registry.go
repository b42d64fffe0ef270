package sportconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/motionlab/MotionLab/api/internal/analysis"
)

// sportFile mirrors one YAML catalog file
type sportFile struct {
	SportType     string                     `yaml:"sport_type"`
	Description   string                     `yaml:"description"`
	SubCategories map[string]subCategoryFile `yaml:"sub_categories"`
}

type subCategoryFile struct {
	Description string                    `yaml:"description"`
	Angles      map[string]angleRangeFile `yaml:"angles"`
}

type angleRangeFile struct {
	Min         float64  `yaml:"min"`
	Max         float64  `yaml:"max"`
	Weight      *float64 `yaml:"weight"`
	Phase       string   `yaml:"phase"`
	Description string   `yaml:"description"`
}

// SportSummary describes one supported sport for listing purposes
type SportSummary struct {
	SportType     string   `json:"sport_type"`
	Description   string   `json:"description,omitempty"`
	SubCategories []string `json:"sub_categories"`
}

// Registry is the immutable sport profile table, loaded once at startup
// and shared read-only across requests.
type Registry struct {
	profiles map[string]analysis.SportProfile
	sports   []SportSummary
}

// Load reads every *.yaml and *.yml file in dir into a registry.
// Malformed entries fail the load, not later requests.
func Load(dir string) (*Registry, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	more, err := filepath.Glob(filepath.Join(dir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	files = append(files, more...)
	sort.Strings(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("no sport configuration files in %s", dir)
	}

	registry := &Registry{profiles: make(map[string]analysis.SportProfile)}
	summaries := make(map[string]*SportSummary)
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		var parsed sportFile
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		if err := registry.add(file, parsed, summaries); err != nil {
			return nil, err
		}
	}

	for _, summary := range summaries {
		sort.Strings(summary.SubCategories)
		registry.sports = append(registry.sports, *summary)
	}
	sort.Slice(registry.sports, func(i, j int) bool {
		return registry.sports[i].SportType < registry.sports[j].SportType
	})
	return registry, nil
}

func (r *Registry) add(file string, parsed sportFile, summaries map[string]*SportSummary) error {
	sport := strings.ToUpper(strings.TrimSpace(parsed.SportType))
	if sport == "" {
		return fmt.Errorf("%s: missing sport_type", file)
	}
	if len(parsed.SubCategories) == 0 {
		return fmt.Errorf("%s: sport %s has no sub_categories", file, sport)
	}

	summary := summaries[sport]
	if summary == nil {
		summary = &SportSummary{SportType: sport, Description: parsed.Description}
		summaries[sport] = summary
	}

	for rawSub, entry := range parsed.SubCategories {
		sub := strings.ToLower(strings.TrimSpace(rawSub))
		key := profileKey(sport, sub)
		if _, exists := r.profiles[key]; exists {
			return fmt.Errorf("%s: duplicate profile for %s/%s", file, sport, sub)
		}
		profile, err := buildProfile(sport, sub, entry)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		r.profiles[key] = profile
		summary.SubCategories = append(summary.SubCategories, sub)
	}
	return nil
}

func buildProfile(sport, sub string, entry subCategoryFile) (analysis.SportProfile, error) {
	if len(entry.Angles) == 0 {
		return analysis.SportProfile{}, fmt.Errorf("profile %s/%s has no angles", sport, sub)
	}
	angles := make(map[string]analysis.AngleRange, len(entry.Angles))
	for name, rng := range entry.Angles {
		if !knownAngle(name) {
			return analysis.SportProfile{}, fmt.Errorf("profile %s/%s: unknown angle %q", sport, sub, name)
		}
		if rng.Min > rng.Max {
			return analysis.SportProfile{}, fmt.Errorf("profile %s/%s: angle %s has min %g above max %g", sport, sub, name, rng.Min, rng.Max)
		}
		weight := 1.0
		if rng.Weight != nil {
			weight = *rng.Weight
		}
		if weight < 0 {
			return analysis.SportProfile{}, fmt.Errorf("profile %s/%s: angle %s has negative weight %g", sport, sub, name, weight)
		}
		if rng.Phase != "" && !knownPhase(rng.Phase) {
			return analysis.SportProfile{}, fmt.Errorf("profile %s/%s: angle %s references unknown phase %q", sport, sub, name, rng.Phase)
		}
		angles[name] = analysis.AngleRange{
			Min:         rng.Min,
			Max:         rng.Max,
			Weight:      weight,
			Phase:       rng.Phase,
			Description: rng.Description,
		}
	}
	return analysis.SportProfile{
		SportType:   sport,
		SubCategory: sub,
		Description: entry.Description,
		Angles:      angles,
	}, nil
}

// Get returns the profile for (sportType, subCategory). Lookup is
// case-insensitive; fallback to the sport default is the caller's
// concern.
func (r *Registry) Get(sportType, subCategory string) (analysis.SportProfile, bool) {
	profile, ok := r.profiles[profileKey(strings.ToUpper(strings.TrimSpace(sportType)), strings.ToLower(strings.TrimSpace(subCategory)))]
	return profile, ok
}

// Sports lists the supported sports and their sub-categories in
// deterministic order.
func (r *Registry) Sports() []SportSummary {
	out := make([]SportSummary, len(r.sports))
	copy(out, r.sports)
	return out
}

// Len returns the number of loaded profiles
func (r *Registry) Len() int {
	return len(r.profiles)
}

func profileKey(sport, sub string) string {
	return sport + "/" + sub
}

func knownAngle(name string) bool {
	for _, known := range analysis.AngleNames {
		if name == known {
			return true
		}
	}
	return false
}

func knownPhase(name string) bool {
	for _, known := range analysis.PhaseOrder {
		if name == known {
			return true
		}
	}
	return false
}
