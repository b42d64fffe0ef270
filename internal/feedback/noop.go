package feedback

import (
	"context"
	"fmt"
	"strings"

	"github.com/motionlab/MotionLab/api/internal/analysis"
)

// NoopGenerator produces deterministic feedback without calling any
// external service. It backs the "noop" feedback mode and deployments
// that run without model credentials.
type NoopGenerator struct {
	version string
}

// NewNoopGenerator creates a no-op generator. The version is normally
// the loaded prompt version so results stay traceable across modes.
func NewNoopGenerator(version string) *NoopGenerator {
	if version == "" {
		version = "noop"
	}
	return &NoopGenerator{version: version}
}

// Version returns the configured version tag.
func (g *NoopGenerator) Version() string {
	return g.version
}

// Generate summarizes the analysis outcome from the subject alone.
func (g *NoopGenerator) Generate(ctx context.Context, subject analysis.FeedbackSubject) (string, error) {
	sport := strings.ToLower(strings.TrimSpace(subject.SportType))
	if sport == "" {
		sport = "motion"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your %s analysis scored %.1f out of 100 across %d frames.",
		sport, subject.OverallScore, subject.TotalFrames)
	if len(subject.Improvements) > 0 {
		fmt.Fprintf(&b, " Main focus: %s", subject.Improvements[0].Suggestion)
	} else {
		b.WriteString(" All measured angles stayed inside their ideal ranges.")
	}
	return b.String(), nil
}
