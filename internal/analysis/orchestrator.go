package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/motionlab/MotionLab/api/internal/logging"
)

// LandmarkSource acquires the landmark sequence for a motion video
type LandmarkSource interface {
	ExtractLandmarks(ctx context.Context, videoURL string) (*LandmarkSequence, error)
}

// FeedbackGenerator produces natural-language feedback for a completed
// analysis. Version identifies the loaded prompt template.
type FeedbackGenerator interface {
	Generate(ctx context.Context, subject FeedbackSubject) (string, error)
	Version() string
}

// RetryPolicy bounds the feedback generation retries
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultRetryPolicy returns the standard policy: 3 attempts with
// exponential backoff starting at 1s, capped at 10s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
	}
}

// Request identifies one analysis run
type Request struct {
	MotionID    string
	SportType   string
	SubCategory string
	VideoURL    string
}

// Orchestrator sequences the analysis pipeline for one request
type Orchestrator struct {
	source     LandmarkSource
	calculator *Calculator
	detector   *Detector
	evaluator  *Evaluator
	generator  FeedbackGenerator
	retry      RetryPolicy
	defaultFPS float64
	logger     *logging.Logger
}

// NewOrchestrator wires the pipeline stages together
func NewOrchestrator(source LandmarkSource, calculator *Calculator, detector *Detector, evaluator *Evaluator, generator FeedbackGenerator, retry RetryPolicy, defaultFPS float64, logger *logging.Logger) *Orchestrator {
	if defaultFPS <= 0 {
		defaultFPS = 24
	}
	return &Orchestrator{
		source:     source,
		calculator: calculator,
		detector:   detector,
		evaluator:  evaluator,
		generator:  generator,
		retry:      retry,
		defaultFPS: defaultFPS,
		logger:     logger,
	}
}

// Analyze runs acquisition, angle computation, phase detection, config
// evaluation and feedback generation in fixed order. A fatal stage error
// aborts the remaining stages; feedback failure degrades the result
// instead of failing it.
func (o *Orchestrator) Analyze(ctx context.Context, req Request) (*Result, error) {
	timer := NewStageTimer()

	stop := timer.Start(StageAcquisition)
	seq, err := o.source.ExtractLandmarks(ctx, req.VideoURL)
	stop()
	if err != nil {
		return nil, o.acquisitionError(err)
	}
	if err := seq.Validate(); err != nil {
		return nil, err
	}
	fps := seq.FPS
	if fps <= 0 {
		fps = o.defaultFPS
	}

	stop = timer.Start(StageAngles)
	series, missing, err := o.calculator.Compute(seq)
	stop()
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		o.logger.Warn("angles absent across the whole sequence", map[string]interface{}{
			"motion_id": req.MotionID,
			"angles":    strings.Join(missing, ","),
		})
	}

	stop = timer.Start(StagePhases)
	segmentation, err := o.detector.Segment(series, seq.TotalFrames, fps)
	stop()
	if err != nil {
		return nil, err
	}

	stop = timer.Start(StageEvaluation)
	score, deviations, err := o.evaluator.Evaluate(series, segmentation, req.SportType, req.SubCategory)
	stop()
	if err != nil {
		return nil, err
	}
	improvements := o.evaluator.Improvements(deviations)
	angles := AggregateAngles(series)

	subject := FeedbackSubject{
		MotionID:        req.MotionID,
		SportType:       req.SportType,
		SubCategory:     req.SubCategory,
		TotalFrames:     seq.TotalFrames,
		DurationSeconds: seq.DurationSeconds,
		OverallScore:    score,
		Angles:          angles,
		Phases:          segmentation,
		Improvements:    improvements,
	}
	stop = timer.Start(StageFeedback)
	feedback, degraded := o.generateFeedback(ctx, subject)
	stop()

	return &Result{
		TotalFrames:      seq.TotalFrames,
		DurationSeconds:  seq.DurationSeconds,
		Angles:           angles,
		Phases:           segmentation,
		OverallScore:     score,
		Improvements:     improvements,
		Feedback:         feedback,
		DegradedFeedback: degraded,
		PromptVersion:    o.generator.Version(),
		Timings:          timer.Seconds(),
	}, nil
}

// acquisitionError keeps typed errors from the source and classifies the
// rest. A deadline hit surfaces as SYS_TIMEOUT.
func (o *Orchestrator) acquisitionError(err error) error {
	if typed, ok := AsError(err); ok {
		return typed
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(StageAcquisition)
	}
	return NewAcquisitionError(err)
}

// generateFeedback retries transient generator failures with exponential
// backoff, then falls back to deterministic text with the degraded flag.
// Already-computed analysis data is never discarded here.
func (o *Orchestrator) generateFeedback(ctx context.Context, subject FeedbackSubject) (string, bool) {
	delay := o.retry.InitialDelay
	var lastErr error
	for attempt := 1; attempt <= o.retry.MaxAttempts; attempt++ {
		text, err := o.generator.Generate(ctx, subject)
		if err == nil {
			return text, false
		}
		lastErr = err
		if typed, ok := AsError(err); ok && !typed.Retryable {
			break
		}
		if attempt == o.retry.MaxAttempts {
			break
		}
		o.logger.Warn("feedback generation failed, retrying", map[string]interface{}{
			"motion_id": subject.MotionID,
			"attempt":   attempt,
			"delay":     delay.String(),
		})
		if !sleepContext(ctx, delay) {
			lastErr = ctx.Err()
			break
		}
		delay = time.Duration(float64(delay) * o.retry.Multiplier)
		if delay > o.retry.MaxDelay {
			delay = o.retry.MaxDelay
		}
	}
	o.logger.Error("feedback generation degraded", lastErr, map[string]interface{}{
		"motion_id": subject.MotionID,
		"attempts":  o.retry.MaxAttempts,
	})
	return FallbackFeedback(subject), true
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// FallbackFeedback builds the deterministic text returned when feedback
// generation is degraded.
func FallbackFeedback(subject FeedbackSubject) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Automated feedback is temporarily unavailable. Overall score: %.1f out of 100.", subject.OverallScore)
	if len(subject.Improvements) == 0 {
		b.WriteString(" No major deviations were detected.")
		return b.String()
	}
	names := make([]string, 0, len(subject.Improvements))
	for _, dev := range subject.Improvements {
		names = append(names, angleWords(dev.Angle))
	}
	fmt.Fprintf(&b, " Focus areas: %s.", strings.Join(names, ", "))
	return b.String()
}
