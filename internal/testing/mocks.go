package testing

import (
	"context"

	"github.com/motionlab/MotionLab/api/internal/analysis"
	"github.com/motionlab/MotionLab/api/internal/db"
)

// MockAnalyzer is a mock analysis pipeline for handler testing
type MockAnalyzer struct {
	Result  *analysis.Result
	Err     error
	Calls   int
	LastReq analysis.Request
}

// NewMockAnalyzer creates a mock analyzer returning a canned result
func NewMockAnalyzer() *MockAnalyzer {
	return &MockAnalyzer{
		Result: SampleResult(),
	}
}

// Analyze returns the configured result or error
func (m *MockAnalyzer) Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error) {
	m.Calls++
	m.LastReq = req
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

// MockAnalysisStore is an in-memory analysis store for handler testing
type MockAnalysisStore struct {
	Analyses    []*db.Analysis
	RequestLogs []*db.RequestLog
	GetResult   *db.Analysis
	GetErr      error
	ListErr     error
	CreateErr   error
}

// NewMockAnalysisStore creates an empty mock store
func NewMockAnalysisStore() *MockAnalysisStore {
	return &MockAnalysisStore{}
}

// CreateAnalysis records the analysis
func (m *MockAnalysisStore) CreateAnalysis(ctx context.Context, a *db.Analysis) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Analyses = append(m.Analyses, a)
	return nil
}

// GetAnalysisByMotionID returns the configured record or error
func (m *MockAnalysisStore) GetAnalysisByMotionID(ctx context.Context, motionID string) (*db.Analysis, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.GetResult, nil
}

// ListAnalyses returns the recorded analyses, optionally filtered by sport
func (m *MockAnalysisStore) ListAnalyses(ctx context.Context, sportType *string, limit int) ([]db.Analysis, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := []db.Analysis{}
	for _, a := range m.Analyses {
		if sportType != nil && a.SportType != *sportType {
			continue
		}
		out = append(out, *a)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// CreateRequestLog records the request log entry
func (m *MockAnalysisStore) CreateRequestLog(ctx context.Context, log *db.RequestLog) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.RequestLogs = append(m.RequestLogs, log)
	return nil
}

// ListRequestLogs returns the recorded log entries, optionally filtered
func (m *MockAnalysisStore) ListRequestLogs(ctx context.Context, motionID *string, limit int) ([]db.RequestLog, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := []db.RequestLog{}
	for _, entry := range m.RequestLogs {
		if motionID != nil && (entry.MotionID == nil || *entry.MotionID != *motionID) {
			continue
		}
		out = append(out, *entry)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// SampleResult builds a complete golf analysis result for tests
func SampleResult() *analysis.Result {
	return &analysis.Result{
		TotalFrames:     192,
		DurationSeconds: 8.0,
		Angles: map[string]float64{
			analysis.AngleLeftArm:     171.4,
			analysis.AngleRightArm:    168.9,
			analysis.AngleSpine:       117.1,
			analysis.AngleHipShoulder: 88.2,
			analysis.AngleLeftKnee:    161.8,
			analysis.AngleRightKnee:   158.5,
		},
		Phases: analysis.PhaseSegmentation{
			{Name: analysis.PhaseAddress, StartFrame: 0, EndFrame: 18, DurationMS: 792},
			{Name: analysis.PhaseBackswing, StartFrame: 19, EndFrame: 76, DurationMS: 2417},
			{Name: analysis.PhaseTop, StartFrame: 77, EndFrame: 95, DurationMS: 792},
			{Name: analysis.PhaseDownswing, StartFrame: 96, EndFrame: 133, DurationMS: 1583},
			{Name: analysis.PhaseFollowThrough, StartFrame: 134, EndFrame: 191, DurationMS: 2417},
		},
		OverallScore: 83.1,
		Improvements: []analysis.Deviation{
			{
				Angle:      analysis.AngleSpine,
				Current:    117.1,
				IdealRange: [2]float64{140, 170},
				Suggestion: "Increase your spine angle toward the 140-170 degree range.",
			},
		},
		Feedback:      "Solid swing overall. Work on keeping your spine angle steady through the downswing.",
		PromptVersion: "v1",
		Timings: map[string]float64{
			analysis.StageAcquisition: 1.203,
			analysis.StageAngles:      0.042,
			analysis.StagePhases:      0.011,
			analysis.StageEvaluation:  0.003,
			analysis.StageFeedback:    0.871,
		},
	}
}
