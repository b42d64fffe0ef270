package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/motionlab/MotionLab/api/internal/analysis"
	"github.com/motionlab/MotionLab/api/internal/db"
	"github.com/motionlab/MotionLab/api/internal/logging"
	"github.com/motionlab/MotionLab/api/internal/metrics"
	"github.com/motionlab/MotionLab/api/internal/middleware"
	"github.com/motionlab/MotionLab/api/internal/validation"
)

/* Analyzer runs the motion analysis pipeline for one request */
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error)
}

/* AnalysisStore persists analysis runs and request logs */
type AnalysisStore interface {
	CreateAnalysis(ctx context.Context, a *db.Analysis) error
	GetAnalysisByMotionID(ctx context.Context, motionID string) (*db.Analysis, error)
	ListAnalyses(ctx context.Context, sportType *string, limit int) ([]db.Analysis, error)
	CreateRequestLog(ctx context.Context, log *db.RequestLog) error
	ListRequestLogs(ctx context.Context, motionID *string, limit int) ([]db.RequestLog, error)
}

/* AnalysisHandlers handles motion analysis endpoints */
type AnalysisHandlers struct {
	analyzer Analyzer
	store    AnalysisStore
	configs  analysis.ConfigProvider
	timeout  time.Duration
	logger   *logging.Logger
}

/* NewAnalysisHandlers creates new analysis handlers. The store may be nil
   when no database is configured; analyses then run without persistence. */
func NewAnalysisHandlers(analyzer Analyzer, store AnalysisStore, configs analysis.ConfigProvider, timeout time.Duration, logger *logging.Logger) *AnalysisHandlers {
	return &AnalysisHandlers{
		analyzer: analyzer,
		store:    store,
		configs:  configs,
		timeout:  timeout,
		logger:   logger,
	}
}

/* AnalyzeRequest is the body of POST /api/v1/analyze */
type AnalyzeRequest struct {
	MotionID    string `json:"motion_id"`
	SportType   string `json:"sport_type"`
	SubCategory string `json:"sub_category"`
	VideoURL    string `json:"video_url"`
}

/* AnalyzeResponse is the success payload of POST /api/v1/analyze */
type AnalyzeResponse struct {
	Success  bool             `json:"success"`
	MotionID string           `json:"motion_id"`
	Result   *analysis.Result `json:"result"`
}

/* Analyze runs the full pipeline for one motion video */
func (h *AnalysisHandlers) Analyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, analysis.NewInvalidRequest("invalid request body"))
		return
	}

	if err := validateAnalyzeRequest(&req); err != nil {
		WriteError(w, r, err)
		return
	}

	if err := h.checkProfile(req.SportType, req.SubCategory); err != nil {
		WriteError(w, r, err)
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	h.logger.Info("Analysis started", map[string]interface{}{
		"motion_id":    req.MotionID,
		"sport_type":   req.SportType,
		"sub_category": req.SubCategory,
		"request_id":   middleware.GetRequestID(r.Context()),
	})

	result, err := h.analyzer.Analyze(ctx, analysis.Request{
		MotionID:    req.MotionID,
		SportType:   req.SportType,
		SubCategory: req.SubCategory,
		VideoURL:    req.VideoURL,
	})
	elapsed := time.Since(start)
	if err != nil {
		if _, ok := analysis.AsError(err); !ok && errors.Is(err, context.DeadlineExceeded) {
			err = analysis.NewTimeoutError("analysis")
		}
		h.recordFailure(r, req, err, elapsed)
		WriteError(w, r, err)
		return
	}

	h.recordSuccess(r, req, result, elapsed)
	WriteSuccess(w, AnalyzeResponse{
		Success:  true,
		MotionID: req.MotionID,
		Result:   result,
	}, http.StatusOK)
}

/* GetAnalysis returns the latest stored analysis for a motion */
func (h *AnalysisHandlers) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	motionID := vars["motion_id"]

	if err := validation.ValidateIdentifier(motionID, "motion_id"); err != nil {
		WriteError(w, r, analysis.NewInvalidRequest(err.Error()))
		return
	}
	if h.store == nil {
		WriteError(w, r, analysis.NewStorageError(errors.New("no analysis store configured")))
		return
	}

	record, err := h.store.GetAnalysisByMotionID(r.Context(), motionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, r, "no analysis found for motion "+motionID)
			return
		}
		WriteError(w, r, analysis.NewStorageError(err))
		return
	}

	WriteSuccess(w, record, http.StatusOK)
}

/* ListAnalyses lists stored analyses, optionally filtered by sport */
func (h *AnalysisHandlers) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		WriteError(w, r, analysis.NewStorageError(errors.New("no analysis store configured")))
		return
	}

	var sportType *string
	if raw := r.URL.Query().Get("sport_type"); raw != "" {
		if err := validation.ValidateIdentifier(raw, "sport_type"); err != nil {
			WriteError(w, r, analysis.NewInvalidRequest(err.Error()))
			return
		}
		normalized := strings.ToUpper(raw)
		sportType = &normalized
	}

	limit := parseLimit(r.URL.Query().Get("limit"), 50, 200)

	records, err := h.store.ListAnalyses(r.Context(), sportType, limit)
	if err != nil {
		WriteError(w, r, analysis.NewStorageError(err))
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"analyses": records,
		"count":    len(records),
	}, http.StatusOK)
}

/* validateAnalyzeRequest validates the request fields and normalizes the
   sport casing to the registry convention. */
func validateAnalyzeRequest(req *AnalyzeRequest) error {
	if err := validation.ValidateIdentifier(req.MotionID, "motion_id"); err != nil {
		return analysis.NewInvalidRequest(err.Error())
	}
	if err := validation.ValidateIdentifier(req.SportType, "sport_type"); err != nil {
		return analysis.NewInvalidRequest(err.Error())
	}
	if err := validation.ValidateIdentifierOptional(req.SubCategory, "sub_category"); err != nil {
		return analysis.NewInvalidRequest(err.Error())
	}
	if err := validation.ValidateURLRequired(req.VideoURL, "video_url"); err != nil {
		return analysis.NewInvalidRequest(err.Error())
	}

	req.SportType = strings.ToUpper(req.SportType)
	req.SubCategory = strings.ToLower(req.SubCategory)
	return nil
}

/* checkProfile fails fast before landmark acquisition when neither the
   (sport, sub-category) profile nor the sport default exists. The
   evaluator applies the same fallback during scoring. */
func (h *AnalysisHandlers) checkProfile(sportType, subCategory string) error {
	if h.configs == nil {
		return nil
	}
	if _, ok := h.configs.Get(sportType, subCategory); ok {
		return nil
	}
	if _, ok := h.configs.Get(sportType, "default"); ok {
		return nil
	}
	return analysis.NewConfigNotFound(sportType, subCategory)
}

func (h *AnalysisHandlers) recordSuccess(r *http.Request, req AnalyzeRequest, result *analysis.Result, elapsed time.Duration) {
	metrics.GetGlobalMetrics().RecordAnalysis(req.SportType, result.OverallScore, result.DegradedFeedback)
	metrics.RecordAnalysisOutcome(req.SportType, db.StatusCompleted)
	metrics.ObserveScore(req.SportType, result.OverallScore)
	for stage, seconds := range result.Timings {
		metrics.ObserveStageDuration(stage, seconds)
	}
	if result.DegradedFeedback {
		metrics.RecordDegradedFeedback()
	}

	h.logger.Info("Analysis completed", map[string]interface{}{
		"motion_id":         req.MotionID,
		"sport_type":        req.SportType,
		"overall_score":     result.OverallScore,
		"total_frames":      result.TotalFrames,
		"degraded_feedback": result.DegradedFeedback,
		"duration_ms":       elapsed.Milliseconds(),
		"request_id":        middleware.GetRequestID(r.Context()),
	})

	score := result.OverallScore
	h.persist(r, req, &db.Analysis{
		MotionID:     req.MotionID,
		SportType:    req.SportType,
		SubCategory:  req.SubCategory,
		VideoURL:     req.VideoURL,
		Status:       db.StatusCompleted,
		OverallScore: &score,
		Result:       result,
		DurationMS:   int(elapsed.Milliseconds()),
	}, http.StatusOK, elapsed)
}

func (h *AnalysisHandlers) recordFailure(r *http.Request, req AnalyzeRequest, err error, elapsed time.Duration) {
	typed, ok := analysis.AsError(err)
	if !ok {
		typed = analysis.NewInternalError(err)
	}
	metrics.GetGlobalMetrics().RecordAnalysisFailure(typed.Code)
	metrics.RecordAnalysisOutcome(req.SportType, db.StatusFailed)

	h.logger.Error("Analysis failed", err, map[string]interface{}{
		"motion_id":   req.MotionID,
		"sport_type":  req.SportType,
		"error_code":  typed.Code,
		"duration_ms": elapsed.Milliseconds(),
		"request_id":  middleware.GetRequestID(r.Context()),
	})

	h.persist(r, req, &db.Analysis{
		MotionID:     req.MotionID,
		SportType:    req.SportType,
		SubCategory:  req.SubCategory,
		VideoURL:     req.VideoURL,
		Status:       db.StatusFailed,
		ErrorCode:    &typed.Code,
		ErrorMessage: &typed.Message,
		DurationMS:   int(elapsed.Milliseconds()),
	}, typed.HTTPStatus, elapsed)
}

/* persist stores the analysis record and a request log entry. Both are
   best effort: a storage failure is logged and never fails the request.
   The write outlives the request deadline on purpose. */
func (h *AnalysisHandlers) persist(r *http.Request, req AnalyzeRequest, record *db.Analysis, statusCode int, elapsed time.Duration) {
	if h.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.store.CreateAnalysis(ctx, record); err != nil {
		h.logger.Warn("Failed to persist analysis", map[string]interface{}{
			"motion_id": req.MotionID,
			"error":     err.Error(),
		})
	}

	motionID := req.MotionID
	logEntry := &db.RequestLog{
		RequestID:  middleware.GetRequestID(r.Context()),
		MotionID:   &motionID,
		Endpoint:   "/api/v1/analyze",
		Method:     r.Method,
		StatusCode: statusCode,
		DurationMS: int(elapsed.Milliseconds()),
	}
	if err := h.store.CreateRequestLog(ctx, logEntry); err != nil {
		h.logger.Warn("Failed to persist request log", map[string]interface{}{
			"motion_id": req.MotionID,
			"error":     err.Error(),
		})
	}
}

/* parseLimit parses a limit query parameter with a default and a cap */
func parseLimit(raw string, fallback, max int) int {
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	if parsed > max {
		return max
	}
	return parsed
}
