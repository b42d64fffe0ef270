package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/motionlab/MotionLab/api/internal/analysis"
	"github.com/motionlab/MotionLab/api/internal/db"
	"github.com/motionlab/MotionLab/api/internal/logging"
	testutil "github.com/motionlab/MotionLab/api/internal/testing"
)

type fakeConfigs struct {
	known map[string]bool
}

func (f *fakeConfigs) Get(sportType, subCategory string) (analysis.SportProfile, bool) {
	if f.known[sportType+"/"+subCategory] {
		return analysis.SportProfile{SportType: sportType, SubCategory: subCategory}, true
	}
	return analysis.SportProfile{}, false
}

func golfConfigs() *fakeConfigs {
	return &fakeConfigs{known: map[string]bool{
		"GOLF/driver":  true,
		"GOLF/default": true,
	}}
}

func testLogger() *logging.Logger {
	return logging.NewLogger("error", "json", "stderr")
}

func newAnalysisHandlers(analyzer Analyzer, store AnalysisStore) *AnalysisHandlers {
	return NewAnalysisHandlers(analyzer, store, golfConfigs(), 30*time.Second, testLogger())
}

func analyzeBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(AnalyzeRequest{
		MotionID:    "m-100",
		SportType:   "golf",
		SubCategory: "Driver",
		VideoURL:    "https://storage.example.com/motions/m-100.mp4",
	})
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}
	return bytes.NewBuffer(body)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var envelope ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("Failed to decode error envelope: %v", err)
	}
	return envelope
}

func TestAnalysisHandlers_Analyze(t *testing.T) {
	analyzer := testutil.NewMockAnalyzer()
	store := testutil.NewMockAnalysisStore()
	h := newAnalysisHandlers(analyzer, store)

	req := httptest.NewRequest("POST", "/api/v1/analyze", analyzeBody(t))
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}

	var resp AnalyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("Expected success true")
	}
	if resp.MotionID != "m-100" {
		t.Errorf("Expected motion_id m-100, got %s", resp.MotionID)
	}
	if resp.Result == nil {
		t.Fatal("Expected a result")
	}
	if resp.Result.OverallScore != 83.1 {
		t.Errorf("Expected overall score 83.1, got %v", resp.Result.OverallScore)
	}

	if analyzer.Calls != 1 {
		t.Errorf("Expected 1 analyzer call, got %d", analyzer.Calls)
	}
	if analyzer.LastReq.SportType != "GOLF" {
		t.Errorf("Expected sport normalized to GOLF, got %s", analyzer.LastReq.SportType)
	}
	if analyzer.LastReq.SubCategory != "driver" {
		t.Errorf("Expected sub-category normalized to driver, got %s", analyzer.LastReq.SubCategory)
	}
}

func TestAnalysisHandlers_Analyze_PersistsRun(t *testing.T) {
	analyzer := testutil.NewMockAnalyzer()
	store := testutil.NewMockAnalysisStore()
	h := newAnalysisHandlers(analyzer, store)

	req := httptest.NewRequest("POST", "/api/v1/analyze", analyzeBody(t))
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)

	if len(store.Analyses) != 1 {
		t.Fatalf("Expected 1 persisted analysis, got %d", len(store.Analyses))
	}
	record := store.Analyses[0]
	if record.Status != db.StatusCompleted {
		t.Errorf("Expected status completed, got %s", record.Status)
	}
	if record.MotionID != "m-100" {
		t.Errorf("Expected motion_id m-100, got %s", record.MotionID)
	}
	if record.SportType != "GOLF" {
		t.Errorf("Expected sport GOLF, got %s", record.SportType)
	}
	if record.OverallScore == nil || *record.OverallScore != 83.1 {
		t.Errorf("Expected persisted score 83.1, got %v", record.OverallScore)
	}
	if record.Result == nil || record.Result.TotalFrames != 192 {
		t.Error("Expected the full result to be persisted")
	}

	if len(store.RequestLogs) != 1 {
		t.Fatalf("Expected 1 request log entry, got %d", len(store.RequestLogs))
	}
	entry := store.RequestLogs[0]
	if entry.Endpoint != "/api/v1/analyze" {
		t.Errorf("Expected endpoint /api/v1/analyze, got %s", entry.Endpoint)
	}
	if entry.StatusCode != http.StatusOK {
		t.Errorf("Expected logged status 200, got %d", entry.StatusCode)
	}
	if entry.MotionID == nil || *entry.MotionID != "m-100" {
		t.Errorf("Expected logged motion_id m-100, got %v", entry.MotionID)
	}
}

func TestAnalysisHandlers_Analyze_InvalidBody(t *testing.T) {
	h := newAnalysisHandlers(testutil.NewMockAnalyzer(), nil)

	req := httptest.NewRequest("POST", "/api/v1/analyze", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.ErrorCode != analysis.CodeInvalidRequest {
		t.Errorf("Expected AN_INVALID_REQUEST, got %s", envelope.ErrorCode)
	}
	if envelope.Retryable {
		t.Error("Expected retryable false")
	}
}

func TestAnalysisHandlers_Analyze_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  AnalyzeRequest
	}{
		{"missing motion_id", AnalyzeRequest{SportType: "GOLF", VideoURL: "https://example.com/v.mp4"}},
		{"missing sport_type", AnalyzeRequest{MotionID: "m-1", VideoURL: "https://example.com/v.mp4"}},
		{"missing video_url", AnalyzeRequest{MotionID: "m-1", SportType: "GOLF"}},
		{"bad video_url", AnalyzeRequest{MotionID: "m-1", SportType: "GOLF", VideoURL: "not-a-url"}},
		{"bad motion_id", AnalyzeRequest{MotionID: "m 1", SportType: "GOLF", VideoURL: "https://example.com/v.mp4"}},
		{"bad sub_category", AnalyzeRequest{MotionID: "m-1", SportType: "GOLF", SubCategory: "dri ver", VideoURL: "https://example.com/v.mp4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := testutil.NewMockAnalyzer()
			h := newAnalysisHandlers(analyzer, nil)

			body, _ := json.Marshal(tt.req)
			req := httptest.NewRequest("POST", "/api/v1/analyze", bytes.NewBuffer(body))
			rec := httptest.NewRecorder()
			h.Analyze(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d", rec.Code)
			}
			envelope := decodeEnvelope(t, rec)
			if envelope.ErrorCode != analysis.CodeInvalidRequest {
				t.Errorf("Expected AN_INVALID_REQUEST, got %s", envelope.ErrorCode)
			}
			if analyzer.Calls != 0 {
				t.Errorf("Expected no analyzer calls, got %d", analyzer.Calls)
			}
		})
	}
}

func TestAnalysisHandlers_Analyze_UnknownSport(t *testing.T) {
	analyzer := testutil.NewMockAnalyzer()
	h := newAnalysisHandlers(analyzer, nil)

	body, _ := json.Marshal(AnalyzeRequest{
		MotionID:  "m-1",
		SportType: "TENNIS",
		VideoURL:  "https://example.com/v.mp4",
	})
	req := httptest.NewRequest("POST", "/api/v1/analyze", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.ErrorCode != analysis.CodeConfigNotFound {
		t.Errorf("Expected AN_CONFIG_NOT_FOUND, got %s", envelope.ErrorCode)
	}
	if analyzer.Calls != 0 {
		t.Error("Expected the pipeline to be skipped for an unknown sport")
	}
}

func TestAnalysisHandlers_Analyze_UnknownSubCategoryFallsBack(t *testing.T) {
	analyzer := testutil.NewMockAnalyzer()
	h := newAnalysisHandlers(analyzer, nil)

	body, _ := json.Marshal(AnalyzeRequest{
		MotionID:    "m-1",
		SportType:   "GOLF",
		SubCategory: "hybrid",
		VideoURL:    "https://example.com/v.mp4",
	})
	req := httptest.NewRequest("POST", "/api/v1/analyze", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected the sport default to accept the request, got %d", rec.Code)
	}
	if analyzer.Calls != 1 {
		t.Errorf("Expected 1 analyzer call, got %d", analyzer.Calls)
	}
}

func TestAnalysisHandlers_Analyze_PipelineError(t *testing.T) {
	analyzer := testutil.NewMockAnalyzer()
	analyzer.Err = analysis.NewNoLandmarks("no usable landmarks in any frame")
	store := testutil.NewMockAnalysisStore()
	h := newAnalysisHandlers(analyzer, store)

	req := httptest.NewRequest("POST", "/api/v1/analyze", analyzeBody(t))
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected status 422, got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.ErrorCode != analysis.CodeNoLandmarks {
		t.Errorf("Expected AN_NO_LANDMARKS, got %s", envelope.ErrorCode)
	}
	if envelope.Retryable {
		t.Error("Expected retryable false for a domain error")
	}

	if len(store.Analyses) != 1 {
		t.Fatalf("Expected the failure to be persisted, got %d records", len(store.Analyses))
	}
	record := store.Analyses[0]
	if record.Status != db.StatusFailed {
		t.Errorf("Expected status failed, got %s", record.Status)
	}
	if record.ErrorCode == nil || *record.ErrorCode != analysis.CodeNoLandmarks {
		t.Errorf("Expected persisted error code AN_NO_LANDMARKS, got %v", record.ErrorCode)
	}
	if record.OverallScore != nil {
		t.Error("Expected no score on a failed analysis")
	}
}

func TestAnalysisHandlers_Analyze_RetryableError(t *testing.T) {
	analyzer := testutil.NewMockAnalyzer()
	analyzer.Err = analysis.NewAcquisitionError(errors.New("connection refused"))
	h := newAnalysisHandlers(analyzer, nil)

	req := httptest.NewRequest("POST", "/api/v1/analyze", analyzeBody(t))
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("Expected status 502, got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.ErrorCode != analysis.CodeAcquisition {
		t.Errorf("Expected SYS_ACQUISITION, got %s", envelope.ErrorCode)
	}
	if !envelope.Retryable {
		t.Error("Expected retryable true for an infrastructure error")
	}
}

func TestAnalysisHandlers_Analyze_DegradedFeedback(t *testing.T) {
	analyzer := testutil.NewMockAnalyzer()
	analyzer.Result.DegradedFeedback = true
	h := newAnalysisHandlers(analyzer, nil)

	req := httptest.NewRequest("POST", "/api/v1/analyze", analyzeBody(t))
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected degraded feedback to still succeed, got %d", rec.Code)
	}
	var resp AnalyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Result.DegradedFeedback {
		t.Error("Expected degraded_feedback true in the result")
	}
}

func TestAnalysisHandlers_Analyze_StoreFailureIsBestEffort(t *testing.T) {
	analyzer := testutil.NewMockAnalyzer()
	store := testutil.NewMockAnalysisStore()
	store.CreateErr = errors.New("connection refused")
	h := newAnalysisHandlers(analyzer, store)

	req := httptest.NewRequest("POST", "/api/v1/analyze", analyzeBody(t))
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected a storage failure to not fail the analysis, got %d", rec.Code)
	}
}

func getAnalysisVia(t *testing.T, h *AnalysisHandlers, path string) *httptest.ResponseRecorder {
	t.Helper()
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/analyses/{motion_id}", h.GetAnalysis).Methods("GET")

	req := httptest.NewRequest("GET", path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAnalysisHandlers_GetAnalysis(t *testing.T) {
	store := testutil.NewMockAnalysisStore()
	score := 83.1
	store.GetResult = &db.Analysis{
		ID:           "0e5edd82-3f91-4b42-a287-3f0e0c2f11aa",
		MotionID:     "m-100",
		SportType:    "GOLF",
		Status:       db.StatusCompleted,
		OverallScore: &score,
		Result:       testutil.SampleResult(),
	}
	h := newAnalysisHandlers(testutil.NewMockAnalyzer(), store)

	rec := getAnalysisVia(t, h, "/api/v1/analyses/m-100")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}

	var record db.Analysis
	if err := json.Unmarshal(rec.Body.Bytes(), &record); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if record.MotionID != "m-100" {
		t.Errorf("Expected motion_id m-100, got %s", record.MotionID)
	}
	if record.Result == nil || record.Result.TotalFrames != 192 {
		t.Error("Expected the stored result in the response")
	}
}

func TestAnalysisHandlers_GetAnalysis_NotFound(t *testing.T) {
	store := testutil.NewMockAnalysisStore()
	store.GetErr = sql.ErrNoRows
	h := newAnalysisHandlers(testutil.NewMockAnalyzer(), store)

	rec := getAnalysisVia(t, h, "/api/v1/analyses/m-404")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.ErrorCode != CodeNotFound {
		t.Errorf("Expected NOT_FOUND, got %s", envelope.ErrorCode)
	}
}

func TestAnalysisHandlers_GetAnalysis_StoreError(t *testing.T) {
	store := testutil.NewMockAnalysisStore()
	store.GetErr = errors.New("connection refused")
	h := newAnalysisHandlers(testutil.NewMockAnalyzer(), store)

	rec := getAnalysisVia(t, h, "/api/v1/analyses/m-100")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected status 503, got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.ErrorCode != analysis.CodeStorage {
		t.Errorf("Expected SYS_STORAGE, got %s", envelope.ErrorCode)
	}
	if !envelope.Retryable {
		t.Error("Expected retryable true")
	}
}

func TestAnalysisHandlers_GetAnalysis_NoStore(t *testing.T) {
	h := newAnalysisHandlers(testutil.NewMockAnalyzer(), nil)

	rec := getAnalysisVia(t, h, "/api/v1/analyses/m-100")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected status 503 without a store, got %d", rec.Code)
	}
}

func TestAnalysisHandlers_ListAnalyses(t *testing.T) {
	store := testutil.NewMockAnalysisStore()
	store.Analyses = []*db.Analysis{
		{ID: "a-1", MotionID: "m-1", SportType: "GOLF", Status: db.StatusCompleted},
		{ID: "a-2", MotionID: "m-2", SportType: "WEIGHT", Status: db.StatusCompleted},
	}
	h := newAnalysisHandlers(testutil.NewMockAnalyzer(), store)

	req := httptest.NewRequest("GET", "/api/v1/analyses", nil)
	rec := httptest.NewRecorder()
	h.ListAnalyses(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var resp struct {
		Analyses []db.Analysis `json:"analyses"`
		Count    int           `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("Expected count 2, got %d", resp.Count)
	}

	// Sport filter is case-insensitive
	req = httptest.NewRequest("GET", "/api/v1/analyses?sport_type=golf", nil)
	rec = httptest.NewRecorder()
	h.ListAnalyses(rec, req)

	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("Expected count 1 for golf, got %d", resp.Count)
	}
	if resp.Analyses[0].MotionID != "m-1" {
		t.Errorf("Expected m-1, got %s", resp.Analyses[0].MotionID)
	}
}
