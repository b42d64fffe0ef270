package db

import (
	"time"

	"github.com/motionlab/MotionLab/api/internal/analysis"
)

/* Analysis status values */
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

/* Analysis represents a stored motion analysis */
type Analysis struct {
	ID           string           `json:"id"`
	MotionID     string           `json:"motion_id"`
	SportType    string           `json:"sport_type"`
	SubCategory  string           `json:"sub_category,omitempty"`
	VideoURL     string           `json:"video_url,omitempty"`
	Status       string           `json:"status"`
	OverallScore *float64         `json:"overall_score,omitempty"`
	Result       *analysis.Result `json:"result,omitempty"`
	ErrorCode    *string          `json:"error_code,omitempty"`
	ErrorMessage *string          `json:"error_message,omitempty"`
	DurationMS   int              `json:"duration_ms"`
	CreatedAt    time.Time        `json:"created_at"`
}

/* RequestLog represents a logged request/response */
type RequestLog struct {
	ID         string    `json:"id"`
	RequestID  string    `json:"request_id"`
	MotionID   *string   `json:"motion_id,omitempty"`
	Endpoint   string    `json:"endpoint"`
	Method     string    `json:"method"`
	StatusCode int       `json:"status_code"`
	DurationMS int       `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}
