package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/motionlab/MotionLab/api/internal/analysis"
)

// Queries provides database operations
type Queries struct {
	db *sql.DB
}

// NewQueries creates a new Queries instance
func NewQueries(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// GetDB returns the underlying database connection
func (q *Queries) GetDB() *sql.DB {
	return q.db
}

// Analysis operations

// CreateAnalysis stores a completed or failed analysis
func (q *Queries) CreateAnalysis(ctx context.Context, a *Analysis) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	var resultJSON []byte
	if a.Result != nil {
		resultJSON, _ = json.Marshal(a.Result)
	}

	query := `
		INSERT INTO analyses (id, motion_id, sport_type, sub_category, video_url, status, overall_score, result, error_code, error_message, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := q.db.ExecContext(ctx, query,
		a.ID, a.MotionID, a.SportType, a.SubCategory, a.VideoURL, a.Status,
		a.OverallScore, resultJSON, a.ErrorCode, a.ErrorMessage, a.DurationMS, a.CreatedAt)
	return err
}

// GetAnalysisByMotionID gets the most recent analysis for a motion
func (q *Queries) GetAnalysisByMotionID(ctx context.Context, motionID string) (*Analysis, error) {
	var a Analysis
	var resultJSON []byte
	var overallScore sql.NullFloat64
	var errorCode, errorMessage sql.NullString

	query := `
		SELECT id, motion_id, sport_type, sub_category, video_url, status, overall_score, result, error_code, error_message, duration_ms, created_at
		FROM analyses
		WHERE motion_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	err := q.db.QueryRowContext(ctx, query, motionID).Scan(
		&a.ID, &a.MotionID, &a.SportType, &a.SubCategory, &a.VideoURL, &a.Status,
		&overallScore, &resultJSON, &errorCode, &errorMessage, &a.DurationMS, &a.CreatedAt)
	if err != nil {
		return nil, err
	}

	if overallScore.Valid {
		a.OverallScore = &overallScore.Float64
	}
	if errorCode.Valid {
		a.ErrorCode = &errorCode.String
	}
	if errorMessage.Valid {
		a.ErrorMessage = &errorMessage.String
	}

	if len(resultJSON) > 0 {
		var result analysis.Result
		if err := json.Unmarshal(resultJSON, &result); err == nil {
			a.Result = &result
		}
	}

	return &a, nil
}

// ListAnalyses lists stored analyses, optionally filtered by sport
func (q *Queries) ListAnalyses(ctx context.Context, sportType *string, limit int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows *sql.Rows
	var err error

	if sportType != nil {
		query := `
			SELECT id, motion_id, sport_type, sub_category, video_url, status, overall_score, result, error_code, error_message, duration_ms, created_at
			FROM analyses
			WHERE sport_type = $1
			ORDER BY created_at DESC
			LIMIT $2
		`
		rows, err = q.db.QueryContext(ctx, query, *sportType, limit)
	} else {
		query := `
			SELECT id, motion_id, sport_type, sub_category, video_url, status, overall_score, result, error_code, error_message, duration_ms, created_at
			FROM analyses
			ORDER BY created_at DESC
			LIMIT $1
		`
		rows, err = q.db.QueryContext(ctx, query, limit)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []Analysis
	for rows.Next() {
		var a Analysis
		var resultJSON []byte
		var overallScore sql.NullFloat64
		var errorCode, errorMessage sql.NullString

		if err := rows.Scan(
			&a.ID, &a.MotionID, &a.SportType, &a.SubCategory, &a.VideoURL, &a.Status,
			&overallScore, &resultJSON, &errorCode, &errorMessage, &a.DurationMS, &a.CreatedAt); err != nil {
			continue
		}

		if overallScore.Valid {
			a.OverallScore = &overallScore.Float64
		}
		if errorCode.Valid {
			a.ErrorCode = &errorCode.String
		}
		if errorMessage.Valid {
			a.ErrorMessage = &errorMessage.String
		}

		if len(resultJSON) > 0 {
			var result analysis.Result
			if err := json.Unmarshal(resultJSON, &result); err == nil {
				a.Result = &result
			}
		}

		analyses = append(analyses, a)
	}

	return analyses, nil
}

// RequestLog operations

// CreateRequestLog creates a new request log
func (q *Queries) CreateRequestLog(ctx context.Context, log *RequestLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO request_logs (id, request_id, motion_id, endpoint, method, status_code, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := q.db.ExecContext(ctx, query,
		log.ID, log.RequestID, log.MotionID, log.Endpoint, log.Method,
		log.StatusCode, log.DurationMS, log.CreatedAt)
	return err
}

// ListRequestLogs lists request logs
func (q *Queries) ListRequestLogs(ctx context.Context, motionID *string, limit int) ([]RequestLog, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows *sql.Rows
	var err error

	if motionID != nil {
		query := `
			SELECT id, request_id, motion_id, endpoint, method, status_code, duration_ms, created_at
			FROM request_logs
			WHERE motion_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		`
		rows, err = q.db.QueryContext(ctx, query, *motionID, limit)
	} else {
		query := `
			SELECT id, request_id, motion_id, endpoint, method, status_code, duration_ms, created_at
			FROM request_logs
			ORDER BY created_at DESC
			LIMIT $1
		`
		rows, err = q.db.QueryContext(ctx, query, limit)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []RequestLog
	for rows.Next() {
		var log RequestLog
		var motionID sql.NullString

		if err := rows.Scan(
			&log.ID, &log.RequestID, &motionID, &log.Endpoint, &log.Method,
			&log.StatusCode, &log.DurationMS, &log.CreatedAt); err != nil {
			continue
		}

		if motionID.Valid {
			log.MotionID = &motionID.String
		}

		logs = append(logs, log)
	}

	return logs, nil
}
