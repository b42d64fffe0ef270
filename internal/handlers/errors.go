package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/motionlab/MotionLab/api/internal/analysis"
	"github.com/motionlab/MotionLab/api/internal/middleware"
)

/* CodeNotFound is the envelope code for missing records. It sits outside
   the pipeline error registry because a missing record is neither a bad
   request nor an infrastructure fault. */
const CodeNotFound = "NOT_FOUND"

/* ErrorResponse is the error envelope returned for every failed request */
type ErrorResponse struct {
	Success   bool   `json:"success"`
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
	RequestID string `json:"request_id,omitempty"`
}

/* WriteError writes the error envelope for a pipeline error. Typed errors
   carry their registry code, retryable flag and HTTP status; anything else
   maps to SYS_INTERNAL. */
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	typed, ok := analysis.AsError(err)
	if !ok {
		typed = analysis.NewInternalError(err)
	}

	writeEnvelope(w, typed.HTTPStatus, ErrorResponse{
		Success:   false,
		ErrorCode: typed.Code,
		Message:   typed.Message,
		Retryable: typed.Retryable,
		RequestID: middleware.GetRequestID(r.Context()),
	})
}

/* WriteNotFound writes a 404 envelope */
func WriteNotFound(w http.ResponseWriter, r *http.Request, message string) {
	writeEnvelope(w, http.StatusNotFound, ErrorResponse{
		Success:   false,
		ErrorCode: CodeNotFound,
		Message:   message,
		Retryable: false,
		RequestID: middleware.GetRequestID(r.Context()),
	})
}

/* WriteSuccess writes a JSON response */
func WriteSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeEnvelope(w http.ResponseWriter, statusCode int, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}
