package handlers

import (
	"errors"
	"net/http"

	"github.com/motionlab/MotionLab/api/internal/analysis"
	"github.com/motionlab/MotionLab/api/internal/validation"
)

/* RequestLogHandlers handles request log endpoints */
type RequestLogHandlers struct {
	store AnalysisStore
}

/* NewRequestLogHandlers creates new request log handlers */
func NewRequestLogHandlers(store AnalysisStore) *RequestLogHandlers {
	return &RequestLogHandlers{
		store: store,
	}
}

/* ListLogs lists request logs, optionally filtered by motion */
func (h *RequestLogHandlers) ListLogs(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		WriteError(w, r, analysis.NewStorageError(errors.New("no analysis store configured")))
		return
	}

	var motionID *string
	if raw := r.URL.Query().Get("motion_id"); raw != "" {
		if err := validation.ValidateIdentifier(raw, "motion_id"); err != nil {
			WriteError(w, r, analysis.NewInvalidRequest(err.Error()))
			return
		}
		motionID = &raw
	}

	limit := parseLimit(r.URL.Query().Get("limit"), 100, 1000)

	logs, err := h.store.ListRequestLogs(r.Context(), motionID, limit)
	if err != nil {
		WriteError(w, r, analysis.NewStorageError(err))
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"logs":  logs,
		"count": len(logs),
	}, http.StatusOK)
}
