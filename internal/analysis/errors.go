package analysis

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes. AN_* are domain errors caused by the input data and are
// never retried. SYS_* are infrastructure errors caused by external
// dependencies.
const (
	CodeInvalidRequest = "AN_INVALID_REQUEST"
	CodeConfigNotFound = "AN_CONFIG_NOT_FOUND"
	CodeNoLandmarks    = "AN_NO_LANDMARKS"
	CodeTooShort       = "AN_TOO_SHORT"
	CodeAcquisition    = "SYS_ACQUISITION"
	CodeFeedback       = "SYS_FEEDBACK"
	CodeStorage        = "SYS_STORAGE"
	CodeTimeout        = "SYS_TIMEOUT"
	CodeInternal       = "SYS_INTERNAL"
)

// Error is a pipeline error carrying a stable code, a retryable flag and
// the HTTP status the transport layer should map it to.
type Error struct {
	Code       string
	Message    string
	Retryable  bool
	HTTPStatus int
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts a typed pipeline error from an error chain
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// NewInvalidRequest reports malformed or missing input data
func NewInvalidRequest(message string) *Error {
	return &Error{
		Code:       CodeInvalidRequest,
		Message:    message,
		Retryable:  false,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewConfigNotFound reports that no evaluation profile exists for the
// sport and sub-category, nor a sport-level default.
func NewConfigNotFound(sportType, subCategory string) *Error {
	return &Error{
		Code:       CodeConfigNotFound,
		Message:    fmt.Sprintf("no configuration for sport %q sub-category %q", sportType, subCategory),
		Retryable:  false,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNoLandmarks reports that no usable landmark data was found
func NewNoLandmarks(message string) *Error {
	return &Error{
		Code:       CodeNoLandmarks,
		Message:    message,
		Retryable:  false,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewTooShort reports a sequence below the minimum frame count
func NewTooShort(totalFrames, minFrames int) *Error {
	return &Error{
		Code:       CodeTooShort,
		Message:    fmt.Sprintf("sequence has %d frames, minimum is %d", totalFrames, minFrames),
		Retryable:  false,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewAcquisitionError reports a pose service failure
func NewAcquisitionError(err error) *Error {
	return &Error{
		Code:       CodeAcquisition,
		Message:    "landmark acquisition failed",
		Retryable:  true,
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewFeedbackError reports a feedback generator failure
func NewFeedbackError(err error) *Error {
	return &Error{
		Code:       CodeFeedback,
		Message:    "feedback generation failed",
		Retryable:  true,
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewStorageError reports an analysis store failure
func NewStorageError(err error) *Error {
	return &Error{
		Code:       CodeStorage,
		Message:    "analysis store unavailable",
		Retryable:  true,
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// NewTimeoutError reports that the request deadline was exceeded
func NewTimeoutError(stage string) *Error {
	return &Error{
		Code:       CodeTimeout,
		Message:    fmt.Sprintf("deadline exceeded during %s", stage),
		Retryable:  true,
		HTTPStatus: http.StatusGatewayTimeout,
	}
}

// NewInternalError reports an unexpected fault
func NewInternalError(err error) *Error {
	return &Error{
		Code:       CodeInternal,
		Message:    "internal error",
		Retryable:  false,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
