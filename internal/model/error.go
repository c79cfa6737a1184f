package model

import "errors"

// Application-level sentinel errors. webutil.MapErrorToStatusCode maps
// these to HTTP statuses.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInternalServer   = errors.New("internal server error")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrConflict         = errors.New("resource conflict")
	ErrQuotaExceeded    = errors.New("daily quota exceeded")
	ErrGenerationFailed = errors.New("text generation failed")
)

// AppError carries a stable error code and a client-safe message alongside
// the wrapped sentinel. Field names the offending request field, if any.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	wrapped error
}

func NewAppError(code, message, field string, wrapped error) *AppError {
	return &AppError{Code: code, Message: message, Field: field, wrapped: wrapped}
}

func (e *AppError) Error() string {
	if e.wrapped != nil {
		return e.Message + ": " + e.wrapped.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.wrapped
}

// Detail converts the AppError into its client-facing form.
func (e *AppError) Detail() ErrorDetail {
	return ErrorDetail{Code: e.Code, Message: e.Message, Field: e.Field}
}

// ErrorDetail is the client-facing error body.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// APIErrorResponse wraps ErrorDetail for JSON error responses.
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
