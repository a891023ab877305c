// Package errors provides the standardized error taxonomy for prediction API calls.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeNetwork            ErrorCode = "NETWORK_ERROR"
	ErrCodeTimeout            ErrorCode = "REQUEST_TIMEOUT"
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrCodeServerError        ErrorCode = "SERVER_ERROR"
	ErrCodeEndpointNotFound   ErrorCode = "ENDPOINT_NOT_FOUND"
	ErrCodeUnexpectedStatus   ErrorCode = "UNEXPECTED_STATUS"
	ErrCodeRequestSetupFailed ErrorCode = "REQUEST_SETUP_FAILED"
	ErrCodeAPIRejected        ErrorCode = "API_REJECTED"
	ErrCodeInvalidResponse    ErrorCode = "INVALID_RESPONSE"

	ErrCodeFormInvalid     ErrorCode = "FORM_INVALID"
	ErrCodeReportFailed    ErrorCode = "REPORT_GENERATION_FAILED"
	ErrCodeFeedbackEmpty   ErrorCode = "FEEDBACK_EMPTY"
	ErrCodeFeedbackFailed  ErrorCode = "FEEDBACK_SUBMIT_FAILED"
	ErrCodeDashboardFailed ErrorCode = "DASHBOARD_FETCH_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// FieldIssue is one field-level validation message.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// StandardError represents a structured application error.
type StandardError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Retryable  bool                   `json:"retryable"`
	StatusCode int                    `json:"statusCode,omitempty"`
	Issues     []FieldIssue           `json:"issues,omitempty"`
	Payload    json.RawMessage        `json:"payload,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// As extracts a *StandardError from an error chain.
func As(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// IsRetryable reports whether err is a StandardError marked retryable.
func IsRetryable(err error) bool {
	stdErr, ok := As(err)
	return ok && stdErr.Retryable
}

// ==========================
// 2. Error Constructors
// ==========================

// NewNetworkError is returned when no response reached the client.
func NewNetworkError(endpoint string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNetwork,
		Message:   "Cannot connect to API server",
		Details:   err.Error(),
		Retryable: true,
		Payload:   causePayload(endpoint, err),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewTimeoutError is returned when the request deadline passed before a response.
func NewTimeoutError(endpoint string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTimeout,
		Message:   "Request to API server timed out",
		Details:   err.Error(),
		Retryable: true,
		Payload:   causePayload(endpoint, err),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewRequestSetupError is returned when the request could not be built.
func NewRequestSetupError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequestSetupFailed,
		Message:   "Error setting up request",
		Details:   err.Error(),
		Retryable: false,
		Payload:   causePayload("", err),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewHTTPStatusError classifies a non-2xx response.
func NewHTTPStatusError(status int, body []byte) *StandardError {
	stdErr := &StandardError{
		StatusCode: status,
		Payload:    rawPayload(body),
		Timestamp:  time.Now().UTC(),
	}

	switch {
	case status == http.StatusNotFound:
		stdErr.Code = ErrCodeEndpointNotFound
		stdErr.Message = "API endpoint not found"
	case status >= 400 && status < 500:
		stdErr.Code = ErrCodeValidationFailed
		stdErr.Message = "API rejected the input data"
		stdErr.Issues, stdErr.Details = parseAPIBody(body)
	case status >= 500:
		stdErr.Code = ErrCodeServerError
		stdErr.Message = "API server error"
		_, stdErr.Details = parseAPIBody(body)
		stdErr.Retryable = status == http.StatusBadGateway ||
			status == http.StatusServiceUnavailable ||
			status == http.StatusGatewayTimeout
	default:
		stdErr.Code = ErrCodeUnexpectedStatus
		stdErr.Message = fmt.Sprintf("unexpected status %d", status)
	}

	return stdErr
}

// NewAPIRejectedError is returned for a 2xx body that reports failure.
func NewAPIRejectedError(body []byte) *StandardError {
	issues, details := parseAPIBody(body)
	return &StandardError{
		Code:      ErrCodeAPIRejected,
		Message:   "Prediction failed",
		Details:   details,
		Issues:    issues,
		Payload:   rawPayload(body),
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidResponseError is returned when a 2xx body cannot be decoded.
func NewInvalidResponseError(status int, body []byte, err error) *StandardError {
	return &StandardError{
		Code:       ErrCodeInvalidResponse,
		Message:    "API returned an unreadable response",
		Details:    err.Error(),
		StatusCode: status,
		Payload:    rawPayload(body),
		Timestamp:  time.Now().UTC(),
		cause:      err,
	}
}

// NewFormValidationError carries client-side validation issues.
func NewFormValidationError(issues []FieldIssue) *StandardError {
	return &StandardError{
		Code:      ErrCodeFormInvalid,
		Message:   "Form validation failed",
		Issues:    issues,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewReportError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportFailed,
		Message:   "Failed to generate report",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewFeedbackEmptyError() *StandardError {
	return &StandardError{
		Code:      ErrCodeFeedbackEmpty,
		Message:   "Please enter your feedback",
		Timestamp: time.Now().UTC(),
	}
}

func NewFeedbackFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFeedbackFailed,
		Message:   "Failed to submit feedback. Please try again.",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

func NewDashboardError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDashboardFailed,
		Message:   "Failed to load dashboard data",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. API Body Parsing
// ==========================

// parseAPIBody reads `detail` (list of {loc, msg} or string) and `error` from
// an API error body.
func parseAPIBody(body []byte) ([]FieldIssue, string) {
	var parsed struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if len(body) == 0 || json.Unmarshal(body, &parsed) != nil {
		return nil, strings.TrimSpace(string(body))
	}

	if len(parsed.Detail) > 0 {
		var items []struct {
			Loc []interface{} `json:"loc"`
			Msg string        `json:"msg"`
		}
		if err := json.Unmarshal(parsed.Detail, &items); err == nil {
			issues := make([]FieldIssue, 0, len(items))
			for _, item := range items {
				issues = append(issues, FieldIssue{Field: joinLoc(item.Loc), Message: item.Msg})
			}
			return issues, parsed.Error
		}

		var text string
		if err := json.Unmarshal(parsed.Detail, &text); err == nil {
			return nil, text
		}
		return nil, string(parsed.Detail)
	}

	return nil, parsed.Error
}

func joinLoc(loc []interface{}) string {
	parts := make([]string, 0, len(loc))
	for _, p := range loc {
		parts = append(parts, fmt.Sprint(p))
	}
	return strings.Join(parts, ".")
}

func rawPayload(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	encoded, _ := json.Marshal(string(body))
	return encoded
}

func causePayload(endpoint string, err error) json.RawMessage {
	payload := map[string]string{"cause": err.Error()}
	if endpoint != "" {
		payload["endpoint"] = endpoint
	}
	encoded, _ := json.Marshal(payload)
	return encoded
}

// ==========================
// 4. Utility Functions
// ==========================

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "NETWORK") || strings.Contains(codeStr, "TIMEOUT"):
		return "NETWORK"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "EMPTY"):
		return "VALIDATION"
	case strings.Contains(codeStr, "SERVER") || strings.Contains(codeStr, "NOT_FOUND") || strings.Contains(codeStr, "STATUS") ||
		strings.Contains(codeStr, "REJECTED") || strings.Contains(codeStr, "RESPONSE"):
		return "API"
	case strings.Contains(codeStr, "SETUP"):
		return "CLIENT"
	default:
		return "OTHER"
	}
}
