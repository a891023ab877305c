package errors

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	networkMessage = "Cannot connect to API server. Please check your internet connection and try again. " +
		"The server might be starting up if using deployed API."
	timeoutMessage = "The API server did not respond in time. " +
		"The server might be starting up if using deployed API, please try again."
)

// ErrorDetail is the technical-details record kept next to a user-facing
// notification once a submission failed.
type ErrorDetail struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Code      ErrorCode       `json:"code"`
	Message   string          `json:"message"`
	Issues    []FieldIssue    `json:"issues,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// ToErrorDetail normalizes any error into an ErrorDetail.
func ToErrorDetail(err error) *ErrorDetail {
	if err == nil {
		return nil
	}
	stdErr := normalizeError(err)

	return &ErrorDetail{
		ID:        uuid.NewString(),
		Type:      TypeLabel(stdErr),
		Code:      stdErr.Code,
		Message:   UserMessage(stdErr),
		Issues:    stdErr.Issues,
		Payload:   stdErr.Payload,
		Timestamp: stdErr.Timestamp,
	}
}

// normalizeError ensures we always have a StandardError.
func normalizeError(err error) *StandardError {
	if stdErr, ok := As(err); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Payload:   causePayload("", err),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// TypeLabel is the short error type shown above the technical details.
func TypeLabel(e *StandardError) string {
	switch e.Code {
	case ErrCodeValidationFailed, ErrCodeServerError, ErrCodeEndpointNotFound, ErrCodeUnexpectedStatus:
		return fmt.Sprintf("HTTP %d Error", e.StatusCode)
	case ErrCodeNetwork, ErrCodeTimeout:
		return "Network Error"
	case ErrCodeRequestSetupFailed:
		return "Request Setup Error"
	case ErrCodeAPIRejected, ErrCodeInvalidResponse:
		return "API Error"
	case ErrCodeFormInvalid:
		return "Validation Error"
	default:
		return "Unexpected Error"
	}
}

// UserMessage renders the single notification text for an error.
func UserMessage(e *StandardError) string {
	switch e.Code {
	case ErrCodeValidationFailed:
		msg := "Validation Error: Please check your input data"
		if len(e.Issues) > 0 {
			return msg + "\n\nValidation Issues:\n" + formatIssues(e.Issues)
		}
		if e.Details != "" {
			return msg + "\n\nDetails: " + e.Details
		}
		return msg
	case ErrCodeAPIRejected:
		if len(e.Issues) > 0 {
			return "Prediction failed\n\nValidation Issues:\n" + formatIssues(e.Issues)
		}
		if e.Details != "" {
			return e.Details
		}
		return "Prediction failed"
	case ErrCodeFormInvalid:
		return "Please correct the following fields:\n" + formatIssues(e.Issues)
	case ErrCodeServerError:
		return "Server Error: Internal server error occurred"
	case ErrCodeEndpointNotFound:
		return "API Endpoint Not Found"
	case ErrCodeInvalidResponse:
		return "The API server returned an unexpected response format"
	case ErrCodeUnexpectedStatus:
		return fmt.Sprintf("Unexpected response from API server (HTTP %d)", e.StatusCode)
	case ErrCodeNetwork:
		return networkMessage
	case ErrCodeTimeout:
		return timeoutMessage
	case ErrCodeRequestSetupFailed:
		return "Error setting up request: " + e.Details
	case ErrCodeInternal:
		return "An unexpected error occurred: " + e.Details
	default:
		return e.Message
	}
}

func formatIssues(issues []FieldIssue) string {
	lines := make([]string, 0, len(issues))
	for _, issue := range issues {
		lines = append(lines, fmt.Sprintf("• %s - %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}
