// internal/models/feedback.go
package models

// FeedbackSubmission is the body of POST /feedback. Empty name and email are
// sent as null.
type FeedbackSubmission struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	PredictionType Variant `json:"prediction_type"`
	Message        string  `json:"message"`
}
