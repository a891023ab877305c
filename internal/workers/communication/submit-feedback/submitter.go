package submitfeedback

import (
	"context"
	"strings"

	apperrors "sme-predictor/internal/common/errors"
	"sme-predictor/internal/common/validation"
	"sme-predictor/internal/models"
)

// Submitter holds the feedback form fields. It is not safe for concurrent use.
type Submitter struct {
	handler *Handler
	name    string
	email   string
	message string
}

func (s *Submitter) SetName(name string) { s.name = name }

func (s *Submitter) SetEmail(email string) { s.email = email }

// SetMessage stores message truncated to the configured number of characters.
func (s *Submitter) SetMessage(message string) {
	limit := s.handler.config.MaxMessageLength
	if runes := []rune(message); len(runes) > limit {
		message = string(runes[:limit])
	}
	s.message = message
}

func (s *Submitter) Name() string    { return s.name }
func (s *Submitter) Email() string   { return s.email }
func (s *Submitter) Message() string { return s.message }

// Remaining is the number of characters still allowed in the message.
func (s *Submitter) Remaining() int {
	return s.handler.config.MaxMessageLength - len([]rune(s.message))
}

// Submit sends the feedback once. On success the three fields are cleared;
// on failure they are kept so the user can retry. A malformed email is
// rejected before anything is sent.
func (s *Submitter) Submit(ctx context.Context, predictionType models.Variant) error {
	if strings.TrimSpace(s.message) == "" {
		return apperrors.NewFeedbackEmptyError()
	}
	if email := strings.TrimSpace(s.email); email != "" && !validation.ValidateEmail(email) {
		return apperrors.NewFormValidationError([]apperrors.FieldIssue{
			{Field: "Email", Message: "must be a valid email address"},
		})
	}

	submission := models.FeedbackSubmission{
		Name:           optional(s.name),
		Email:          optional(s.email),
		PredictionType: predictionType,
		Message:        s.message,
	}
	if err := s.handler.send(ctx, submission); err != nil {
		return err
	}

	s.name, s.email, s.message = "", "", ""
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
