package submitfeedback

import (
	"context"
	"fmt"

	"sme-predictor/internal/common/config"
	apperrors "sme-predictor/internal/common/errors"
	"sme-predictor/internal/common/http"
	"sme-predictor/internal/common/logger"
	"sme-predictor/internal/common/metrics"
	"sme-predictor/internal/models"
)

const TaskType = "communication.submit-feedback"

type Handler struct {
	config   *Config
	logger   logger.Logger
	client   *http.Client
	resolver http.BaseURLResolver
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Client       *http.Client
	Resolver     http.BaseURLResolver
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := opts.CustomConfig
	if workerConfig == nil {
		workerConfig = createConfigFromAppConfig(opts.AppConfig)
	}
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	client := opts.Client
	if client == nil {
		client = http.NewClient(log)
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = http.NewResolver(client, http.Endpoints{
			LocalURL:      workerConfig.LocalURL,
			DeployedURL:   workerConfig.DeployedURL,
			HealthPath:    workerConfig.HealthPath,
			HealthTimeout: workerConfig.HealthTimeout,
		}, log)
	}

	return &Handler{
		config:   workerConfig,
		logger:   log,
		client:   client,
		resolver: resolver,
	}, nil
}

// NewSubmitter returns an empty feedback form bound to this handler.
func (h *Handler) NewSubmitter() *Submitter {
	return &Submitter{handler: h}
}

// Execute submits one piece of feedback through a fresh Submitter.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	s := h.NewSubmitter()
	s.SetName(input.Name)
	s.SetEmail(input.Email)
	s.SetMessage(input.Message)

	if err := s.Submit(ctx, input.PredictionType); err != nil {
		return nil, err
	}
	return &Output{Submitted: true, Message: thankYouMessage}, nil
}

// send posts the submission once, without fallback.
func (h *Handler) send(ctx context.Context, submission models.FeedbackSubmission) error {
	baseURL := h.resolver.Resolve(ctx)

	_, err := h.client.PostJSON(ctx, FeedbackPath, baseURL+FeedbackPath, submission, h.config.RequestTimeout)
	if err != nil {
		metrics.FeedbackSubmissions.WithLabelValues("failed").Inc()
		h.logger.Warn("feedback submission failed", map[string]interface{}{
			"baseURL":        baseURL,
			"predictionType": string(submission.PredictionType),
			"error":          err.Error(),
		})
		return apperrors.NewFeedbackFailedError(err.Error())
	}

	metrics.FeedbackSubmissions.WithLabelValues("submitted").Inc()
	h.logger.Info("feedback submitted", map[string]interface{}{
		"baseURL":        baseURL,
		"predictionType": string(submission.PredictionType),
		"length":         len([]rune(submission.Message)),
		"email":          submission.Email,
	})
	return nil
}
