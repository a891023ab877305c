package submitprediction

import (
	"context"
	"encoding/json"
	"time"

	apperrors "sme-predictor/internal/common/errors"
	"sme-predictor/internal/common/http"
	"sme-predictor/internal/common/logger"
	"sme-predictor/internal/models"
)

type Service struct {
	config   *Config
	logger   logger.Logger
	client   *http.Client
	resolver http.BaseURLResolver
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:   config,
		logger:   deps.Logger,
		client:   deps.Client,
		resolver: deps.Resolver,
	}
}

// Predict posts payload to the variant's endpoint with local/deployed
// fallback.
func (s *Service) Predict(ctx context.Context, payload map[string]interface{}) (*models.PredictionResult, error) {
	policy := http.FallbackPolicy{
		PrimaryTimeout:  s.config.PrimaryTimeout,
		FallbackTimeout: s.config.FallbackTimeout,
	}

	return http.WithFallback(ctx, s.resolver, policy, s.config.Path,
		func(ctx context.Context, baseURL string, timeout time.Duration) (*models.PredictionResult, error) {
			s.logger.Debug("submitting prediction", map[string]interface{}{
				"baseURL": baseURL,
				"path":    s.config.Path,
				"timeout": timeout.String(),
			})
			body, err := s.client.PostJSON(ctx, s.config.Path, baseURL+s.config.Path, payload, timeout)
			if err != nil {
				return nil, err
			}
			return decodeResult(body)
		})
}

// decodeResult turns a 2xx body into a result. A body reporting
// success=false with an error or detail, or one with no prediction at all,
// is an API rejection. Existing-business responses use success=false for a
// predicted failure, which is not a rejection.
func decodeResult(body []byte) (*models.PredictionResult, error) {
	var envelope responseEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, apperrors.NewInvalidResponseError(200, body, err)
	}
	if envelope.Success != nil && !*envelope.Success && (envelope.Error != "" || envelope.Detail != nil) {
		return nil, apperrors.NewAPIRejectedError(body)
	}

	var result models.PredictionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, apperrors.NewInvalidResponseError(200, body, err)
	}
	if !result.Prediction.Present() {
		return nil, apperrors.NewAPIRejectedError(body)
	}
	result.SuccessProbability = models.ClampProbability(result.SuccessProbability)
	return &result, nil
}
