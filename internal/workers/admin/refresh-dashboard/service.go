package refreshdashboard

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "sme-predictor/internal/common/errors"
	"sme-predictor/internal/common/http"
	"sme-predictor/internal/common/logger"
	"sme-predictor/internal/models"

	"golang.org/x/sync/errgroup"
)

type Service struct {
	config *Config
	logger logger.Logger
	client *http.Client
}

func NewService(client *http.Client, config *Config, log logger.Logger) *Service {
	return &Service{config: config, logger: log, client: client}
}

type fetched struct {
	aggregate   models.DashboardAggregate
	predictions models.PredictionList
	stats       models.Stats
}

// fetch loads the three admin endpoints concurrently. The first failure
// cancels the others.
func (s *Service) fetch(ctx context.Context) (*fetched, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.RequestTimeout)
	defer cancel()

	var out fetched
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.getJSON(gctx, "/admin/dashboard", "/admin/dashboard", &out.aggregate)
	})
	g.Go(func() error {
		path := fmt.Sprintf("/admin/predictions?limit=%d", s.config.PredictionsLimit)
		return s.getJSON(gctx, "/admin/predictions", path, &out.predictions)
	})
	g.Go(func() error {
		return s.getJSON(gctx, "/admin/stats", "/admin/stats", &out.stats)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) getJSON(ctx context.Context, endpoint, path string, v interface{}) error {
	body, err := s.client.GetJSON(ctx, endpoint, s.config.BaseURL+path, s.config.RequestTimeout)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return apperrors.NewInvalidResponseError(200, body, fmt.Errorf("%s: %w", endpoint, err))
	}
	return nil
}
