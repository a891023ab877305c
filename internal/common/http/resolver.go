package http

import (
	"context"
	"strings"
	"time"

	"sme-predictor/internal/common/logger"
	"sme-predictor/internal/common/metrics"
)

// Endpoints describes the two base URLs a call can target and the health check
// used to choose between them.
type Endpoints struct {
	LocalURL      string
	DeployedURL   string
	HealthPath    string
	HealthTimeout time.Duration
}

// BaseURLResolver picks the base URL for the first attempt and names the
// alternate one for the fallback attempt.
type BaseURLResolver interface {
	Resolve(ctx context.Context) string
	Alternate(baseURL string) string
}

type Resolver struct {
	client    *Client
	endpoints Endpoints
	logger    logger.Logger
}

func NewResolver(client *Client, endpoints Endpoints, log logger.Logger) *Resolver {
	endpoints.LocalURL = strings.TrimRight(endpoints.LocalURL, "/")
	endpoints.DeployedURL = strings.TrimRight(endpoints.DeployedURL, "/")
	if endpoints.HealthTimeout <= 0 {
		endpoints.HealthTimeout = time.Second
	}
	return &Resolver{client: client, endpoints: endpoints, logger: log}
}

// Resolve returns the local base URL when its health check answers 2xx within
// the health check timeout, the deployed one otherwise.
func (r *Resolver) Resolve(ctx context.Context) string {
	healthURL := r.endpoints.LocalURL + r.endpoints.HealthPath
	if err := r.client.Head(ctx, healthURL, r.endpoints.HealthTimeout); err != nil {
		r.logger.Info("local API unavailable, using deployed API", map[string]interface{}{
			"health_url": healthURL,
			"error":      err.Error(),
		})
		metrics.BaseURLSelections.WithLabelValues("deployed").Inc()
		return r.endpoints.DeployedURL
	}

	r.logger.Debug("using local API", map[string]interface{}{"baseURL": r.endpoints.LocalURL})
	metrics.BaseURLSelections.WithLabelValues("local").Inc()
	return r.endpoints.LocalURL
}

func (r *Resolver) Alternate(baseURL string) string {
	if strings.TrimRight(baseURL, "/") == r.endpoints.LocalURL {
		return r.endpoints.DeployedURL
	}
	return r.endpoints.LocalURL
}

// Static always resolves to the same base URL and has no alternate.
type Static string

func (s Static) Resolve(context.Context) string { return strings.TrimRight(string(s), "/") }

func (s Static) Alternate(string) string { return "" }
