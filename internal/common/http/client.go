// internal/common/http/client.go
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	apperrors "sme-predictor/internal/common/errors"
	"sme-predictor/internal/common/logger"
	"sme-predictor/internal/common/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxBodyBytes = 4 << 20

// Client issues bounded JSON requests against the prediction API. Every call
// carries its own timeout.
type Client struct {
	httpClient *http.Client
	logger     logger.Logger
	tracer     trace.Tracer
}

func NewClient(log logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Transport: http.DefaultTransport,
		},
		logger: log,
		tracer: otel.Tracer("sme-predictor/http"),
	}
}

// WithHTTPClient swaps the underlying transport client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Head sends a HEAD request and succeeds only on a 2xx status.
func (c *Client) Head(ctx context.Context, url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return apperrors.NewRequestSetupError(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(ctx, url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NewHTTPStatusError(resp.StatusCode, nil)
	}
	return nil
}

// PostJSON marshals payload, posts it and returns the raw 2xx body.
func (c *Client) PostJSON(ctx context.Context, endpoint, url string, payload interface{}, timeout time.Duration) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.NewRequestSetupError(fmt.Errorf("marshal payload: %w", err))
	}
	return c.do(ctx, endpoint, http.MethodPost, url, body, timeout)
}

// GetJSON fetches url and returns the raw 2xx body.
func (c *Client) GetJSON(ctx context.Context, endpoint, url string, timeout time.Duration) ([]byte, error) {
	return c.do(ctx, endpoint, http.MethodGet, url, nil, timeout)
}

func (c *Client) do(ctx context.Context, endpoint, method, url string, body []byte, timeout time.Duration) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "api."+strings.TrimPrefix(endpoint, "/"),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.url", url),
		))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	respBody, status, err := c.roundTrip(ctx, method, url, body)
	metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		outcome := "error"
		if stdErr, ok := apperrors.As(err); ok {
			outcome = strings.ToLower(string(stdErr.Code))
		}
		metrics.APIRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		c.logger.Warn("api request failed", map[string]interface{}{
			"endpoint": endpoint,
			"url":      url,
			"status":   status,
			"duration": time.Since(start).String(),
			"error":    err.Error(),
		})
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.status_code", status))
	metrics.APIRequestsTotal.WithLabelValues(endpoint, "success").Inc()
	c.logger.Debug("api request completed", map[string]interface{}{
		"endpoint": endpoint,
		"url":      url,
		"status":   status,
		"duration": time.Since(start).String(),
	})
	return respBody, nil
}

func (c *Client) roundTrip(ctx context.Context, method, url string, body []byte) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, 0, apperrors.NewRequestSetupError(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, classifyTransportError(ctx, url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, classifyTransportError(ctx, url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, apperrors.NewHTTPStatusError(resp.StatusCode, respBody)
	}
	return respBody, resp.StatusCode, nil
}

func classifyTransportError(ctx context.Context, url string, err error) error {
	if isTimeout(ctx, err) {
		return apperrors.NewTimeoutError(url, err)
	}
	return apperrors.NewNetworkError(url, err)
}

func isTimeout(ctx context.Context, err error) bool {
	if ctx.Err() == context.DeadlineExceeded {
		return true
	}
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "deadline") ||
		strings.Contains(msg, "Client.Timeout")
}
