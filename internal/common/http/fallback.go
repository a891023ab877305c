package http

import (
	"context"
	"time"

	apperrors "sme-predictor/internal/common/errors"
	"sme-predictor/internal/common/metrics"
)

// Attempt performs one call against baseURL bounded by timeout.
type Attempt[T any] func(ctx context.Context, baseURL string, timeout time.Duration) (T, error)

type FallbackPolicy struct {
	PrimaryTimeout  time.Duration
	FallbackTimeout time.Duration
}

// WithFallback resolves a base URL, runs attempt against it and, when the
// failure is retryable, runs it exactly once more against the alternate base
// URL with the fallback timeout. The attempts are strictly sequential. When
// the fallback runs, its error is the one returned.
func WithFallback[T any](ctx context.Context, resolver BaseURLResolver, policy FallbackPolicy, endpoint string, attempt Attempt[T]) (T, error) {
	primary := resolver.Resolve(ctx)

	result, err := attempt(ctx, primary, policy.PrimaryTimeout)
	if err == nil || !apperrors.IsRetryable(err) {
		return result, err
	}

	alternate := resolver.Alternate(primary)
	if alternate == "" || alternate == primary {
		return result, err
	}

	metrics.APIFallbacksTotal.WithLabelValues(endpoint).Inc()
	return attempt(ctx, alternate, policy.FallbackTimeout)
}
