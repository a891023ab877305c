// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictor_api_requests_total",
			Help: "Total number of requests sent to the prediction API",
		},
		[]string{"endpoint", "outcome"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "predictor_api_request_duration_seconds",
			Help:    "Duration of prediction API requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"endpoint"},
	)

	APIFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictor_api_fallbacks_total",
			Help: "Number of submissions retried against the alternate base URL",
		},
		[]string{"endpoint"},
	)

	BaseURLSelections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictor_base_url_selections_total",
			Help: "Base URL chosen by the liveness check",
		},
		[]string{"target"},
	)

	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictor_predictions_total",
			Help: "Completed prediction submissions by variant and outcome",
		},
		[]string{"variant", "outcome"},
	)

	ReportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictor_reports_generated_total",
			Help: "PDF reports generated by variant",
		},
		[]string{"variant"},
	)

	FeedbackSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictor_feedback_submissions_total",
			Help: "Feedback submissions by outcome",
		},
		[]string{"outcome"},
	)

	DashboardRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictor_dashboard_refreshes_total",
			Help: "Admin dashboard refreshes by outcome (applied, stale, failed)",
		},
		[]string{"outcome"},
	)

	DashboardLastRefresh = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "predictor_dashboard_last_refresh_timestamp_seconds",
			Help: "Unix time of the last applied dashboard snapshot",
		},
	)
)
