package submitprediction

import (
	"time"

	"sme-predictor/internal/common/http"
	"sme-predictor/internal/common/logger"
	"sme-predictor/internal/common/observability"
	"sme-predictor/internal/models"
)

// Input carries raw form values keyed by field name.
type Input struct {
	Fields map[string]string `json:"fields"`
}

type Output struct {
	Variant  models.Variant           `json:"variant"`
	Profile  models.Profile           `json:"profile"`
	Payload  map[string]interface{}   `json:"payload"`
	Result   *models.PredictionResult `json:"result"`
	Duration time.Duration            `json:"-"`
}

type ServiceDependencies struct {
	Logger        logger.Logger
	Client        *http.Client
	Resolver      http.BaseURLResolver
	Observability *observability.Observability
}

// responseEnvelope picks out the fields that tell a rejection apart from a
// prediction.
type responseEnvelope struct {
	Success *bool       `json:"success"`
	Error   string      `json:"error"`
	Detail  interface{} `json:"detail"`
}
