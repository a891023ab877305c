package refreshdashboard

import (
	"time"

	"sme-predictor/internal/models"
)

// Snapshot is one consistent view of the admin endpoints.
type Snapshot struct {
	Seq         uint64                    `json:"seq"`
	IssuedAt    time.Time                 `json:"issuedAt"`
	Aggregate   models.DashboardAggregate `json:"aggregate"`
	Predictions []models.PredictionRecord `json:"predictions"`
	Stats       models.Stats              `json:"stats"`
	Recent      []Summary                 `json:"recent"`
	Charts      Charts                    `json:"charts"`
}

// Summary is the list-row rendering of one prediction record.
type Summary struct {
	ID              string         `json:"id"`
	Type            models.Variant `json:"type"`
	TypeLabel       string         `json:"typeLabel"`
	IsSuccess       bool           `json:"isSuccess"`
	Probability     string         `json:"probability"`
	ConfidenceLevel string         `json:"confidenceLevel,omitempty"`
	Timestamp       string         `json:"timestamp"`
}

type Chart struct {
	Kind   string    `json:"kind"`
	Title  string    `json:"title"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Colors []string  `json:"colors,omitempty"`
	Legend []string  `json:"legend,omitempty"`
	Empty  bool      `json:"empty"`
}

type Charts struct {
	PredictionsByDate Chart `json:"predictionsByDate"`
	SuccessRate       Chart `json:"successRate"`
	Distribution      Chart `json:"distribution"`
	Confidence        Chart `json:"confidence"`
}

type Input struct {
	// TypeFilter is a prediction_type, or "all"/"" for every type.
	TypeFilter string `json:"type"`
	Search     string `json:"search"`
	// Refresh forces a fetch before answering.
	Refresh bool `json:"refresh"`
}

type Output struct {
	Snapshot    *Snapshot                 `json:"snapshot"`
	Predictions []models.PredictionRecord `json:"predictions"`
	Matches     []Summary                 `json:"matches"`
}
