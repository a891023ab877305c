// internal/models/dashboard.go
package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// DashboardAggregate is the body of GET /admin/dashboard.
type DashboardAggregate struct {
	TotalPredictions            int                `json:"total_predictions"`
	PredictionsToday            int                `json:"predictions_today"`
	NewBusinessPredictions      int                `json:"new_business_predictions"`
	ExistingBusinessPredictions int                `json:"existing_business_predictions"`
	SuccessRateNew              float64            `json:"success_rate_new"`
	SuccessRateExisting         float64            `json:"success_rate_existing"`
	PredictionsByDate           map[string]int     `json:"predictions_by_date"`
	RecentPredictions           []PredictionRecord `json:"recent_predictions"`
}

// RecordID accepts numeric or string ids and keeps their text form.
type RecordID string

func (id *RecordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*id = RecordID(text)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*id = RecordID(num.String())
	return nil
}

// PredictionRecord is one stored prediction listed by the admin endpoints.
// Result is kept raw so search can match its serialized form.
type PredictionRecord struct {
	ID               RecordID        `json:"id"`
	PredictionType   Variant         `json:"prediction_type"`
	PredictionResult json.RawMessage `json:"prediction_result"`
	Timestamp        string          `json:"timestamp"`
}

// Result decodes the stored prediction result.
func (r PredictionRecord) Result() (*PredictionResult, error) {
	var res PredictionResult
	if len(r.PredictionResult) == 0 {
		return &res, nil
	}
	if err := json.Unmarshal(r.PredictionResult, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SearchText is the lower-cased text a dashboard search matches against.
func (r PredictionRecord) SearchText() string {
	return strings.ToLower(string(r.ID) + "\x00" + string(r.PredictionType) + "\x00" + string(r.PredictionResult))
}

type PredictionList struct {
	Predictions []PredictionRecord `json:"predictions"`
}

// Stats is the body of GET /admin/stats.
type Stats struct {
	TotalPredictions int             `json:"total_predictions"`
	Statistics       StatsByCategory `json:"statistics"`
}

type StatsByCategory struct {
	NewBusiness      NewBusinessStats      `json:"new_business"`
	ExistingBusiness ExistingBusinessStats `json:"existing_business"`
}

type NewBusinessStats struct {
	Total                 int     `json:"total"`
	Successful            int     `json:"successful"`
	Unsuccessful          int     `json:"unsuccessful"`
	AvgSuccessProbability float64 `json:"avg_success_probability"`
	HighConfidence        int     `json:"high_confidence"`
	MediumConfidence      int     `json:"medium_confidence"`
	LowConfidence         int     `json:"low_confidence"`
}

type ExistingBusinessStats struct {
	Total                 int     `json:"total"`
	Successful            int     `json:"successful"`
	Unsuccessful          int     `json:"unsuccessful"`
	AvgSuccessProbability float64 `json:"avg_success_probability"`
	AvgConfidence         float64 `json:"avg_confidence"`
}
