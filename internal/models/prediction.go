// internal/models/prediction.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Label is the API's prediction field: a numeric code for pre-investment
// responses ("1" = success) and a string ("Success"/"Failure") for
// existing-business responses.
type Label struct {
	Code    *int
	Text    string
	present bool
}

func NumericLabel(code int) Label { return Label{Code: &code, present: true} }

func TextLabel(text string) Label { return Label{Text: text, present: true} }

// Present reports whether the response carried a prediction at all.
func (l Label) Present() bool { return l.present }

func (l Label) String() string {
	if l.Code != nil {
		return strconv.Itoa(*l.Code)
	}
	return l.Text
}

func (l *Label) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = Label{}
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		f, err := num.Float64()
		if err != nil {
			return fmt.Errorf("prediction label: %w", err)
		}
		code := int(f)
		*l = Label{Code: &code, present: true}
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("prediction label must be a number or string: %s", string(data))
	}
	*l = Label{Text: text, present: true}
	return nil
}

func (l Label) MarshalJSON() ([]byte, error) {
	switch {
	case !l.present:
		return []byte("null"), nil
	case l.Code != nil:
		return json.Marshal(*l.Code)
	default:
		return json.Marshal(l.Text)
	}
}

// StructuredRecommendations is the pre-investment recommendations object.
type StructuredRecommendations struct {
	OverallAssessment string   `json:"overall_assessment,omitempty"`
	KeyStrengths      []string `json:"key_strengths,omitempty"`
	ImprovementAreas  []string `json:"improvement_areas,omitempty"`
	ActionItems       []string `json:"action_items,omitempty"`
	RiskLevel         string   `json:"risk_level,omitempty"`
}

// Recommendations holds either a plain list (existing-business) or the
// structured object (pre-investment).
type Recommendations struct {
	Items      []string
	Structured *StructuredRecommendations
}

// Flatten returns the recommendation texts in display order. Structured
// recommendations are listed as action items, improvement areas, then key
// strengths.
func (r Recommendations) Flatten() []string {
	if r.Structured == nil {
		return r.Items
	}
	out := make([]string, 0, len(r.Structured.ActionItems)+len(r.Structured.ImprovementAreas)+len(r.Structured.KeyStrengths))
	out = append(out, r.Structured.ActionItems...)
	out = append(out, r.Structured.ImprovementAreas...)
	out = append(out, r.Structured.KeyStrengths...)
	return out
}

func (r Recommendations) IsEmpty() bool {
	return len(r.Flatten()) == 0 && (r.Structured == nil || r.Structured.OverallAssessment == "")
}

func (r *Recommendations) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*r = Recommendations{}
		return nil
	case data[0] == '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("recommendations list: %w", err)
		}
		*r = Recommendations{Items: items}
		return nil
	case data[0] == '{':
		var s StructuredRecommendations
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("recommendations object: %w", err)
		}
		*r = Recommendations{Structured: &s}
		return nil
	default:
		return fmt.Errorf("recommendations must be a list or object: %s", string(data))
	}
}

func (r Recommendations) MarshalJSON() ([]byte, error) {
	if r.Structured != nil {
		return json.Marshal(r.Structured)
	}
	if r.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.Items)
}

// PredictionResult is the success body of both prediction endpoints.
type PredictionResult struct {
	Success            bool                   `json:"success"`
	Prediction         Label                  `json:"prediction"`
	PredictionLabel    string                 `json:"prediction_label,omitempty"`
	SuccessProbability float64                `json:"success_probability"`
	Confidence         *float64               `json:"confidence,omitempty"`
	ConfidenceLevel    string                 `json:"confidence_level,omitempty"`
	BusinessInsights   map[string]interface{} `json:"business_insights,omitempty"`
	Recommendations    Recommendations        `json:"recommendations"`
	RiskFactors        []string               `json:"risk_factors,omitempty"`
	ModelVersion       string                 `json:"model_version,omitempty"`
	Timestamp          string                 `json:"timestamp,omitempty"`
	Error              string                 `json:"error,omitempty"`
}

// ClampProbability bounds p to [0,1].
func ClampProbability(p float64) float64 {
	switch {
	case p != p || p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
