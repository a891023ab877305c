package renderresult

import (
	"fmt"
	"math"

	"sme-predictor/internal/models"
)

// pre-investment responses encode success as this numeric code
const successCode = 1

// Classify applies the variant's success rule.
func Classify(variant models.Variant, result *models.PredictionResult) Classification {
	var ok bool
	switch variant {
	case models.VariantPreInvestment:
		ok = result.Prediction.Code != nil && *result.Prediction.Code == successCode
	default:
		ok = result.Prediction.Code == nil && result.Prediction.Text == "Success"
	}

	label := result.PredictionLabel
	if label == "" {
		if ok {
			label = "Success"
		} else {
			label = "Failure"
		}
	}
	return Classification{IsSuccess: ok, Label: label}
}

// percentValue is p clamped and scaled to percent, rounded to one decimal.
func percentValue(p float64) float64 {
	return math.Round(models.ClampProbability(p)*1000) / 10
}

// ToPercentage formats p as a percentage with one decimal, without the sign.
func ToPercentage(p float64) string {
	return fmt.Sprintf("%.1f", percentValue(p))
}

var (
	zoneExcellent = Zone{Name: "Excellent", Color: "#22c55e"}
	zoneGood      = Zone{Name: "Good", Color: "#3b82f6"}
	zoneFair      = Zone{Name: "Fair", Color: "#f59e0b"}
	zonePoor      = Zone{Name: "Poor", Color: "#ef4444"}
)

// BucketConfidence places p in one of four quarter-width zones, inclusive at
// the lower edge.
func BucketConfidence(p float64) Zone {
	p = models.ClampProbability(p)
	switch {
	case p >= 0.75:
		return zoneExcellent
	case p >= 0.5:
		return zoneGood
	case p >= 0.25:
		return zoneFair
	default:
		return zonePoor
	}
}

// Headline grades the success probability.
func Headline(result *models.PredictionResult) string {
	p := models.ClampProbability(result.SuccessProbability)
	switch {
	case p >= 0.6:
		return "High Success Potential"
	case p >= 0.4:
		return "Moderate Success Potential"
	default:
		return "Needs Improvement"
	}
}

// ImpactBadge grades a success-factor weight.
func ImpactBadge(v float64) string {
	switch {
	case v >= 20:
		return "High"
	case v >= 12:
		return "Medium"
	default:
		return "Low"
	}
}

// confidenceText is the confidence column: the numeric confidence when the
// API sent one, else its level, else N/A.
func confidenceText(result *models.PredictionResult) string {
	if result.Confidence != nil {
		return ToPercentage(*result.Confidence) + "%"
	}
	return models.OrNA(result.ConfidenceLevel)
}
