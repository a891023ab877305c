package refreshdashboard

import (
	"strings"

	"sme-predictor/internal/models"
)

// Filter keeps records whose type equals typeFilter ("all" or "" match any)
// and whose id, type or serialized result contains search, ignoring case.
// Input order is preserved.
func Filter(predictions []models.PredictionRecord, typeFilter, search string) []models.PredictionRecord {
	search = strings.ToLower(strings.TrimSpace(search))
	anyType := typeFilter == "" || typeFilter == "all"

	out := make([]models.PredictionRecord, 0, len(predictions))
	for _, p := range predictions {
		if !anyType && string(p.PredictionType) != typeFilter {
			continue
		}
		if search != "" && !strings.Contains(p.SearchText(), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// IsSuccess applies the per-type success rule to a stored record: prediction
// code 1 for new-business records, the "Success" label otherwise.
func IsSuccess(record models.PredictionRecord) bool {
	result, err := record.Result()
	if err != nil {
		return false
	}
	if record.PredictionType == models.VariantPreInvestment {
		return result.Prediction.Code != nil && *result.Prediction.Code == 1
	}
	return result.Prediction.Text == "Success"
}

func Summarize(record models.PredictionRecord) Summary {
	s := Summary{
		ID:        string(record.ID),
		Type:      record.PredictionType,
		TypeLabel: record.PredictionType.DisplayName(),
		IsSuccess: IsSuccess(record),
		Timestamp: record.Timestamp,
	}
	if result, err := record.Result(); err == nil {
		s.Probability = percent(models.ClampProbability(result.SuccessProbability) * 100)
		if record.PredictionType == models.VariantPreInvestment {
			s.ConfidenceLevel = result.ConfidenceLevel
		}
	}
	return s
}

func summarizeAll(records []models.PredictionRecord) []Summary {
	out := make([]Summary, 0, len(records))
	for _, r := range records {
		out = append(out, Summarize(r))
	}
	return out
}
