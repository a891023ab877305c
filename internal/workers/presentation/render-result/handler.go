package renderresult

import (
	"context"
	"errors"

	"sme-predictor/internal/common/logger"
	"sme-predictor/internal/models"
)

const TaskType = "presentation.render-result"

var ErrResultMissing = errors.New("RESULT_MISSING")

type Handler struct {
	logger logger.Logger
}

func NewHandler(log logger.Logger) *Handler {
	return &Handler{
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute derives the full result view. It performs no I/O.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.Result == nil {
		return nil, ErrResultMissing
	}
	return &Output{View: Render(input.Variant, input.Profile, input.Result)}, nil
}

// Render builds the view for a result.
func Render(variant models.Variant, profile models.Profile, result *models.PredictionResult) *View {
	view := &View{
		Variant:           variant,
		Classification:    Classify(variant, result),
		Headline:          Headline(result),
		Probability:       models.ClampProbability(result.SuccessProbability),
		Percentage:        ToPercentage(result.SuccessProbability),
		Zone:              BucketConfidence(result.SuccessProbability),
		Confidence:        confidenceText(result),
		FactorChart:       BuildFactorChart(profile, result),
		DistributionChart: BuildDistributionChart(result),
		Insights:          BusinessInsights(result.BusinessInsights),
	}

	if variant == models.VariantPreInvestment {
		p, _ := profile.(*models.PreInvestmentProfile)
		view.Scores = AnalyticsScores(p, result.SuccessProbability)
		view.SuccessFactors = SuccessFactors(p)
	}
	if s := result.Recommendations.Structured; s != nil {
		view.RiskLevel = s.RiskLevel
		view.Assessment = s.OverallAssessment
	}
	return view
}
