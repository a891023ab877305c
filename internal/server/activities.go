package server

import (
	apperrors "sme-predictor/internal/common/errors"
	refreshdashboard "sme-predictor/internal/workers/admin/refresh-dashboard"
	submitfeedback "sme-predictor/internal/workers/communication/submit-feedback"
	submitprediction "sme-predictor/internal/workers/prediction/submit-prediction"
	exportreport "sme-predictor/internal/workers/presentation/export-report"
	formatrecommendations "sme-predictor/internal/workers/presentation/format-recommendations"
	renderresult "sme-predictor/internal/workers/presentation/render-result"
	"sme-predictor/pkg/registry"
)

func codes(cs ...apperrors.ErrorCode) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}

// Activities lists the workflow's task types and the routes that run them.
func Activities(version string) *registry.Catalog {
	return registry.New(version).MustRegister(
		registry.Activity{
			TaskType:    submitprediction.TaskType,
			DisplayName: "Submit prediction",
			Description: "Validate a business profile and request a success prediction, falling back to the alternate API on connection failures",
			Routes:      []string{"POST /api/predict/new-business", "POST /api/predict/existing-business"},
			ErrorCodes: codes(apperrors.ErrCodeFormInvalid, apperrors.ErrCodeValidationFailed, apperrors.ErrCodeServerError,
				apperrors.ErrCodeEndpointNotFound, apperrors.ErrCodeNetwork, apperrors.ErrCodeTimeout,
				apperrors.ErrCodeAPIRejected, apperrors.ErrCodeInvalidResponse),
			Timeout: "30s",
		},
		registry.Activity{
			TaskType:    renderresult.TaskType,
			DisplayName: "Render result",
			Description: "Classify the prediction and build charts, scores and insights",
			Routes:      []string{"POST /api/predict/{variant}"},
		},
		registry.Activity{
			TaskType:    formatrecommendations.TaskType,
			DisplayName: "Format recommendations",
			Description: "Categorize recommendations and risk factors into numbered cards",
			Routes:      []string{"POST /api/predict/{variant}", "POST /api/report/{variant}"},
		},
		registry.Activity{
			TaskType:    exportreport.TaskType,
			DisplayName: "Export report",
			Description: "Render the profile and prediction as a PDF report",
			Routes:      []string{"POST /api/report/{variant}"},
			ErrorCodes:  codes(apperrors.ErrCodeReportFailed),
		},
		registry.Activity{
			TaskType:    submitfeedback.TaskType,
			DisplayName: "Submit feedback",
			Description: "Send user feedback about a prediction",
			Routes:      []string{"POST /api/feedback"},
			ErrorCodes:  codes(apperrors.ErrCodeFeedbackEmpty, apperrors.ErrCodeFeedbackFailed),
			Timeout:     "10s",
		},
		registry.Activity{
			TaskType:    refreshdashboard.TaskType,
			DisplayName: "Refresh dashboard",
			Description: "Fetch admin aggregates, statistics and predictions; the newest refresh wins",
			Routes:      []string{"GET /api/admin/dashboard", "POST /api/admin/refresh"},
			ErrorCodes:  codes(apperrors.ErrCodeDashboardFailed),
			Timeout:     "15s",
		},
	)
}
