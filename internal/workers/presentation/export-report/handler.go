package exportreport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sme-predictor/internal/common/config"
	apperrors "sme-predictor/internal/common/errors"
	"sme-predictor/internal/common/logger"
	"sme-predictor/internal/common/metrics"
	"sme-predictor/internal/models"
)

const TaskType = "presentation.export-report"

var ErrInputInvalid = errors.New("INPUT_INVALID")

type Handler struct {
	config *Config
	logger logger.Logger
	now    func() time.Time
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Logger       logger.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := opts.CustomConfig
	if workerConfig == nil {
		workerConfig = createConfigFromAppConfig(opts.AppConfig)
	}
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Handler{
		config: workerConfig,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
		now:    clock,
	}, nil
}

// Execute renders the report for a profile and its prediction.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.Result == nil ||
		(input.Variant != models.VariantPreInvestment && input.Variant != models.VariantExistingBusiness) {
		return nil, fmt.Errorf("%w: variant and result are required", ErrInputInvalid)
	}
	if input.Profile != nil && input.Profile.Variant() != input.Variant {
		return nil, fmt.Errorf("%w: profile is %s, report is %s", ErrInputInvalid, input.Profile.Variant(), input.Variant)
	}

	generatedAt := h.now()
	data, err := buildReport(h.config, input, generatedAt)
	if err != nil {
		h.logger.Error("report generation failed", map[string]interface{}{
			"variant": string(input.Variant),
			"error":   err.Error(),
		})
		return nil, apperrors.NewReportError(err)
	}

	doc := &Document{
		Filename:    Filename(h.config.Prefix(input.Variant), generatedAt),
		ContentType: ContentTypePDF,
		Data:        data,
	}
	metrics.ReportsGenerated.WithLabelValues(string(input.Variant)).Inc()
	h.logger.Info("report generated", map[string]interface{}{
		"variant":  string(input.Variant),
		"filename": doc.Filename,
		"bytes":    len(data),
	})
	return &Output{Document: doc}, nil
}
