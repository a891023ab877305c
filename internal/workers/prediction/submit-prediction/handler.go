package submitprediction

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"sme-predictor/internal/common/config"
	apperrors "sme-predictor/internal/common/errors"
	"sme-predictor/internal/common/http"
	"sme-predictor/internal/common/logger"
	"sme-predictor/internal/common/metrics"
	"sme-predictor/internal/common/observability"
	"sme-predictor/internal/common/validation"
	"sme-predictor/internal/form"
	"sme-predictor/internal/models"
)

const TaskType = "prediction.submit"

var ErrInputInvalid = errors.New("INPUT_INVALID")

type Handler struct {
	config        *Config
	logger        logger.Logger
	service       *Service
	observability *observability.Observability
}

type HandlerOptions struct {
	AppConfig     *config.Config
	Variant       models.Variant
	CustomConfig  *Config
	Client        *http.Client
	Resolver      http.BaseURLResolver
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := opts.CustomConfig
	if workerConfig == nil {
		workerConfig = createConfigFromAppConfig(opts.AppConfig, opts.Variant)
	}
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{
		"taskType": TaskType,
		"variant":  string(workerConfig.Variant),
	})

	client := opts.Client
	if client == nil {
		client = http.NewClient(log)
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = http.NewResolver(client, http.Endpoints{
			LocalURL:      workerConfig.LocalURL,
			DeployedURL:   workerConfig.DeployedURL,
			HealthPath:    workerConfig.HealthPath,
			HealthTimeout: workerConfig.HealthTimeout,
		}, log)
	}

	return &Handler{
		config: workerConfig,
		logger: log,
		service: NewService(ServiceDependencies{
			Logger:   log,
			Client:   client,
			Resolver: resolver,
		}, workerConfig),
		observability: opts.Observability,
	}, nil
}

func (h *Handler) Variant() models.Variant { return h.config.Variant }

// NewForm returns an empty controller for the handler's variant.
func (h *Handler) NewForm() *form.Controller {
	def, _ := form.ForVariant(h.config.Variant)
	return form.NewController(def)
}

// Execute loads the input into a fresh form, validates it and submits it.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.Fields == nil {
		return nil, fmt.Errorf("%w: fields are required", ErrInputInvalid)
	}

	c := h.NewForm()
	if err := c.Load(input.Fields); err != nil {
		return nil, apperrors.NewFormValidationError([]apperrors.FieldIssue{{Field: "fields", Message: err.Error()}})
	}
	return h.Submit(ctx, c)
}

// Submit sends the controller's payload and records the outcome on it.
// Validation failures never reach the network.
func (h *Handler) Submit(ctx context.Context, c *form.Controller) (*Output, error) {
	start := time.Now()
	variant := string(h.config.Variant)

	fail := func(err error) (*Output, error) {
		detail := apperrors.ToErrorDetail(err)
		c.SetOutcome(nil, detail)
		metrics.PredictionsTotal.WithLabelValues(variant, "error").Inc()
		h.observability.RecordSubmission(ctx, TaskType, "error")
		h.observability.RecordSubmissionDuration(ctx, TaskType, time.Since(start), "error")
		h.logger.Warn("prediction failed", map[string]interface{}{
			"errorId":   detail.ID,
			"errorType": detail.Type,
			"code":      detail.Code,
			"duration":  time.Since(start).String(),
		})
		return nil, err
	}

	payload, err := c.ToPayload()
	if err != nil {
		return fail(err)
	}
	profile, err := c.ToProfile()
	if err != nil {
		return fail(err)
	}

	h.logger.Info("submitting prediction request", map[string]interface{}{"path": h.config.Path})
	result, err := h.service.Predict(ctx, payload)
	if err != nil {
		return fail(err)
	}

	c.SetOutcome(result, nil)
	metrics.PredictionsTotal.WithLabelValues(variant, "success").Inc()
	h.observability.RecordSubmission(ctx, TaskType, "success")
	h.observability.RecordSubmissionDuration(ctx, TaskType, time.Since(start), "success")
	h.logger.Info("prediction completed", map[string]interface{}{
		"probability": result.SuccessProbability,
		"prediction":  result.Prediction.String(),
		"duration":    time.Since(start).String(),
	})

	return &Output{
		Variant:  h.config.Variant,
		Profile:  profile,
		Payload:  payload,
		Result:   result,
		Duration: time.Since(start),
	}, nil
}

// ParseInput validates a decoded request body and stringifies its field
// values so numbers from JSON or YAML load like typed text.
func ParseInput(variables map[string]interface{}) (*Input, error) {
	result := validation.ValidateInput(variables, GetInputSchema())
	if !result.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInputInvalid, result.GetErrorMessages())
	}

	raw, _ := variables["fields"].(map[string]interface{})
	fields := make(map[string]string, len(raw))
	for name, v := range raw {
		switch val := v.(type) {
		case nil:
			fields[name] = ""
		case string:
			fields[name] = val
		case float64:
			fields[name] = strconv.FormatFloat(val, 'f', -1, 64)
		case int:
			fields[name] = strconv.Itoa(val)
		case int64:
			fields[name] = strconv.FormatInt(val, 10)
		case bool:
			return nil, fmt.Errorf("%w: field %q must be text or a number", ErrInputInvalid, name)
		default:
			fields[name] = fmt.Sprint(val)
		}
	}
	return &Input{Fields: fields}, nil
}
