package form

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	apperrors "sme-predictor/internal/common/errors"
	"sme-predictor/internal/common/validation"
	"sme-predictor/internal/models"

	"github.com/mitchellh/mapstructure"
)

// Outcome is the visible result or error of the last submission.
type Outcome struct {
	Result *models.PredictionResult `json:"result,omitempty"`
	Error  *apperrors.ErrorDetail   `json:"error,omitempty"`
}

// State is a snapshot of the form's display values and outcome.
type State struct {
	Values  map[string]string `json:"values"`
	Outcome *Outcome          `json:"outcome,omitempty"`
}

// Controller owns the state of one form. It is not safe for concurrent use.
type Controller struct {
	def     *Definition
	values  map[string]string
	outcome *Outcome
}

func NewController(def *Definition) *Controller {
	c := &Controller{def: def}
	c.Reset()
	return c
}

func (c *Controller) Definition() *Definition { return c.def }

// UpdateField stores raw under name. Separator fields are reformatted for
// display.
func (c *Controller) UpdateField(name, raw string) (State, error) {
	spec, ok := c.def.Field(name)
	if !ok {
		return c.State(), fmt.Errorf("unknown field %q", name)
	}

	value := strings.TrimSpace(raw)
	switch {
	case spec.Separators && spec.Kind == Decimal:
		value = FormatDecimal(value)
	case spec.Separators:
		value = FormatNumber(value)
	}
	c.values[name] = value
	return c.State(), nil
}

// Load applies values in field order. Unknown names fail before anything is
// applied.
func (c *Controller) Load(values map[string]string) error {
	var unknown []string
	for name := range values {
		if _, ok := c.def.Field(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown fields: %s", strings.Join(unknown, ", "))
	}

	for _, f := range c.def.Fields {
		if raw, ok := values[f.Name]; ok {
			if _, err := c.UpdateField(f.Name, raw); err != nil {
				return err
			}
		}
	}
	return nil
}

// Value is the display value of a field.
func (c *Controller) Value(name string) string { return c.values[name] }

// Numeric is the display value with thousands separators removed.
func (c *Controller) Numeric(name string) string { return ParseNumber(c.values[name]) }

func (c *Controller) State() State {
	values := make(map[string]string, len(c.values))
	for k, v := range c.values {
		values[k] = v
	}
	return State{Values: values, Outcome: c.outcome}
}

// Reset clears every field and the visible outcome.
func (c *Controller) Reset() State {
	c.values = make(map[string]string, len(c.def.Fields))
	for _, f := range c.def.Fields {
		c.values[f.Name] = ""
	}
	c.outcome = nil
	return c.State()
}

func (c *Controller) SetOutcome(result *models.PredictionResult, detail *apperrors.ErrorDetail) {
	c.outcome = &Outcome{Result: result, Error: detail}
}

func (c *Controller) Outcome() *Outcome { return c.outcome }

// Validate checks raw values for parseability, then validates the coerced
// document against the definition's schema.
func (c *Controller) Validate() *validation.ValidationResult {
	doc, typeErrs := c.coerce()
	schemaResult := validation.ValidateInput(doc, c.def.Schema())

	// a field that failed to parse is also absent from doc; keep only the
	// type error for it
	bad := make(map[string]bool, len(typeErrs))
	for _, e := range typeErrs {
		bad[e.Field] = true
	}
	kept := schemaResult.Errors[:0]
	for _, e := range schemaResult.Errors {
		if !bad[e.Field] {
			kept = append(kept, e)
		}
	}
	schemaResult.Errors = kept
	schemaResult.Valid = len(kept) == 0

	result := validation.Merge(&validation.ValidationResult{
		Valid:  len(typeErrs) == 0,
		Errors: typeErrs,
	}, schemaResult)

	sort.SliceStable(result.Errors, func(i, j int) bool {
		return result.Errors[i].Field < result.Errors[j].Field
	})
	return result
}

// coerce converts non-empty values to their payload types. Values that do
// not parse are reported and left out of the document.
func (c *Controller) coerce() (map[string]interface{}, []validation.ValidationError) {
	doc := make(map[string]interface{}, len(c.def.Fields))
	var errs []validation.ValidationError

	for _, f := range c.def.Fields {
		raw := c.values[f.Name]
		if f.Kind.numeric() {
			raw = ParseNumber(raw)
		}
		if raw == "" {
			continue
		}

		switch f.Kind {
		case Integer:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				errs = append(errs, validation.ValidationError{Field: f.Name, Message: "must be a whole number", Code: "INVALID_TYPE"})
				continue
			}
			doc[f.Name] = n
		case Decimal:
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil || n != n {
				errs = append(errs, validation.ValidationError{Field: f.Name, Message: "must be a number", Code: "INVALID_TYPE"})
				continue
			}
			doc[f.Name] = n
		default:
			doc[f.Name] = raw
		}
	}
	return doc, errs
}

// ToPayload returns the API request body. Missing optional numeric fields
// are sent as 0.
func (c *Controller) ToPayload() (map[string]interface{}, error) {
	if result := c.Validate(); !result.Valid {
		return nil, apperrors.NewFormValidationError(toIssues(c.def, result))
	}

	doc, _ := c.coerce()
	for _, f := range c.def.Fields {
		if _, ok := doc[f.Name]; ok {
			continue
		}
		switch f.Kind {
		case Integer:
			doc[f.Name] = int64(0)
		case Decimal:
			doc[f.Name] = float64(0)
		}
	}
	return doc, nil
}

func (c *Controller) ToPreInvestment() (*models.PreInvestmentProfile, error) {
	if c.def.Variant != models.VariantPreInvestment {
		return nil, fmt.Errorf("form is %s, not %s", c.def.Variant, models.VariantPreInvestment)
	}
	var profile models.PreInvestmentProfile
	if err := c.decode(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Controller) ToExistingBusiness() (*models.ExistingBusinessProfile, error) {
	if c.def.Variant != models.VariantExistingBusiness {
		return nil, fmt.Errorf("form is %s, not %s", c.def.Variant, models.VariantExistingBusiness)
	}
	var profile models.ExistingBusinessProfile
	if err := c.decode(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ToProfile decodes the payload into the profile type of the form's variant.
func (c *Controller) ToProfile() (models.Profile, error) {
	if c.def.Variant == models.VariantExistingBusiness {
		return c.ToExistingBusiness()
	}
	return c.ToPreInvestment()
}

func (c *Controller) decode(out interface{}) error {
	payload, err := c.ToPayload()
	if err != nil {
		return err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		TagName:     "mapstructure",
		ErrorUnused: true,
	})
	if err != nil {
		return apperrors.NewRequestSetupError(err)
	}
	if err := decoder.Decode(payload); err != nil {
		return apperrors.NewRequestSetupError(fmt.Errorf("decode %s payload: %w", c.def.Variant, err))
	}
	return nil
}

// toIssues lists issues in form order, then any not tied to a field.
func toIssues(def *Definition, result *validation.ValidationResult) []apperrors.FieldIssue {
	issues := make([]apperrors.FieldIssue, 0, len(result.Errors))
	known := make(map[string]bool, len(def.Fields))
	for _, f := range def.Fields {
		known[f.Name] = true
		if !result.HasErrors(f.Name) {
			continue
		}
		for _, e := range result.GetErrorsForField(f.Name) {
			issues = append(issues, apperrors.FieldIssue{Field: f.Label, Message: e.Message})
		}
	}
	for _, e := range result.Errors {
		if !known[e.Field] {
			issues = append(issues, apperrors.FieldIssue{Field: e.Field, Message: e.Message})
		}
	}
	return issues
}
