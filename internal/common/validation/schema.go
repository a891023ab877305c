package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// JSONSchema defines the structure for input/output schemas
type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties"`
}

type Property struct {
	Type        string              `json:"type"`
	Description string              `json:"description,omitempty"`
	Default     interface{}         `json:"default,omitempty"`
	Minimum     *float64            `json:"minimum,omitempty"`
	Maximum     *float64            `json:"maximum,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	Pattern     *string             `json:"pattern,omitempty"`
	MinLength   *int                `json:"minLength,omitempty"`
	MaxLength   *int                `json:"maxLength,omitempty"`
	Items       *Property           `json:"items,omitempty"`
	Properties  map[string]Property `json:"properties,omitempty"`
	Required    []string            `json:"required,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidateInput validates a document against the schema with gojsonschema and
// maps each violation to a field-level ValidationError.
func ValidateInput(input map[string]interface{}, schema JSONSchema) *ValidationResult {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(input),
	)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: fmt.Sprintf("schema evaluation failed: %v", err),
				Code:    "SCHEMA_ERROR",
			}},
		}
	}

	errors := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errors = append(errors, toValidationError(desc, schema))
	}
	sortErrors(errors)

	return &ValidationResult{
		Valid:  len(errors) == 0,
		Errors: errors,
	}
}

func toValidationError(desc gojsonschema.ResultError, schema JSONSchema) ValidationError {
	field := desc.Field()
	details := desc.Details()
	prop := schema.Properties[field]

	switch desc.Type() {
	case "required":
		if prop, ok := details["property"].(string); ok {
			field = prop
		}
		return ValidationError{Field: field, Message: "is required", Code: "REQUIRED_FIELD_MISSING"}
	case "number_gte", "number_gt":
		return ValidationError{Field: field, Message: "must be at least " + formatBound(prop.Minimum, details["min"]), Code: "MINIMUM_VIOLATION"}
	case "number_lte", "number_lt":
		return ValidationError{Field: field, Message: "must be at most " + formatBound(prop.Maximum, details["max"]), Code: "MAXIMUM_VIOLATION"}
	case "enum":
		return ValidationError{Field: field, Message: "must be one of the allowed options", Code: "INVALID_ENUM_VALUE"}
	case "invalid_type":
		return ValidationError{Field: field, Message: fmt.Sprintf("must be of type %v", details["expected"]), Code: "INVALID_TYPE"}
	case "string_gte":
		return ValidationError{Field: field, Message: desc.Description(), Code: "MIN_LENGTH_VIOLATION"}
	case "string_lte":
		return ValidationError{Field: field, Message: desc.Description(), Code: "MAX_LENGTH_VIOLATION"}
	case "pattern":
		return ValidationError{Field: field, Message: desc.Description(), Code: "PATTERN_MISMATCH"}
	case "additional_property_not_allowed":
		if prop, ok := details["property"].(string); ok {
			field = prop
		}
		return ValidationError{Field: field, Message: "field not allowed in schema", Code: "EXTRA_FIELD"}
	default:
		return ValidationError{Field: field, Message: desc.Description(), Code: "SCHEMA_VIOLATION"}
	}
}

func formatBound(bound *float64, fallback interface{}) string {
	if bound != nil {
		return strconv.FormatFloat(*bound, 'f', -1, 64)
	}
	return fmt.Sprint(fallback)
}

func sortErrors(errs []ValidationError) {
	sort.SliceStable(errs, func(i, j int) bool {
		if errs[i].Field != errs[j].Field {
			return errs[i].Field < errs[j].Field
		}
		return errs[i].Code < errs[j].Code
	})
}

// Merge combines two results.
func Merge(a, b *ValidationResult) *ValidationResult {
	merged := &ValidationResult{}
	for _, r := range []*ValidationResult{a, b} {
		if r != nil {
			merged.Errors = append(merged.Errors, r.Errors...)
		}
	}
	merged.Valid = len(merged.Errors) == 0
	return merged
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// GetErrorsForField returns errors for a specific field
func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") || strings.HasPrefix(err.Field, field+"[") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func Float64Ptr(f float64) *float64 {
	return &f
}
