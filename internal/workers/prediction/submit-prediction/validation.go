package submitprediction

import "sme-predictor/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"fields"},
		Properties: map[string]validation.Property{
			"fields": {
				Type:        "object",
				Description: "Raw form values keyed by field name",
			},
		},
		AdditionalProperties: true,
	}
}
