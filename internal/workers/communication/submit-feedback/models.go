package submitfeedback

import "sme-predictor/internal/models"

type Input struct {
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	PredictionType models.Variant `json:"prediction_type"`
	Message        string         `json:"message"`
}

type Output struct {
	Submitted bool   `json:"submitted"`
	Message   string `json:"message"`
}

const thankYouMessage = "Thank you for your feedback!"
