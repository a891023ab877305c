package exportreport

import "sme-predictor/internal/models"

type Input struct {
	Variant models.Variant           `json:"variant"`
	Profile models.Profile           `json:"profile"`
	Result  *models.PredictionResult `json:"result"`
}

type Output struct {
	Document *Document `json:"document"`
}

// Document is a generated report ready to be written or downloaded.
type Document struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"-"`
}

const ContentTypePDF = "application/pdf"
