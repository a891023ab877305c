package formatrecommendations

import "sme-predictor/internal/models"

type Input struct {
	Recommendations models.Recommendations `json:"recommendations"`
	RiskFactors     []string               `json:"risk_factors"`
}

type Output struct {
	Recommendations []Card `json:"recommendations"`
	Risks           []Card `json:"risks"`
}

// Card is one numbered recommendation or risk ready for display.
type Card struct {
	Number int    `json:"number"`
	Type   string `json:"type"`
	Title  string `json:"title"`
	Icon   string `json:"icon"`
	Color  string `json:"color"`
	Text   string `json:"text"`
	Body   string `json:"body"`
}
