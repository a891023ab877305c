package renderresult

import "sme-predictor/internal/models"

type Input struct {
	Variant models.Variant           `json:"variant"`
	Profile models.Profile           `json:"profile,omitempty"`
	Result  *models.PredictionResult `json:"result"`
}

type Output struct {
	View *View `json:"view"`
}

type Classification struct {
	IsSuccess bool   `json:"isSuccess"`
	Label     string `json:"label"`
}

// Zone is a confidence bucket with its accent colour.
type Zone struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type Dataset struct {
	Label  string    `json:"label"`
	Data   []float64 `json:"data"`
	Colors []string  `json:"colors,omitempty"`
}

// ChartData is a chart-library-neutral dataset description.
type ChartData struct {
	Kind     string    `json:"kind"`
	Title    string    `json:"title"`
	Note     string    `json:"note,omitempty"`
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
	Needle   *float64  `json:"needle,omitempty"`
}

type Score struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type Factor struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
	Badge string  `json:"badge"`
}

type Insight struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// View bundles everything the result screen and report draw from.
type View struct {
	Variant           models.Variant `json:"variant"`
	Classification    Classification `json:"classification"`
	Headline          string         `json:"headline"`
	Probability       float64        `json:"probability"`
	Percentage        string         `json:"percentage"`
	Zone              Zone           `json:"zone"`
	Confidence        string         `json:"confidence"`
	FactorChart       ChartData      `json:"factorChart"`
	DistributionChart ChartData      `json:"distributionChart"`
	Scores            []Score        `json:"scores,omitempty"`
	SuccessFactors    []Factor       `json:"successFactors,omitempty"`
	Insights          []Insight      `json:"insights,omitempty"`
	RiskLevel         string         `json:"riskLevel,omitempty"`
	Assessment        string         `json:"assessment,omitempty"`
}
