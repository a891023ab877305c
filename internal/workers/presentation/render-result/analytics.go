package renderresult

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"sme-predictor/internal/models"
)

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// AnalyticsScores are the pre-investment profile scores shown next to the
// prediction. A nil profile yields the default scores.
func AnalyticsScores(p *models.PreInvestmentProfile, probability float64) []Score {
	capital, experience, education := 45.0, 50.0, 55.0
	if p != nil {
		capital = clamp(float64(p.BusinessCapital)/capitalCeiling*100, 30, 100)
		experience = clamp(float64(p.OwnerBusinessExperience)/experienceCeiling*100, 20, 100)
		education = clamp(float64(p.EducationLevelNumeric)*20, 30, 100)
	}
	return []Score{
		{Label: "Capital Base", Value: math.Round(capital)},
		{Label: "Experience", Value: math.Round(experience)},
		{Label: "Education", Value: math.Round(education)},
		{Label: "Final Prediction", Value: math.Round(models.ClampProbability(probability) * 100)},
	}
}

// SuccessFactors weighs five profile areas for the factor distribution.
func SuccessFactors(p *models.PreInvestmentProfile) []Factor {
	capital, experience, education := 15.0, 12.0, 10.0
	market, structure := 12.0, 8.0
	if p != nil {
		capital = clamp(float64(p.BusinessCapital)/capitalCeiling*30, 10, 30)
		experience = clamp(float64(p.OwnerBusinessExperience)/experienceCeiling*25, 8, 25)
		education = clamp(float64(p.EducationLevelNumeric)*4, 5, 20)
		if p.BusinessSector != "" && p.BusinessLocation != "" {
			market = 18
		}
		if p.EntityType != "" && p.CapitalSource != "" {
			structure = 15
		}
	}

	factors := []Factor{
		{Name: "Capital", Value: round1(capital), Color: "#22c55e"},
		{Name: "Experience", Value: round1(experience), Color: "#3b82f6"},
		{Name: "Education", Value: round1(education), Color: "#f59e0b"},
		{Name: "Market", Value: market, Color: "#8b5cf6"},
		{Name: "Structure", Value: structure, Color: "#ef4444"},
	}
	for i := range factors {
		factors[i].Badge = ImpactBadge(factors[i].Value)
	}
	return factors
}

// BusinessInsights renders the API's insight map sorted by name.
func BusinessInsights(raw map[string]interface{}) []Insight {
	names := make([]string, 0, len(raw))
	for k := range raw {
		names = append(names, k)
	}
	sort.Strings(names)

	out := make([]Insight, 0, len(names))
	for _, k := range names {
		out = append(out, Insight{Name: humanize(k), Value: insightValue(raw[k])})
	}
	return out
}

func humanize(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func insightValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return models.NA
	case float64:
		if val == math.Trunc(val) && math.Abs(val) >= 1000 {
			return models.GroupThousands(strconv.FormatFloat(val, 'f', 0, 64))
		}
		return strconv.FormatFloat(math.Round(val*100)/100, 'f', -1, 64)
	case string:
		return models.OrNA(strings.ReplaceAll(val, "_", " "))
	default:
		return fmt.Sprint(val)
	}
}
