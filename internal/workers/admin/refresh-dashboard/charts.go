package refreshdashboard

import (
	"fmt"
	"sort"

	"sme-predictor/internal/models"
)

const (
	colorNew      = "#3b82f6"
	colorExisting = "#8b5cf6"
)

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// BuildCharts derives the dashboard charts from fetched data.
func BuildCharts(agg models.DashboardAggregate, predictions []models.PredictionRecord) Charts {
	return Charts{
		PredictionsByDate: predictionsByDate(agg.PredictionsByDate),
		SuccessRate:       successRate(agg),
		Distribution:      distribution(agg),
		Confidence:        confidence(predictions),
	}
}

func predictionsByDate(byDate map[string]int) Chart {
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	c := Chart{Kind: "bar", Title: "Predictions by Date", Labels: dates, Values: make([]float64, len(dates)), Empty: len(dates) == 0}
	for i, d := range dates {
		c.Values[i] = float64(byDate[d])
	}
	return c
}

func successRate(agg models.DashboardAggregate) Chart {
	return Chart{
		Kind:   "bar",
		Title:  "Success Rate by Category",
		Labels: []string{"New Business", "Existing Business"},
		Values: []float64{agg.SuccessRateNew, agg.SuccessRateExisting},
		Colors: []string{colorNew, colorExisting},
		Legend: []string{percent(agg.SuccessRateNew), percent(agg.SuccessRateExisting)},
	}
}

func distribution(agg models.DashboardAggregate) Chart {
	newCount := agg.NewBusinessPredictions
	existingCount := agg.ExistingBusinessPredictions
	total := newCount + existingCount

	c := Chart{
		Kind:   "pie",
		Title:  "Prediction Distribution",
		Labels: []string{"New Business", "Existing Business"},
		Values: []float64{float64(newCount), float64(existingCount)},
		Colors: []string{colorNew, colorExisting},
		Empty:  total == 0,
	}
	if total > 0 {
		c.Legend = []string{
			fmt.Sprintf("%d (%s)", newCount, percent(float64(newCount)/float64(total)*100)),
			fmt.Sprintf("%d (%s)", existingCount, percent(float64(existingCount)/float64(total)*100)),
		}
	}
	return c
}

// confidence counts new-business records by confidence level.
func confidence(predictions []models.PredictionRecord) Chart {
	levels := []string{"High", "Medium", "Low"}
	counts := make(map[string]int, len(levels))
	for _, p := range predictions {
		if p.PredictionType != models.VariantPreInvestment {
			continue
		}
		if result, err := p.Result(); err == nil {
			counts[result.ConfidenceLevel]++
		}
	}

	c := Chart{
		Kind:   "bar",
		Title:  "Confidence Levels (New Business)",
		Labels: levels,
		Values: make([]float64, len(levels)),
		Colors: []string{"#22c55e", "#f59e0b", "#ef4444"},
	}
	sum := 0
	for i, l := range levels {
		c.Values[i] = float64(counts[l])
		sum += counts[l]
	}
	c.Empty = sum == 0
	return c
}
