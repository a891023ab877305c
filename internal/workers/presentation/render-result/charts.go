package renderresult

import (
	"hash/fnv"
	"math"
	"sort"
	"strings"

	"sme-predictor/internal/models"
)

const (
	capitalCeiling    = 5_000_000.0
	experienceCeiling = 15.0

	factorChartTitle = "Illustrative factor weighting"
	factorChartNote  = "Derived from the submitted profile for presentation only. It is not a model explanation."
)

var sectorImpact = map[string]float64{
	"Information And Communication":                                        18,
	"Financial And Insurance Activities":                                   17,
	"Manufacturing":                                                        16,
	"Professional, Scientific And Technical Activities":                    16,
	"Human Health And Social Work Activities":                              15,
	"Wholesale And Retail Trade; Repair Of Motor Vehicles And Motorcycles": 14,
	"Construction":                              13,
	"Agriculture, Forestry And Fishing":         12,
	"Education":                                 12,
	"Transportation And Storage":                12,
	"Accommodation And Food Service Activities": 11,
}

var locationImpact = map[string]float64{
	"NYARUGENGE": 15,
	"GASABO":     14,
	"KICUKIRO":   13,
	"MUSANZE":    10,
	"HUYE":       10,
	"RUBAVU":     10,
}

var entityImpact = map[string]float64{
	"PRIVATE CORPORATION":       9,
	"LIMITED LIABILITY COMPANY": 8,
	"JOINT VENTURE":             7,
	"COOPERATIVE":               6,
	"PARTNERSHIP":               5,
	"SOLE PROPRIETORSHIP":       4,
	"INDIVIDUAL":                3,
}

var factorColors = []string{"#4a90e2", "#1e3a5f", "#7bb3f0", "#2d5aa0", "#5c8dd6", "#95c5ff"}

type impact struct {
	name  string
	value float64
}

// BuildFactorChart derives an illustrative impact per profile factor. Known
// categories use fixed constants; unlisted ones get a stable value hashed
// from the category text. Bars are sorted by impact, highest first.
func BuildFactorChart(profile models.Profile, result *models.PredictionResult) ChartData {
	var impacts []impact
	switch p := profile.(type) {
	case *models.PreInvestmentProfile:
		impacts = []impact{
			{"Business Capital", scaled(float64(p.BusinessCapital)/capitalCeiling, 10, 40)},
			{"Owner Experience", scaled(float64(p.OwnerBusinessExperience)/experienceCeiling, 15, 40)},
			{"Education Level", scaled(float64(p.EducationLevelNumeric)/4, 10, 30)},
			{"Business Sector", categorical(sectorImpact, p.BusinessSector, 5, 20)},
			{"Location", categorical(locationImpact, p.BusinessLocation, 5, 15)},
			{"Entity Type", categorical(entityImpact, p.EntityType, 2, 10)},
		}
	case *models.ExistingBusinessProfile:
		turnover := p.TurnoverHistory()
		employment := p.EmploymentHistory()
		impacts = []impact{
			{"Business Capital", scaled(p.BusinessCapital/capitalCeiling, 10, 40)},
			{"Revenue Trend", trendImpact(turnover[0], turnover[3], 5, 35)},
			{"Employment Trend", trendImpact(float64(employment[0]), float64(employment[3]), 5, 25)},
			{"Business Sector", categorical(sectorImpact, p.BusinessSector, 5, 20)},
			{"Location", categorical(locationImpact, p.BusinessLocation, 5, 15)},
			{"Entity Type", categorical(entityImpact, p.EntityType, 2, 10)},
		}
	}

	sort.SliceStable(impacts, func(i, j int) bool { return impacts[i].value > impacts[j].value })

	chart := ChartData{
		Kind:     "bar",
		Title:    factorChartTitle,
		Note:     factorChartNote,
		Labels:   make([]string, len(impacts)),
		Datasets: []Dataset{{Label: "Relative weight", Data: make([]float64, len(impacts))}},
	}
	for i, f := range impacts {
		chart.Labels[i] = f.name
		chart.Datasets[0].Data[i] = round1(f.value)
		chart.Datasets[0].Colors = append(chart.Datasets[0].Colors, factorColors[i%len(factorColors)])
	}
	return chart
}

// BuildDistributionChart is a four-band gauge along the probability axis
// with the needle at the success percentage.
func BuildDistributionChart(result *models.PredictionResult) ChartData {
	needle := percentValue(result.SuccessProbability)
	return ChartData{
		Kind:   "doughnut",
		Title:  "Success probability",
		Labels: []string{"Very High Risk", "High Risk", "Moderate Risk", "Low Risk"},
		Datasets: []Dataset{{
			Label:  "Probability band",
			Data:   []float64{25, 25, 25, 25},
			Colors: []string{"#ef4444", "#f59e0b", "#3b82f6", "#22c55e"},
		}},
		Needle: &needle,
	}
}

// scaled maps ratio (clamped to [0,1]) onto [lo,hi].
func scaled(ratio, lo, hi float64) float64 {
	ratio = math.Max(0, math.Min(1, ratio))
	return lo + ratio*(hi-lo)
}

func categorical(table map[string]float64, category string, lo, hi float64) float64 {
	if v, ok := table[category]; ok {
		return v
	}
	return stableFallback(category, lo, hi)
}

// stableFallback picks a value in [lo,hi) from the FNV hash of key, so the
// same category always yields the same bar.
func stableFallback(key string, lo, hi float64) float64 {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return lo
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return lo + float64(h.Sum32()%1000)/1000*(hi-lo)
}

func trendImpact(first, last, lo, hi float64) float64 {
	mid := (lo + hi) / 2
	if first <= 0 {
		if last > 0 {
			return mid
		}
		return lo
	}
	growth := (last - first) / first
	return math.Max(lo, math.Min(hi, mid+growth*10))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
