package formatrecommendations

import (
	"context"
	"testing"

	"sme-predictor/internal/common/logger"
	"sme-predictor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		text     string
		wantType string
	}{
		{"Increase TURNOVER by expanding to new districts", "revenue"},
		{"Focus on sales channels", "revenue"},
		{"Consider hiring two more staff", "workforce"},
		{"Seek additional funding from SACCOs", "finance"},
		{"Study customer needs", "market"},
		{"Improve process efficiency", "operations"},
		{"Review legal compliance", "risk"},
		{"Try something new", "growth"},
		{"", "growth"},
		// first match wins: revenue precedes market
		{"Grow market revenue", "revenue"},
		// capital precedes risk
		{"Capital risk is high", "finance"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.wantType, Categorize(tt.text).Type)
		})
	}
}

func TestCategorize_TurnoverIsRevenueGrowth(t *testing.T) {
	for _, text := range []string{"turnover", "TURNOVER", "Declining Turnover trend"} {
		assert.Equal(t, "Revenue Growth Strategy", Categorize(text).Title)
	}
}

func TestCategorize_Deterministic(t *testing.T) {
	text := "Improve workforce productivity"
	first := Categorize(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Categorize(text))
	}
}

func TestFormatRecommendations(t *testing.T) {
	cards := FormatRecommendations([]string{"Boost sales", "  ", "Hire staff"})
	require.Len(t, cards, 2)

	assert.Equal(t, 1, cards[0].Number)
	assert.Equal(t, "Revenue Growth Strategy", cards[0].Title)
	assert.Equal(t, "📈", cards[0].Icon)
	assert.Equal(t, "#22c55e", cards[0].Color)
	assert.Equal(t, "Boost sales\n\n"+Categorize("sales").Paragraph, cards[0].Body)

	assert.Equal(t, 2, cards[1].Number)
	assert.Equal(t, "workforce", cards[1].Type)
}

func TestFormatRisks_UsesMitigation(t *testing.T) {
	cards := FormatRisks([]string{"Regulation changes"})
	require.Len(t, cards, 1)
	assert.Equal(t, "Risk Management", cards[0].Title)
	assert.Equal(t, "Regulation changes\n\n"+Categorize("risk").Mitigation, cards[0].Body)
}

func TestExecute_FlattensStructured(t *testing.T) {
	h := NewHandler(logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), &Input{
		Recommendations: models.Recommendations{Structured: &models.StructuredRecommendations{
			KeyStrengths:     []string{"Strong market presence"},
			ImprovementAreas: []string{"Staff training"},
			ActionItems:      []string{"Open a savings account for capital"},
		}},
		RiskFactors: []string{"Competition from imports"},
	})
	require.NoError(t, err)

	require.Len(t, out.Recommendations, 3)
	assert.Equal(t, "finance", out.Recommendations[0].Type)
	assert.Equal(t, "workforce", out.Recommendations[1].Type)
	assert.Equal(t, "market", out.Recommendations[2].Type)

	require.Len(t, out.Risks, 1)
	assert.Equal(t, "market", out.Risks[0].Type)
}

func TestExecute_NilInput(t *testing.T) {
	h := NewHandler(logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInputMissing)
	assert.Nil(t, out)
}
