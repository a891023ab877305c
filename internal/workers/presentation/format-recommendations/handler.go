package formatrecommendations

import (
	"context"
	"errors"
	"strings"

	"sme-predictor/internal/common/logger"
)

const TaskType = "presentation.format-recommendations"

var ErrInputMissing = errors.New("INPUT_MISSING")

type Handler struct {
	logger logger.Logger
}

func NewHandler(log logger.Logger) *Handler {
	return &Handler{
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute formats the recommendations and risk factors of a result.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrInputMissing
	}
	out := &Output{
		Recommendations: FormatRecommendations(input.Recommendations.Flatten()),
		Risks:           FormatRisks(input.RiskFactors),
	}
	h.logger.Debug("recommendations formatted", map[string]interface{}{
		"recommendations": len(out.Recommendations),
		"risks":           len(out.Risks),
	})
	return out, nil
}

// FormatRecommendations numbers the items in order and appends the category
// paragraph to each.
func FormatRecommendations(items []string) []Card {
	return format(items, func(c Category) string { return c.Paragraph })
}

// FormatRisks is FormatRecommendations with mitigation paragraphs.
func FormatRisks(items []string) []Card {
	return format(items, func(c Category) string { return c.Mitigation })
}

func format(items []string, paragraph func(Category) string) []Card {
	cards := make([]Card, 0, len(items))
	for _, item := range items {
		text := strings.TrimSpace(item)
		if text == "" {
			continue
		}
		c := Categorize(text)
		cards = append(cards, Card{
			Number: len(cards) + 1,
			Type:   c.Type,
			Title:  c.Title,
			Icon:   c.Icon,
			Color:  c.Color,
			Text:   text,
			Body:   text + "\n\n" + paragraph(c),
		})
	}
	return cards
}
