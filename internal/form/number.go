package form

import (
	"strings"

	"sme-predictor/internal/models"
)

// FormatNumber drops every non-digit and groups the remaining digits in
// threes with ",".
func FormatNumber(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	s := digits.String()
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	b.WriteString(s[:lead])
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatDecimal is FormatNumber for decimal fields: the first "." and the
// digits after it are kept and only the integer part is grouped.
func FormatDecimal(raw string) string {
	var intPart, frac strings.Builder
	seenPoint := false
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9' && seenPoint:
			frac.WriteRune(r)
		case r >= '0' && r <= '9':
			intPart.WriteRune(r)
		case r == '.' && !seenPoint:
			seenPoint = true
		}
	}
	if !seenPoint {
		return FormatNumber(intPart.String())
	}
	return models.GroupThousands(intPart.String()) + "." + frac.String()
}

// ParseNumber strips thousands separators.
func ParseNumber(display string) string {
	return strings.ReplaceAll(strings.TrimSpace(display), ",", "")
}
