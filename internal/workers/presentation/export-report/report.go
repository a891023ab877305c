package exportreport

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sme-predictor/internal/models"
	formatrecommendations "sme-predictor/internal/workers/presentation/format-recommendations"
	renderresult "sme-predictor/internal/workers/presentation/render-result"

	"github.com/go-pdf/fpdf"
)

const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
	labelWidth   = 60.0
)

const disclaimer = "This report is generated by a machine learning model from the information provided " +
	"and is intended for guidance only. It does not constitute financial or investment advice. " +
	"Actual business outcomes depend on many factors not captured here. Consult a qualified " +
	"business advisor before making investment decisions."

// Report sections in drawing order.
const (
	sectionBusinessInfo    = "Business Information"
	sectionHistory         = "Business Performance History"
	sectionPrediction      = "Prediction Result"
	sectionInsights        = "Business Insights"
	sectionRecommendations = "Recommendations"
	sectionRisks           = "Risk Factors"
	sectionDisclaimer      = "Disclaimer"
)

type pdfReport struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	input  *Input
	view   *renderresult.View
	footer string
}

// buildReport draws the report and returns the encoded PDF.
func buildReport(cfg *Config, input *Input, generatedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	r := &pdfReport{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		input:  input,
		view:   renderresult.Render(input.Variant, input.Profile, input.Result),
		footer: cfg.Author,
	}

	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.SetCompression(cfg.Compress)
	pdf.SetCreationDate(generatedAt)
	pdf.SetTitle("SME Success Prediction Report", true)
	pdf.SetAuthor(cfg.Author, true)
	pdf.SetCreator(cfg.Author, true)
	pdf.SetFooterFunc(r.drawFooter)

	pdf.AddPage()
	r.addHeader(generatedAt)
	r.addBusinessInfo()
	if p, ok := input.Profile.(*models.ExistingBusinessProfile); ok {
		r.addHistory(p)
	}
	r.addPrediction()
	r.addInsights()
	r.addRecommendations()
	r.addRisks()
	r.addDisclaimer()

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *pdfReport) drawFooter() {
	r.pdf.SetY(-15)
	r.pdf.SetFont("Arial", "I", 8)
	r.pdf.SetTextColor(128, 128, 128)
	r.pdf.CellFormat(contentWidth/2, 10, fmt.Sprintf("Page %d", r.pdf.PageNo()), "", 0, "L", false, 0, "")
	r.pdf.CellFormat(contentWidth/2, 10, r.tr(r.footer), "", 0, "R", false, 0, "")
}

// ensureSpace starts a new page when h more millimetres would cross the
// bottom margin.
func (r *pdfReport) ensureSpace(h float64) {
	if r.pdf.GetY()+h > pageHeight-marginBottom {
		r.pdf.AddPage()
	}
}

func (r *pdfReport) addHeader(generatedAt time.Time) {
	r.pdf.SetFont("Arial", "B", 20)
	r.pdf.SetTextColor(30, 58, 95)
	r.pdf.CellFormat(contentWidth, 12, "SME Success Prediction Report", "", 1, "C", false, 0, "")

	r.pdf.SetFont("Arial", "", 12)
	r.pdf.SetTextColor(80, 80, 80)
	r.pdf.CellFormat(contentWidth, 8, r.tr(r.input.Variant.DisplayName()), "", 1, "C", false, 0, "")

	r.pdf.SetFont("Arial", "I", 10)
	r.pdf.CellFormat(contentWidth, 6,
		"Generated: "+generatedAt.UTC().Format("2 January 2006 15:04 MST"), "", 1, "C", false, 0, "")
	r.pdf.Ln(6)
}

func (r *pdfReport) drawSectionHeader(title string) {
	r.ensureSpace(20)
	r.pdf.Ln(4)
	r.pdf.SetFillColor(30, 58, 95)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.CellFormat(contentWidth, 8, " "+title, "", 1, "L", true, 0, "")
	r.pdf.Ln(2)
	r.pdf.SetTextColor(50, 50, 50)
}

func (r *pdfReport) row(label, value string) {
	r.ensureSpace(6)
	r.pdf.SetFont("Arial", "B", 10)
	r.pdf.CellFormat(labelWidth, 6, r.tr(label+":"), "", 0, "L", false, 0, "")
	r.pdf.SetFont("Arial", "", 10)
	r.pdf.MultiCell(contentWidth-labelWidth, 6, r.tr(value), "", "L", false)
}

func (r *pdfReport) paragraph(text string) {
	r.ensureSpace(6)
	r.pdf.SetFont("Arial", "", 10)
	r.pdf.MultiCell(contentWidth, 5, r.tr(text), "", "L", false)
}

func (r *pdfReport) addBusinessInfo() {
	r.drawSectionHeader(sectionBusinessInfo)
	if r.input.Profile == nil {
		r.paragraph(models.NA)
		return
	}
	for _, f := range r.input.Profile.Fields() {
		r.row(f.Label, f.Value)
	}
}

func (r *pdfReport) addHistory(p *models.ExistingBusinessProfile) {
	r.drawSectionHeader(sectionHistory)

	widths := []float64{40, 80, contentWidth - 120}
	r.pdf.SetFont("Arial", "B", 10)
	r.pdf.SetFillColor(240, 244, 250)
	for i, h := range []string{"Year", "Turnover (RWF)", "Employees"} {
		r.pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	r.pdf.Ln(-1)

	r.pdf.SetFont("Arial", "", 10)
	turnover := p.TurnoverHistory()
	employment := p.EmploymentHistory()
	for i := 0; i < 4; i++ {
		r.ensureSpace(7)
		r.pdf.CellFormat(widths[0], 7, fmt.Sprintf("Year %d", i+1), "1", 0, "C", false, 0, "")
		r.pdf.CellFormat(widths[1], 7, models.GroupThousands(strconv.FormatFloat(turnover[i], 'f', 0, 64)), "1", 0, "R", false, 0, "")
		r.pdf.CellFormat(widths[2], 7, strconv.Itoa(employment[i]), "1", 0, "R", false, 0, "")
		r.pdf.Ln(-1)
	}
}

func (r *pdfReport) addPrediction() {
	r.drawSectionHeader(sectionPrediction)

	r.ensureSpace(10)
	r.pdf.SetFont("Arial", "B", 14)
	if r.view.Classification.IsSuccess {
		r.pdf.SetTextColor(34, 197, 94)
	} else {
		r.pdf.SetTextColor(239, 68, 68)
	}
	r.pdf.CellFormat(contentWidth, 9, r.tr(r.view.Classification.Label+" - "+r.view.Headline), "", 1, "L", false, 0, "")
	r.pdf.SetTextColor(50, 50, 50)

	r.row("Success Probability", r.view.Percentage+"%")
	r.row("Confidence", r.view.Confidence)
	r.row("Confidence Zone", r.view.Zone.Name)
	if r.view.RiskLevel != "" {
		r.row("Risk Level", r.view.RiskLevel)
	}
	if r.view.Assessment != "" {
		r.pdf.Ln(2)
		r.paragraph(r.view.Assessment)
	}
}

func (r *pdfReport) addInsights() {
	r.drawSectionHeader(sectionInsights)

	if len(r.view.Insights) > 0 {
		for _, in := range r.view.Insights {
			r.row(in.Name, in.Value)
		}
		return
	}
	if len(r.view.Scores) == 0 {
		r.paragraph("No additional insights were returned for this prediction.")
		return
	}

	for _, s := range r.view.Scores {
		r.row(s.Label, fmt.Sprintf("%.0f%%", s.Value))
	}
	r.pdf.Ln(2)
	for _, f := range r.view.SuccessFactors {
		r.row(f.Name, fmt.Sprintf("%.1f (%s impact)", f.Value, f.Badge))
	}
}

func (r *pdfReport) addRecommendations() {
	r.drawSectionHeader(sectionRecommendations)

	cards := formatrecommendations.FormatRecommendations(r.input.Result.Recommendations.Flatten())
	if len(cards) == 0 {
		r.paragraph("No recommendations were returned.")
		return
	}
	for _, c := range cards {
		r.ensureSpace(12)
		r.pdf.SetFont("Arial", "B", 10)
		r.pdf.MultiCell(contentWidth, 6, r.tr(fmt.Sprintf("%d. %s", c.Number, c.Title)), "", "L", false)
		r.paragraph(c.Text)
		r.pdf.Ln(1)
	}
}

func (r *pdfReport) addRisks() {
	r.drawSectionHeader(sectionRisks)

	risks := r.input.Result.RiskFactors
	if len(risks) == 0 {
		r.paragraph("No specific risk factors were identified.")
		return
	}
	for _, risk := range risks {
		if strings.TrimSpace(risk) == "" {
			continue
		}
		r.paragraph("• " + strings.TrimSpace(risk))
	}
}

func (r *pdfReport) addDisclaimer() {
	r.drawSectionHeader(sectionDisclaimer)
	r.pdf.SetFont("Arial", "I", 9)
	r.pdf.SetTextColor(120, 120, 120)
	r.pdf.MultiCell(contentWidth, 4.5, disclaimer, "", "L", false)
}

// Filename is "<prefix>-<UTC RFC3339 without colons>.pdf".
func Filename(prefix string, at time.Time) string {
	stamp := strings.ReplaceAll(at.UTC().Format(time.RFC3339), ":", "")
	return fmt.Sprintf("%s-%s.pdf", prefix, stamp)
}
