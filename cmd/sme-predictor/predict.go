package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	apperrors "sme-predictor/internal/common/errors"
	"sme-predictor/internal/models"
	submitprediction "sme-predictor/internal/workers/prediction/submit-prediction"
	exportreport "sme-predictor/internal/workers/presentation/export-report"
	formatrecommendations "sme-predictor/internal/workers/presentation/format-recommendations"
	renderresult "sme-predictor/internal/workers/presentation/render-result"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	predictFields []string
	predictFile   string
	predictReport bool
	predictJSON   bool
)

var predictCmd = &cobra.Command{
	Use:   "predict <new|existing>",
	Short: "Submit a business profile for a success prediction",
	Long: `Submit a pre-investment (new) or existing business profile.

Field values come from a YAML file (--file) and/or repeated --field flags;
flags override the file. Numbers may carry thousands separators.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"new", "existing"},
	RunE:      runPredict,
}

func init() {
	predictCmd.Flags().StringArrayVarP(&predictFields, "field", "f", nil, "field value as name=value (repeatable)")
	predictCmd.Flags().StringVar(&predictFile, "file", "", "YAML file of field values")
	predictCmd.Flags().BoolVar(&predictReport, "report", false, "write a PDF report to report.outputDir")
	predictCmd.Flags().BoolVar(&predictJSON, "json", false, "print the full response as JSON")
}

func variantArg(arg string) (models.Variant, error) {
	switch strings.ToLower(arg) {
	case "new", "new-business", string(models.VariantPreInvestment):
		return models.VariantPreInvestment, nil
	case "existing", "existing-business", string(models.VariantExistingBusiness):
		return models.VariantExistingBusiness, nil
	}
	return "", fmt.Errorf("unknown variant %q (want new or existing)", arg)
}

// loadFields merges the YAML file and --field flags into a request body.
func loadFields(path string, pairs []string) (map[string]interface{}, error) {
	fields := make(map[string]interface{})
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &fields); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --field %q, expected name=value", pair)
		}
		fields[strings.TrimSpace(name)] = value
	}
	return map[string]interface{}{"fields": fields}, nil
}

func runPredict(cmd *cobra.Command, args []string) error {
	variant, err := variantArg(args[0])
	if err != nil {
		return err
	}
	body, err := loadFields(predictFile, predictFields)
	if err != nil {
		return err
	}
	input, err := submitprediction.ParseInput(body)
	if err != nil {
		return err
	}

	return withApp(cmd, func(ctx context.Context, a *app) error {
		h, err := submitprediction.NewHandler(submitprediction.HandlerOptions{
			AppConfig:     a.cfg,
			Variant:       variant,
			Observability: a.obs,
			Logger:        a.log,
		})
		if err != nil {
			return err
		}

		out, err := h.Execute(ctx, input)
		if err != nil {
			return printFailure(cmd.ErrOrStderr(), err)
		}

		view, err := renderresult.NewHandler(a.log).Execute(ctx, &renderresult.Input{
			Variant: out.Variant,
			Profile: out.Profile,
			Result:  out.Result,
		})
		if err != nil {
			return err
		}
		cards, err := formatrecommendations.NewHandler(a.log).Execute(ctx, &formatrecommendations.Input{
			Recommendations: out.Result.Recommendations,
			RiskFactors:     out.Result.RiskFactors,
		})
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if predictJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			if err := enc.Encode(map[string]interface{}{
				"variant":         out.Variant,
				"profile":         out.Profile,
				"result":          out.Result,
				"view":            view.View,
				"recommendations": cards.Recommendations,
				"risks":           cards.Risks,
			}); err != nil {
				return err
			}
		} else {
			printView(w, view.View, cards)
		}

		if !predictReport {
			return nil
		}
		path, err := writeReport(ctx, a, out)
		if err != nil {
			return printFailure(cmd.ErrOrStderr(), err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "report written to %s\n", path)
		return nil
	})
}

func writeReport(ctx context.Context, a *app, out *submitprediction.Output) (string, error) {
	h, err := exportreport.NewHandler(exportreport.HandlerOptions{AppConfig: a.cfg, Logger: a.log})
	if err != nil {
		return "", err
	}
	doc, err := h.Execute(ctx, &exportreport.Input{
		Variant: out.Variant,
		Profile: out.Profile,
		Result:  out.Result,
	})
	if err != nil {
		return "", err
	}

	dir := a.cfg.Report.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, doc.Document.Filename)
	if err := os.WriteFile(path, doc.Document.Data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func printView(w io.Writer, v *renderresult.View, cards *formatrecommendations.Output) {
	fmt.Fprintf(w, "%s\n", v.Headline)
	fmt.Fprintf(w, "  %-22s %s\n", "Prediction:", v.Classification.Label)
	fmt.Fprintf(w, "  %-22s %s\n", "Success probability:", v.Percentage)
	fmt.Fprintf(w, "  %-22s %s\n", "Confidence zone:", v.Zone.Name)
	if v.Confidence != "" {
		fmt.Fprintf(w, "  %-22s %s\n", "Confidence:", v.Confidence)
	}
	if v.RiskLevel != "" {
		fmt.Fprintf(w, "  %-22s %s\n", "Risk level:", v.RiskLevel)
	}
	if v.Assessment != "" {
		fmt.Fprintf(w, "  %-22s %s\n", "Assessment:", v.Assessment)
	}

	if len(v.Scores) > 0 {
		fmt.Fprintln(w, "\nScores")
		for _, s := range v.Scores {
			fmt.Fprintf(w, "  %-22s %.1f\n", s.Label, s.Value)
		}
	}
	if len(v.SuccessFactors) > 0 {
		fmt.Fprintln(w, "\nSuccess factors")
		for _, f := range v.SuccessFactors {
			fmt.Fprintf(w, "  %-22s %5.1f  %s\n", f.Name, f.Value, f.Badge)
		}
	}
	if len(v.Insights) > 0 {
		fmt.Fprintln(w, "\nBusiness insights")
		for _, i := range v.Insights {
			fmt.Fprintf(w, "  %-30s %s\n", i.Name, i.Value)
		}
	}

	printCards(w, "Recommendations", cards.Recommendations)
	printCards(w, "Risk factors", cards.Risks)
}

func printCards(w io.Writer, title string, cards []formatrecommendations.Card) {
	if len(cards) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", title)
	for _, c := range cards {
		fmt.Fprintf(w, "  %d. [%s] %s\n", c.Number, c.Title, c.Text)
	}
}

// printFailure writes the notification text and technical details of err,
// then returns it so the command exits non-zero.
func printFailure(w io.Writer, err error) error {
	detail := apperrors.ToErrorDetail(err)
	fmt.Fprintf(w, "%s\n\n%s\n", detail.Type, detail.Message)
	if len(detail.Payload) > 0 {
		fmt.Fprintf(w, "\nDetails: %s\n", string(detail.Payload))
	}
	return err
}
