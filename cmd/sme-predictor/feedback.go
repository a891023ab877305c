package main

import (
	"context"
	"fmt"

	"sme-predictor/internal/models"
	submitfeedback "sme-predictor/internal/workers/communication/submit-feedback"

	"github.com/spf13/cobra"
)

var (
	feedbackName    string
	feedbackEmail   string
	feedbackMessage string
	feedbackType    string
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Send feedback about a prediction",
	Args:  cobra.NoArgs,
	RunE:  runFeedback,
}

func init() {
	feedbackCmd.Flags().StringVar(&feedbackName, "name", "", "your name (optional)")
	feedbackCmd.Flags().StringVar(&feedbackEmail, "email", "", "your email (optional)")
	feedbackCmd.Flags().StringVarP(&feedbackMessage, "message", "m", "", "feedback text")
	feedbackCmd.Flags().StringVar(&feedbackType, "type", string(models.VariantGeneral), "new_business, existing_business or general")
}

func runFeedback(cmd *cobra.Command, args []string) error {
	predictionType := models.Variant(feedbackType)
	if !predictionType.Valid() {
		return fmt.Errorf("unknown prediction type %q", feedbackType)
	}

	return withApp(cmd, func(ctx context.Context, a *app) error {
		h, err := submitfeedback.NewHandler(submitfeedback.HandlerOptions{AppConfig: a.cfg, Logger: a.log})
		if err != nil {
			return err
		}

		out, err := h.Execute(ctx, &submitfeedback.Input{
			Name:           feedbackName,
			Email:          feedbackEmail,
			PredictionType: predictionType,
			Message:        feedbackMessage,
		})
		if err != nil {
			return printFailure(cmd.ErrOrStderr(), err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out.Message)
		return nil
	})
}
