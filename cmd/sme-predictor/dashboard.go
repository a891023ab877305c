package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	refreshdashboard "sme-predictor/internal/workers/admin/refresh-dashboard"

	"github.com/spf13/cobra"
)

var (
	dashboardType   string
	dashboardSearch string
	dashboardWatch  bool
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the admin dashboard",
	Long: `Fetch the admin dashboard, statistics and prediction list and print a
summary. With --watch the dashboard is refreshed on refreshInterval until
interrupted.`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardType, "type", "all", "prediction type filter (all, new_business, existing_business)")
	dashboardCmd.Flags().StringVar(&dashboardSearch, "search", "", "case-insensitive search across prediction records")
	dashboardCmd.Flags().BoolVarP(&dashboardWatch, "watch", "w", false, "keep refreshing until interrupted")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		h, err := refreshdashboard.NewHandler(refreshdashboard.HandlerOptions{AppConfig: a.cfg, Logger: a.log})
		if err != nil {
			return err
		}

		input := &refreshdashboard.Input{TypeFilter: dashboardType, Search: dashboardSearch, Refresh: true}
		if !dashboardWatch {
			out, err := h.Execute(ctx, input)
			if err != nil {
				return printFailure(cmd.ErrOrStderr(), err)
			}
			printDashboard(cmd.OutOrStdout(), out)
			return nil
		}

		ctx, stop := signalContext(ctx)
		defer stop()

		// the poller refreshes; each print only reads the applied snapshot
		input.Refresh = false
		poller := refreshdashboard.NewPoller(h).OnUpdate(func(*refreshdashboard.Snapshot) {
			out, err := h.Execute(ctx, input)
			if err == nil {
				printDashboard(cmd.OutOrStdout(), out)
			}
		})
		return poller.Run(ctx)
	})
}

func printDashboard(w io.Writer, out *refreshdashboard.Output) {
	snap := out.Snapshot
	if snap == nil {
		fmt.Fprintln(w, "No dashboard data loaded")
		return
	}

	stats := snap.Stats.Statistics
	fmt.Fprintf(w, "Dashboard (issued %s)\n", snap.IssuedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "  Total predictions:     %d\n", snap.Stats.TotalPredictions)
	fmt.Fprintf(w, "  New business:          %d (%d successful)\n", stats.NewBusiness.Total, stats.NewBusiness.Successful)
	fmt.Fprintf(w, "  Existing business:     %d (%d successful)\n", stats.ExistingBusiness.Total, stats.ExistingBusiness.Successful)

	if len(snap.Recent) > 0 {
		fmt.Fprintln(w, "\nRecent")
		printSummaries(w, snap.Recent)
	}

	fmt.Fprintf(w, "\nMatches (%d of %d)\n", len(out.Matches), len(snap.Predictions))
	printSummaries(w, out.Matches)
}

func printSummaries(w io.Writer, rows []refreshdashboard.Summary) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tTYPE\tOUTCOME\tPROBABILITY\tCONFIDENCE\tTIME")
	for _, s := range rows {
		outcome := "Not successful"
		if s.IsSuccess {
			outcome = "Successful"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%s\n", s.ID, s.TypeLabel, outcome, s.Probability, s.ConfidenceLevel, s.Timestamp)
	}
	tw.Flush()
}
