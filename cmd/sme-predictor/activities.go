package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"sme-predictor/internal/server"
	"sme-predictor/pkg/registry"

	"github.com/spf13/cobra"
)

var (
	activitiesJSON     bool
	activitiesCategory string
)

var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "List the workflow activities and the routes that run them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := server.Activities(rootCmd.Version)
		if activitiesCategory != "" {
			catalog = &registry.Catalog{Version: catalog.Version, Activities: catalog.ByCategory(activitiesCategory)}
		}
		if activitiesJSON {
			return catalog.WriteJSON(cmd.OutOrStdout())
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TASK TYPE\tNAME\tROUTES")
		for _, a := range catalog.Activities {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", a.TaskType, a.DisplayName, strings.Join(a.Routes, ", "))
		}
		return tw.Flush()
	},
}

func init() {
	activitiesCmd.Flags().BoolVar(&activitiesJSON, "json", false, "print the catalog as JSON")
	activitiesCmd.Flags().StringVar(&activitiesCategory, "category", "", "only list one category (prediction, presentation, communication, admin)")
}
