package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"fixflow/internal/bootstrap"
	"fixflow/internal/bootstrap/logging"
	"fixflow/internal/errs"
)

var contractorCmd = &cobra.Command{
	Use:   "contractor",
	Short: "Contractor workload and scorecard commands",
}

var contractorJobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List a contractor's active jobs",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svcs services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		contractorID, _ := cmd.Flags().GetString("id")
		items, err := svcs.Jobs.GetJobsForContractor(ctx, contractorID)
		if err != nil {
			return errs.Wrap(err, "list contractor jobs")
		}

		for _, item := range items {
			if err := printJob(cmd, item); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "total=%d\n", len(items)); err != nil {
			return errs.Wrap(err, "write contractor jobs output")
		}
		return nil
	}),
}

var contractorScorecardCmd = &cobra.Command{
	Use:   "scorecard",
	Short: "Show a contractor's matching scorecard",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svcs services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		contractorID, _ := cmd.Flags().GetString("id")
		card, err := svcs.Matcher.BuildScorecard(ctx, contractorID)
		if err != nil {
			return errs.Wrap(err, "build scorecard")
		}

		raw, err := json.MarshalIndent(card, "", "  ")
		if err != nil {
			return errs.Wrap(err, "marshal scorecard")
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), string(raw)); err != nil {
			return errs.Wrap(err, "write scorecard output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(contractorCmd)
	contractorCmd.AddCommand(contractorJobsCmd)
	contractorCmd.AddCommand(contractorScorecardCmd)

	contractorJobsCmd.Flags().String("id", "", "Contractor id")
	_ = contractorJobsCmd.MarkFlagRequired("id")

	contractorScorecardCmd.Flags().String("id", "", "Contractor id")
	_ = contractorScorecardCmd.MarkFlagRequired("id")
}
