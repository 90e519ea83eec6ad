package cmd

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"fixflow/internal/bootstrap"
	"fixflow/internal/bootstrap/logging"
	"fixflow/internal/errs"
)

var trustCmd = &cobra.Command{
	Use:   "trust",
	Short: "Contractor trust score commands",
}

var trustScoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Compute average feedback score per contractor",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svcs services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		scores, err := svcs.Trust.ComputeContractorTrustScores(ctx)
		if err != nil {
			return errs.Wrap(err, "compute trust scores")
		}

		ids := make([]string, 0, len(scores))
		for id := range scores {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %.2f\n", id, scores[id]); err != nil {
				return errs.Wrap(err, "write trust scores output")
			}
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "total=%d\n", len(ids)); err != nil {
			return errs.Wrap(err, "write trust scores output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(trustCmd)
	trustCmd.AddCommand(trustScoresCmd)
}
