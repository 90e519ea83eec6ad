package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"fixflow/internal/bootstrap"
	"fixflow/internal/bootstrap/logging"
	"fixflow/internal/errs"
	"fixflow/internal/ports"
	"fixflow/internal/usecase/feedback"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Feedback ledger commands",
}

var feedbackSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit feedback for a job",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svcs services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		jobID, _ := cmd.Flags().GetString("job")
		submittedBy, _ := cmd.Flags().GetString("by")
		role, _ := cmd.Flags().GetString("role")
		rating, _ := cmd.Flags().GetInt("rating")
		notes, _ := cmd.Flags().GetString("notes")

		rec, err := svcs.Feedback.SubmitFeedback(ctx, feedback.SubmitFeedbackInput{
			JobID:       jobID,
			SubmittedBy: submittedBy,
			Role:        role,
			Rating:      rating,
			Notes:       notes,
		})
		if err != nil {
			logging.Error(ctx, "submit feedback failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "submit feedback")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "feedback recorded: id=%s job=%s rating=%d\n", rec.FeedbackID, rec.JobID, rec.Rating); err != nil {
			return errs.Wrap(err, "write feedback submit output")
		}
		return nil
	}),
}

var feedbackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List feedback, optionally for one job",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svcs services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		jobID, _ := cmd.Flags().GetString("job")
		items, err := listFeedback(ctx, svcs, jobID)
		if err != nil {
			return err
		}

		for _, item := range items {
			if _, err := fmt.Fprintf(
				cmd.OutOrStdout(),
				"%s job=%s by=%s role=%s rating=%d notes=%q\n",
				item.FeedbackID,
				item.JobID,
				item.SubmittedBy,
				item.Role,
				item.Rating,
				item.Notes,
			); err != nil {
				return errs.Wrap(err, "write feedback list output")
			}
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "total=%d\n", len(items)); err != nil {
			return errs.Wrap(err, "write feedback list output")
		}
		return nil
	}),
}

func listFeedback(ctx context.Context, svcs services, jobID string) ([]ports.FeedbackRecord, error) {
	if jobID != "" {
		items, err := svcs.Feedback.GetFeedbackByJob(ctx, jobID)
		if err != nil {
			return nil, errs.Wrap(err, "list feedback for job")
		}
		return items, nil
	}
	items, err := svcs.Feedback.LoadAllFeedback(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "list feedback")
	}
	return items, nil
}

func init() {
	rootCmd.AddCommand(feedbackCmd)
	feedbackCmd.AddCommand(feedbackSubmitCmd)
	feedbackCmd.AddCommand(feedbackListCmd)

	feedbackSubmitCmd.Flags().String("job", "", "Job id the feedback is about")
	feedbackSubmitCmd.Flags().String("by", "", "Submitter id")
	feedbackSubmitCmd.Flags().String("role", "", "Submitter role: tenant or contractor")
	feedbackSubmitCmd.Flags().Int("rating", 0, "Rating from 1 to 5")
	feedbackSubmitCmd.Flags().String("notes", "", "Free-form notes")
	_ = feedbackSubmitCmd.MarkFlagRequired("job")
	_ = feedbackSubmitCmd.MarkFlagRequired("by")
	_ = feedbackSubmitCmd.MarkFlagRequired("role")
	_ = feedbackSubmitCmd.MarkFlagRequired("rating")

	feedbackListCmd.Flags().String("job", "", "Limit to one job id")
}
