package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"fixflow/internal/bootstrap"
	"fixflow/internal/bootstrap/logging"
	"fixflow/internal/errs"
	"fixflow/internal/ports"
	"fixflow/internal/usecase/feedback"
	"fixflow/internal/usecase/incident"
	"fixflow/internal/usecase/job"
)

// seedCmd populates a fresh database with a small demo dataset: two
// incidents, two jobs taken through different lifecycle stages, and
// feedback on the completed one.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo incidents, jobs and feedback",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svcs services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := app.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "initialize schema")
		}

		leak, err := svcs.Incidents.CreateIncident(ctx, incident.CreateIncidentInput{
			TenantID:   "tenant-004",
			PropertyID: "prop-22",
			Issue:      "Water leak under the kitchen sink",
			Priority:   "high",
			ChatData: []ports.ChatMessage{
				{Sender: "tenant-004", Timestamp: "2026-08-28T09:12:00Z", Message: "There is water pooling under the sink."},
				{Sender: "agent", Timestamp: "2026-08-28T09:13:30Z", Message: "Thanks, logging this as a high priority leak."},
			},
			CreatedBy: "agent",
		})
		if err != nil {
			return errs.Wrap(err, "seed leak incident")
		}

		heating, err := svcs.Incidents.CreateIncident(ctx, incident.CreateIncidentInput{
			TenantID:   "tenant-011",
			PropertyID: "prop-07",
			Issue:      "Radiators stay cold on the second floor",
			Priority:   "medium",
			CreatedBy:  "agent",
		})
		if err != nil {
			return errs.Wrap(err, "seed heating incident")
		}

		plumbing, err := svcs.Jobs.CreateJob(ctx, job.CreateJobInput{
			IncidentID:  leak.IncidentID,
			JobType:     "plumbing",
			Price:       180,
			Priority:    leak.Priority,
			Description: "Locate and fix the kitchen sink leak",
			CreatedBy:   "agent",
		})
		if err != nil {
			return errs.Wrap(err, "seed plumbing job")
		}

		if _, err := svcs.Jobs.AssignJob(ctx, job.AssignJobInput{
			JobID:        plumbing.JobID,
			ContractorID: "contractor-aqua",
			Actor:        "agent",
		}); err != nil {
			return errs.Wrap(err, "seed plumbing assignment")
		}
		if _, err := svcs.Jobs.AcceptJob(ctx, plumbing.JobID, "contractor-aqua"); err != nil {
			return errs.Wrap(err, "seed plumbing acceptance")
		}
		if _, err := svcs.Jobs.ProposeSchedule(ctx, plumbing.JobID, "contractor-aqua", "2026-09-01T10:00:00Z"); err != nil {
			return errs.Wrap(err, "seed plumbing schedule")
		}
		if _, err := svcs.Jobs.CompleteJob(ctx, plumbing.JobID, "contractor-aqua"); err != nil {
			return errs.Wrap(err, "seed plumbing completion")
		}

		if _, err := svcs.Feedback.SubmitFeedback(ctx, feedback.SubmitFeedbackInput{
			JobID:       plumbing.JobID,
			SubmittedBy: "tenant-004",
			Role:        "tenant",
			Rating:      5,
			Notes:       "Fast and tidy, leak is gone.",
		}); err != nil {
			return errs.Wrap(err, "seed tenant feedback")
		}
		if _, err := svcs.Feedback.SubmitFeedback(ctx, feedback.SubmitFeedbackInput{
			JobID:       plumbing.JobID,
			SubmittedBy: "contractor-aqua",
			Role:        "contractor",
			Rating:      4,
			Notes:       "Easy access, tenant was home on time.",
		}); err != nil {
			return errs.Wrap(err, "seed contractor feedback")
		}

		heatingJob, err := svcs.Jobs.CreateJob(ctx, job.CreateJobInput{
			IncidentID:  heating.IncidentID,
			JobType:     "heating",
			Price:       240,
			Priority:    heating.Priority,
			Description: "Bleed radiators and check the boiler pressure",
			CreatedBy:   "agent",
		})
		if err != nil {
			return errs.Wrap(err, "seed heating job")
		}

		if _, err := fmt.Fprintf(
			cmd.OutOrStdout(),
			"seeded: incidents=2 jobs=2 completed=%s pending=%s\n",
			plumbing.JobID,
			heatingJob.JobID,
		); err != nil {
			return errs.Wrap(err, "write seed output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
