package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"fixflow/internal/bootstrap"
	"fixflow/internal/bootstrap/logging"
	"fixflow/internal/errs"
	"fixflow/internal/ports"
	"fixflow/internal/usecase/job"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Job lifecycle commands",
}

var jobCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a job from an incident",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svcs services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		incidentID, _ := cmd.Flags().GetString("incident")
		jobType, _ := cmd.Flags().GetString("type")
		price, _ := cmd.Flags().GetFloat64("price")
		priority, _ := cmd.Flags().GetString("priority")
		description, _ := cmd.Flags().GetString("description")
		createdBy, _ := cmd.Flags().GetString("created-by")

		rec, err := svcs.Jobs.CreateJob(ctx, job.CreateJobInput{
			IncidentID:  incidentID,
			JobType:     jobType,
			Price:       price,
			Priority:    priority,
			Description: description,
			CreatedBy:   createdBy,
		})
		if err != nil {
			logging.Error(ctx, "create job failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "create job")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "job created: id=%s status=%s\n", rec.JobID, rec.Status); err != nil {
			return errs.Wrap(err, "write job create output")
		}
		return nil
	}),
}

var jobAssignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign a pending job to a contractor, directly or via matching",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svcs services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		jobID, _ := cmd.Flags().GetString("job")
		contractorID, _ := cmd.Flags().GetString("contractor")
		candidates, _ := cmd.Flags().GetStringSlice("candidates")
		actor, _ := cmd.Flags().GetString("actor")

		rec, err := svcs.Jobs.AssignJob(ctx, job.AssignJobInput{
			JobID:        jobID,
			ContractorID: contractorID,
			CandidateIDs: candidates,
			Actor:        actor,
		})
		if err != nil {
			logging.Error(ctx, "assign job failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "assign job")
		}

		assigned := ""
		if rec.AssignedContractorID != nil {
			assigned = *rec.AssignedContractorID
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "job assigned: id=%s contractor=%s\n", rec.JobID, assigned); err != nil {
			return errs.Wrap(err, "write job assign output")
		}
		return nil
	}),
}

var jobAcceptCmd = &cobra.Command{
	Use:   "accept",
	Short: "Record a contractor accepting an assigned job",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svcs services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		jobID, _ := cmd.Flags().GetString("job")
		contractorID, _ := cmd.Flags().GetString("contractor")

		rec, err := svcs.Jobs.AcceptJob(ctx, jobID, contractorID)
		if err != nil {
			logging.Error(ctx, "accept job failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "accept job")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "job accepted: id=%s status=%s\n", rec.JobID, rec.Status); err != nil {
			return errs.Wrap(err, "write job accept output")
		}
		return nil
	}),
}

var jobRejectCmd = &cobra.Command{
	Use:   "reject",
	Short: "Record a contractor rejecting an assigned job",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svcs services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		jobID, _ := cmd.Flags().GetString("job")
		contractorID, _ := cmd.Flags().GetString("contractor")

		rec, err := svcs.Jobs.RejectJob(ctx, jobID, contractorID)
		if err != nil {
			logging.Error(ctx, "reject job failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "reject job")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "job rejected: id=%s status=%s\n", rec.JobID, rec.Status); err != nil {
			return errs.Wrap(err, "write job reject output")
		}
		return nil
	}),
}

var jobScheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Propose a visit schedule for an accepted job",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svcs services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		jobID, _ := cmd.Flags().GetString("job")
		contractorID, _ := cmd.Flags().GetString("contractor")
		schedule, _ := cmd.Flags().GetString("at")

		rec, err := svcs.Jobs.ProposeSchedule(ctx, jobID, contractorID, schedule)
		if err != nil {
			logging.Error(ctx, "propose schedule failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "propose schedule")
		}

		proposed := ""
		if rec.ProposedSchedule != nil {
			proposed = *rec.ProposedSchedule
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "schedule proposed: id=%s at=%s\n", rec.JobID, proposed); err != nil {
			return errs.Wrap(err, "write job schedule output")
		}
		return nil
	}),
}

var jobCompleteCmd = &cobra.Command{
	Use:   "complete",
	Short: "Mark an accepted job as completed",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svcs services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		jobID, _ := cmd.Flags().GetString("job")
		actor, _ := cmd.Flags().GetString("actor")

		rec, err := svcs.Jobs.CompleteJob(ctx, jobID, actor)
		if err != nil {
			logging.Error(ctx, "complete job failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "complete job")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "job completed: id=%s status=%s\n", rec.JobID, rec.Status); err != nil {
			return errs.Wrap(err, "write job complete output")
		}
		return nil
	}),
}

var jobShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show one job with its event history",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svcs services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		jobID, _ := cmd.Flags().GetString("id")
		detail, err := svcs.Jobs.GetJob(ctx, jobID)
		if err != nil {
			return errs.Wrap(err, "get job")
		}

		if err := printJob(cmd, detail.Job); err != nil {
			return err
		}
		for _, ev := range detail.Events {
			line := fmt.Sprintf("  [%s] %s by %s", ev.CreatedAt, ev.Action, ev.Actor)
			if ev.Detail != "" {
				line += " " + ev.Detail
			}
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
				return errs.Wrap(err, "write job show output")
			}
		}
		return nil
	}),
}

var jobStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show a job's current status, served from cache when possible",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svcs services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		jobID, _ := cmd.Flags().GetString("id")
		status, err := svcs.Jobs.GetJobStatus(ctx, jobID)
		if err != nil {
			return errs.Wrap(err, "get job status")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "job=%s status=%s\n", jobID, status); err != nil {
			return errs.Wrap(err, "write job status output")
		}
		return nil
	}),
}

func printJob(cmd *cobra.Command, rec ports.JobRecord) error {
	assigned := "-"
	if rec.AssignedContractorID != nil {
		assigned = *rec.AssignedContractorID
	}
	schedule := "-"
	if rec.ProposedSchedule != nil {
		schedule = *rec.ProposedSchedule
	}
	_, err := fmt.Fprintf(
		cmd.OutOrStdout(),
		"job=%s incident=%s type=%s price=%.2f priority=%s status=%s contractor=%s schedule=%s\n",
		rec.JobID,
		rec.IncidentID,
		rec.JobType,
		rec.Price,
		rec.Priority,
		rec.Status,
		assigned,
		schedule,
	)
	if err != nil {
		return errs.Wrap(err, "write job output")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(jobCmd)
	jobCmd.AddCommand(jobCreateCmd)
	jobCmd.AddCommand(jobAssignCmd)
	jobCmd.AddCommand(jobAcceptCmd)
	jobCmd.AddCommand(jobRejectCmd)
	jobCmd.AddCommand(jobScheduleCmd)
	jobCmd.AddCommand(jobCompleteCmd)
	jobCmd.AddCommand(jobShowCmd)
	jobCmd.AddCommand(jobStatusCmd)

	jobCreateCmd.Flags().String("incident", "", "Incident id the job is for")
	jobCreateCmd.Flags().String("type", "", "Job type, e.g. plumbing")
	jobCreateCmd.Flags().Float64("price", 0, "Agreed price")
	jobCreateCmd.Flags().String("priority", "", "Priority label")
	jobCreateCmd.Flags().String("description", "", "Work description")
	jobCreateCmd.Flags().String("created-by", "", "Actor creating the job")
	_ = jobCreateCmd.MarkFlagRequired("incident")
	_ = jobCreateCmd.MarkFlagRequired("type")

	jobAssignCmd.Flags().String("job", "", "Job id")
	jobAssignCmd.Flags().String("contractor", "", "Contractor id for direct assignment")
	jobAssignCmd.Flags().StringSlice("candidates", nil, "Candidate contractor ids for matching")
	jobAssignCmd.Flags().String("actor", "", "Actor performing the assignment")
	_ = jobAssignCmd.MarkFlagRequired("job")

	jobAcceptCmd.Flags().String("job", "", "Job id")
	jobAcceptCmd.Flags().String("contractor", "", "Contractor id making the decision")
	_ = jobAcceptCmd.MarkFlagRequired("job")
	_ = jobAcceptCmd.MarkFlagRequired("contractor")

	jobRejectCmd.Flags().String("job", "", "Job id")
	jobRejectCmd.Flags().String("contractor", "", "Contractor id making the decision")
	_ = jobRejectCmd.MarkFlagRequired("job")
	_ = jobRejectCmd.MarkFlagRequired("contractor")

	jobScheduleCmd.Flags().String("job", "", "Job id")
	jobScheduleCmd.Flags().String("contractor", "", "Assigned contractor id")
	jobScheduleCmd.Flags().String("at", "", "Proposed visit time")
	_ = jobScheduleCmd.MarkFlagRequired("job")
	_ = jobScheduleCmd.MarkFlagRequired("contractor")
	_ = jobScheduleCmd.MarkFlagRequired("at")

	jobCompleteCmd.Flags().String("job", "", "Job id")
	jobCompleteCmd.Flags().String("actor", "", "Actor marking completion")
	_ = jobCompleteCmd.MarkFlagRequired("job")

	jobShowCmd.Flags().String("id", "", "Job id")
	_ = jobShowCmd.MarkFlagRequired("id")

	jobStatusCmd.Flags().String("id", "", "Job id")
	_ = jobStatusCmd.MarkFlagRequired("id")
}
