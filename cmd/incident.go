package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"fixflow/internal/bootstrap"
	"fixflow/internal/bootstrap/logging"
	"fixflow/internal/errs"
	"fixflow/internal/ports"
	"fixflow/internal/usecase/incident"
)

var incidentCmd = &cobra.Command{
	Use:   "incident",
	Short: "Incident intake and lookup commands",
}

var incidentCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Record a new maintenance incident",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svcs services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		tenantID, _ := cmd.Flags().GetString("tenant")
		propertyID, _ := cmd.Flags().GetString("property")
		issue, _ := cmd.Flags().GetString("issue")
		priority, _ := cmd.Flags().GetString("priority")
		createdBy, _ := cmd.Flags().GetString("created-by")
		chatJSON, _ := cmd.Flags().GetString("chat")

		var chat []ports.ChatMessage
		if chatJSON != "" {
			if err := json.Unmarshal([]byte(chatJSON), &chat); err != nil {
				return errs.Wrap(err, "parse chat transcript")
			}
		}

		rec, err := svcs.Incidents.CreateIncident(ctx, incident.CreateIncidentInput{
			TenantID:   tenantID,
			PropertyID: propertyID,
			Issue:      issue,
			Priority:   priority,
			ChatData:   chat,
			CreatedBy:  createdBy,
		})
		if err != nil {
			logging.Error(ctx, "create incident failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "create incident")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "incident created: id=%s priority=%s\n", rec.IncidentID, rec.Priority); err != nil {
			return errs.Wrap(err, "write incident create output")
		}
		return nil
	}),
}

var incidentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all recorded incidents",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svcs services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		items, err := svcs.Incidents.GetAllIncidents(ctx)
		if err != nil {
			return errs.Wrap(err, "list incidents")
		}

		for _, item := range items {
			if _, err := fmt.Fprintf(
				cmd.OutOrStdout(),
				"%s tenant=%s property=%s priority=%s issue=%q\n",
				item.IncidentID,
				item.TenantID,
				item.PropertyID,
				item.Priority,
				item.Issue,
			); err != nil {
				return errs.Wrap(err, "write incident list output")
			}
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "total=%d\n", len(items)); err != nil {
			return errs.Wrap(err, "write incident list output")
		}
		return nil
	}),
}

var incidentShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show one incident with its chat transcript",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svcs services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		incidentID, _ := cmd.Flags().GetString("id")
		rec, err := svcs.Incidents.GetIncidentByID(ctx, incidentID)
		if err != nil {
			return errs.Wrap(err, "get incident")
		}

		if _, err := fmt.Fprintf(
			cmd.OutOrStdout(),
			"incident=%s tenant=%s property=%s priority=%s created_by=%s at=%s\nissue: %s\n",
			rec.IncidentID,
			rec.TenantID,
			rec.PropertyID,
			rec.Priority,
			rec.CreatedBy,
			rec.Timestamp,
			rec.Issue,
		); err != nil {
			return errs.Wrap(err, "write incident show output")
		}
		for _, msg := range rec.ChatData {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "  [%s] %s: %s\n", msg.Timestamp, msg.Sender, msg.Message); err != nil {
				return errs.Wrap(err, "write incident show output")
			}
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(incidentCmd)
	incidentCmd.AddCommand(incidentCreateCmd)
	incidentCmd.AddCommand(incidentListCmd)
	incidentCmd.AddCommand(incidentShowCmd)

	incidentCreateCmd.Flags().String("tenant", "", "Tenant id reporting the incident")
	incidentCreateCmd.Flags().String("property", "", "Property id the incident belongs to")
	incidentCreateCmd.Flags().String("issue", "", "Issue description")
	incidentCreateCmd.Flags().String("priority", "", "Priority label")
	incidentCreateCmd.Flags().String("created-by", "", "Actor recording the incident")
	incidentCreateCmd.Flags().String("chat", "", "Chat transcript as a JSON array")
	_ = incidentCreateCmd.MarkFlagRequired("tenant")
	_ = incidentCreateCmd.MarkFlagRequired("property")
	_ = incidentCreateCmd.MarkFlagRequired("issue")
	_ = incidentCreateCmd.MarkFlagRequired("priority")

	incidentShowCmd.Flags().String("id", "", "Incident id")
	_ = incidentShowCmd.MarkFlagRequired("id")
}
