package incident

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"fixflow/internal/bootstrap/logging"
	"fixflow/internal/domain/maintenance"
	"fixflow/internal/errs"
	"fixflow/internal/ports"
)

// Service is the incident manager: it validates and appends immutable
// incident records. There is no update or delete; the collection is a log.
type Service struct {
	store ports.IncidentStore
}

func NewService(store ports.IncidentStore) *Service {
	return &Service{store: store}
}

type CreateIncidentInput struct {
	TenantID   string
	PropertyID string
	Issue      string
	Priority   string
	ChatData   []ports.ChatMessage
	CreatedBy  string
}

func (s *Service) CreateIncident(ctx context.Context, input CreateIncidentInput) (ports.IncidentRecord, error) {
	if ctx == nil {
		return ports.IncidentRecord{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.IncidentRecord{}, errs.Wrap(err, "check context")
	}
	if s.store == nil {
		return ports.IncidentRecord{}, errors.New("incident store is required")
	}

	if err := validateCreateInput(input); err != nil {
		return ports.IncidentRecord{}, err
	}

	createdBy := strings.TrimSpace(input.CreatedBy)
	if createdBy == "" {
		createdBy = "unknown"
	}

	chat := input.ChatData
	if chat == nil {
		chat = []ports.ChatMessage{}
	}

	record := ports.IncidentRecord{
		IncidentID: uuid.NewString(),
		TenantID:   strings.TrimSpace(input.TenantID),
		PropertyID: strings.TrimSpace(input.PropertyID),
		Issue:      input.Issue,
		Priority:   strings.TrimSpace(input.Priority),
		ChatData:   chat,
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
		CreatedBy:  createdBy,
	}

	if err := s.store.CreateIncident(ctx, record); err != nil {
		return ports.IncidentRecord{}, err
	}

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "usecase.incident")),
		"incident created",
		slog.String("incident_id", record.IncidentID),
		slog.String("priority", record.Priority),
		slog.String("created_by", record.CreatedBy),
	)
	return record, nil
}

func (s *Service) GetAllIncidents(ctx context.Context) ([]ports.IncidentRecord, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	if s.store == nil {
		return nil, errors.New("incident store is required")
	}

	return s.store.ListIncidents(ctx)
}

// GetIncidentByID reports an unknown id as maintenance.ErrNotFound rather
// than panicking or inventing an empty record.
func (s *Service) GetIncidentByID(ctx context.Context, incidentID string) (ports.IncidentRecord, error) {
	if ctx == nil {
		return ports.IncidentRecord{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.IncidentRecord{}, errs.Wrap(err, "check context")
	}
	if s.store == nil {
		return ports.IncidentRecord{}, errors.New("incident store is required")
	}

	if strings.TrimSpace(incidentID) == "" {
		return ports.IncidentRecord{}, fmt.Errorf("%w: incident id is required", maintenance.ErrValidation)
	}
	return s.store.GetIncident(ctx, incidentID)
}

func validateCreateInput(input CreateIncidentInput) error {
	if strings.TrimSpace(input.TenantID) == "" {
		return fmt.Errorf("%w: tenant_id is required", maintenance.ErrValidation)
	}
	if strings.TrimSpace(input.PropertyID) == "" {
		return fmt.Errorf("%w: property_id is required", maintenance.ErrValidation)
	}
	if strings.TrimSpace(input.Issue) == "" {
		return fmt.Errorf("%w: issue is required", maintenance.ErrValidation)
	}
	if strings.TrimSpace(input.Priority) == "" {
		return fmt.Errorf("%w: priority must be a non-empty string", maintenance.ErrValidation)
	}
	return nil
}
