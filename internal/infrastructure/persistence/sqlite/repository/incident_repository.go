package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"fixflow/internal/domain/maintenance"
	"fixflow/internal/errs"
	"fixflow/internal/infrastructure/persistence/sqlite/model"
	"fixflow/internal/ports"
)

type IncidentRepository struct {
	db *gorm.DB
}

var _ ports.IncidentStore = (*IncidentRepository)(nil)

func NewIncidentRepository(db *gorm.DB) *IncidentRepository {
	return &IncidentRepository{db: db}
}

func (r *IncidentRepository) CreateIncident(ctx context.Context, incident ports.IncidentRecord) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	row, err := incidentToRow(incident)
	if err != nil {
		return err
	}
	if err := db.Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert incident")
	}
	return nil
}

func (r *IncidentRepository) GetIncident(ctx context.Context, incidentID string) (ports.IncidentRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.IncidentRecord{}, err
	}

	var row model.Incident
	if err := db.Where("incident_id = ?", incidentID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IncidentRecord{}, fmt.Errorf("%w: incident %s", maintenance.ErrNotFound, incidentID)
		}
		return ports.IncidentRecord{}, errs.Wrap(err, "query incident")
	}
	return incidentFromRow(row)
}

func (r *IncidentRepository) ListIncidents(ctx context.Context) ([]ports.IncidentRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.Incident
	if err := db.Order("timestamp desc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query incidents")
	}

	items := make([]ports.IncidentRecord, 0, len(rows))
	for _, row := range rows {
		item, err := incidentFromRow(row)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func incidentToRow(incident ports.IncidentRecord) (model.Incident, error) {
	chat := incident.ChatData
	if chat == nil {
		chat = []ports.ChatMessage{}
	}
	raw, err := json.Marshal(chat)
	if err != nil {
		return model.Incident{}, errs.Wrap(err, "marshal chat data")
	}

	return model.Incident{
		IncidentID: incident.IncidentID,
		TenantID:   incident.TenantID,
		PropertyID: incident.PropertyID,
		Issue:      incident.Issue,
		Priority:   incident.Priority,
		ChatJSON:   string(raw),
		Timestamp:  incident.Timestamp,
		CreatedBy:  incident.CreatedBy,
	}, nil
}

func incidentFromRow(row model.Incident) (ports.IncidentRecord, error) {
	var chat []ports.ChatMessage
	if row.ChatJSON != "" {
		if err := json.Unmarshal([]byte(row.ChatJSON), &chat); err != nil {
			return ports.IncidentRecord{}, errs.Wrapf(err, "unmarshal chat data for incident %s", row.IncidentID)
		}
	}

	return ports.IncidentRecord{
		IncidentID: row.IncidentID,
		TenantID:   row.TenantID,
		PropertyID: row.PropertyID,
		Issue:      row.Issue,
		Priority:   row.Priority,
		ChatData:   chat,
		Timestamp:  row.Timestamp,
		CreatedBy:  row.CreatedBy,
	}, nil
}
