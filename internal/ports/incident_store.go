package ports

import "context"

// ChatMessage is one entry of the conversation that led to an incident.
type ChatMessage struct {
	Sender    string `json:"sender"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
}

// IncidentRecord is an immutable report of a problem. The incidents
// collection is append-only: there is no update or delete.
type IncidentRecord struct {
	IncidentID string
	TenantID   string
	PropertyID string
	Issue      string
	Priority   string
	ChatData   []ChatMessage
	Timestamp  string
	CreatedBy  string
}

type IncidentReadStore interface {
	// GetIncident reports an unknown id as maintenance.ErrNotFound.
	GetIncident(ctx context.Context, incidentID string) (IncidentRecord, error)
	ListIncidents(ctx context.Context) ([]IncidentRecord, error)
}

type IncidentStore interface {
	IncidentReadStore
	CreateIncident(ctx context.Context, incident IncidentRecord) error
}
