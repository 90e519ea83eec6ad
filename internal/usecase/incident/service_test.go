package incident

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"fixflow/internal/domain/maintenance"
	"fixflow/internal/infrastructure/persistence/sqlite/model"
	"fixflow/internal/infrastructure/persistence/sqlite/repository"
	"fixflow/internal/ports"
)

func setupService(t *testing.T) *Service {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "incidents.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(&model.Incident{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return NewService(repository.NewIncidentRepository(db))
}

func TestCreateIncidentDefaultsAndEcho(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	record, err := svc.CreateIncident(ctx, CreateIncidentInput{
		TenantID:   "tenant-1",
		PropertyID: "prop-1",
		Issue:      "heating is down",
		Priority:   "urgent",
	})
	if err != nil {
		t.Fatalf("CreateIncident() error = %v", err)
	}
	if record.IncidentID == "" {
		t.Fatalf("CreateIncident() produced empty id")
	}
	if record.CreatedBy != "unknown" {
		t.Fatalf("CreateIncident() created_by = %q, want unknown", record.CreatedBy)
	}
	if record.ChatData == nil || len(record.ChatData) != 0 {
		t.Fatalf("CreateIncident() chat = %v, want empty non-nil", record.ChatData)
	}
	if record.Timestamp == "" {
		t.Fatalf("CreateIncident() produced empty timestamp")
	}

	got, err := svc.GetIncidentByID(ctx, record.IncidentID)
	if err != nil {
		t.Fatalf("GetIncidentByID() error = %v", err)
	}
	if got.Issue != "heating is down" || got.Priority != "urgent" {
		t.Fatalf("GetIncidentByID() = %+v", got)
	}
}

func TestCreateIncidentValidation(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	cases := []CreateIncidentInput{
		{PropertyID: "p", Issue: "i", Priority: "high"},
		{TenantID: "t", Issue: "i", Priority: "high"},
		{TenantID: "t", PropertyID: "p", Priority: "high"},
		{TenantID: "t", PropertyID: "p", Issue: "i"},
		{TenantID: "  ", PropertyID: "p", Issue: "i", Priority: "high"},
	}
	for i, input := range cases {
		if _, err := svc.CreateIncident(ctx, input); !errors.Is(err, maintenance.ErrValidation) {
			t.Fatalf("CreateIncident(case %d) error = %v, want ErrValidation", i, err)
		}
	}
}

func TestCreateIncidentKeepsChatTranscript(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	record, err := svc.CreateIncident(ctx, CreateIncidentInput{
		TenantID:   "tenant-1",
		PropertyID: "prop-1",
		Issue:      "window stuck",
		Priority:   "low",
		ChatData: []ports.ChatMessage{
			{Sender: "tenant-1", Timestamp: "2026-08-28T08:00:00Z", Message: "the window will not open"},
			{Sender: "agent", Timestamp: "2026-08-28T08:01:00Z", Message: "we will send someone"},
		},
		CreatedBy: "agent",
	})
	if err != nil {
		t.Fatalf("CreateIncident() error = %v", err)
	}

	got, err := svc.GetIncidentByID(ctx, record.IncidentID)
	if err != nil {
		t.Fatalf("GetIncidentByID() error = %v", err)
	}
	if len(got.ChatData) != 2 || got.ChatData[1].Sender != "agent" {
		t.Fatalf("GetIncidentByID() chat = %v", got.ChatData)
	}
}

func TestGetIncidentByIDUnknown(t *testing.T) {
	svc := setupService(t)

	if _, err := svc.GetIncidentByID(context.Background(), "ghost"); !errors.Is(err, maintenance.ErrNotFound) {
		t.Fatalf("GetIncidentByID() error = %v, want ErrNotFound", err)
	}
}
