package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/clinicdesk/platform/pkg/common/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type auditLogModel struct {
	ID         int64          `gorm:"primaryKey;column:id"`
	EventID    string         `gorm:"column:event_id;uniqueIndex"`
	Type       string         `gorm:"column:type"`
	Actor      string         `gorm:"column:actor"`
	Entity     string         `gorm:"column:entity"`
	EntityID   string         `gorm:"column:entity_id"`
	Payload    datatypes.JSON `gorm:"column:payload"`
	OccurredAt time.Time      `gorm:"column:occurred_at"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
}

func (auditLogModel) TableName() string { return "mutation_audit_logs" }

// Recorder persists consumed mutation events as an append-only audit trail.
type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

func (r *Recorder) AutoMigrate() error {
	return r.db.AutoMigrate(&auditLogModel{})
}

func (r *Recorder) Record(ctx context.Context, event models.MutationEvent) error {
	row := &auditLogModel{
		EventID:    event.ID,
		Type:       event.Type,
		Actor:      event.Actor,
		Entity:     event.Entity,
		EntityID:   event.EntityID,
		OccurredAt: event.Timestamp,
		CreatedAt:  time.Now().UTC(),
	}
	if event.Payload != nil {
		if data, err := json.Marshal(event.Payload); err == nil {
			row.Payload = datatypes.JSON(data)
		}
	}
	return r.db.WithContext(ctx).Create(row).Error
}

// ListRecent returns the newest audit rows, capped at 200.
func (r *Recorder) ListRecent(ctx context.Context, limit int) ([]models.MutationEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []auditLogModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	events := make([]models.MutationEvent, 0, len(rows))
	for _, row := range rows {
		event := models.MutationEvent{
			ID:        row.EventID,
			Type:      row.Type,
			Actor:     row.Actor,
			Entity:    row.Entity,
			EntityID:  row.EntityID,
			Timestamp: row.OccurredAt,
		}
		if len(row.Payload) > 0 {
			_ = json.Unmarshal(row.Payload, &event.Payload)
		}
		events = append(events, event)
	}
	return events, nil
}
