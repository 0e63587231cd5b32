package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/clinicdesk/platform/pkg/common/config"
	"github.com/clinicdesk/platform/pkg/common/logger"
	"github.com/clinicdesk/platform/pkg/common/models"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(topic string) *Producer {
	cfg := config.Load()
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{writer: writer}
}

// PublishMutation emits one event per successful write. Failures are logged
// by the caller and never fail the originating request.
func (p *Producer) PublishMutation(ctx context.Context, eventType, actor, entity, entityID string, payload map[string]interface{}) error {
	event := models.MutationEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Actor:     actor,
		Entity:    entity,
		EntityID:  entityID,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal mutation event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(event.ID),
		Value: eventBytes,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
			{Key: "entity", Value: []byte(entity)},
		},
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"event_id":   event.ID,
			"event_type": eventType,
		}).Error("Failed to publish mutation event")
		return err
	}

	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
