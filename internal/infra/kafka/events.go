package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/platosha5/parkrun-service/internal/core/domain"
	"github.com/platosha5/parkrun-service/internal/core/port"
	"github.com/platosha5/parkrun-service/internal/infra/config"
)

const schemaVersion = "1.0"

const (
	topicAssignmentAccepted = "assignment.accepted"
	topicAssignmentRemoved  = "assignment.removed"
)

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	UserID    string           `json:"user_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventType string, userID int64, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	envelope := eventEnvelope{
		EventID:   uuid.NewString(),
		EventType: eventType,
		UserID:    strconv.FormatInt(userID, 10),
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata: envelopeMetadata{
			"service":     p.appCfg.Name,
			"environment": p.appCfg.Env,
		},
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Key:   sarama.StringEncoder(envelope.UserID),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishAssignmentAccepted publishes crew.assignment.accepted events.
func (p *EventPublisher) PublishAssignmentAccepted(ctx context.Context, event domain.AssignmentAcceptedEvent) error {
	payload := struct {
		UserID     int64     `json:"user_id"`
		EventID    int64     `json:"event_id"`
		RoleID     int64     `json:"role_id"`
		RoleCode   string    `json:"role_code"`
		AcceptedAt time.Time `json:"accepted_at"`
	}{
		UserID:     event.UserID,
		EventID:    event.EventID,
		RoleID:     event.RoleID,
		RoleCode:   event.RoleCode,
		AcceptedAt: event.AcceptedAt.UTC(),
	}

	return p.publish(ctx, topicAssignmentAccepted, event.UserID, event.AcceptedAt, payload)
}

// PublishAssignmentRemoved publishes crew.assignment.removed events.
func (p *EventPublisher) PublishAssignmentRemoved(ctx context.Context, event domain.AssignmentRemovedEvent) error {
	payload := struct {
		UserID    int64     `json:"user_id"`
		EventID   int64     `json:"event_id"`
		Removed   int64     `json:"removed"`
		RemovedAt time.Time `json:"removed_at"`
	}{
		UserID:    event.UserID,
		EventID:   event.EventID,
		Removed:   event.Removed,
		RemovedAt: event.RemovedAt.UTC(),
	}

	return p.publish(ctx, topicAssignmentRemoved, event.UserID, event.RemovedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
