package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/platosha5/parkrun-service/internal/core/domain"
	"github.com/platosha5/parkrun-service/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for
// development environments without a broker.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType string, userID int64, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("stub event published",
		zap.String("event_type", eventType),
		zap.Int64("user_id", userID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishAssignmentAccepted logs crew.assignment.accepted events.
func (p *StubPublisher) PublishAssignmentAccepted(_ context.Context, event domain.AssignmentAcceptedEvent) error {
	payload := map[string]any{
		"user_id":     event.UserID,
		"event_id":    event.EventID,
		"role_id":     event.RoleID,
		"role_code":   event.RoleCode,
		"accepted_at": event.AcceptedAt,
	}
	p.logEvent(topicAssignmentAccepted, event.UserID, event.AcceptedAt, payload)
	return nil
}

// PublishAssignmentRemoved logs crew.assignment.removed events.
func (p *StubPublisher) PublishAssignmentRemoved(_ context.Context, event domain.AssignmentRemovedEvent) error {
	payload := map[string]any{
		"user_id":    event.UserID,
		"event_id":   event.EventID,
		"removed":    event.Removed,
		"removed_at": event.RemovedAt,
	}
	p.logEvent(topicAssignmentRemoved, event.UserID, event.RemovedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
