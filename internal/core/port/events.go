package port

import (
	"context"

	"github.com/platosha5/parkrun-service/internal/core/domain"
)

// EventPublisher pushes integration events to the message bus. Publishing is
// best effort; failures must not roll back a committed assignment.
type EventPublisher interface {
	PublishAssignmentAccepted(ctx context.Context, event domain.AssignmentAcceptedEvent) error
	PublishAssignmentRemoved(ctx context.Context, event domain.AssignmentRemovedEvent) error
}
