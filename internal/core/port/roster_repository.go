package port

import (
	"context"

	"github.com/platosha5/parkrun-service/internal/core/domain"
)

// RosterRepository derives the filled/unfilled view of an event by joining the
// catalogue against committed assignments. Read-only.
type RosterRepository interface {
	Roster(ctx context.Context, eventID int64) ([]domain.RosterEntry, error)
}
