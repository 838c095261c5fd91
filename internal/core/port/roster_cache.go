package port

import (
	"context"

	"github.com/platosha5/parkrun-service/internal/core/domain"
)

// RosterCache holds projected rosters keyed by event. A miss is reported with
// found=false, never an error. Invalidate is called by the engine after every
// committed mutation so the projector never serves stale views.
type RosterCache interface {
	Get(ctx context.Context, eventID int64) (domain.Roster, bool, error)
	Set(ctx context.Context, roster domain.Roster) error
	Invalidate(ctx context.Context, eventID int64) error
}
