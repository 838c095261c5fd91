package port

import (
	"context"
	"time"

	"github.com/platosha5/parkrun-service/internal/core/domain"
)

// EventRepository manages event instances keyed by (location, date).
type EventRepository interface {
	GetByLocationDate(ctx context.Context, locationID int64, date time.Time) (*domain.Event, error)
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
	Create(ctx context.Context, locationID int64, date time.Time) (*domain.Event, error)
}
