package port

import (
	"context"

	"github.com/platosha5/parkrun-service/internal/core/domain"
)

// LocationRepository reads venue reference data. Only active locations are
// visible through lookups.
type LocationRepository interface {
	GetByName(ctx context.Context, name string) (*domain.Location, error)
	ListActive(ctx context.Context) ([]domain.Location, error)
}
