package port

import (
	"context"

	"github.com/platosha5/parkrun-service/internal/core/domain"
)

// RoleCatalogue exposes the static set of role definitions. Implementations
// return repository.ErrNotFound when a name resolves to nothing.
type RoleCatalogue interface {
	GetByCode(ctx context.Context, code string) (*domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
}
