package port

import (
	"context"

	"github.com/platosha5/parkrun-service/internal/core/domain"
)

// UserRepository persists volunteers keyed by their external account id.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, user domain.User) error
}
