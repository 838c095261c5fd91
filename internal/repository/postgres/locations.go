package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/platosha5/parkrun-service/internal/core/domain"
	"github.com/platosha5/parkrun-service/internal/core/port"
	"github.com/platosha5/parkrun-service/internal/repository"
)

// LocationRepository reads venue reference data.
type LocationRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewLocationRepository constructs a PostgreSQL-backed location repository.
func NewLocationRepository(exec pgExecutor) *LocationRepository {
	return &LocationRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByName retrieves an active location by exact name.
func (r *LocationRepository) GetByName(ctx context.Context, name string) (*domain.Location, error) {
	stmt, args, err := r.builder.Select("id", "name", "active").
		From("crew.locations").
		Where(squirrel.Eq{"name": name, "active": true}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select location sql: %w", err)
	}

	var location domain.Location
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&location.ID, &location.Name, &location.Active); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan location: %w", classify(err))
	}

	return &location, nil
}

// ListActive retrieves all active locations sorted by name.
func (r *LocationRepository) ListActive(ctx context.Context) ([]domain.Location, error) {
	stmt, args, err := r.builder.Select("id", "name", "active").
		From("crew.locations").
		Where(squirrel.Eq{"active": true}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list locations sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", classify(err))
	}
	defer rows.Close()

	locations := make([]domain.Location, 0)
	for rows.Next() {
		var location domain.Location
		if err := rows.Scan(&location.ID, &location.Name, &location.Active); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, location)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locations: %w", classify(err))
	}

	return locations, nil
}

var _ port.LocationRepository = (*LocationRepository)(nil)
