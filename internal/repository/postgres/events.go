package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/platosha5/parkrun-service/internal/core/domain"
	"github.com/platosha5/parkrun-service/internal/core/port"
	"github.com/platosha5/parkrun-service/internal/repository"
)

// EventRepository manages event instances keyed by (location, date).
type EventRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewEventRepository constructs a PostgreSQL-backed event repository.
func NewEventRepository(exec pgExecutor) *EventRepository {
	return &EventRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByLocationDate retrieves the event for the pair, if any.
func (r *EventRepository) GetByLocationDate(ctx context.Context, locationID int64, date time.Time) (*domain.Event, error) {
	stmt, args, err := r.builder.Select("id", "location_id", "event_date").
		From("crew.events").
		Where(squirrel.Eq{"location_id": locationID, "event_date": date}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select event sql: %w", err)
	}

	var event domain.Event
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&event.ID, &event.LocationID, &event.Date); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan event: %w", classify(err))
	}

	return &event, nil
}

// GetByID retrieves an event by its identifier.
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	stmt, args, err := r.builder.Select("id", "location_id", "event_date").
		From("crew.events").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select event by id sql: %w", err)
	}

	var event domain.Event
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&event.ID, &event.LocationID, &event.Date); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan event by id: %w", classify(err))
	}

	return &event, nil
}

// Create inserts a new event and returns it with its generated id.
func (r *EventRepository) Create(ctx context.Context, locationID int64, date time.Time) (*domain.Event, error) {
	stmt, args, err := r.builder.Insert("crew.events").
		Columns("location_id", "event_date").
		Values(locationID, date).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert event sql: %w", err)
	}

	event := domain.Event{LocationID: locationID, Date: date}
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&event.ID); err != nil {
		return nil, fmt.Errorf("insert event: %w", classify(err))
	}

	return &event, nil
}

var _ port.EventRepository = (*EventRepository)(nil)
