package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/platosha5/parkrun-service/internal/repository"
)

func TestEventRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewEventRepository(mock)

	date := time.Date(2026, 8, 22, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO crew\.events .*RETURNING id`).
		WithArgs(int64(1), date).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

	event, err := repo.Create(context.Background(), 1, date)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if event.ID != 42 || event.LocationID != 1 || !event.Date.Equal(date) {
		t.Fatalf("unexpected event: %+v", event)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEventRepository_GetByLocationDateNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewEventRepository(mock)

	date := time.Date(2026, 8, 22, 0, 0, 0, 0, time.UTC)

	// squirrel orders map predicates by column name: event_date before location_id.
	mock.ExpectQuery(`SELECT .*FROM crew\.events`).
		WithArgs(date, int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "location_id", "event_date"}))

	if _, err := repo.GetByLocationDate(context.Background(), 1, date); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
