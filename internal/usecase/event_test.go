package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/platosha5/parkrun-service/internal/core/domain"
	"github.com/platosha5/parkrun-service/internal/repository"
)

type eventKey struct {
	locationID int64
	date       time.Time
}

type eventRepoMock struct {
	nextID    int64
	byKey     map[eventKey]domain.Event
	byID      map[int64]domain.Event
	createErr error
	// missFirstGet makes the initial lookup report a miss, modelling a
	// concurrent writer landing between the lookup and the create.
	missFirstGet bool
}

func newEventRepoMock() *eventRepoMock {
	return &eventRepoMock{
		byKey: make(map[eventKey]domain.Event),
		byID:  make(map[int64]domain.Event),
	}
}

func (m *eventRepoMock) GetByLocationDate(_ context.Context, locationID int64, date time.Time) (*domain.Event, error) {
	if m.missFirstGet {
		m.missFirstGet = false
		return nil, repository.ErrNotFound
	}
	if event, ok := m.byKey[eventKey{locationID, date}]; ok {
		return &event, nil
	}
	return nil, repository.ErrNotFound
}

func (m *eventRepoMock) GetByID(_ context.Context, id int64) (*domain.Event, error) {
	if event, ok := m.byID[id]; ok {
		return &event, nil
	}
	return nil, repository.ErrNotFound
}

func (m *eventRepoMock) Create(_ context.Context, locationID int64, date time.Time) (*domain.Event, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	key := eventKey{locationID, date}
	if _, exists := m.byKey[key]; exists {
		return nil, repository.ErrDuplicate
	}
	m.nextID++
	event := domain.Event{ID: m.nextID, LocationID: locationID, Date: date}
	m.byKey[key] = event
	m.byID[event.ID] = event
	return &event, nil
}

func TestNextCycleDate(t *testing.T) {
	service := NewEventService(newEventRepoMock(), time.Saturday)

	cases := []struct {
		name string
		from time.Time
		want time.Time
	}{
		{
			name: "midweek resolves to the coming saturday",
			from: time.Date(2026, time.August, 19, 15, 30, 0, 0, time.UTC), // Wednesday
			want: time.Date(2026, time.August, 22, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "on the cycle day itself resolves to next week",
			from: time.Date(2026, time.August, 22, 8, 0, 0, 0, time.UTC), // Saturday
			want: time.Date(2026, time.August, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "friday resolves to tomorrow",
			from: time.Date(2026, time.August, 21, 23, 59, 0, 0, time.UTC),
			want: time.Date(2026, time.August, 22, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := service.NextCycleDate(tc.from)
			if !got.Equal(tc.want) {
				t.Fatalf("NextCycleDate(%v) = %v, want %v", tc.from, got, tc.want)
			}
		})
	}
}

func TestGetOrCreateEventIsIdempotent(t *testing.T) {
	repo := newEventRepoMock()
	service := NewEventService(repo, time.Saturday)
	service.now = func() time.Time {
		return time.Date(2026, time.August, 19, 12, 0, 0, 0, time.UTC)
	}

	first, err := service.GetOrCreate(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := service.GetOrCreate(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected the same event on repeat resolution, got %d and %d", first.ID, second.ID)
	}
	if got, want := first.Date, time.Date(2026, time.August, 22, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("expected next cycle date %v, got %v", want, got)
	}
}

func TestGetOrCreateEventExplicitDate(t *testing.T) {
	service := NewEventService(newEventRepoMock(), time.Saturday)

	date := time.Date(2026, time.September, 5, 10, 30, 0, 0, time.UTC)
	event, err := service.GetOrCreate(context.Background(), 2, &date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, want := event.Date, time.Date(2026, time.September, 5, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("expected truncated date %v, got %v", want, got)
	}
}

func TestGetOrCreateEventLosesCreateRace(t *testing.T) {
	repo := newEventRepoMock()
	service := NewEventService(repo, time.Saturday)

	date := time.Date(2026, time.August, 22, 0, 0, 0, 0, time.UTC)
	existing, err := repo.Create(context.Background(), 1, date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	repo.missFirstGet = true
	repo.createErr = repository.ErrDuplicate

	event, err := service.GetOrCreate(context.Background(), 1, &date)
	if err != nil {
		t.Fatalf("expected the duplicate race to resolve, got %v", err)
	}
	if event.ID != existing.ID {
		t.Fatalf("expected the winner's event %d, got %d", existing.ID, event.ID)
	}
}

func TestGetEventNotFound(t *testing.T) {
	service := NewEventService(newEventRepoMock(), time.Saturday)

	_, err := service.Get(context.Background(), 404)
	if !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestParseCycleWeekday(t *testing.T) {
	day, err := ParseCycleWeekday(" Saturday ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if day != time.Saturday {
		t.Fatalf("expected Saturday, got %v", day)
	}

	if _, err := ParseCycleWeekday("someday"); err == nil {
		t.Fatal("expected error for unknown weekday")
	}
}
