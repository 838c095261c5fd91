package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/platosha5/parkrun-service/internal/core/domain"
	"github.com/platosha5/parkrun-service/internal/core/port"
	"github.com/platosha5/parkrun-service/internal/repository"
)

// ErrEventNotFound is returned when the referenced event does not exist.
var ErrEventNotFound = errors.New("event not found")

// EventService resolves event instances. Events are created lazily the first
// time a location is selected for a cycle date and never deleted afterwards.
type EventService struct {
	events   port.EventRepository
	cycleDay time.Weekday
	now      func() time.Time
}

// NewEventService constructs an event service for the given cycle weekday.
func NewEventService(events port.EventRepository, cycleDay time.Weekday) *EventService {
	return &EventService{events: events, cycleDay: cycleDay, now: time.Now}
}

// Get fetches an event by id.
func (s *EventService) Get(ctx context.Context, id int64) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// GetOrCreate resolves the event for (location, date), creating it on first
// use. A nil date means the next occurrence of the cycle weekday.
func (s *EventService) GetOrCreate(ctx context.Context, locationID int64, date *time.Time) (*domain.Event, error) {
	day := s.NextCycleDate(s.now())
	if date != nil {
		day = truncateToDate(*date)
	}

	event, err := s.events.GetByLocationDate(ctx, locationID, day)
	if err == nil {
		return event, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup event: %w", err)
	}

	event, err = s.events.Create(ctx, locationID, day)
	if err != nil {
		// A concurrent caller created the same (location, date) pair first.
		if errors.Is(err, repository.ErrDuplicate) {
			return s.events.GetByLocationDate(ctx, locationID, day)
		}
		return nil, fmt.Errorf("create event: %w", err)
	}

	return event, nil
}

// NextCycleDate returns the next occurrence of the cycle weekday strictly
// after the given time: asked on the cycle day itself, it returns the
// following week.
func (s *EventService) NextCycleDate(from time.Time) time.Time {
	days := (int(s.cycleDay) - int(from.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return truncateToDate(from.AddDate(0, 0, days))
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseCycleWeekday maps a configured weekday name onto time.Weekday.
func ParseCycleWeekday(name string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	default:
		return time.Saturday, fmt.Errorf("unknown cycle weekday %q", name)
	}
}
