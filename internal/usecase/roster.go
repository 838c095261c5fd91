package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/platosha5/parkrun-service/internal/core/domain"
	"github.com/platosha5/parkrun-service/internal/core/port"
)

// RosterService projects the "who is filling what" view for an event. It is a
// pure read over committed assignments; the only state it touches is an
// optional cache the engine invalidates on every commit.
type RosterService struct {
	roster port.RosterRepository
	cache  port.RosterCache
	log    *zap.Logger
}

// NewRosterService constructs the roster projector.
func NewRosterService(roster port.RosterRepository, log *zap.Logger) *RosterService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RosterService{roster: roster, log: log}
}

// WithCache enables roster caching. Cache failures degrade to direct reads.
func (s *RosterService) WithCache(cache port.RosterCache) *RosterService {
	s.cache = cache
	return s
}

// Roster returns every catalogue role in display order with its current
// assignee, empty when unfilled.
func (s *RosterService) Roster(ctx context.Context, eventID int64) (domain.Roster, error) {
	if s.cache != nil {
		cached, found, err := s.cache.Get(ctx, eventID)
		if err != nil {
			s.log.Warn("roster cache read", zap.Error(err), zap.Int64("event_id", eventID))
		} else if found {
			return cached, nil
		}
	}

	entries, err := s.roster.Roster(ctx, eventID)
	if err != nil {
		return domain.Roster{}, fmt.Errorf("project roster: %w", err)
	}

	roster := domain.Roster{EventID: eventID, Entries: entries}

	if s.cache != nil {
		if err := s.cache.Set(ctx, roster); err != nil {
			s.log.Warn("roster cache write", zap.Error(err), zap.Int64("event_id", eventID))
		}
	}

	return roster, nil
}
