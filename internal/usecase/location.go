package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/platosha5/parkrun-service/internal/core/domain"
	"github.com/platosha5/parkrun-service/internal/core/port"
	"github.com/platosha5/parkrun-service/internal/repository"
)

// ErrLocationNotFound is returned when no active location matches the name.
var ErrLocationNotFound = errors.New("location not found")

// LocationService reads venue reference data for the command layer.
type LocationService struct {
	locations port.LocationRepository
}

// NewLocationService constructs a location service.
func NewLocationService(locations port.LocationRepository) *LocationService {
	return &LocationService{locations: locations}
}

// Select resolves an active location by exact name.
func (s *LocationService) Select(ctx context.Context, name string) (*domain.Location, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrLocationNotFound
	}

	location, err := s.locations.GetByName(ctx, trimmed)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("lookup location: %w", err)
	}

	return location, nil
}

// List returns all active locations sorted by name.
func (s *LocationService) List(ctx context.Context) ([]domain.Location, error) {
	return s.locations.ListActive(ctx)
}
