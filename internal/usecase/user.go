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

// UserInput carries the external account attributes used to register a volunteer.
type UserInput struct {
	ID        int64
	FirstName string
	LastName  string
	FullName  string
	Handle    string
}

// UserService resolves volunteers by external account id, creating the record
// on first contact. The engine never sees these attributes; they feed the roster.
type UserService struct {
	users port.UserRepository
	now   func() time.Time
}

// NewUserService constructs a user service.
func NewUserService(users port.UserRepository) *UserService {
	return &UserService{users: users, now: time.Now}
}

// GetOrCreate returns the existing user or registers a new one.
func (s *UserService) GetOrCreate(ctx context.Context, input UserInput) (*domain.User, error) {
	if input.ID == 0 {
		return nil, fmt.Errorf("external account id is required")
	}

	user, err := s.users.GetByID(ctx, input.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		fullName = strings.TrimSpace(strings.TrimSpace(input.FirstName) + " " + strings.TrimSpace(input.LastName))
	}

	created := domain.User{
		ID:        input.ID,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		FullName:  fullName,
		Handle:    strings.TrimSpace(input.Handle),
		CreatedAt: s.now().UTC(),
	}

	if err := s.users.Create(ctx, created); err != nil {
		// Lost a get-or-create race; the record exists now.
		if errors.Is(err, repository.ErrDuplicate) {
			return s.users.GetByID(ctx, input.ID)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &created, nil
}
