package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/platosha5/parkrun-service/internal/core/domain"
	"github.com/platosha5/parkrun-service/internal/core/port"
	"github.com/platosha5/parkrun-service/internal/repository"
)

type assignmentKey struct {
	userID  int64
	roleID  int64
	eventID int64
}

// AssignmentStore is an in-process assignment store guarded by a mutex per
// event id. It enforces the same uniqueness backstops as the PostgreSQL
// store, which makes it a faithful stand-in for engine tests and local runs.
type AssignmentStore struct {
	mu      sync.Mutex
	roles   map[int64]domain.Role
	records map[assignmentKey]domain.Assignment
	locks   map[int64]*sync.Mutex
}

// NewAssignmentStore builds a store over the given role catalogue.
func NewAssignmentStore(roles []domain.Role) *AssignmentStore {
	byID := make(map[int64]domain.Role, len(roles))
	for _, role := range roles {
		byID[role.ID] = role
	}
	return &AssignmentStore{
		roles:   byID,
		records: make(map[assignmentKey]domain.Assignment),
		locks:   make(map[int64]*sync.Mutex),
	}
}

func (s *AssignmentStore) lockFor(eventID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[eventID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[eventID] = lock
	}
	return lock
}

// InTx serializes fn against all other InTx calls for the same event.
func (s *AssignmentStore) InTx(_ context.Context, eventID int64, fn func(port.AssignmentStore) error) error {
	lock := s.lockFor(eventID)
	lock.Lock()
	defer lock.Unlock()
	return fn(s)
}

// HasAssignment reports whether the exact (user, role, event) triple exists.
func (s *AssignmentStore) HasAssignment(_ context.Context, userID, roleID, eventID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[assignmentKey{userID, roleID, eventID}]
	return ok, nil
}

// IsRoleTaken reports whether anyone holds the role at the event.
func (s *AssignmentStore) IsRoleTaken(_ context.Context, roleID, eventID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roleTakenLocked(roleID, eventID), nil
}

func (s *AssignmentStore) roleTakenLocked(roleID, eventID int64) bool {
	for key := range s.records {
		if key.roleID == roleID && key.eventID == eventID {
			return true
		}
	}
	return false
}

// RolesHeldBy returns the roles the user fills at the event in display order.
func (s *AssignmentStore) RolesHeldBy(_ context.Context, userID, eventID int64) ([]domain.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	held := make([]domain.Role, 0)
	for key := range s.records {
		if key.userID == userID && key.eventID == eventID {
			if role, ok := s.roles[key.roleID]; ok {
				held = append(held, role)
			}
		}
	}
	sort.Slice(held, func(i, j int) bool { return held[i].SortOrder < held[j].SortOrder })

	return held, nil
}

// Insert stores an assignment, rejecting duplicate triples and already-filled
// exclusive roles with repository.ErrDuplicate.
func (s *AssignmentStore) Insert(_ context.Context, assignment domain.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := assignmentKey{assignment.UserID, assignment.RoleID, assignment.EventID}
	if _, exists := s.records[key]; exists {
		return repository.ErrDuplicate
	}

	if role, ok := s.roles[assignment.RoleID]; ok && role.Unique {
		if s.roleTakenLocked(assignment.RoleID, assignment.EventID) {
			return repository.ErrDuplicate
		}
	}

	s.records[key] = assignment
	return nil
}

// DeleteAll removes every role the user holds at the event.
func (s *AssignmentStore) DeleteAll(_ context.Context, userID, eventID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for key := range s.records {
		if key.userID == userID && key.eventID == eventID {
			delete(s.records, key)
			removed++
		}
	}

	return removed, nil
}

var _ port.AssignmentStore = (*AssignmentStore)(nil)
