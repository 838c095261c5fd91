package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/platosha5/parkrun-service/internal/core/domain"
	"github.com/platosha5/parkrun-service/internal/core/port"
	"github.com/platosha5/parkrun-service/internal/repository"
)

// ReassignPolicy decides what happens when a user who already holds a role
// requests a different one. Observed deployments disagree, so the behavior is
// configuration, not code.
type ReassignPolicy string

const (
	// ReassignExplicit keeps held roles; a new role is only checked against
	// them. Dropping a role requires an explicit Unassign.
	ReassignExplicit ReassignPolicy = "explicit"
	// ReassignReplace drops every held role before the new one is checked.
	ReassignReplace ReassignPolicy = "replace"
)

// ErrStoreUnavailable is returned when the assignment store cannot be reached
// within the configured deadline. Callers should retry the whole operation;
// it is never a business-rule decline.
var ErrStoreUnavailable = errors.New("assignment store unavailable")

const defaultStoreTimeout = 5 * time.Second

// AssignmentService is the role assignment engine: it validates a single
// (user, event, role) request against the catalogue's constraints and either
// commits it or declines with a precise reason. Declines are returned as
// decision values; only infrastructure failures surface as errors.
type AssignmentService struct {
	catalogue port.RoleCatalogue
	store     port.AssignmentStore
	log       *zap.Logger
	policy    ReassignPolicy
	timeout   time.Duration
	cache     port.RosterCache
	publisher port.EventPublisher
	now       func() time.Time
}

// NewAssignmentService constructs the engine with the explicit reassign policy.
func NewAssignmentService(catalogue port.RoleCatalogue, store port.AssignmentStore, log *zap.Logger) *AssignmentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AssignmentService{
		catalogue: catalogue,
		store:     store,
		log:       log,
		policy:    ReassignExplicit,
		timeout:   defaultStoreTimeout,
		now:       time.Now,
	}
}

// WithPolicy overrides the reassign policy.
func (s *AssignmentService) WithPolicy(policy ReassignPolicy) *AssignmentService {
	if policy != "" {
		s.policy = policy
	}
	return s
}

// WithStoreTimeout bounds every store interaction of one engine call.
func (s *AssignmentService) WithStoreTimeout(timeout time.Duration) *AssignmentService {
	if timeout > 0 {
		s.timeout = timeout
	}
	return s
}

// WithRosterCache makes the engine invalidate projected rosters on commit.
func (s *AssignmentService) WithRosterCache(cache port.RosterCache) *AssignmentService {
	s.cache = cache
	return s
}

// WithEventPublisher makes the engine emit integration events on commit.
func (s *AssignmentService) WithEventPublisher(publisher port.EventPublisher) *AssignmentService {
	s.publisher = publisher
	return s
}

// Assign atomically validates and commits one assignment. The checks run in
// order and short-circuit on the first failure: unknown role, duplicate self,
// unique role already taken, exclusion conflict. All reads and the insert
// share one store snapshot, serialized per event, so two concurrent calls can
// never both pass the checks and both commit.
func (s *AssignmentService) Assign(ctx context.Context, userID, eventID int64, roleCode string) (domain.Decision, error) {
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	role, err := s.catalogue.GetByCode(opCtx, roleCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Declined(domain.DeclineRoleNotFound, roleCode), nil
		}
		return domain.Decision{}, s.storeFailure("resolve role", err, userID, eventID, roleCode)
	}

	var decision domain.Decision
	err = s.store.InTx(opCtx, eventID, func(tx port.AssignmentStore) error {
		held, err := tx.RolesHeldBy(opCtx, userID, eventID)
		if err != nil {
			return fmt.Errorf("roles held by user: %w", err)
		}

		for _, heldRole := range held {
			if heldRole.ID == role.ID {
				decision = domain.Declined(domain.DeclineAlreadyAssigned, role.Code)
				return nil
			}
		}

		if s.policy == ReassignReplace && len(held) > 0 {
			if _, err := tx.DeleteAll(opCtx, userID, eventID); err != nil {
				return fmt.Errorf("replace held roles: %w", err)
			}
			held = nil
		}

		if role.Unique {
			taken, err := tx.IsRoleTaken(opCtx, role.ID, eventID)
			if err != nil {
				return fmt.Errorf("check role taken: %w", err)
			}
			if taken {
				decision = domain.Declined(domain.DeclineRoleTaken, role.Code)
				return nil
			}
		}

		for _, heldRole := range held {
			if group, conflict := role.SharedGroup(heldRole); conflict {
				s.log.Debug("exclusion conflict",
					zap.String("group", group),
					zap.String("requested", role.Code),
					zap.String("held", heldRole.Code),
				)
				decision = domain.DeclinedConflict(role.Code, heldRole.Code)
				return nil
			}
		}

		if err := tx.Insert(opCtx, domain.Assignment{
			UserID:    userID,
			RoleID:    role.ID,
			EventID:   eventID,
			CreatedAt: s.now().UTC(),
		}); err != nil {
			return fmt.Errorf("insert assignment: %w", err)
		}

		decision = domain.Accepted(role.Code)
		return nil
	})
	if err != nil {
		// The storage backstop firing after the in-process checks passed means
		// a concurrent commit won the race; report contention, not a failure.
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Declined(domain.DeclineRoleTaken, role.Code), nil
		}
		return domain.Decision{}, s.storeFailure("assign", err, userID, eventID, roleCode)
	}

	if decision.OK {
		s.afterAssign(ctx, userID, eventID, *role)
	}

	return decision, nil
}

// Unassign removes every role the user holds at the event and reports whether
// anything was actually removed. Removing zero rows is not an error.
func (s *AssignmentService) Unassign(ctx context.Context, userID, eventID int64) (bool, error) {
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	removed, err := s.store.DeleteAll(opCtx, userID, eventID)
	if err != nil {
		return false, s.storeFailure("unassign", err, userID, eventID, "")
	}
	if removed == 0 {
		return false, nil
	}

	s.invalidateRoster(ctx, eventID)

	if s.publisher != nil {
		event := domain.AssignmentRemovedEvent{
			UserID:    userID,
			EventID:   eventID,
			Removed:   removed,
			RemovedAt: s.now().UTC(),
		}
		if err := s.publisher.PublishAssignmentRemoved(ctx, event); err != nil {
			s.log.Warn("publish assignment removed", zap.Error(err), zap.Int64("event_id", eventID))
		}
	}

	return true, nil
}

func (s *AssignmentService) afterAssign(ctx context.Context, userID, eventID int64, role domain.Role) {
	s.invalidateRoster(ctx, eventID)

	if s.publisher != nil {
		event := domain.AssignmentAcceptedEvent{
			UserID:     userID,
			EventID:    eventID,
			RoleID:     role.ID,
			RoleCode:   role.Code,
			AcceptedAt: s.now().UTC(),
		}
		if err := s.publisher.PublishAssignmentAccepted(ctx, event); err != nil {
			s.log.Warn("publish assignment accepted", zap.Error(err), zap.Int64("event_id", eventID))
		}
	}
}

func (s *AssignmentService) invalidateRoster(ctx context.Context, eventID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, eventID); err != nil {
		s.log.Warn("invalidate roster cache", zap.Error(err), zap.Int64("event_id", eventID))
	}
}

func (s *AssignmentService) storeFailure(op string, err error, userID, eventID int64, roleCode string) error {
	s.log.Error("assignment store failure",
		zap.String("op", op),
		zap.Int64("user_id", userID),
		zap.Int64("event_id", eventID),
		zap.String("role", roleCode),
		zap.Error(err),
	)

	if errors.Is(err, repository.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, ErrStoreUnavailable)
	}

	return fmt.Errorf("%s: %w", op, err)
}
