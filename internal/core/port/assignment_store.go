package port

import (
	"context"

	"github.com/platosha5/parkrun-service/internal/core/domain"
)

// AssignmentStore persists (user, role, event) triples. It is the durable
// ground truth the engine reads and writes; the engine is its only writer.
//
// Insert returns repository.ErrDuplicate when the triple already exists or a
// unique-role slot is already filled; that constraint is enforced at the
// storage layer as the final backstop against concurrent commits.
type AssignmentStore interface {
	HasAssignment(ctx context.Context, userID, roleID, eventID int64) (bool, error)
	IsRoleTaken(ctx context.Context, roleID, eventID int64) (bool, error)
	RolesHeldBy(ctx context.Context, userID, eventID int64) ([]domain.Role, error)
	Insert(ctx context.Context, assignment domain.Assignment) error
	DeleteAll(ctx context.Context, userID, eventID int64) (int64, error)

	// InTx runs fn against a store view whose reads and the final write share
	// one consistent snapshot, serialized per event. The snapshot is released
	// only after fn returns: commit on nil, abort on error.
	InTx(ctx context.Context, eventID int64, fn func(AssignmentStore) error) error
}
