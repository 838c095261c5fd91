package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/platosha5/parkrun-service/internal/core/domain"
	"github.com/platosha5/parkrun-service/internal/core/port"
)

// AssignmentRepository implements the durable assignment store. The
// crew.volunteers table carries two uniqueness constraints as the final
// backstop against races that slip past the in-process checks: the
// (user_id, role_id, event_id) primary key and a partial unique index on
// (role_id, event_id) for rows whose role is exclusive.
type AssignmentRepository struct {
	begin   txBeginner
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAssignmentRepository constructs a PostgreSQL-backed assignment store.
func NewAssignmentRepository(exec pgExecutor) *AssignmentRepository {
	repo := &AssignmentRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if begin, ok := exec.(txBeginner); ok {
		repo.begin = begin
	}
	return repo
}

// WithTx returns a repository configured to execute within the provided transaction.
func (r *AssignmentRepository) WithTx(tx pgx.Tx) *AssignmentRepository {
	if tx == nil {
		return r
	}
	return &AssignmentRepository{
		begin:   r.begin,
		exec:    tx,
		builder: r.builder,
	}
}

// InTx runs fn inside a repeatable-read transaction holding an advisory lock
// keyed by the event, so existence checks and the final insert observe one
// snapshot and concurrent Assign calls for the same event are serialized.
// Calls for different events proceed in parallel.
func (r *AssignmentRepository) InTx(ctx context.Context, eventID int64, fn func(port.AssignmentStore) error) error {
	if r.begin == nil {
		return errors.New("assignment store cannot begin transactions")
	}

	tx, err := r.begin.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("begin assignment tx: %w", classify(err))
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", eventID); err != nil {
		return fmt.Errorf("lock event: %w", classify(err))
	}

	if err := fn(r.WithTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit assignment tx: %w", classify(err))
	}

	return nil
}

// HasAssignment reports whether the exact (user, role, event) triple exists.
func (r *AssignmentRepository) HasAssignment(ctx context.Context, userID, roleID, eventID int64) (bool, error) {
	stmt, args, err := r.builder.Select("1").
		From("crew.volunteers").
		Where(squirrel.Eq{"user_id": userID, "role_id": roleID, "event_id": eventID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build has assignment sql: %w", err)
	}

	var one int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&one); err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("query assignment: %w", classify(err))
	}

	return true, nil
}

// IsRoleTaken reports whether anyone holds the role at the event.
func (r *AssignmentRepository) IsRoleTaken(ctx context.Context, roleID, eventID int64) (bool, error) {
	stmt, args, err := r.builder.Select("1").
		From("crew.volunteers").
		Where(squirrel.Eq{"role_id": roleID, "event_id": eventID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build role taken sql: %w", err)
	}

	var one int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&one); err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("query role taken: %w", classify(err))
	}

	return true, nil
}

// RolesHeldBy returns the roles the user currently fills at the event,
// including exclusion-group memberships so conflict checks need no extra round trip.
func (r *AssignmentRepository) RolesHeldBy(ctx context.Context, userID, eventID int64) ([]domain.Role, error) {
	stmt, args, err := r.builder.Select(
		"r.id",
		"r.code",
		"r.name",
		"r.is_unique",
		"r.sort_id",
		"COALESCE(array_agg(g.name) FILTER (WHERE g.name IS NOT NULL), '{}')",
	).
		From("crew.volunteers v").
		Join("crew.roles r ON r.id = v.role_id").
		LeftJoin("crew.role_exclusions x ON x.role_id = r.id").
		LeftJoin("crew.exclusion_groups g ON g.id = x.group_id").
		Where(squirrel.Eq{"v.user_id": userID, "v.event_id": eventID}).
		GroupBy("r.id", "r.code", "r.name", "r.is_unique", "r.sort_id").
		OrderBy("r.sort_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build roles held sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query roles held: %w", classify(err))
	}
	defer rows.Close()

	roles := make([]domain.Role, 0)
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan held role: %w", err)
		}
		roles = append(roles, *role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles held: %w", classify(err))
	}

	return roles, nil
}

// Insert persists an assignment. The exclusive flag is copied from the role
// row so the partial unique index can enforce the one-assignee rule without
// cross-table constraints.
func (r *AssignmentRepository) Insert(ctx context.Context, assignment domain.Assignment) error {
	stmt, args, err := r.builder.Insert("crew.volunteers").
		Columns("user_id", "role_id", "event_id", "exclusive", "created_at").
		Select(
			squirrel.Select().
				Column("? AS user_id", assignment.UserID).
				Column("r.id").
				Column("? AS event_id", assignment.EventID).
				Column("r.is_unique").
				Column("? AS created_at", assignment.CreatedAt).
				From("crew.roles r").
				Where(squirrel.Eq{"r.id": assignment.RoleID}),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert assignment sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert assignment: %w", classify(err))
	}

	return nil
}

// DeleteAll removes every role the user holds at the event and returns the
// number of rows removed. Removing zero rows is not an error.
func (r *AssignmentRepository) DeleteAll(ctx context.Context, userID, eventID int64) (int64, error) {
	stmt, args, err := r.builder.Delete("crew.volunteers").
		Where(squirrel.Eq{"user_id": userID, "event_id": eventID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete assignments sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("delete assignments: %w", classify(err))
	}

	return res.RowsAffected(), nil
}

var _ port.AssignmentStore = (*AssignmentRepository)(nil)
