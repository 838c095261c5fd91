package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/platosha5/parkrun-service/internal/core/domain"
	"github.com/platosha5/parkrun-service/internal/core/port"
	"github.com/platosha5/parkrun-service/internal/repository"
)

// RoleCatalogue reads role definitions with their exclusion-group memberships.
// Roles are reference data; this repository never writes them.
type RoleCatalogue struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewRoleCatalogue constructs a PostgreSQL-backed role catalogue.
func NewRoleCatalogue(exec pgExecutor) *RoleCatalogue {
	return &RoleCatalogue{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *RoleCatalogue) selectRoles() squirrel.SelectBuilder {
	return r.builder.Select(
		"r.id",
		"r.code",
		"r.name",
		"r.is_unique",
		"r.sort_id",
		"COALESCE(array_agg(g.name) FILTER (WHERE g.name IS NOT NULL), '{}')",
	).
		From("crew.roles r").
		LeftJoin("crew.role_exclusions x ON x.role_id = r.id").
		LeftJoin("crew.exclusion_groups g ON g.id = x.group_id").
		GroupBy("r.id", "r.code", "r.name", "r.is_unique", "r.sort_id")
}

func scanRole(row pgx.Row) (*domain.Role, error) {
	var role domain.Role
	if err := row.Scan(
		&role.ID,
		&role.Code,
		&role.Name,
		&role.Unique,
		&role.SortOrder,
		&role.ExclusionGroups,
	); err != nil {
		return nil, err
	}
	return &role, nil
}

// GetByCode retrieves a role by its stable code.
func (r *RoleCatalogue) GetByCode(ctx context.Context, code string) (*domain.Role, error) {
	stmt, args, err := r.selectRoles().
		Where(squirrel.Eq{"r.code": code}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select role sql: %w", err)
	}

	role, err := scanRole(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan role: %w", classify(err))
	}

	return role, nil
}

// List retrieves all roles in display order.
func (r *RoleCatalogue) List(ctx context.Context) ([]domain.Role, error) {
	stmt, args, err := r.selectRoles().
		OrderBy("r.sort_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list roles sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", classify(err))
	}
	defer rows.Close()

	roles := make([]domain.Role, 0)
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, *role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", classify(err))
	}

	return roles, nil
}

var _ port.RoleCatalogue = (*RoleCatalogue)(nil)
