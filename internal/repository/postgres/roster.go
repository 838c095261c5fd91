package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/platosha5/parkrun-service/internal/core/domain"
	"github.com/platosha5/parkrun-service/internal/core/port"
)

// RosterRepository left-joins the catalogue against committed assignments to
// derive the display view. It reads outside any engine transaction, so it
// only ever observes committed rows.
type RosterRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewRosterRepository constructs a PostgreSQL-backed roster projector source.
func NewRosterRepository(exec pgExecutor) *RosterRepository {
	return &RosterRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Roster returns every catalogue role in display order with its assignee,
// empty for unfilled roles.
func (r *RosterRepository) Roster(ctx context.Context, eventID int64) ([]domain.RosterEntry, error) {
	stmt, args, err := r.builder.Select(
		"r.code",
		"r.name",
		"r.sort_id",
		"COALESCE(u.full_name, '')",
		"COALESCE(u.handle, '')",
	).
		From("crew.roles r").
		LeftJoin("crew.volunteers v ON v.role_id = r.id AND v.event_id = ?", eventID).
		LeftJoin("crew.users u ON u.id = v.user_id").
		OrderBy("r.sort_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build roster sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query roster: %w", classify(err))
	}
	defer rows.Close()

	entries := make([]domain.RosterEntry, 0)
	for rows.Next() {
		var entry domain.RosterEntry
		if err := rows.Scan(&entry.RoleCode, &entry.RoleName, &entry.SortOrder, &entry.Assignee, &entry.Handle); err != nil {
			return nil, fmt.Errorf("scan roster entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roster: %w", classify(err))
	}

	return entries, nil
}

var _ port.RosterRepository = (*RosterRepository)(nil)
