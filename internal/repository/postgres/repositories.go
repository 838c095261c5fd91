package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Catalogue   *RoleCatalogue
	Assignments *AssignmentRepository
	Events      *EventRepository
	Users       *UserRepository
	Locations   *LocationRepository
	Roster      *RosterRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Catalogue:   NewRoleCatalogue(pool),
		Assignments: NewAssignmentRepository(pool),
		Events:      NewEventRepository(pool),
		Users:       NewUserRepository(pool),
		Locations:   NewLocationRepository(pool),
		Roster:      NewRosterRepository(pool),
	}
}
