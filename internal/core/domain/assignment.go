package domain

import "time"

// Assignment binds a user to a role at a single event. The (user, role, event)
// triple is unique; a record is created by a successful Assign and destroyed
// by Unassign, never updated in place.
type Assignment struct {
	UserID    int64
	RoleID    int64
	EventID   int64
	CreatedAt time.Time
}

// DeclineReason classifies why an assignment request was refused. Declines are
// expected outcomes of the engine, returned as values rather than errors.
type DeclineReason string

const (
	// DeclineRoleNotFound means the requested role label is not in the catalogue.
	DeclineRoleNotFound DeclineReason = "role_not_found"
	// DeclineAlreadyAssigned means the user already holds this exact role at the event.
	DeclineAlreadyAssigned DeclineReason = "already_assigned_same_role"
	// DeclineRoleTaken means a unique role is already filled by someone else.
	DeclineRoleTaken DeclineReason = "role_taken"
	// DeclineExclusionConflict means the user holds a conflicting role from the
	// same exclusion group.
	DeclineExclusionConflict DeclineReason = "exclusion_conflict"
)

// Decision is the structured outcome of an Assign call. Either the assignment
// was committed (OK) or it was declined for exactly one reason, carrying the
// role names the caller needs to explain the refusal.
type Decision struct {
	OK              bool
	Reason          DeclineReason
	RoleCode        string
	ConflictingRole string
}

// Accepted builds a committed decision for the given role.
func Accepted(roleCode string) Decision {
	return Decision{OK: true, RoleCode: roleCode}
}

// Declined builds a refusal decision.
func Declined(reason DeclineReason, roleCode string) Decision {
	return Decision{Reason: reason, RoleCode: roleCode}
}

// DeclinedConflict builds an exclusion-conflict refusal naming the role the
// user already holds.
func DeclinedConflict(roleCode, conflictingRole string) Decision {
	return Decision{
		Reason:          DeclineExclusionConflict,
		RoleCode:        roleCode,
		ConflictingRole: conflictingRole,
	}
}
