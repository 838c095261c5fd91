package domain

import "time"

// AssignmentAcceptedEvent is emitted after the engine commits an assignment.
type AssignmentAcceptedEvent struct {
	UserID     int64
	EventID    int64
	RoleID     int64
	RoleCode   string
	AcceptedAt time.Time
}

// AssignmentRemovedEvent is emitted after the engine removes a user's
// assignments at an event.
type AssignmentRemovedEvent struct {
	UserID    int64
	EventID   int64
	Removed   int64
	RemovedAt time.Time
}
