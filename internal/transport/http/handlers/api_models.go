package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platosha5/parkrun-service/internal/core/domain"
)

// ErrorResponse is the uniform error payload for every endpoint.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// NewErrorResponse builds an error payload carrying the request correlation id.
func NewErrorResponse(c *gin.Context, message string) ErrorResponse {
	return ErrorResponse{
		Error:     message,
		RequestID: c.GetString("request_id"),
	}
}

// AssignRequest is the body of POST /api/v1/events/:id/assignments.
type AssignRequest struct {
	UserID int64  `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

// AssignmentResponse reports the engine's decision for one assignment request.
type AssignmentResponse struct {
	Assigned        bool   `json:"assigned"`
	Role            string `json:"role"`
	Reason          string `json:"reason,omitempty"`
	ConflictingRole string `json:"conflicting_role,omitempty"`
}

func newAssignmentResponse(decision domain.Decision) AssignmentResponse {
	return AssignmentResponse{
		Assigned:        decision.OK,
		Role:            decision.RoleCode,
		Reason:          string(decision.Reason),
		ConflictingRole: decision.ConflictingRole,
	}
}

// UnassignResponse reports whether a removal actually deleted anything.
type UnassignResponse struct {
	Removed bool `json:"removed"`
}

// RosterEntryPayload is one row of the event roster.
type RosterEntryPayload struct {
	Role     string `json:"role"`
	RoleName string `json:"role_name"`
	Assignee string `json:"assignee,omitempty"`
	Handle   string `json:"handle,omitempty"`
}

// RosterResponse is the full projected roster for one event.
type RosterResponse struct {
	EventID int64                `json:"event_id"`
	Filled  int                  `json:"filled"`
	Entries []RosterEntryPayload `json:"entries"`
}

func newRosterResponse(roster domain.Roster) RosterResponse {
	entries := make([]RosterEntryPayload, 0, len(roster.Entries))
	for _, entry := range roster.Entries {
		entries = append(entries, RosterEntryPayload{
			Role:     entry.RoleCode,
			RoleName: entry.RoleName,
			Assignee: entry.Assignee,
			Handle:   entry.Handle,
		})
	}
	return RosterResponse{
		EventID: roster.EventID,
		Filled:  roster.Filled(),
		Entries: entries,
	}
}

// EventRequest is the body of POST /api/v1/events. Date is optional; absent,
// the next cycle date is used.
type EventRequest struct {
	LocationID int64   `json:"location_id" binding:"required"`
	Date       *string `json:"date,omitempty"`
}

// EventResponse describes a resolved event instance.
type EventResponse struct {
	ID         int64  `json:"id"`
	LocationID int64  `json:"location_id"`
	Date       string `json:"date"`
}

func newEventResponse(event *domain.Event) EventResponse {
	return EventResponse{
		ID:         event.ID,
		LocationID: event.LocationID,
		Date:       event.Date.Format("2006-01-02"),
	}
}

// UserRequest is the body of POST /api/v1/users.
type UserRequest struct {
	ID        int64  `json:"id" binding:"required"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	FullName  string `json:"full_name,omitempty"`
	Handle    string `json:"handle,omitempty"`
}

// UserResponse describes a registered volunteer.
type UserResponse struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Handle   string `json:"handle,omitempty"`
}

func newUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		FullName: user.FullName,
		Handle:   user.Handle,
	}
}

// LocationResponse describes one active venue.
type LocationResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// LocationsResponse lists the active venues.
type LocationsResponse struct {
	Locations []LocationResponse `json:"locations"`
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse reports readiness per dependency.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
