package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/platosha5/parkrun-service/internal/core/domain"
	"github.com/platosha5/parkrun-service/internal/infra/telemetry"
	"github.com/platosha5/parkrun-service/internal/usecase"
)

// AssignmentHandler exposes the assignment engine over HTTP.
type AssignmentHandler struct {
	engine    *usecase.AssignmentService
	telemetry *telemetry.Provider
}

// NewAssignmentHandler constructs an assignment handler.
func NewAssignmentHandler(engine *usecase.AssignmentService, provider *telemetry.Provider) *AssignmentHandler {
	return &AssignmentHandler{engine: engine, telemetry: provider}
}

// Assign handles POST /api/v1/events/:id/assignments.
func (h *AssignmentHandler) Assign(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "user_id and role are required"))
		return
	}

	decision, err := h.engine.Assign(c.Request.Context(), req.UserID, eventID, req.Role)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Target: usecase.ErrStoreUnavailable, Status: http.StatusServiceUnavailable, Message: "assignment store unavailable, retry later"},
		})
		return
	}

	h.recordDecision(decision)
	c.JSON(decisionStatus(decision), newAssignmentResponse(decision))
}

// Unassign handles DELETE /api/v1/events/:id/assignments/:user_id. It removes
// every role the user holds at the event.
func (h *AssignmentHandler) Unassign(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid user id"))
		return
	}

	removed, err := h.engine.Unassign(c.Request.Context(), userID, eventID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Target: usecase.ErrStoreUnavailable, Status: http.StatusServiceUnavailable, Message: "assignment store unavailable, retry later"},
		})
		return
	}

	c.JSON(http.StatusOK, UnassignResponse{Removed: removed})
}

func (h *AssignmentHandler) recordDecision(decision domain.Decision) {
	if h.telemetry == nil {
		return
	}
	outcome := "accepted"
	if !decision.OK {
		outcome = string(decision.Reason)
	}
	h.telemetry.RecordDecision(outcome)
}

func decisionStatus(decision domain.Decision) int {
	if decision.OK {
		return http.StatusCreated
	}
	switch decision.Reason {
	case domain.DeclineRoleNotFound:
		return http.StatusNotFound
	default:
		return http.StatusConflict
	}
}

func eventIDParam(c *gin.Context) (int64, bool) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid event id"))
		return 0, false
	}
	return eventID, true
}
