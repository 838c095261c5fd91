package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platosha5/parkrun-service/internal/usecase"
)

// RosterHandler serves the projected "who fills what" view of an event.
type RosterHandler struct {
	roster *usecase.RosterService
	events *usecase.EventService
}

// NewRosterHandler constructs a roster handler.
func NewRosterHandler(roster *usecase.RosterService, events *usecase.EventService) *RosterHandler {
	return &RosterHandler{roster: roster, events: events}
}

// Roster handles GET /api/v1/events/:id/roster.
func (h *RosterHandler) Roster(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	if _, err := h.events.Get(c.Request.Context(), eventID); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Target: usecase.ErrEventNotFound, Status: http.StatusNotFound, Message: "event not found"},
		})
		return
	}

	roster, err := h.roster.Roster(c.Request.Context(), eventID)
	if err != nil {
		RespondWithMappedError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, newRosterResponse(roster))
}
