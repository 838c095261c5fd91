package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platosha5/parkrun-service/internal/usecase"
)

// EventHandler resolves event instances for the command layer.
type EventHandler struct {
	events *usecase.EventService
}

// NewEventHandler constructs an event handler.
func NewEventHandler(events *usecase.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// GetOrCreate handles POST /api/v1/events. An absent date resolves to the next
// cycle date; the call is idempotent per (location, date).
func (h *EventHandler) GetOrCreate(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "location_id is required"))
		return
	}

	var date *time.Time
	if req.Date != nil {
		parsed, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "date must be formatted as YYYY-MM-DD"))
			return
		}
		date = &parsed
	}

	event, err := h.events.GetOrCreate(c.Request.Context(), req.LocationID, date)
	if err != nil {
		RespondWithMappedError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, newEventResponse(event))
}

// Get handles GET /api/v1/events/:id.
func (h *EventHandler) Get(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	event, err := h.events.Get(c.Request.Context(), eventID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Target: usecase.ErrEventNotFound, Status: http.StatusNotFound, Message: "event not found"},
		})
		return
	}

	c.JSON(http.StatusOK, newEventResponse(event))
}
