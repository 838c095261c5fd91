package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platosha5/parkrun-service/internal/usecase"
)

// LocationHandler serves venue reference data.
type LocationHandler struct {
	locations *usecase.LocationService
}

// NewLocationHandler constructs a location handler.
func NewLocationHandler(locations *usecase.LocationService) *LocationHandler {
	return &LocationHandler{locations: locations}
}

// List handles GET /api/v1/locations.
func (h *LocationHandler) List(c *gin.Context) {
	locations, err := h.locations.List(c.Request.Context())
	if err != nil {
		RespondWithMappedError(c, err, nil)
		return
	}

	payload := LocationsResponse{Locations: make([]LocationResponse, 0, len(locations))}
	for _, location := range locations {
		payload.Locations = append(payload.Locations, LocationResponse{
			ID:   location.ID,
			Name: location.Name,
		})
	}

	c.JSON(http.StatusOK, payload)
}
