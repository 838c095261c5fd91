package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platosha5/parkrun-service/internal/usecase"
)

// UserHandler registers volunteers on first contact.
type UserHandler struct {
	users *usecase.UserService
}

// NewUserHandler constructs a user handler.
func NewUserHandler(users *usecase.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetOrCreate handles POST /api/v1/users. The call is idempotent per account id.
func (h *UserHandler) GetOrCreate(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "id is required"))
		return
	}

	user, err := h.users.GetOrCreate(c.Request.Context(), usecase.UserInput{
		ID:        req.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		FullName:  req.FullName,
		Handle:    req.Handle,
	})
	if err != nil {
		RespondWithMappedError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}
