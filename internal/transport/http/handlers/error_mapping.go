package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorCase maps a sentinel error onto an HTTP status and client message.
type ErrorCase struct {
	Target  error
	Status  int
	Message string
}

// RespondWithMappedError walks the cases in order and writes the first match;
// unmatched errors become an opaque 500 so internals never leak to clients.
func RespondWithMappedError(c *gin.Context, err error, cases []ErrorCase) {
	for _, ec := range cases {
		if errors.Is(err, ec.Target) {
			message := ec.Message
			if message == "" {
				message = ec.Target.Error()
			}
			c.JSON(ec.Status, NewErrorResponse(c, message))
			return
		}
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "internal server error"))
}
