package response

import (
	"errors"
	"net/http"

	"learnstack-service/internal/models"
	"learnstack-service/internal/services"

	"github.com/gin-gonic/gin"
)

// statusOf maps the domain error kinds to HTTP statuses. Anything outside
// the taxonomy is an internal error and its detail is not leaked.
func statusOf(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error writes the standardized error envelope for a service error.
func Error(c *gin.Context, err error) {
	status := statusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Server error"
	}
	c.JSON(status, models.ErrorResponse{
		Code:    status,
		Message: message,
	})
}

// BadRequest reports a malformed or invalid request body.
func BadRequest(c *gin.Context, details string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: "Invalid input data",
		Details: details,
	})
}
