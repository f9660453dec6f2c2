package controllers

import (
	"errors"
	"log"
	"net/http"
	"tech-store/models"

	"github.com/gin-gonic/gin"
)

// respondError maps service error kinds to HTTP responses. Unexpected
// errors are logged with the request context and reported generically.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	switch {
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrPaymentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, models.ErrInvalidTotal),
		errors.Is(err, models.ErrProductUnavailable),
		errors.Is(err, models.ErrEmptyOrder),
		errors.Is(err, models.ErrInvalidTransition):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrDependencyUnavailable):
		status = http.StatusServiceUnavailable
	default:
		log.Printf("Unexpected error on %s %s (user_id=%d): %v",
			c.Request.Method, c.Request.URL.Path, c.GetInt("user_id"), err)
		message = "Internal server error"
	}

	c.JSON(status, models.ErrorResponse{
		Success: false,
		Message: message,
	})
}
