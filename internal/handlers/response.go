package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cap-order-service/internal/models"
	"cap-order-service/internal/services"
)

const msgInternalError = "Internal Server Error"

// respondError maps a service error to the order endpoints' {message, error} body
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var validationErr *services.ValidationError
	var notFoundErr *services.NotFoundError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: validationErr.Message})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: notFoundErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Message: msgInternalError,
			Error:   err.Error(),
		})
	}
}

// respondCheckoutError uses the checkout endpoints' bare {error} body
func respondCheckoutError(c *gin.Context, err error) {
	_ = c.Error(err)

	status := http.StatusInternalServerError
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		status = http.StatusBadRequest
	}
	c.JSON(status, models.ErrorResponse{Error: err.Error()})
}
