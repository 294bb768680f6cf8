package handlers

import (
	"errors"
	"net/http"

	"github.com/mickychog/career-genius/internal/services"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error" example:"session not found"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

// respondError maps the service error taxonomy onto HTTP statuses in one
// place so handlers never inspect errors themselves.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidInput):
		status = http.StatusBadRequest
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	c.JSON(status, ErrorResponse{Error: msg})
}
