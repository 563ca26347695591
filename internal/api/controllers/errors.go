package controllers

import (
	"errors"
	"net/http"

	"github.com/datallboy/mediashelf/internal/domain"
	"github.com/labstack/echo/v5"
)

// writeError maps domain errors to HTTP status codes.
func writeError(c *echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		code = http.StatusNotFound
	case errors.Is(err, domain.ErrUnsupportedOperation):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrWorkerUnavailable):
		code = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrInvalidCommand):
		code = http.StatusBadRequest
	case errors.Is(err, domain.ErrNetworkFailure):
		code = http.StatusBadGateway
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}
