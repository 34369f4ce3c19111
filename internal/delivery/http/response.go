package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stockchecker/internal/delivery/http/dto"
)

// BadRequestResponse sends a 400 Bad Request response
func BadRequestResponse(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: message})
}

// BadGatewayResponse sends a 502 Bad Gateway response for upstream failures
func BadGatewayResponse(c echo.Context, message string) error {
	return c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: message})
}

// InternalServerErrorResponse sends a 500 Internal Server Error response
func InternalServerErrorResponse(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: message})
}
