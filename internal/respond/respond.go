// Package respond shapes every success and error payload the API emits.
package respond

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nayeem-dv/socialdeck/backend/internal/models"
)

// Success writes the {success:true, message, data} envelope.
func Success(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, echo.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// List writes a list payload under key together with its pagination envelope.
func List(c echo.Context, message, key string, items interface{}, p models.Pagination) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": message,
		"data": echo.Map{
			key:          items,
			"pagination": p,
		},
	})
}
