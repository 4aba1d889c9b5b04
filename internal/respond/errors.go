package respond

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nayeem-dv/socialdeck/backend/internal/apperrors"
)

// ErrorHandler returns the central echo.HTTPErrorHandler. All known error
// shapes are mapped onto the taxonomy; anything unrecognized becomes a 500
// with its detail suppressed outside development.
func ErrorHandler(env string) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "Internal server error"
		var fields []apperrors.FieldError

		var appErr *apperrors.AppError
		var httpErr *echo.HTTPError
		var valErrs validator.ValidationErrors

		switch {
		case errors.As(err, &appErr):
			status = appErr.Status
			message = appErr.Message
			fields = appErr.Fields
			if status == http.StatusInternalServerError {
				log.Printf("Internal error: %v", appErr.Err)
				if env == "development" && appErr.Err != nil {
					message = appErr.Err.Error()
				}
			}
		case errors.As(err, &valErrs):
			// Raw validator errors that bypassed the echo.Validator wrapper.
			status = http.StatusBadRequest
			message = "Validation failed"
			for _, fe := range valErrs {
				fields = append(fields, apperrors.FieldError{
					Field:   fe.Field(),
					Message: fe.Error(),
					Value:   fe.Value(),
				})
			}
		case errors.As(err, &httpErr):
			status = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok {
				message = msg
			} else {
				message = http.StatusText(status)
			}
		case mongo.IsDuplicateKeyError(err):
			status = http.StatusBadRequest
			message = "A record with this value already exists"
		default:
			log.Printf("Unhandled error: %v", err)
			if env == "development" {
				message = err.Error()
			}
		}

		body := echo.Map{
			"success": false,
			"error":   message,
		}
		if len(fields) > 0 {
			body["errors"] = fields
		}

		if c.Request().Method == http.MethodHead {
			if err := c.NoContent(status); err != nil {
				log.Printf("Failed to write error response: %v", err)
			}
			return
		}
		if err := c.JSON(status, body); err != nil {
			log.Printf("Failed to write error response: %v", err)
		}
	}
}
