package middleware

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/orbis-events/registration-service/internal/dto"
)

// ErrorHandler renders every unhandled error as the service's JSON envelope.
// Validation failures are written by the handlers themselves with their
// field map; anything reaching here is a plain message.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "something went wrong, please try again"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}

	if code >= http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	_ = c.JSON(code, dto.ErrorResponse{Message: msg})
}
