package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medibook/medibook/internal/platform/apperr"
)

// FailureEnvelope is the uniform body returned for every failed request.
type FailureEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorHandler translates every error reaching the HTTP boundary into the
// success/failure envelope. Domain errors map through their kind; echo's own
// HTTP errors keep their status; anything else is a masked 500.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := apperr.HTTPStatus(err)
		message := apperr.PublicMessage(err)

		if he, ok := err.(*echo.HTTPError); ok {
			status = he.Code
			if s, ok := he.Message.(string); ok {
				message = s
			}
		}

		if status >= 500 {
			rid, _ := c.Get("request_id").(string)
			logger.Error().Err(err).Str("request_id", rid).Msg("request failed")
		}

		if c.Request().Method == "HEAD" {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, FailureEnvelope{Success: false, Message: message})
	}
}
