package middleware

import (
	"errors"
	"net/http"

	"github.com/Eursukkul/classpass-service/internal/dto"
	"github.com/Eursukkul/classpass-service/pkg/logger"
	"github.com/labstack/echo/v4"
)

// NewErrorHandler renders every error as a JSON body with a message. Server
// errors are logged with their cause and hidden from the client.
func NewErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		body := dto.ErrorResponse{Message: http.StatusText(code)}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			switch m := he.Message.(type) {
			case string:
				body = dto.ErrorResponse{Message: m}
			case dto.ErrorResponse:
				body = m
			default:
				body = dto.ErrorResponse{Message: http.StatusText(code)}
			}
		}

		if code >= http.StatusInternalServerError {
			cause := err
			if he != nil && he.Internal != nil {
				cause = he.Internal
			}
			log.Error("request failed",
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"status", code,
				"error", cause,
			)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}
