package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/allergymenu/restaurant-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// errorClasses maps each domain error class to its status. Order matters:
// the first class matched by errors.Is wins.
var errorClasses = []struct {
	class error
	code  int
}{
	{domain.ErrIDExhausted, http.StatusInternalServerError},
	{domain.ErrUnauthenticated, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrInvalidInput, http.StatusBadRequest},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error classes to their HTTP status codes.
//   - Logs unexpected errors and reports them as 500 with their message.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Str("path", c.Path()).Msg("http error")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, ec := range errorClasses {
		if errors.Is(err, ec.class) {
			if ec.code >= http.StatusInternalServerError {
				logUnhandled(log, c, err)
			}
			return ec.code, errorMessage(err, ec.class)
		}
	}

	logUnhandled(log, c, err)
	return http.StatusInternalServerError, "internal error: " + err.Error()
}

// errorMessage strips the class prefix so "invalid input: price must be at
// least 0" renders as "price must be at least 0". A bare class error keeps
// its own text.
func errorMessage(err, class error) string {
	msg := err.Error()
	if trimmed := strings.TrimPrefix(msg, class.Error()+": "); trimmed != "" {
		return trimmed
	}
	return msg
}

func logUnhandled(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")
}
