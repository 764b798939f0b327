package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/allergymenu/restaurant-api/internal/api/middleware"
	"github.com/allergymenu/restaurant-api/internal/core/domain"
)

// ctxSession extracts the session injected by the Auth middleware. A missing
// session means the route was registered without Auth; reject with 401.
func ctxSession(c echo.Context) (*domain.Session, error) {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return s, nil
}

// bindAndValidate decodes the request body into req and runs the registered validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(req)
}
