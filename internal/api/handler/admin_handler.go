package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/allergymenu/restaurant-api/internal/core/domain"
	"github.com/allergymenu/restaurant-api/internal/core/ports"
)

// AdminHandler serves the user-management routes. Every route is mounted
// behind Auth and RequireAdmin.
type AdminHandler struct {
	adminService ports.AdminService
}

func NewAdminHandler(adminService ports.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListUsers handles GET /auth/users.
//
// @Summary      List all users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.UserListItem
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /auth/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.adminService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []domain.UserListItem{}
	}
	return c.JSON(http.StatusOK, users)
}

// MakeAdminByEmail handles POST /auth/make-admin-by-email.
//
// @Summary      Grant admin by email
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      emailRequest  true  "Target account"
// @Success      200   {object}  messageResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /auth/make-admin-by-email [post]
func (h *AdminHandler) MakeAdminByEmail(c echo.Context) error {
	var req emailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.makeAdmin(c, req.Email)
}

// MakeAdmin handles POST /auth/make-admin/:id, where id is a uid or an email.
//
// @Summary      Grant admin by uid
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User uid"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /auth/make-admin/{id} [post]
func (h *AdminHandler) MakeAdmin(c echo.Context) error {
	return h.makeAdmin(c, c.Param("id"))
}

func (h *AdminHandler) makeAdmin(c echo.Context, target string) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	msg, err := h.adminService.MakeAdmin(c.Request().Context(), session, target)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

// RemoveAdminByEmail handles POST /auth/remove-admin-by-email.
//
// @Summary      Revoke admin by email
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      emailRequest  true  "Target account"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /auth/remove-admin-by-email [post]
func (h *AdminHandler) RemoveAdminByEmail(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req emailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	msg, err := h.adminService.RemoveAdmin(c.Request().Context(), session, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}
