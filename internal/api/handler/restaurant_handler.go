package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/allergymenu/restaurant-api/internal/core/domain"
	"github.com/allergymenu/restaurant-api/internal/core/ports"
)

// RestaurantHandler handles HTTP requests for restaurants and their menus.
type RestaurantHandler struct {
	restaurants ports.RestaurantService
	menu        ports.MenuService
}

func NewRestaurantHandler(restaurants ports.RestaurantService, menu ports.MenuService) *RestaurantHandler {
	return &RestaurantHandler{restaurants: restaurants, menu: menu}
}

// Create handles POST /restaurants.
//
// @Summary      Create a restaurant owned by the caller
// @Tags         restaurants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      restaurantRequest  true  "Restaurant details"
// @Success      201   {object}  domain.Restaurant
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /restaurants [post]
func (h *RestaurantHandler) Create(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req restaurantRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	r, err := h.restaurants.CreateRestaurant(c.Request().Context(), session, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, r)
}

// List handles GET /restaurants. Admins see every restaurant.
//
// @Summary      List restaurants visible to the caller
// @Tags         restaurants
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Restaurant
// @Failure      401  {object}  errorResponse
// @Router       /restaurants [get]
func (h *RestaurantHandler) List(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	list, err := h.restaurants.ListRestaurants(c.Request().Context(), session)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.Restaurant{}
	}
	return c.JSON(http.StatusOK, list)
}

// Get handles GET /restaurants/:id.
//
// @Summary      Get a restaurant
// @Tags         restaurants
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Restaurant id"
// @Success      200  {object}  domain.Restaurant
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /restaurants/{id} [get]
func (h *RestaurantHandler) Get(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	r, err := h.restaurants.GetRestaurant(c.Request().Context(), session, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

// AddMenuItem handles POST /restaurants/:id/menu.
//
// @Summary      Add a menu item
// @Tags         menu
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Restaurant id"
// @Param        body  body      menuItemRequest  true  "Menu item"
// @Success      201   {object}  domain.MenuItem
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /restaurants/{id}/menu [post]
func (h *RestaurantHandler) AddMenuItem(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req menuItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.menu.AddMenuItem(c.Request().Context(), session, c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// ListMenuItems handles GET /restaurants/:id/menu.
//
// @Summary      List a restaurant's menu
// @Tags         menu
// @Produce      json
// @Security     BearerAuth
// @Param        id                path      string    true   "Restaurant id"
// @Param        dietary_category  query     string    false  "Only items in this category"
// @Param        allergen_free     query     []string  false  "Exclude items containing any of these allergens"  collectionFormat(multi)
// @Success      200               {array}   domain.MenuItem
// @Failure      403               {object}  errorResponse
// @Failure      404               {object}  errorResponse
// @Router       /restaurants/{id}/menu [get]
func (h *RestaurantHandler) ListMenuItems(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	filter := ports.MenuFilter{
		DietaryCategory: strings.TrimSpace(c.QueryParam("dietary_category")),
		AllergenFree:    allergenFree(c.QueryParams()["allergen_free"]),
	}

	items, err := h.menu.ListMenuItems(c.Request().Context(), session, c.Param("id"), filter)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*domain.MenuItem{}
	}
	return c.JSON(http.StatusOK, items)
}

// UpdateMenuItem handles PUT /restaurants/:id/menu/:itemId.
//
// @Summary      Replace a menu item
// @Tags         menu
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string           true  "Restaurant id"
// @Param        itemId  path      string           true  "Menu item id"
// @Param        body    body      menuItemRequest  true  "Menu item"
// @Success      200     {object}  domain.MenuItem
// @Failure      400     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /restaurants/{id}/menu/{itemId} [put]
func (h *RestaurantHandler) UpdateMenuItem(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req menuItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.menu.UpdateMenuItem(c.Request().Context(), session, c.Param("id"), c.Param("itemId"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteMenuItem handles DELETE /restaurants/:id/menu/:itemId.
//
// @Summary      Delete a menu item
// @Tags         menu
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true  "Restaurant id"
// @Param        itemId  path      string  true  "Menu item id"
// @Success      200     {object}  messageResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /restaurants/{id}/menu/{itemId} [delete]
func (h *RestaurantHandler) DeleteMenuItem(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	msg, err := h.menu.DeleteMenuItem(c.Request().Context(), session, c.Param("id"), c.Param("itemId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

// allergenFree accepts both ?allergen_free=a&allergen_free=b and ?allergen_free=a,b.
func allergenFree(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
