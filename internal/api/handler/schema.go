package handler

import "github.com/allergymenu/restaurant-api/internal/core/ports"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Email          string `json:"email"          validate:"required,email"`
	Password       string `json:"password"       validate:"required"`
	Name           string `json:"name"           validate:"max=120"`
	RestaurantName string `json:"restaurantName" validate:"max=120"`
	IsAdmin        bool   `json:"is_admin"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	Token        string `json:"token"`
	Name         string `json:"name,omitempty"`
	RestaurantID string `json:"restaurantId,omitempty"`
	IsAdmin      bool   `json:"is_admin"`
}

func toAuthResponse(r *ports.AuthResult) authResponse {
	return authResponse{
		UID:          r.UID,
		Email:        r.Email,
		Token:        r.Token,
		Name:         r.Name,
		RestaurantID: r.RestaurantID,
		IsAdmin:      r.IsAdmin,
	}
}

type profileResponse struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	Name         string `json:"name,omitempty"`
	RestaurantID string `json:"restaurantId,omitempty"`
	IsAdmin      bool   `json:"is_admin"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required"`
}

// --- Restaurants ---

type restaurantRequest struct {
	Name        string `json:"name"         validate:"required,max=200"`
	Address     string `json:"address"      validate:"required,max=300"`
	Phone       string `json:"phone"        validate:"max=40"`
	CuisineType string `json:"cuisine_type" validate:"max=80"`
}

func (r restaurantRequest) toInput() ports.RestaurantInput {
	return ports.RestaurantInput{
		Name:        r.Name,
		Address:     r.Address,
		Phone:       r.Phone,
		CuisineType: r.CuisineType,
	}
}

// menuItemRequest leaves allergen and category membership to the domain so
// the error names the offending values.
type menuItemRequest struct {
	Name              string   `json:"name"              validate:"required,max=200"`
	Description       string   `json:"description"       validate:"max=2000"`
	Price             float64  `json:"price"             validate:"gte=0"`
	Allergens         []string `json:"allergens"`
	DietaryCategories []string `json:"dietaryCategories"`
}

func (r menuItemRequest) toInput() ports.MenuItemInput {
	return ports.MenuItemInput{
		Name:              r.Name,
		Description:       r.Description,
		Price:             r.Price,
		Allergens:         r.Allergens,
		DietaryCategories: r.DietaryCategories,
	}
}
