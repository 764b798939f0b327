package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/allergymenu/restaurant-api/internal/core/domain"
	"github.com/allergymenu/restaurant-api/internal/core/ports"
)

type stubRestaurantService struct {
	createFn func(ctx context.Context, s *domain.Session, in ports.RestaurantInput) (*domain.Restaurant, error)
	listFn   func(ctx context.Context, s *domain.Session) ([]*domain.Restaurant, error)
	getFn    func(ctx context.Context, s *domain.Session, id string) (*domain.Restaurant, error)
}

func (st *stubRestaurantService) CreateRestaurant(ctx context.Context, s *domain.Session, in ports.RestaurantInput) (*domain.Restaurant, error) {
	return st.createFn(ctx, s, in)
}

func (st *stubRestaurantService) ListRestaurants(ctx context.Context, s *domain.Session) ([]*domain.Restaurant, error) {
	return st.listFn(ctx, s)
}

func (st *stubRestaurantService) GetRestaurant(ctx context.Context, s *domain.Session, id string) (*domain.Restaurant, error) {
	return st.getFn(ctx, s, id)
}

type stubMenuService struct {
	addFn    func(ctx context.Context, s *domain.Session, restaurantID string, in ports.MenuItemInput) (*domain.MenuItem, error)
	listFn   func(ctx context.Context, s *domain.Session, restaurantID string, f ports.MenuFilter) ([]*domain.MenuItem, error)
	updateFn func(ctx context.Context, s *domain.Session, restaurantID, itemID string, in ports.MenuItemInput) (*domain.MenuItem, error)
	deleteFn func(ctx context.Context, s *domain.Session, restaurantID, itemID string) (string, error)
}

func (st *stubMenuService) AddMenuItem(ctx context.Context, s *domain.Session, restaurantID string, in ports.MenuItemInput) (*domain.MenuItem, error) {
	return st.addFn(ctx, s, restaurantID, in)
}

func (st *stubMenuService) ListMenuItems(ctx context.Context, s *domain.Session, restaurantID string, f ports.MenuFilter) ([]*domain.MenuItem, error) {
	return st.listFn(ctx, s, restaurantID, f)
}

func (st *stubMenuService) UpdateMenuItem(ctx context.Context, s *domain.Session, restaurantID, itemID string, in ports.MenuItemInput) (*domain.MenuItem, error) {
	return st.updateFn(ctx, s, restaurantID, itemID, in)
}

func (st *stubMenuService) DeleteMenuItem(ctx context.Context, s *domain.Session, restaurantID, itemID string) (string, error) {
	return st.deleteFn(ctx, s, restaurantID, itemID)
}

var ownerSession = &domain.Session{Token: "tok", UID: "owner-1", Email: "owner@example.com"}

func TestRestaurantHandler_Create(t *testing.T) {
	handler := NewRestaurantHandler(&stubRestaurantService{
		createFn: func(ctx context.Context, s *domain.Session, in ports.RestaurantInput) (*domain.Restaurant, error) {
			if s.UID != "owner-1" || in.Name != "Bistro" || in.CuisineType != "french" {
				t.Fatalf("unexpected args: %+v %+v", s, in)
			}
			return &domain.Restaurant{ID: "12345", Name: in.Name, Address: in.Address, CuisineType: in.CuisineType, OwnerUID: s.UID}, nil
		},
	}, nil)

	c, rec := newJSONContext(http.MethodPost, "/restaurants",
		`{"name":"Bistro","address":"1 Main St","cuisine_type":"french"}`, ownerSession)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["id"] != "12345" || resp["owner_uid"] != "owner-1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestRestaurantHandler_Create_MissingAddress(t *testing.T) {
	handler := NewRestaurantHandler(&stubRestaurantService{
		createFn: func(ctx context.Context, s *domain.Session, in ports.RestaurantInput) (*domain.Restaurant, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}, nil)

	c, _ := newJSONContext(http.MethodPost, "/restaurants", `{"name":"Bistro"}`, ownerSession)

	err := handler.Create(c)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRestaurantHandler_List_Empty(t *testing.T) {
	handler := NewRestaurantHandler(&stubRestaurantService{
		listFn: func(ctx context.Context, s *domain.Session) ([]*domain.Restaurant, error) { return nil, nil },
	}, nil)

	c, rec := newJSONContext(http.MethodGet, "/restaurants", "", ownerSession)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Fatalf("expected empty array, got %q", got)
	}
}

func TestRestaurantHandler_Get_Forbidden(t *testing.T) {
	handler := NewRestaurantHandler(&stubRestaurantService{
		getFn: func(ctx context.Context, s *domain.Session, id string) (*domain.Restaurant, error) {
			if id != "99999" {
				t.Fatalf("unexpected id %q", id)
			}
			return nil, domain.ErrForbidden
		},
	}, nil)

	c, _ := newJSONContext(http.MethodGet, "/restaurants/99999", "", ownerSession)
	c.SetParamNames("id")
	c.SetParamValues("99999")

	if err := handler.Get(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestRestaurantHandler_AddMenuItem(t *testing.T) {
	handler := NewRestaurantHandler(nil, &stubMenuService{
		addFn: func(ctx context.Context, s *domain.Session, restaurantID string, in ports.MenuItemInput) (*domain.MenuItem, error) {
			if restaurantID != "12345" || in.Price != 9.5 || !reflect.DeepEqual(in.Allergens, []string{"milk"}) {
				t.Fatalf("unexpected args: %s %+v", restaurantID, in)
			}
			return &domain.MenuItem{ID: "54321", Name: in.Name, Price: in.Price, Allergens: in.Allergens, DietaryCategories: []string{}, RestaurantID: restaurantID}, nil
		},
	})

	c, rec := newJSONContext(http.MethodPost, "/restaurants/12345/menu",
		`{"name":"Latte","price":9.5,"allergens":["milk"]}`, ownerSession)
	c.SetParamNames("id")
	c.SetParamValues("12345")

	if err := handler.AddMenuItem(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestRestaurantHandler_AddMenuItem_NegativePrice(t *testing.T) {
	handler := NewRestaurantHandler(nil, &stubMenuService{
		addFn: func(ctx context.Context, s *domain.Session, restaurantID string, in ports.MenuItemInput) (*domain.MenuItem, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	})

	c, _ := newJSONContext(http.MethodPost, "/restaurants/12345/menu", `{"name":"Latte","price":-1}`, ownerSession)
	c.SetParamNames("id")
	c.SetParamValues("12345")

	if err := handler.AddMenuItem(c); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRestaurantHandler_ListMenuItems_Filters(t *testing.T) {
	var got ports.MenuFilter
	handler := NewRestaurantHandler(nil, &stubMenuService{
		listFn: func(ctx context.Context, s *domain.Session, restaurantID string, f ports.MenuFilter) ([]*domain.MenuItem, error) {
			got = f
			return nil, nil
		},
	})

	c, rec := newJSONContext(http.MethodGet,
		"/restaurants/12345/menu?dietary_category=vegan&allergen_free=milk,eggs&allergen_free=+peanuts+&allergen_free=", "", ownerSession)
	c.SetParamNames("id")
	c.SetParamValues("12345")

	if err := handler.ListMenuItems(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	want := ports.MenuFilter{DietaryCategory: "vegan", AllergenFree: []string{"milk", "eggs", "peanuts"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("filter = %+v, want %+v", got, want)
	}
	if rec.Body.String() != "[]\n" {
		t.Fatalf("expected empty array, got %q", rec.Body.String())
	}
}

func TestRestaurantHandler_UpdateMenuItem(t *testing.T) {
	handler := NewRestaurantHandler(nil, &stubMenuService{
		updateFn: func(ctx context.Context, s *domain.Session, restaurantID, itemID string, in ports.MenuItemInput) (*domain.MenuItem, error) {
			if restaurantID != "12345" || itemID != "54321" {
				t.Fatalf("unexpected ids: %s %s", restaurantID, itemID)
			}
			return nil, domain.ErrMenuItemNotFound
		},
	})

	c, _ := newJSONContext(http.MethodPut, "/restaurants/12345/menu/54321", `{"name":"Mocha","price":4}`, ownerSession)
	c.SetParamNames("id", "itemId")
	c.SetParamValues("12345", "54321")

	if err := handler.UpdateMenuItem(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRestaurantHandler_DeleteMenuItem(t *testing.T) {
	handler := NewRestaurantHandler(nil, &stubMenuService{
		deleteFn: func(ctx context.Context, s *domain.Session, restaurantID, itemID string) (string, error) {
			return "Menu item " + itemID + " successfully deleted", nil
		},
	})

	c, rec := newJSONContext(http.MethodDelete, "/restaurants/12345/menu/54321", "", ownerSession)
	c.SetParamNames("id", "itemId")
	c.SetParamValues("12345", "54321")

	if err := handler.DeleteMenuItem(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["message"] != "Menu item 54321 successfully deleted" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAllergenFree(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{nil, nil},
		{[]string{""}, nil},
		{[]string{"milk"}, []string{"milk"}},
		{[]string{"milk, eggs", "sesame"}, []string{"milk", "eggs", "sesame"}},
		{[]string{",,fish,"}, []string{"fish"}},
	}
	for _, tt := range tests {
		if got := allergenFree(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("allergenFree(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
