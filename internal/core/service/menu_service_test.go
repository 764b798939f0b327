package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/allergymenu/restaurant-api/internal/core/domain"
	"github.com/allergymenu/restaurant-api/internal/core/ports"
)

func newMenuFixture(items ...*domain.MenuItem) (ports.MenuService, *stubMenuItems) {
	restaurants := newStubRestaurants(
		&domain.Restaurant{ID: "10001", OwnerUID: "owner"},
		&domain.Restaurant{ID: "10002", OwnerUID: "someone"},
	)
	repo := newStubMenuItems(items...)
	ids := NewIDGenerator(repo, "menu_items", 5, 5)
	return NewMenuService(restaurants, repo, ids, zerolog.Nop()), repo
}

func TestMenuService_Add(t *testing.T) {
	svc, repo := newMenuFixture()
	ctx := context.Background()

	item, err := svc.AddMenuItem(ctx, owner, "10001", ports.MenuItemInput{
		Name: "Latte", Price: 4.5, Allergens: []string{"milk"},
	})
	if err != nil {
		t.Fatalf("AddMenuItem failed: %v", err)
	}
	if item.RestaurantID != "10001" || len(item.ID) != 5 {
		t.Fatalf("unexpected item: %+v", item)
	}
	if item.DietaryCategories == nil {
		t.Fatalf("expected empty dietary categories, got nil")
	}
	if ok, _ := repo.Exists(ctx, item.ID); !ok {
		t.Fatalf("item not persisted")
	}
}

func TestMenuService_Add_RejectsUnknownAllergen(t *testing.T) {
	svc, _ := newMenuFixture()

	_, err := svc.AddMenuItem(context.Background(), owner, "10001", ports.MenuItemInput{
		Name: "Mystery", Allergens: []string{"milk", "unicorn"},
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !strings.Contains(err.Error(), "unicorn") || strings.Contains(err.Error(), "milk") {
		t.Fatalf("error should name only the offending value: %v", err)
	}

	_, err = svc.AddMenuItem(context.Background(), owner, "10001", ports.MenuItemInput{
		Name: "Salad", DietaryCategories: []string{"keto"},
	})
	if !errors.Is(err, domain.ErrInvalidInput) || !strings.Contains(err.Error(), "keto") {
		t.Fatalf("expected invalid dietary category naming keto, got %v", err)
	}
}

func TestMenuService_Add_Ownership(t *testing.T) {
	svc, _ := newMenuFixture()
	ctx := context.Background()
	in := ports.MenuItemInput{Name: "Tea"}

	if _, err := svc.AddMenuItem(ctx, stranger, "10001", in); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := svc.AddMenuItem(ctx, admin, "10001", in); err != nil {
		t.Fatalf("admin should succeed: %v", err)
	}
	if _, err := svc.AddMenuItem(ctx, owner, "55555", in); !errors.Is(err, domain.ErrRestaurantNotFound) {
		t.Fatalf("expected restaurant not found, got %v", err)
	}
}

func TestMenuService_List_Filters(t *testing.T) {
	svc, _ := newMenuFixture(
		&domain.MenuItem{ID: "20001", RestaurantID: "10001", Allergens: []string{"peanuts", "milk"}},
		&domain.MenuItem{ID: "20002", RestaurantID: "10001", Allergens: []string{"milk"}, DietaryCategories: []string{"vegetarian"}},
		&domain.MenuItem{ID: "20003", RestaurantID: "10001", DietaryCategories: []string{"vegan", "vegetarian"}},
		&domain.MenuItem{ID: "20004", RestaurantID: "10002"},
	)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter ports.MenuFilter
		want   []string
	}{
		{"no filter", ports.MenuFilter{}, []string{"20001", "20002", "20003"}},
		{"peanut free", ports.MenuFilter{AllergenFree: []string{"peanuts"}}, []string{"20002", "20003"}},
		{"milk or peanut free", ports.MenuFilter{AllergenFree: []string{"peanuts", "milk"}}, []string{"20003"}},
		{"vegetarian", ports.MenuFilter{DietaryCategory: "vegetarian"}, []string{"20002", "20003"}},
		{"vegetarian milk free", ports.MenuFilter{DietaryCategory: "vegetarian", AllergenFree: []string{"milk"}}, []string{"20003"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ListMenuItems(ctx, owner, "10001", tt.filter)
			if err != nil {
				t.Fatalf("ListMenuItems failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d items, want %v", len(got), tt.want)
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Fatalf("item %d = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}

	if _, err := svc.ListMenuItems(ctx, stranger, "10001", ports.MenuFilter{}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for stranger, got %v", err)
	}
}

func TestMenuService_Update(t *testing.T) {
	svc, repo := newMenuFixture(
		&domain.MenuItem{ID: "20001", Name: "Old", RestaurantID: "10001"},
		&domain.MenuItem{ID: "20004", Name: "Elsewhere", RestaurantID: "10002"},
	)
	ctx := context.Background()
	in := ports.MenuItemInput{Name: "New", Price: 7, DietaryCategories: []string{"vegan"}}

	updated, err := svc.UpdateMenuItem(ctx, owner, "10001", "20001", in)
	if err != nil {
		t.Fatalf("UpdateMenuItem failed: %v", err)
	}
	if updated.ID != "20001" || updated.RestaurantID != "10001" || updated.Name != "New" {
		t.Fatalf("unexpected item: %+v", updated)
	}
	stored, _ := repo.FindByID(ctx, "20001")
	if stored.Name != "New" || stored.Price != 7 {
		t.Fatalf("record not overwritten: %+v", stored)
	}

	cases := []struct {
		name               string
		session            *domain.Session
		restaurantID, item string
		wantErr            error
	}{
		{"stranger", stranger, "10001", "20001", domain.ErrForbidden},
		{"item of another restaurant", owner, "10001", "20004", domain.ErrForbidden},
		{"missing item", owner, "10001", "29999", domain.ErrMenuItemNotFound},
		{"missing restaurant", owner, "55555", "20001", domain.ErrRestaurantNotFound},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateMenuItem(ctx, tt.session, tt.restaurantID, tt.item, in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if _, err := svc.UpdateMenuItem(ctx, admin, "10001", "20001", ports.MenuItemInput{Name: "X", Allergens: []string{"unicorn"}}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestMenuService_Delete(t *testing.T) {
	svc, repo := newMenuFixture(
		&domain.MenuItem{ID: "20001", RestaurantID: "10001"},
		&domain.MenuItem{ID: "20002", RestaurantID: "10001"},
	)
	ctx := context.Background()

	if _, err := svc.DeleteMenuItem(ctx, stranger, "10001", "20001"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := svc.DeleteMenuItem(ctx, owner, "10002", "20001"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for foreign restaurant, got %v", err)
	}

	msg, err := svc.DeleteMenuItem(ctx, owner, "10001", "20001")
	if err != nil {
		t.Fatalf("DeleteMenuItem failed: %v", err)
	}
	if msg != "Menu item 20001 successfully deleted" {
		t.Fatalf("unexpected message %q", msg)
	}
	if ok, _ := repo.Exists(ctx, "20001"); ok {
		t.Fatalf("item still present")
	}

	if _, err := svc.DeleteMenuItem(ctx, admin, "10001", "20002"); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
}
