package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Allergen is a member of the fixed allergen enumeration.
type Allergen string

const (
	AllergenMilk        Allergen = "milk"
	AllergenEggs        Allergen = "eggs"
	AllergenFish        Allergen = "fish"
	AllergenTreeNuts    Allergen = "tree_nuts"
	AllergenWheat       Allergen = "wheat"
	AllergenCrustaceans Allergen = "crustaceans"
	AllergenShellfish   Allergen = "shellfish"
	AllergenGlutenFree  Allergen = "gluten_free"
	AllergenPeanuts     Allergen = "peanuts"
	AllergenSoybeans    Allergen = "soybeans"
	AllergenSesame      Allergen = "sesame"
)

// DietaryCategory is a member of the fixed dietary-category enumeration.
type DietaryCategory string

const (
	DietaryVegan      DietaryCategory = "vegan"
	DietaryVegetarian DietaryCategory = "vegetarian"
)

var validAllergens = map[string]struct{}{
	string(AllergenMilk):        {},
	string(AllergenEggs):        {},
	string(AllergenFish):        {},
	string(AllergenTreeNuts):    {},
	string(AllergenWheat):       {},
	string(AllergenCrustaceans): {},
	string(AllergenShellfish):   {},
	string(AllergenGlutenFree):  {},
	string(AllergenPeanuts):     {},
	string(AllergenSoybeans):    {},
	string(AllergenSesame):      {},
}

var validDietaryCategories = map[string]struct{}{
	string(DietaryVegan):      {},
	string(DietaryVegetarian): {},
}

// MenuItem belongs to one restaurant; RestaurantID never changes after creation.
type MenuItem struct {
	ID                string   `json:"id" bson:"_id"`
	Name              string   `json:"name" bson:"name"`
	Description       string   `json:"description" bson:"description"`
	Price             float64  `json:"price" bson:"price"`
	Allergens         []string `json:"allergens" bson:"allergens"`
	DietaryCategories []string `json:"dietaryCategories" bson:"dietary_categories"`
	RestaurantID      string   `json:"restaurant_id" bson:"restaurant_id"`
}

// Validate checks the allergen and dietary-category sets against their
// enumerations. The returned error names every offending value.
func (m *MenuItem) Validate() error {
	if bad := invalidValues(m.Allergens, validAllergens); len(bad) > 0 {
		return fmt.Errorf("%w: invalid allergens: %s", ErrInvalidInput, strings.Join(bad, ", "))
	}
	if bad := invalidValues(m.DietaryCategories, validDietaryCategories); len(bad) > 0 {
		return fmt.Errorf("%w: invalid dietary categories: %s", ErrInvalidInput, strings.Join(bad, ", "))
	}
	return nil
}

// HasDietaryCategory reports exact membership of category.
func (m *MenuItem) HasDietaryCategory(category string) bool {
	for _, c := range m.DietaryCategories {
		if c == category {
			return true
		}
	}
	return false
}

// ContainsAnyAllergen reports whether the item lists at least one of allergens.
func (m *MenuItem) ContainsAnyAllergen(allergens []string) bool {
	for _, a := range m.Allergens {
		for _, excluded := range allergens {
			if a == excluded {
				return true
			}
		}
	}
	return false
}

// invalidValues returns the distinct values not present in valid, sorted.
func invalidValues(values []string, valid map[string]struct{}) []string {
	seen := make(map[string]struct{})
	var bad []string
	for _, v := range values {
		if _, ok := valid[v]; ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		bad = append(bad, v)
	}
	sort.Strings(bad)
	return bad
}
