package domain

// Identity is the record held by the identity provider.
type Identity struct {
	UID          string
	Email        string
	DisplayName  string
	PasswordHash string
	CreatedAt    int64
}

// User is the profile stored alongside the identity, keyed by uid.
type User struct {
	UID            string `json:"uid"`
	Email          string `json:"email"`
	Name           string `json:"name,omitempty"`
	RestaurantName string `json:"restaurantName,omitempty"`
	IsAdmin        bool   `json:"is_admin"`
	RestaurantID   string `json:"restaurant_id,omitempty"`
	CreatedAt      int64  `json:"created_at"`
}

// UserListItem is the admin view of a user account.
type UserListItem struct {
	UID            string `json:"uid"`
	Email          string `json:"email"`
	Name           string `json:"name,omitempty"`
	IsAdmin        bool   `json:"is_admin"`
	RestaurantName string `json:"restaurant_name,omitempty"`
	CreatedAt      int64  `json:"created_at"`
}
