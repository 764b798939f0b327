package domain

// Restaurant is owned by exactly one user; OwnerUID never changes after creation.
type Restaurant struct {
	ID          string `json:"id" bson:"_id"`
	Name        string `json:"name" bson:"name"`
	Address     string `json:"address" bson:"address"`
	Phone       string `json:"phone" bson:"phone"`
	CuisineType string `json:"cuisine_type" bson:"cuisine_type"`
	OwnerUID    string `json:"owner_uid" bson:"owner_uid"`
	CreatedAt   int64  `json:"created_at,omitempty" bson:"created_at"`
}
