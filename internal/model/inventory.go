package model

import "time"

// Category classifies an inventory item.
type Category string

const (
	// CategoryEssential covers pantry staples with a long shelf life.
	CategoryEssential Category = "essential"
	// CategoryFresh covers perishables kept in the fridge.
	CategoryFresh Category = "fresh"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c == CategoryEssential || c == CategoryFresh
}

// InventoryItem is a pantry or fridge entry owned by exactly one user.
type InventoryItem struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"user_id"`
	Name      string    `json:"name" bson:"name"`
	Quantity  float64   `json:"quantity" bson:"quantity"`
	Unit      string    `json:"unit" bson:"unit"`
	Category  Category  `json:"category" bson:"category"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// InventoryInput carries the fields of a new inventory item.
type InventoryInput struct {
	Name     string
	Quantity float64
	Unit     string
	Category Category
}

// InventoryUpdate carries a partial update; nil fields are left unchanged.
type InventoryUpdate struct {
	Name     *string
	Quantity *float64
	Unit     *string
	Category *Category
}

// Apply copies the supplied fields onto item.
func (u InventoryUpdate) Apply(item *InventoryItem) {
	if u.Name != nil {
		item.Name = *u.Name
	}
	if u.Quantity != nil {
		item.Quantity = *u.Quantity
	}
	if u.Unit != nil {
		item.Unit = *u.Unit
	}
	if u.Category != nil {
		item.Category = *u.Category
	}
}
