package model

// Inventory categories.
const (
	CategoryDrinks            = "drinks"
	CategorySnacks            = "snacks"
	CategoryGamingAccessories = "gaming_accessories"
)

// InventoryItem is a stocked product.
type InventoryItem struct {
	ID           string  `gorm:"primaryKey;size:36" json:"id" bson:"id"`
	Name         string  `gorm:"size:256;not null" json:"name" bson:"name"`
	Category     string  `gorm:"size:32;not null;index" json:"category" bson:"category"`
	Quantity     int     `gorm:"not null" json:"quantity" bson:"quantity"`
	Price        float64 `gorm:"not null" json:"price" bson:"price"`
	Cost         float64 `gorm:"not null" json:"cost" bson:"cost"`
	ReorderLevel int     `gorm:"not null" json:"reorder_level" bson:"reorder_level"`
}
