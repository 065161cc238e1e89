package model

import "time"

// OrderStatus tracks a café order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderItem is one line of a café order.
type OrderItem struct {
	Name     string  `json:"name" bson:"name"`
	Price    float64 `json:"price" bson:"price"`
	Quantity int     `json:"quantity" bson:"quantity"`
}

// CafeOrder is a food/drink order.
type CafeOrder struct {
	ID           string      `gorm:"primaryKey;size:36" json:"id" bson:"id"`
	CustomerName string      `gorm:"size:256;not null" json:"customer_name" bson:"customer_name"`
	Items        []OrderItem `gorm:"type:text;serializer:json" json:"items" bson:"items"`
	TotalAmount  float64     `gorm:"not null" json:"total_amount" bson:"total_amount"`
	Status       OrderStatus `gorm:"size:16;not null" json:"status" bson:"status"`
	CreatedAt    time.Time   `gorm:"not null;index" json:"created_at" bson:"created_at"`
}
