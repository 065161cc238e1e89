package model

import "time"

// Withdrawal categories.
const (
	WithdrawalExpense = "expense"
	WithdrawalCash    = "withdrawal"
)

// Withdrawal is cash taken out of the drawer, either as an expense or a withdrawal.
type Withdrawal struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id" bson:"id"`
	Amount      float64   `gorm:"not null" json:"amount" bson:"amount"`
	Description string    `gorm:"size:512;not null" json:"description" bson:"description"`
	Category    string    `gorm:"size:32;not null" json:"category" bson:"category"`
	Date        time.Time `gorm:"not null;index" json:"date" bson:"date"`
}
