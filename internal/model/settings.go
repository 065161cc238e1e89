package model

// SettingsID is the key of the single venue settings record.
const SettingsID = "main_settings"

// Settings holds venue-wide configuration editable from the staff client.
type Settings struct {
	ID         string  `gorm:"primaryKey;size:32" json:"id" bson:"id"`
	HourlyRate float64 `gorm:"not null" json:"hourly_rate" bson:"hourly_rate"`
	Currency   string  `gorm:"size:16" json:"currency" bson:"currency"`
	CafeName   string  `gorm:"size:128" json:"cafe_name" bson:"cafe_name"`
	TaxRate    float64 `json:"tax_rate" bson:"tax_rate"`
}
