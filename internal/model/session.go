package model

import "time"

// SessionStatus is the lifecycle state of a Session.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

// Session is a timed, billed usage period of one device.
// EndTime and TotalCost stay nil while the session is active.
type Session struct {
	ID           string        `gorm:"primaryKey;size:36" json:"id" bson:"id"`
	DeviceID     string        `gorm:"size:64;not null;index" json:"device_id" bson:"device_id"`
	CustomerName string        `gorm:"size:256;not null" json:"customer_name" bson:"customer_name"`
	StartTime    time.Time     `gorm:"not null;index" json:"start_time" bson:"start_time"`
	EndTime      *time.Time    `gorm:"index" json:"end_time" bson:"end_time"`
	HourlyRate   float64       `gorm:"not null" json:"hourly_rate" bson:"hourly_rate"`
	TotalCost    *float64      `json:"total_cost" bson:"total_cost"`
	Status       SessionStatus `gorm:"size:16;not null;index" json:"status" bson:"status"`
}
