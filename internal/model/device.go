package model

// DeviceStatus is the occupancy state of a rentable station.
type DeviceStatus string

const (
	DeviceAvailable   DeviceStatus = "available"
	DeviceOccupied    DeviceStatus = "occupied"
	DeviceMaintenance DeviceStatus = "maintenance"
)

// Valid reports whether s is one of the enumerated statuses.
func (s DeviceStatus) Valid() bool {
	switch s {
	case DeviceAvailable, DeviceOccupied, DeviceMaintenance:
		return true
	}
	return false
}

// Device represents a physical console station.
// CurrentSessionID is non-nil exactly when Status is occupied.
type Device struct {
	ID               string       `gorm:"primaryKey;size:64" json:"id" bson:"id"`
	Name             string       `gorm:"size:128;not null" json:"name" bson:"name"`
	Status           DeviceStatus `gorm:"size:16;not null;index" json:"status" bson:"status"`
	CurrentSessionID *string      `gorm:"size:36" json:"current_session_id" bson:"current_session_id"`
}
