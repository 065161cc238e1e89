package store

import (
	"context"
	"time"

	"console-cafe-backend/internal/model"
)

// Store defines the interface for all record store operations.
type Store interface {
	// InTx runs fn against a store bound to a single transaction where the
	// backend supports one. Any error returned by fn rolls the writes back.
	InTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
	Ping(ctx context.Context) error

	CountDevices(ctx context.Context) (int64, error)
	CreateDevices(ctx context.Context, devices []model.Device) error
	ListDevices(ctx context.Context) ([]model.Device, error)
	GetDevice(ctx context.Context, id string) (*model.Device, error)
	UpdateDeviceStatus(ctx context.Context, id string, status model.DeviceStatus) error
	SetDeviceOccupancy(ctx context.Context, id string, status model.DeviceStatus, sessionID *string) error
	// OccupyDevice marks an available device occupied by sessionID; it returns
	// ErrConflict if the device exists but is not available.
	OccupyDevice(ctx context.Context, id, sessionID string) error

	CreateSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id string) (*model.Session, error)
	ListSessions(ctx context.Context, filter SessionFilter) ([]model.Session, error)
	// CompleteSession closes an active session; it returns ErrConflict if the
	// session exists but is no longer active.
	CompleteSession(ctx context.Context, id string, endTime time.Time, totalCost float64) error

	CreateCafeOrder(ctx context.Context, order *model.CafeOrder) error
	ListCafeOrders(ctx context.Context) ([]model.CafeOrder, error)
	CreateInventoryItem(ctx context.Context, item *model.InventoryItem) error
	ListInventoryItems(ctx context.Context) ([]model.InventoryItem, error)
	CreateWithdrawal(ctx context.Context, w *model.Withdrawal) error
	ListWithdrawals(ctx context.Context) ([]model.Withdrawal, error)

	GetSettings(ctx context.Context) (*model.Settings, error)
	SaveSettings(ctx context.Context, settings *model.Settings) error
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
