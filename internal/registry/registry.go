// Package registry is the authority on the device fleet and its occupancy flag.
package registry

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"console-cafe-backend/internal/apperr"
	"console-cafe-backend/internal/model"
	"console-cafe-backend/internal/store"
)

// Registry serves device reads and manual status changes.
type Registry struct {
	store store.Store
	log   *zap.Logger
}

func New(s store.Store, log *zap.Logger) *Registry {
	return &Registry{store: s, log: log}
}

func (r *Registry) List(ctx context.Context) ([]model.Device, error) {
	return r.store.ListDevices(ctx)
}

func (r *Registry) Get(ctx context.Context, id string) (*model.Device, error) {
	device, err := r.store.GetDevice(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("Device", id)
	}
	return device, err
}

// SetStatus overwrites the device status. It does not touch
// current_session_id; session transitions go through the ledger.
func (r *Registry) SetStatus(ctx context.Context, id string, status model.DeviceStatus) error {
	if !status.Valid() {
		return apperr.Validation("invalid device status %q: want available, occupied or maintenance", status)
	}
	err := r.store.UpdateDeviceStatus(ctx, id, status)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("Device", id)
	}
	if err != nil {
		return err
	}
	r.log.Info("device status updated", zap.String("device_id", id), zap.String("status", string(status)))
	return nil
}

// DeviceID returns the stable id of the n-th seeded device.
func DeviceID(n int) string {
	return fmt.Sprintf("device_%d", n)
}

// Seed creates count available devices if the registry is empty. It never
// reseeds once any device exists.
func (r *Registry) Seed(ctx context.Context, count int, nameFormat string) (bool, error) {
	n, err := r.store.CountDevices(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	devices := make([]model.Device, 0, count)
	for i := 1; i <= count; i++ {
		devices = append(devices, model.Device{
			ID:     DeviceID(i),
			Name:   fmt.Sprintf(nameFormat, i),
			Status: model.DeviceAvailable,
		})
	}
	if err := r.store.CreateDevices(ctx, devices); err != nil {
		return false, err
	}
	r.log.Info("seeded device fleet", zap.Int("count", count))
	return true, nil
}
