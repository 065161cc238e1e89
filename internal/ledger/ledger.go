// Package ledger opens and closes billed rental sessions and keeps the
// device occupancy flag in step with them.
package ledger

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"console-cafe-backend/internal/apperr"
	"console-cafe-backend/internal/clock"
	"console-cafe-backend/internal/metrics"
	"console-cafe-backend/internal/model"
	"console-cafe-backend/internal/store"
)

// RateSource supplies the venue hourly rate for sessions started without one.
type RateSource interface {
	HourlyRate(ctx context.Context) (float64, error)
}

// StartRequest opens a session on a device.
type StartRequest struct {
	DeviceID     string   `json:"device_id" binding:"required"`
	CustomerName string   `json:"customer_name" binding:"required"`
	HourlyRate   *float64 `json:"hourly_rate" binding:"omitempty,gt=0"`
}

type Ledger struct {
	store store.Store
	rates RateSource
	clock clock.Clock
	log   *zap.Logger
}

func New(s store.Store, rates RateSource, c clock.Clock, log *zap.Logger) *Ledger {
	return &Ledger{store: s, rates: rates, clock: c, log: log}
}

// Start creates an active session and marks its device occupied in one
// transaction. Only available devices can be started, and the occupy write
// itself is conditional on the device still being available.
func (l *Ledger) Start(ctx context.Context, req StartRequest) (*model.Session, error) {
	deviceID := strings.TrimSpace(req.DeviceID)
	customer := strings.TrimSpace(req.CustomerName)
	if deviceID == "" {
		return nil, apperr.Validation("device_id is required")
	}
	if customer == "" {
		return nil, apperr.Validation("customer_name is required")
	}

	var rate float64
	if req.HourlyRate != nil {
		rate = *req.HourlyRate
	} else {
		var err error
		if rate, err = l.rates.HourlyRate(ctx); err != nil {
			return nil, err
		}
	}
	if !(rate > 0) || math.IsInf(rate, 1) {
		return nil, apperr.Validation("hourly_rate must be greater than 0")
	}

	session := &model.Session{
		ID:           uuid.NewString(),
		DeviceID:     deviceID,
		CustomerName: customer,
		StartTime:    l.clock.Now().UTC(),
		HourlyRate:   rate,
		Status:       model.SessionActive,
	}

	err := l.store.InTx(ctx, func(ctx context.Context, tx store.Store) error {
		device, err := tx.GetDevice(ctx, deviceID)
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("Device", deviceID)
		}
		if err != nil {
			return err
		}
		if device.Status != model.DeviceAvailable {
			return apperr.Conflict("device %s is %s", deviceID, device.Status)
		}
		switch err := tx.OccupyDevice(ctx, deviceID, session.ID); {
		case errors.Is(err, store.ErrConflict):
			return apperr.Conflict("device %s is no longer available", deviceID)
		case errors.Is(err, store.ErrNotFound):
			return apperr.NotFound("Device", deviceID)
		case err != nil:
			return err
		}
		return tx.CreateSession(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	metrics.SessionsStarted.WithLabelValues(deviceID).Inc()
	l.log.Info("session started",
		zap.String("session_id", session.ID),
		zap.String("device_id", deviceID),
		zap.Float64("hourly_rate", rate))
	return session, nil
}

// End bills an active session up to now, completes it and frees its device.
func (l *Ledger) End(ctx context.Context, id string) (*model.Session, error) {
	var ended *model.Session

	err := l.store.InTx(ctx, func(ctx context.Context, tx store.Store) error {
		session, err := tx.GetSession(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("Session", id)
		}
		if err != nil {
			return err
		}
		if session.Status != model.SessionActive {
			return apperr.Conflict("session %s is already %s", id, session.Status)
		}

		end := l.clock.Now().UTC()
		if end.Before(session.StartTime) {
			end = session.StartTime
		}
		cost := Cost(session.StartTime, end, session.HourlyRate)

		switch err := tx.CompleteSession(ctx, id, end, cost); {
		case errors.Is(err, store.ErrConflict):
			return apperr.Conflict("session %s is already completed", id)
		case errors.Is(err, store.ErrNotFound):
			return apperr.NotFound("Session", id)
		case err != nil:
			return err
		}

		err = tx.SetDeviceOccupancy(ctx, session.DeviceID, model.DeviceAvailable, nil)
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("Device", session.DeviceID)
		}
		if err != nil {
			return err
		}

		session.EndTime = &end
		session.TotalCost = &cost
		session.Status = model.SessionCompleted
		ended = session
		return nil
	})
	if err != nil {
		return nil, err
	}

	hours, _ := Hours(ended.StartTime, *ended.EndTime).Float64()
	metrics.SessionsEnded.WithLabelValues(ended.DeviceID).Inc()
	metrics.SessionDuration.Observe(hours)
	metrics.SessionRevenue.Add(*ended.TotalCost)
	l.log.Info("session ended",
		zap.String("session_id", id),
		zap.String("device_id", ended.DeviceID),
		zap.Float64("hours", hours),
		zap.Float64("total_cost", *ended.TotalCost))
	return ended, nil
}

// List returns every session, oldest first.
func (l *Ledger) List(ctx context.Context) ([]model.Session, error) {
	return l.store.ListSessions(ctx, store.SessionFilter{})
}

func (l *Ledger) ListActive(ctx context.Context) ([]model.Session, error) {
	return l.store.ListSessions(ctx, store.Active())
}
