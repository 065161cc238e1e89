// Package dashboard derives the live venue snapshot from devices and sessions.
package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"console-cafe-backend/internal/clock"
	"console-cafe-backend/internal/model"
	"console-cafe-backend/internal/store"
)

type DeviceCounts struct {
	Total       int `json:"total"`
	Available   int `json:"available"`
	Occupied    int `json:"occupied"`
	Maintenance int `json:"maintenance"`
}

type SessionCounts struct {
	Active     int `json:"active"`
	TodayTotal int `json:"today_total"`
}

type Revenue struct {
	Today float64 `json:"today"`
}

// Snapshot is the dashboard payload. It is recomputed on every request.
type Snapshot struct {
	Devices  DeviceCounts  `json:"devices"`
	Sessions SessionCounts `json:"sessions"`
	Revenue  Revenue       `json:"revenue"`
}

type Aggregator struct {
	store store.Store
	clock clock.Clock
	loc   *time.Location
}

// New returns an Aggregator whose day starts at midnight in loc.
func New(s store.Store, c clock.Clock, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{store: s, clock: c, loc: loc}
}

// StartOfDay returns local midnight of the day containing now.
func (a *Aggregator) StartOfDay(now time.Time) time.Time {
	local := now.In(a.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, a.loc)
}

func (a *Aggregator) Snapshot(ctx context.Context) (*Snapshot, error) {
	devices, err := a.store.ListDevices(ctx)
	if err != nil {
		return nil, err
	}

	var snap Snapshot
	snap.Devices.Total = len(devices)
	for _, d := range devices {
		switch d.Status {
		case model.DeviceAvailable:
			snap.Devices.Available++
		case model.DeviceOccupied:
			snap.Devices.Occupied++
		}
	}
	snap.Devices.Maintenance = snap.Devices.Total - snap.Devices.Available - snap.Devices.Occupied

	midnight := a.StartOfDay(a.clock.Now())

	active, err := a.store.ListSessions(ctx, store.Active())
	if err != nil {
		return nil, err
	}
	snap.Sessions.Active = len(active)

	startedToday, err := a.store.ListSessions(ctx, store.SessionFilter{StartedFrom: &midnight})
	if err != nil {
		return nil, err
	}
	snap.Sessions.TodayTotal = len(startedToday)

	endedToday, err := a.store.ListSessions(ctx, store.SessionFilter{
		Status:    model.SessionCompleted,
		EndedFrom: &midnight,
	})
	if err != nil {
		return nil, err
	}
	revenue := decimal.Zero
	for _, s := range endedToday {
		if s.TotalCost != nil {
			revenue = revenue.Add(decimal.NewFromFloat(*s.TotalCost))
		}
	}
	snap.Revenue.Today = revenue.Round(2).InexactFloat64()

	return &snap, nil
}
