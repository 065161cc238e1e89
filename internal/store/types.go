package store

import (
	"errors"
	"time"

	"console-cafe-backend/internal/model"
)

var (
	// ErrNotFound is returned when a filter matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a conditional write finds the record in another state.
	ErrConflict = errors.New("record state conflict")
)

// SessionFilter narrows ListSessions. Zero fields do not filter.
type SessionFilter struct {
	Status      model.SessionStatus
	DeviceID    string
	StartedFrom *time.Time // start_time >= StartedFrom
	EndedFrom   *time.Time // end_time >= EndedFrom
}

// Active is the filter for open sessions.
func Active() SessionFilter {
	return SessionFilter{Status: model.SessionActive}
}
