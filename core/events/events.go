// Package events defines the domain events published on the internal bus.
// Observability sinks subscribe to them; the schedule manager never talks
// to a sink directly.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/escala-app/escala/core/model"
)

// BoardRefreshed is published after every wholesale reload of the
// assignment and volunteer collections, successful or not.
type BoardRefreshed struct {
	Period     model.Period
	Slots      int
	Vacant     int
	Overloaded int
	Unassigned int
	Err        error
	Time       time.Time
}

// SlotCommitted is published when an edit session's update request has
// been answered, whatever the outcome.
type SlotCommitted struct {
	SessionID   uuid.UUID
	Key         model.SlotKey
	VolunteerID *int64
	Err         error
	Latency     time.Duration
	Time        time.Time
}

// BulkKind identifies a bulk remote operation.
type BulkKind string

const (
	BulkCreateEvents     BulkKind = "create_events"
	BulkGenerateSchedule BulkKind = "generate_schedule"
)

// BulkOperation is published when a bulk remote call returns.
type BulkOperation struct {
	Kind     BulkKind
	Period   model.Period
	Err      error
	Duration time.Duration
	Time     time.Time
}
