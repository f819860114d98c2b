package model

import (
	"fmt"
	"time"
)

// SlotKey is the composite identity of one fillable position. Identifiers
// are opaque positive integers, so the separator can never occur inside a
// component and two keys are equal iff they denote the same position.
type SlotKey string

// NewSlotKey builds the key for the (event, role, instance) triple.
func NewSlotKey(eventID, roleID int64, instance int) SlotKey {
	return SlotKey(fmt.Sprintf("%d-%d-%d", eventID, roleID, instance))
}

// ParseSlotKey splits a key back into its identity triple.
func ParseSlotKey(k SlotKey) (eventID, roleID int64, instance int, err error) {
	if _, err = fmt.Sscanf(string(k), "%d-%d-%d", &eventID, &roleID, &instance); err != nil {
		return 0, 0, 0, fmt.Errorf("malformed slot key %q: %w", k, err)
	}
	return eventID, roleID, instance, nil
}

// Slot is one assignment record of the period: a role-instance position
// within an event, possibly vacant. The (EventID, RoleID, Instance) triple
// is unique across the period and is the sole stable identity used for
// grouping, edit tracking and lookups.
type Slot struct {
	EventID  int64 `json:"event_id"`
	RoleID   int64 `json:"role_id"`
	Instance int   `json:"instance"`

	RoleName     string    `json:"role_name"`
	RolePriority int       `json:"role_priority,omitempty"`
	ServiceName  string    `json:"service_name"`
	EventDate    time.Time `json:"event_date"`

	// VolunteerID is nil when the position is vacant.
	VolunteerID   *int64 `json:"volunteer_id"`
	VolunteerName string `json:"volunteer_name,omitempty"`
}

// Key returns the stable composite identity of the slot.
func (s Slot) Key() SlotKey {
	return NewSlotKey(s.EventID, s.RoleID, s.Instance)
}

// Vacant reports whether no volunteer fills the slot.
func (s Slot) Vacant() bool { return s.VolunteerID == nil }

// Day returns the UTC calendar day of the owning event.
func (s Slot) Day() int { return s.EventDate.UTC().Day() }

// SlotUpdate is a single-slot reassignment sent to the gateway. A nil
// VolunteerID vacates the position.
type SlotUpdate struct {
	EventID     int64  `json:"event_id"`
	RoleID      int64  `json:"role_id"`
	Instance    int    `json:"instance"`
	VolunteerID *int64 `json:"volunteer_id"`
}

// Key returns the identity of the slot being updated.
func (u SlotUpdate) Key() SlotKey {
	return NewSlotKey(u.EventID, u.RoleID, u.Instance)
}
