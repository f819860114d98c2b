package schedule

import (
	"context"
	"io"

	"github.com/escala-app/escala/core/model"
)

// Gateway is the remote roster backend the board consumes. All identifiers
// are opaque positive integers owned by the remote side; the ministry the
// calls are scoped to is part of the client's configuration.
type Gateway interface {
	// FetchAssignments returns the flat slot collection of the period.
	FetchAssignments(ctx context.Context, period model.Period) ([]model.Slot, error)
	// FetchVolunteers returns the roster, active volunteers only when
	// activeOnly is set.
	FetchVolunteers(ctx context.Context, activeOnly bool) ([]model.Volunteer, error)
	// EligibleCandidates returns the volunteers eligible for the given
	// (role, event) pair. Eligibility is event-aware: it accounts for the
	// event's date and the volunteer's availability, not just role
	// capability.
	EligibleCandidates(ctx context.Context, roleID, eventID int64) ([]model.Candidate, error)
	// CommitSlot reassigns or vacates a single slot.
	CommitSlot(ctx context.Context, update model.SlotUpdate) error
	// CreateEvents creates the period's events, replacing existing ones.
	CreateEvents(ctx context.Context, period model.Period) error
	// GenerateSchedule runs the remote solver, replacing the period's
	// assignments. Opaque to the board.
	GenerateSchedule(ctx context.Context, period model.Period) error
	// ExportPDF streams the rendered schedule document into w.
	ExportPDF(ctx context.Context, period model.Period, w io.Writer) error
}
