// Package editor implements the single-slot inline edit lifecycle of the
// schedule board. At most one slot is editable at a time; opening a session
// fetches the eligibility list for the slot's (role, event) pair and
// selecting a candidate commits immediately.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/escala-app/escala/core/model"
)

// Phase is the editor lifecycle state.
type Phase int

const (
	// Idle means no slot is being edited.
	Idle Phase = iota
	// Editing means one slot has an open session with a candidate list.
	Editing
	// Committing means the session's update request is in flight.
	Committing
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	case Committing:
		return "committing"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

var (
	// ErrEditInProgress is returned when opening a slot while another
	// session is active. The active session is unaffected.
	ErrEditInProgress = errors.New("another slot is already being edited")
	// ErrNoEditSession is returned when committing or cancelling without
	// an open session.
	ErrNoEditSession = errors.New("no edit session open")
	// ErrCommitInProgress is returned when cancelling during a commit;
	// an in-flight commit cannot be aborted.
	ErrCommitInProgress = errors.New("commit in flight, cannot cancel")
	// ErrKeyMismatch is returned when an operation names a slot other
	// than the one the open session holds.
	ErrKeyMismatch = errors.New("slot key does not match the open session")
)

// Gateway is the subset of the remote gateway the editor needs.
type Gateway interface {
	EligibleCandidates(ctx context.Context, roleID, eventID int64) ([]model.Candidate, error)
	CommitSlot(ctx context.Context, update model.SlotUpdate) error
}

// Session is a read-only snapshot of the open edit session.
type Session struct {
	ID         uuid.UUID
	Phase      Phase
	Key        model.SlotKey
	Slot       model.Slot
	Candidates []model.Candidate
}

// Editor is the slot edit state machine. The zero value is not usable;
// create one with New.
type Editor struct {
	gw Gateway

	mu         sync.Mutex
	phase      Phase
	sessionID  uuid.UUID
	slot       model.Slot
	candidates []model.Candidate
}

// New creates an Editor in the Idle phase.
func New(gw Gateway) *Editor {
	return &Editor{gw: gw}
}

// State returns a snapshot of the current session. Phase Idle means the
// remaining fields are zero.
func (e *Editor) State() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := Session{ID: e.sessionID, Phase: e.phase, Slot: e.slot}
	if e.phase != Idle {
		s.Key = e.slot.Key()
		s.Candidates = append([]model.Candidate(nil), e.candidates...)
	}
	return s
}

// Open starts an edit session for the slot. It fetches the eligibility
// list for the slot's (role, event) pair and moves to Editing. The request
// is rejected with ErrEditInProgress while any session is open, so two
// eligibility fetches can never race. If the fetch fails the editor stays
// Idle and no session opens.
//
// The slot's current assignee is injected at the head of the candidate
// list when the gateway omits them, so the current assignment is always
// representable in the returned options.
func (e *Editor) Open(ctx context.Context, slot model.Slot) (Session, error) {
	e.mu.Lock()
	if e.phase != Idle {
		e.mu.Unlock()
		return Session{}, ErrEditInProgress
	}
	// Reserve the session before fetching so a concurrent Open is
	// rejected instead of issuing a second fetch.
	e.phase = Editing
	e.sessionID = uuid.New()
	e.slot = slot
	e.candidates = nil
	e.mu.Unlock()

	cands, err := e.gw.EligibleCandidates(ctx, slot.RoleID, slot.EventID)
	if err != nil {
		e.reset()
		return Session{}, fmt.Errorf("fetch eligible candidates for role %d event %d: %w", slot.RoleID, slot.EventID, err)
	}
	cands = injectCurrent(cands, slot)

	e.mu.Lock()
	e.candidates = cands
	sess := Session{ID: e.sessionID, Phase: e.phase, Key: slot.Key(), Slot: slot, Candidates: append([]model.Candidate(nil), cands...)}
	e.mu.Unlock()
	return sess, nil
}

// injectCurrent guarantees the slot's assignee appears exactly once in the
// candidate list even when they became ineligible after assignment.
func injectCurrent(cands []model.Candidate, slot model.Slot) []model.Candidate {
	if slot.VolunteerID == nil {
		return cands
	}
	for _, c := range cands {
		if c.ID == *slot.VolunteerID {
			return cands
		}
	}
	return append([]model.Candidate{{ID: *slot.VolunteerID, Name: slot.VolunteerName}}, cands...)
}

// Commit sends the reassignment for the open session. A nil volunteerID
// vacates the slot. Whatever the gateway answers, the session closes and
// the editor returns to Idle; the caller is responsible for re-fetching
// the assignment collection afterwards.
func (e *Editor) Commit(ctx context.Context, key model.SlotKey, volunteerID *int64) error {
	e.mu.Lock()
	switch e.phase {
	case Idle:
		e.mu.Unlock()
		return ErrNoEditSession
	case Committing:
		e.mu.Unlock()
		return ErrCommitInProgress
	}
	if e.slot.Key() != key {
		e.mu.Unlock()
		return ErrKeyMismatch
	}
	e.phase = Committing
	update := model.SlotUpdate{
		EventID:     e.slot.EventID,
		RoleID:      e.slot.RoleID,
		Instance:    e.slot.Instance,
		VolunteerID: volunteerID,
	}
	e.mu.Unlock()

	err := e.gw.CommitSlot(ctx, update)
	e.reset()
	if err != nil {
		return fmt.Errorf("commit slot %s: %w", key, err)
	}
	return nil
}

// Cancel closes the open session without any network call, mirroring the
// control losing focus with no selection change. Cancelling while Idle is
// a no-op; an in-flight commit cannot be cancelled.
func (e *Editor) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.phase {
	case Committing:
		return ErrCommitInProgress
	case Idle:
		return nil
	}
	e.phase = Idle
	e.sessionID = uuid.UUID{}
	e.slot = model.Slot{}
	e.candidates = nil
	return nil
}

func (e *Editor) reset() {
	e.mu.Lock()
	e.phase = Idle
	e.sessionID = uuid.UUID{}
	e.slot = model.Slot{}
	e.candidates = nil
	e.mu.Unlock()
}
