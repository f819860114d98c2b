// Package schedule owns the in-memory board state: the period's assignment
// and volunteer collections, the derivations over them, the single-slot
// edit workflow and the bulk operation triggers. The collections are always
// replaced wholesale after any mutating operation, never patched in place,
// so the board can never diverge from the gateway's authoritative state.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/escala-app/escala/core/board"
	"github.com/escala-app/escala/core/editor"
	"github.com/escala-app/escala/core/events"
	"github.com/escala-app/escala/core/logger"
	"github.com/escala-app/escala/core/model"
	"github.com/escala-app/escala/internal/eventbus"
)

var (
	// ErrOperationInFlight is returned when a bulk operation is
	// re-triggered while its previous run has not answered yet.
	ErrOperationInFlight = errors.New("operation already in flight")
	// ErrSlotNotFound is returned when an edit names a slot key absent
	// from the current collection.
	ErrSlotNotFound = errors.New("slot not found in current period")
)

// Config tunes the manager's derivations.
type Config struct {
	// ServiceOrder is the preferred display sequence for services.
	ServiceOrder []string `json:"service_order"`
	// RoleOrder is the preferred display sequence for roles.
	RoleOrder []string `json:"role_order"`
	// Locale selects the collation used to sort volunteer names
	// (BCP 47 tag, e.g. "pt-BR").
	Locale string `json:"locale"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Locale == "" {
		c.Locale = "pt-BR"
	}
}

// Validate checks the locale tag parses.
func (c Config) Validate() error {
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	return nil
}

// Snapshot is one consistent rendering of the board: the grouped matrix,
// the utilization map, the unassigned view and the state of the edit
// session, all derived from the same underlying collections.
type Snapshot struct {
	Period       model.Period                `json:"period"`
	Matrix       board.Matrix                `json:"matrix"`
	Utilizations map[int64]model.Utilization `json:"utilizations"`
	Unassigned   []model.Volunteer           `json:"unassigned"`
	Editing      *EditState                  `json:"editing,omitempty"`
}

// EditState is the read-only view of the open edit session.
type EditState struct {
	Key        model.SlotKey     `json:"key"`
	Phase      string            `json:"phase"`
	Candidates []model.Candidate `json:"candidates"`
}

// Manager coordinates the board. All exported methods are safe for
// concurrent use.
type Manager struct {
	gw      Gateway
	editor  *editor.Editor
	builder *board.Builder
	coll    *collate.Collator
	log     logger.Logger
	bus     eventbus.EventBus

	mu         sync.RWMutex
	period     model.Period
	slots      []model.Slot
	volunteers []model.Volunteer

	opMu       sync.Mutex
	creating   bool
	generating bool
}

// New creates a Manager for the given period. The bus may be nil when no
// observability is wired.
func New(gw Gateway, cfg Config, period model.Period, log logger.Logger, bus eventbus.EventBus) (*Manager, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := period.Validate(); err != nil {
		return nil, err
	}
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", cfg.Locale, err)
	}
	return &Manager{
		gw:      gw,
		editor:  editor.New(gw),
		builder: board.NewBuilder(cfg.ServiceOrder, cfg.RoleOrder),
		coll:    collate.New(tag),
		log:     log,
		bus:     bus,
		period:  period,
	}, nil
}

// Period returns the active (year, month) window.
func (m *Manager) Period() model.Period {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.period
}

// SetPeriod switches the board to another window. Any open edit session is
// dropped, the collections are invalidated and reloaded.
func (m *Manager) SetPeriod(ctx context.Context, p model.Period) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := m.editor.Cancel(); err != nil {
		return fmt.Errorf("cannot change period: %w", err)
	}
	m.mu.Lock()
	m.period = p
	m.slots = nil
	m.volunteers = nil
	m.mu.Unlock()
	return m.Refresh(ctx)
}

// Refresh reloads the assignment and volunteer collections from the
// gateway, in parallel, and replaces them wholesale. On failure the
// previous collections are kept and the error blocks board rendering at
// the caller's level.
func (m *Manager) Refresh(ctx context.Context) error {
	period := m.Period()

	var slots []model.Slot
	var volunteers []model.Volunteer
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		slots, err = m.gw.FetchAssignments(gctx, period)
		if err != nil {
			return fmt.Errorf("fetch assignments %s: %w", period, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		volunteers, err = m.gw.FetchVolunteers(gctx, true)
		if err != nil {
			return fmt.Errorf("fetch volunteers: %w", err)
		}
		return nil
	})
	err := g.Wait()
	if err == nil {
		m.mu.Lock()
		m.slots = slots
		m.volunteers = volunteers
		m.mu.Unlock()
		m.log.Debugw("board refreshed", map[string]any{
			"period":     period.String(),
			"slots":      len(slots),
			"volunteers": len(volunteers),
		})
	} else {
		m.log.Errorf("refresh %s: %v", period, err)
	}
	m.publishRefresh(period, err)
	return err
}

func (m *Manager) publishRefresh(period model.Period, err error) {
	if m.bus == nil {
		return
	}
	m.mu.RLock()
	slots, volunteers := m.slots, m.volunteers
	m.mu.RUnlock()
	utils := board.Utilizations(slots, volunteers)
	m.bus.Publish(events.BoardRefreshed{
		Period:     period,
		Slots:      len(slots),
		Vacant:     board.VacantCount(slots),
		Overloaded: board.OverloadedCount(utils),
		Unassigned: len(board.Unassigned(volunteers, utils, m.coll)),
		Err:        err,
		Time:       time.Now(),
	})
}

// Board derives a consistent snapshot from the current collections.
func (m *Manager) Board() Snapshot {
	m.mu.RLock()
	period := m.period
	slots := m.slots
	volunteers := m.volunteers
	m.mu.RUnlock()

	utils := board.Utilizations(slots, volunteers)
	snap := Snapshot{
		Period:       period,
		Matrix:       m.builder.Build(slots),
		Utilizations: utils,
		Unassigned:   board.Unassigned(volunteers, utils, m.coll),
	}
	if sess := m.editor.State(); sess.Phase != editor.Idle {
		snap.Editing = &EditState{
			Key:        sess.Key,
			Phase:      sess.Phase.String(),
			Candidates: sess.Candidates,
		}
	}
	return snap
}

// findSlot locates the record for the key in the current collection.
func (m *Manager) findSlot(key model.SlotKey) (model.Slot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.slots {
		if s.Key() == key {
			return s, true
		}
	}
	return model.Slot{}, false
}

// OpenSlot starts an edit session for the slot identified by key and
// returns the candidate list for its dropdown. Opening while another slot
// is in edit mode is rejected without issuing an eligibility fetch.
func (m *Manager) OpenSlot(ctx context.Context, key model.SlotKey) (editor.Session, error) {
	slot, ok := m.findSlot(key)
	if !ok {
		return editor.Session{}, fmt.Errorf("%w: %s", ErrSlotNotFound, key)
	}
	return m.editor.Open(ctx, slot)
}

// CommitSlot sends the selection for the open session, then re-fetches
// the collections so every derivation restarts from ground truth. The
// re-fetch happens whether the commit succeeded or not.
func (m *Manager) CommitSlot(ctx context.Context, key model.SlotKey, volunteerID *int64) error {
	sess := m.editor.State()
	start := time.Now()
	commitErr := m.editor.Commit(ctx, key, volunteerID)
	if errors.Is(commitErr, editor.ErrNoEditSession) ||
		errors.Is(commitErr, editor.ErrKeyMismatch) ||
		errors.Is(commitErr, editor.ErrCommitInProgress) {
		// nothing was sent, the board state is untouched
		return commitErr
	}
	if m.bus != nil {
		m.bus.Publish(events.SlotCommitted{
			SessionID:   sess.ID,
			Key:         key,
			VolunteerID: volunteerID,
			Err:         commitErr,
			Latency:     time.Since(start),
			Time:        time.Now(),
		})
	}
	refreshErr := m.Refresh(ctx)
	if commitErr != nil {
		return commitErr
	}
	return refreshErr
}

// CancelEdit closes the open session without touching the gateway.
func (m *Manager) CancelEdit() error { return m.editor.Cancel() }

// EditState returns the editor's current session snapshot.
func (m *Manager) EditState() editor.Session { return m.editor.State() }

// CreateEvents triggers the remote bulk creation of the period's events.
// The trigger is guarded by its own in-flight flag; the collections are
// re-fetched unconditionally afterwards.
func (m *Manager) CreateEvents(ctx context.Context) error {
	return m.bulk(ctx, events.BulkCreateEvents, &m.creating, m.gw.CreateEvents)
}

// GenerateSchedule triggers the remote solver for the period. Its result
// is not interpreted; the collections are re-fetched unconditionally.
func (m *Manager) GenerateSchedule(ctx context.Context) error {
	return m.bulk(ctx, events.BulkGenerateSchedule, &m.generating, m.gw.GenerateSchedule)
}

func (m *Manager) bulk(ctx context.Context, kind events.BulkKind, flag *bool, op func(context.Context, model.Period) error) error {
	m.opMu.Lock()
	if *flag {
		m.opMu.Unlock()
		return fmt.Errorf("%s: %w", kind, ErrOperationInFlight)
	}
	*flag = true
	m.opMu.Unlock()
	defer func() {
		m.opMu.Lock()
		*flag = false
		m.opMu.Unlock()
	}()

	period := m.Period()
	start := time.Now()
	err := op(ctx, period)
	if err != nil {
		m.log.Errorf("%s %s: %v", kind, period, err)
	} else {
		m.log.Infof("%s %s done in %s", kind, period, time.Since(start).Round(time.Millisecond))
	}
	if m.bus != nil {
		m.bus.Publish(events.BulkOperation{
			Kind:     kind,
			Period:   period,
			Err:      err,
			Duration: time.Since(start),
			Time:     time.Now(),
		})
	}
	refreshErr := m.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	return refreshErr
}

// ExportPDF streams the period's rendered schedule into w.
func (m *Manager) ExportPDF(ctx context.Context, w io.Writer) error {
	return m.gw.ExportPDF(ctx, m.Period(), w)
}
