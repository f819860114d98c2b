package board

import (
	"sort"

	"github.com/escala-app/escala/core/model"
)

// EventGroup is one event column of the board: the event metadata plus its
// slots ordered by role display priority.
type EventGroup struct {
	EventID     int64        `json:"event_id"`
	ServiceName string       `json:"service_name"`
	Date        string       `json:"date"`
	Day         int          `json:"day"`
	Slots       []model.Slot `json:"slots"`
}

// ServiceGroup is one board row: all events of a service, days ascending.
type ServiceGroup struct {
	Name   string       `json:"name"`
	Events []EventGroup `json:"events"`
}

// Matrix is the fully ordered board derived from the flat slot collection.
type Matrix []ServiceGroup

// Slots flattens the matrix back into a single slot list, in display order.
func (m Matrix) Slots() []model.Slot {
	var out []model.Slot
	for _, svc := range m {
		for _, ev := range svc.Events {
			out = append(out, ev.Slots...)
		}
	}
	return out
}

// DefaultServiceOrder is the preferred display sequence for known services.
// Services absent from the sequence sort after all known ones, keeping
// their relative discovery order.
var DefaultServiceOrder = []string{"Sunday Morning", "Sunday Evening", "Thursday"}

// DefaultRoleOrder is the preferred display sequence for known roles.
var DefaultRoleOrder = []string{"Leader", "Schedule Leader", "Store", "Support"}

// Builder groups a flat slot collection into the board matrix. Ordering is
// imposed by explicit sort passes, never by map insertion order.
type Builder struct {
	serviceRank map[string]int
	roleRank    map[string]int
}

// NewBuilder creates a Builder with the given preferred orders. Empty
// sequences fall back to the defaults.
func NewBuilder(serviceOrder, roleOrder []string) *Builder {
	if len(serviceOrder) == 0 {
		serviceOrder = DefaultServiceOrder
	}
	if len(roleOrder) == 0 {
		roleOrder = DefaultRoleOrder
	}
	return &Builder{
		serviceRank: rankOf(serviceOrder),
		roleRank:    rankOf(roleOrder),
	}
}

func rankOf(names []string) map[string]int {
	m := make(map[string]int, len(names))
	for i, n := range names {
		m[n] = i
	}
	return m
}

// rank returns the preferred index for name, or a bucket past every known
// entry when the name is not in the sequence.
func rank(ranks map[string]int, name string) int {
	if r, ok := ranks[name]; ok {
		return r
	}
	return len(ranks)
}

// Build folds slots into Service -> Event groups and applies the display
// ordering: services by preferred sequence, events by calendar day
// ascending, slots by role priority. The output, flattened, holds exactly
// the input's multiset of slot identities.
func (b *Builder) Build(slots []model.Slot) Matrix {
	type serviceAcc struct {
		name   string
		seen   int // discovery order among unknown services
		events map[int64]*EventGroup
		order  []int64 // event discovery order, for deterministic pre-sort state
	}

	services := map[string]*serviceAcc{}
	var discovery []string

	for _, s := range slots {
		acc, ok := services[s.ServiceName]
		if !ok {
			acc = &serviceAcc{
				name:   s.ServiceName,
				seen:   len(discovery),
				events: map[int64]*EventGroup{},
			}
			services[s.ServiceName] = acc
			discovery = append(discovery, s.ServiceName)
		}
		ev, ok := acc.events[s.EventID]
		if !ok {
			ev = &EventGroup{
				EventID:     s.EventID,
				ServiceName: s.ServiceName,
				Date:        s.EventDate.UTC().Format("2006-01-02"),
				Day:         s.Day(),
			}
			acc.events[s.EventID] = ev
			acc.order = append(acc.order, s.EventID)
		}
		ev.Slots = append(ev.Slots, s)
	}

	names := make([]string, len(discovery))
	copy(names, discovery)
	sort.SliceStable(names, func(i, j int) bool {
		return rank(b.serviceRank, names[i]) < rank(b.serviceRank, names[j])
	})

	matrix := make(Matrix, 0, len(names))
	for _, name := range names {
		acc := services[name]
		events := make([]EventGroup, 0, len(acc.order))
		for _, id := range acc.order {
			ev := acc.events[id]
			b.sortSlots(ev.Slots)
			events = append(events, *ev)
		}
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Day < events[j].Day
		})
		matrix = append(matrix, ServiceGroup{Name: name, Events: events})
	}
	return matrix
}

// sortSlots orders the slots of one event by role display priority. The
// sort is stable: ties keep the original input order.
func (b *Builder) sortSlots(slots []model.Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		return rank(b.roleRank, slots[i].RoleName) < rank(b.roleRank, slots[j].RoleName)
	})
}
