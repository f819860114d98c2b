package board

import (
	"testing"
	"time"

	"github.com/escala-app/escala/core/model"
)

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func vid(v int64) *int64 { return &v }

func slot(event, role int64, inst int, roleName, svc string, d int, vol *int64) model.Slot {
	s := model.Slot{
		EventID:     event,
		RoleID:      role,
		Instance:    inst,
		RoleName:    roleName,
		ServiceName: svc,
		EventDate:   day(d),
		VolunteerID: vol,
	}
	return s
}

func TestBuildPreservesSlotMultiset(t *testing.T) {
	in := []model.Slot{
		slot(10, 1, 0, "Leader", "Thursday", 5, vid(5)),
		slot(10, 2, 0, "Support", "Thursday", 5, nil),
		slot(10, 2, 1, "Support", "Thursday", 5, vid(7)),
		slot(11, 1, 0, "Leader", "Sunday Morning", 1, vid(5)),
	}
	m := NewBuilder(nil, nil).Build(in)
	out := m.Slots()
	if len(out) != len(in) {
		t.Fatalf("flattened %d slots, want %d", len(out), len(in))
	}
	want := map[model.SlotKey]int{}
	for _, s := range in {
		want[s.Key()]++
	}
	for _, s := range out {
		want[s.Key()]--
	}
	for k, n := range want {
		if n != 0 {
			t.Errorf("identity %s lost or duplicated (delta %d)", k, n)
		}
	}
}

func TestBuildServiceOrder(t *testing.T) {
	in := []model.Slot{
		slot(1, 1, 0, "Leader", "Thursday", 3, nil),
		slot(2, 1, 0, "Leader", "Midnight Vigil", 4, nil), // unknown service
		slot(3, 1, 0, "Leader", "Sunday Morning", 1, nil),
		slot(4, 1, 0, "Leader", "Open Air", 2, nil), // unknown service
	}
	m := NewBuilder(nil, nil).Build(in)
	got := make([]string, len(m))
	for i, g := range m {
		got[i] = g.Name
	}
	want := []string{"Sunday Morning", "Thursday", "Midnight Vigil", "Open Air"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("service order %v, want %v", got, want)
		}
	}
}

func TestBuildEventsByDayAscending(t *testing.T) {
	in := []model.Slot{
		slot(3, 1, 0, "Leader", "Thursday", 19, nil),
		slot(1, 1, 0, "Leader", "Thursday", 5, nil),
		slot(2, 1, 0, "Leader", "Thursday", 12, nil),
	}
	m := NewBuilder(nil, nil).Build(in)
	if len(m) != 1 {
		t.Fatalf("expected one service group, got %d", len(m))
	}
	days := make([]int, 0, 3)
	for _, ev := range m[0].Events {
		days = append(days, ev.Day)
	}
	for i := 1; i < len(days); i++ {
		if days[i-1] > days[i] {
			t.Fatalf("events not day-ascending: %v", days)
		}
	}
}

func TestBuildRoleOrderStable(t *testing.T) {
	in := []model.Slot{
		slot(10, 4, 0, "Support", "Thursday", 5, vid(1)),
		slot(10, 9, 0, "Usher", "Thursday", 5, nil), // unknown role, appeared first among unknowns
		slot(10, 4, 1, "Support", "Thursday", 5, vid(2)),
		slot(10, 8, 0, "Greeter", "Thursday", 5, nil), // unknown role
		slot(10, 1, 0, "Leader", "Thursday", 5, vid(3)),
	}
	m := NewBuilder(nil, nil).Build(in)
	got := m[0].Events[0].Slots
	wantNames := []string{"Leader", "Support", "Support", "Usher", "Greeter"}
	for i, s := range got {
		if s.RoleName != wantNames[i] {
			t.Fatalf("slot %d is %s, want %s (full: %v)", i, s.RoleName, wantNames[i], names(got))
		}
	}
	// stability: Support #0 before Support #1
	if got[1].Instance != 0 || got[2].Instance != 1 {
		t.Fatalf("tie order not preserved: instances %d,%d", got[1].Instance, got[2].Instance)
	}
}

func names(slots []model.Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.RoleName
	}
	return out
}

func TestBuildEmptyInput(t *testing.T) {
	m := NewBuilder(nil, nil).Build(nil)
	if len(m) != 0 {
		t.Fatalf("empty input must yield empty matrix, got %d groups", len(m))
	}
}

func TestBuildCustomOrders(t *testing.T) {
	b := NewBuilder([]string{"B", "A"}, []string{"second", "first"})
	in := []model.Slot{
		slot(1, 1, 0, "first", "A", 1, nil),
		slot(1, 2, 0, "second", "A", 1, nil),
		slot(2, 1, 0, "first", "B", 1, nil),
	}
	m := b.Build(in)
	if m[0].Name != "B" || m[1].Name != "A" {
		t.Fatalf("custom service order ignored: %s, %s", m[0].Name, m[1].Name)
	}
	if m[1].Events[0].Slots[0].RoleName != "second" {
		t.Fatal("custom role order ignored")
	}
}

func TestUtilizations(t *testing.T) {
	slots := []model.Slot{
		slot(10, 1, 0, "Leader", "Thursday", 5, vid(5)),
		slot(10, 2, 0, "Support", "Thursday", 5, nil),
		slot(11, 1, 0, "Leader", "Thursday", 12, vid(5)),
		slot(11, 2, 0, "Support", "Thursday", 12, vid(99)), // not in roster
	}
	vols := []model.Volunteer{
		{ID: 5, Name: "Ana", MonthlyCap: 2},
		{ID: 6, Name: "Bruno", MonthlyCap: 1},
	}
	utils := Utilizations(slots, vols)
	if len(utils) != 2 {
		t.Fatalf("expected entries for every roster volunteer, got %d", len(utils))
	}
	if u := utils[5]; u.Assigned != 2 || u.Cap != 2 || u.Overloaded() {
		t.Fatalf("volunteer 5: %+v", u)
	}
	if u := utils[6]; u.Assigned != 0 || u.Cap != 1 {
		t.Fatalf("volunteer 6: %+v", u)
	}
	if _, ok := utils[99]; ok {
		t.Fatal("assignment outside the roster produced an entry")
	}
}

func TestUtilizationsOverloadAfterExtraAssignment(t *testing.T) {
	slots := []model.Slot{
		slot(10, 1, 0, "Leader", "Thursday", 5, vid(5)),
		slot(10, 2, 0, "Support", "Thursday", 5, vid(5)),
		slot(11, 1, 0, "Leader", "Thursday", 12, vid(5)),
	}
	vols := []model.Volunteer{{ID: 5, Name: "Ana", MonthlyCap: 2}}
	u := Utilizations(slots, vols)[5]
	if u.Assigned != 3 || !u.Overloaded() {
		t.Fatalf("expected 3/2 overloaded, got %+v", u)
	}
}

func TestUnassigned(t *testing.T) {
	slots := []model.Slot{slot(10, 1, 0, "Leader", "Thursday", 5, vid(2))}
	vols := []model.Volunteer{
		{ID: 1, Name: "Érica", MonthlyCap: 2},
		{ID: 2, Name: "Bruno", MonthlyCap: 2},
		{ID: 3, Name: "ana", MonthlyCap: 2},
	}
	utils := Utilizations(slots, vols)
	got := Unassigned(vols, utils, nil)
	if len(got) != 2 {
		t.Fatalf("expected 2 unassigned, got %d", len(got))
	}
	// locale-aware: "ana" before "Érica" regardless of case and accents
	if got[0].ID != 3 || got[1].ID != 1 {
		t.Fatalf("order: got %s, %s", got[0].Name, got[1].Name)
	}
	for _, v := range got {
		if v.ID == 2 {
			t.Fatal("assigned volunteer listed as unassigned")
		}
	}
}

func TestUnassignedEmptyWhenAllScheduled(t *testing.T) {
	slots := []model.Slot{slot(10, 1, 0, "Leader", "Thursday", 5, vid(5))}
	vols := []model.Volunteer{{ID: 5, Name: "Ana", MonthlyCap: 2}}
	got := Unassigned(vols, Utilizations(slots, vols), nil)
	if len(got) != 0 {
		t.Fatalf("expected empty unassigned view, got %d", len(got))
	}
}

func TestCounts(t *testing.T) {
	slots := []model.Slot{
		slot(10, 1, 0, "Leader", "Thursday", 5, vid(5)),
		slot(10, 2, 0, "Support", "Thursday", 5, nil),
		slot(10, 2, 1, "Support", "Thursday", 5, nil),
	}
	if n := VacantCount(slots); n != 2 {
		t.Fatalf("vacant count %d, want 2", n)
	}
	utils := map[int64]model.Utilization{
		5: {Assigned: 3, Cap: 2},
		6: {Assigned: 2, Cap: 2},
	}
	if n := OverloadedCount(utils); n != 1 {
		t.Fatalf("overloaded count %d, want 1", n)
	}
}
