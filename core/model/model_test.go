package model

import (
	"testing"
	"time"
)

func TestSlotKeyRoundTrip(t *testing.T) {
	k := NewSlotKey(10, 2, 0)
	if k != "10-2-0" {
		t.Fatalf("unexpected key: %s", k)
	}
	ev, role, inst, err := ParseSlotKey(k)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ev != 10 || role != 2 || inst != 0 {
		t.Fatalf("round trip mismatch: %d %d %d", ev, role, inst)
	}
}

func TestSlotKeyMalformed(t *testing.T) {
	if _, _, _, err := ParseSlotKey("not-a-key"); err == nil {
		t.Fatal("expected error for malformed key")
	}
}

func TestSlotKeyIdentity(t *testing.T) {
	a := Slot{EventID: 10, RoleID: 1, Instance: 1}
	b := Slot{EventID: 10, RoleID: 1, Instance: 1, RoleName: "Leader"}
	c := Slot{EventID: 10, RoleID: 1, Instance: 2}
	if a.Key() != b.Key() {
		t.Fatal("same triple must yield equal keys")
	}
	if a.Key() == c.Key() {
		t.Fatal("distinct instance must yield distinct keys")
	}
}

func TestUtilizationOverloaded(t *testing.T) {
	cases := []struct {
		assigned, cap int
		want          bool
	}{
		{0, 2, false},
		{2, 2, false}, // equality is not overload
		{3, 2, true},
	}
	for _, c := range cases {
		u := Utilization{Assigned: c.assigned, Cap: c.cap}
		if u.Overloaded() != c.want {
			t.Errorf("Overloaded(%d/%d) = %v, want %v", c.assigned, c.cap, !c.want, c.want)
		}
	}
}

func TestPeriodValidate(t *testing.T) {
	if err := (Period{Year: 2025, Month: 6}).Validate(); err != nil {
		t.Fatalf("valid period rejected: %v", err)
	}
	if err := (Period{Year: 2025, Month: 13}).Validate(); err == nil {
		t.Fatal("month 13 accepted")
	}
	if err := (Period{Year: 0, Month: 1}).Validate(); err == nil {
		t.Fatal("year 0 accepted")
	}
}

func TestPeriodContains(t *testing.T) {
	p := Period{Year: 2025, Month: 6}
	in := time.Date(2025, 6, 30, 23, 0, 0, 0, time.UTC)
	out := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	if !p.Contains(in) {
		t.Fatal("date inside the month rejected")
	}
	if p.Contains(out) {
		t.Fatal("date outside the month accepted")
	}
}

func TestSlotVacant(t *testing.T) {
	id := int64(5)
	if (Slot{VolunteerID: &id}).Vacant() {
		t.Fatal("assigned slot reported vacant")
	}
	if !(Slot{}).Vacant() {
		t.Fatal("vacant slot reported assigned")
	}
}
