package model

import (
	"fmt"
	"time"
)

// Period selects the (year, month) window the board displays. All fetches are
// scoped to it; changing it invalidates every derived structure.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Validate checks that the period designates a real calendar month.
func (p Period) Validate() error {
	if p.Year < 1 {
		return fmt.Errorf("year must be positive, got %d", p.Year)
	}
	if p.Month < 1 || p.Month > 12 {
		return fmt.Errorf("month must be in [1,12], got %d", p.Month)
	}
	return nil
}

// Contains reports whether t falls inside the period. Dates carry no
// time-of-day significance and are interpreted in UTC so that grouping by
// calendar day cannot shift across a zone boundary.
func (p Period) Contains(t time.Time) bool {
	t = t.UTC()
	return t.Year() == p.Year && int(t.Month()) == p.Month
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}
