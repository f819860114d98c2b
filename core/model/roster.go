package model

// Service is a named recurring meeting pattern owned by the remote roster
// store. Immutable within a rendering cycle.
type Service struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Weekday int    `json:"weekday"`
	Active  bool   `json:"active"`
}

// Event is one dated occurrence of a Service within a Period.
type Event struct {
	ID          int64  `json:"id"`
	ServiceID   int64  `json:"service_id"`
	ServiceName string `json:"service_name"`
	Date        string `json:"date"` // YYYY-MM-DD, period-stable zone
}

// Role is a function a volunteer can fill. Lower Priority displays first;
// Type is a classification passed through from the roster, not interpreted
// here.
type Role struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Priority int    `json:"priority"`
	Type     string `json:"type,omitempty"`
}

// Volunteer is supplied by the remote roster; the board never creates one.
// MonthlyCap is the maximum number of assignments per period.
type Volunteer struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Level      string `json:"level,omitempty"`
	Active     bool   `json:"active"`
	MonthlyCap int    `json:"monthly_cap"`
}

// Candidate is one entry of an eligibility list for a (role, event) pair.
type Candidate struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Utilization is the derived per-volunteer assignment count against their
// cap. It is recomputed from scratch on every refresh, never patched, so it
// cannot drift from the gateway's state.
type Utilization struct {
	Assigned int `json:"assigned"`
	Cap      int `json:"cap"`
}

// Overloaded reports whether the volunteer exceeds their cap. Reaching the
// cap exactly is not an overload.
func (u Utilization) Overloaded() bool {
	return u.Assigned > u.Cap
}
