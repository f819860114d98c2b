package metrics

import "github.com/escala-app/escala/core/events"

// Sink records board events for observability purposes. Implementations
// should tolerate partial data and never block the caller for long.
type Sink interface {
	RecordRefresh(ev events.BoardRefreshed) error
}

// CommitRecorder records slot commit outcomes. Sinks implement it when the
// backend can express per-commit latency.
type CommitRecorder interface {
	RecordCommit(ev events.SlotCommitted) error
}

// BulkRecorder records bulk operation outcomes.
type BulkRecorder interface {
	RecordBulk(ev events.BulkOperation) error
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) RecordRefresh(events.BoardRefreshed) error { return nil }
func (NopSink) RecordCommit(events.SlotCommitted) error   { return nil }
func (NopSink) RecordBulk(events.BulkOperation) error     { return nil }
