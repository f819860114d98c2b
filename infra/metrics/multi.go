package metrics

import (
	"errors"

	"github.com/escala-app/escala/core/events"
	coremetrics "github.com/escala-app/escala/core/metrics"
)

// MultiSink fans every event out to all configured sinks.
type MultiSink struct {
	sinks []coremetrics.Sink
}

// NewMultiSink combines multiple sinks into one.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordRefresh(ev events.BoardRefreshed) error {
	var errs []error
	for _, s := range m.sinks {
		errs = append(errs, s.RecordRefresh(ev))
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordCommit(ev events.SlotCommitted) error {
	var errs []error
	for _, s := range m.sinks {
		if r, ok := s.(coremetrics.CommitRecorder); ok {
			errs = append(errs, r.RecordCommit(ev))
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordBulk(ev events.BulkOperation) error {
	var errs []error
	for _, s := range m.sinks {
		if r, ok := s.(coremetrics.BulkRecorder); ok {
			errs = append(errs, r.RecordBulk(ev))
		}
	}
	return errors.Join(errs...)
}
