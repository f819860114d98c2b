package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/escala-app/escala/core/events"
	coremetrics "github.com/escala-app/escala/core/metrics"
)

// PromSink records board events in Prometheus metrics.
type PromSink struct {
	refreshes     *prometheus.CounterVec
	commits       *prometheus.CounterVec
	commitLatency *prometheus.HistogramVec
	bulkOps       *prometheus.CounterVec
	slots         prometheus.Gauge
	vacant        prometheus.Gauge
	overloaded    prometheus.Gauge
	unassigned    prometheus.Gauge
}

// NewPromSink registers board metrics on the default Prometheus
// registerer. The metrics server is started separately.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "board_refreshes_total",
			Help: "Total number of board refreshes",
		}, []string{"outcome"}),
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "slot_commits_total",
			Help: "Total number of slot commit attempts",
		}, []string{"outcome"}),
		commitLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "slot_commit_seconds",
			Help:    "Time between commit send and gateway response",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
		bulkOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bulk_operations_total",
			Help: "Total number of bulk gateway operations",
		}, []string{"kind", "outcome"}),
		slots: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "board_slots",
			Help: "Number of slots in the current period",
		}),
		vacant: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "board_vacant_slots",
			Help: "Number of vacant slots in the current period",
		}),
		overloaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "board_overloaded_volunteers",
			Help: "Number of volunteers assigned above their monthly cap",
		}),
		unassigned: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "board_unassigned_volunteers",
			Help: "Number of active volunteers with zero assignments",
		}),
	}

	collectors := map[string]prometheus.Collector{
		"refreshes":      s.refreshes,
		"commits":        s.commits,
		"commit_latency": s.commitLatency,
		"bulk_ops":       s.bulkOps,
		"slots":          s.slots,
		"vacant":         s.vacant,
		"overloaded":     s.overloaded,
		"unassigned":     s.unassigned,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return s, nil
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordRefresh counts the refresh and updates the board gauges.
func (s *PromSink) RecordRefresh(ev events.BoardRefreshed) error {
	s.refreshes.WithLabelValues(outcome(ev.Err)).Inc()
	if ev.Err == nil {
		s.slots.Set(float64(ev.Slots))
		s.vacant.Set(float64(ev.Vacant))
		s.overloaded.Set(float64(ev.Overloaded))
		s.unassigned.Set(float64(ev.Unassigned))
	}
	return nil
}

// RecordCommit counts the commit and observes its latency.
func (s *PromSink) RecordCommit(ev events.SlotCommitted) error {
	o := outcome(ev.Err)
	s.commits.WithLabelValues(o).Inc()
	s.commitLatency.WithLabelValues(o).Observe(ev.Latency.Seconds())
	return nil
}

// RecordBulk counts the bulk operation per kind.
func (s *PromSink) RecordBulk(ev events.BulkOperation) error {
	s.bulkOps.WithLabelValues(string(ev.Kind), outcome(ev.Err)).Inc()
	return nil
}

var _ coremetrics.Sink = (*PromSink)(nil)
var _ coremetrics.CommitRecorder = (*PromSink)(nil)
var _ coremetrics.BulkRecorder = (*PromSink)(nil)
