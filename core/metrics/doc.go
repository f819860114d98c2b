// Package metrics defines the sink interfaces used to record board events.
// Sinks like the Prometheus and Influx adapters in infra/metrics implement
// them and can be combined with MultiSink. The event-bus collector in
// infra/metrics feeds events from the schedule manager into the sinks.
package metrics
