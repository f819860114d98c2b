package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/escala-app/escala/core/events"
	coremetrics "github.com/escala-app/escala/core/metrics"
	"github.com/escala-app/escala/infra/logger"
)

// InfluxSink writes board events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB
// endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	client := influxdb2.NewClientWithOptions(url, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

func errTag(err error) string { return strconv.FormatBool(err != nil) }

// RecordRefresh writes one point per refresh with the board gauges.
func (s *InfluxSink) RecordRefresh(ev events.BoardRefreshed) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("board_refresh").
		AddTag("period", ev.Period.String()).
		AddTag("failed", errTag(ev.Err)).
		AddField("slots", ev.Slots).
		AddField("vacant", ev.Vacant).
		AddField("overloaded", ev.Overloaded).
		AddField("unassigned", ev.Unassigned).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordCommit writes one point per slot commit attempt.
func (s *InfluxSink) RecordCommit(ev events.SlotCommitted) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("slot_commit").
		AddTag("slot_key", string(ev.Key)).
		AddTag("session_id", ev.SessionID.String()).
		AddTag("failed", errTag(ev.Err)).
		AddField("latency_ms", ev.Latency.Milliseconds()).
		AddField("vacated", ev.VolunteerID == nil).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordBulk writes one point per bulk gateway operation.
func (s *InfluxSink) RecordBulk(ev events.BulkOperation) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("bulk_operation").
		AddTag("kind", string(ev.Kind)).
		AddTag("period", ev.Period.String()).
		AddTag("failed", errTag(ev.Err)).
		AddField("duration_ms", ev.Duration.Milliseconds()).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close shuts the underlying client down.
func (s *InfluxSink) Close() { s.client.Close() }
