package metrics

import (
	"context"

	"github.com/escala-app/escala/core/events"
	coremetrics "github.com/escala-app/escala/core/metrics"
	"github.com/escala-app/escala/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// board events. It stops when the context is canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.Sink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.BoardRefreshed:
					_ = sink.RecordRefresh(e)
				case events.SlotCommitted:
					if r, ok := sink.(coremetrics.CommitRecorder); ok {
						_ = r.RecordCommit(e)
					}
				case events.BulkOperation:
					if r, ok := sink.(coremetrics.BulkRecorder); ok {
						_ = r.RecordBulk(e)
					}
				}
			}
		}
	}()
}
