package mongodb

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/his-platform/inventory-service/pkg/metrics"
)

// Monitor attaches driver-level observability to client options
type Monitor interface {
	apply(opts *options.ClientOptions)
}

type commandMonitor struct {
	metrics *metrics.Metrics

	mu      sync.Mutex
	started map[int64]commandStart
}

type commandStart struct {
	name       string
	collection string
	at         time.Time
}

// NewCommandMonitor returns a Monitor that records a metric for every
// command the driver sends, labeled by command name.
func NewCommandMonitor(m *metrics.Metrics) Monitor {
	return &commandMonitor{
		metrics: m,
		started: make(map[int64]commandStart),
	}
}

func (c *commandMonitor) apply(opts *options.ClientOptions) {
	opts.SetMonitor(&event.CommandMonitor{
		Started:   c.onStarted,
		Succeeded: c.onSucceeded,
		Failed:    c.onFailed,
	})
}

func (c *commandMonitor) onStarted(_ context.Context, evt *event.CommandStartedEvent) {
	// The target collection is the value of the first command element,
	// e.g. {"insert": "items", ...}.
	collection := ""
	if val, err := evt.Command.IndexErr(0); err == nil {
		collection, _ = val.Value().StringValueOK()
	}

	c.mu.Lock()
	c.started[evt.RequestID] = commandStart{name: evt.CommandName, collection: collection, at: time.Now()}
	c.mu.Unlock()
}

func (c *commandMonitor) onSucceeded(_ context.Context, evt *event.CommandSucceededEvent) {
	c.finish(evt.RequestID, true)
}

func (c *commandMonitor) onFailed(_ context.Context, evt *event.CommandFailedEvent) {
	c.finish(evt.RequestID, false)
}

func (c *commandMonitor) finish(requestID int64, success bool) {
	c.mu.Lock()
	start, ok := c.started[requestID]
	delete(c.started, requestID)
	c.mu.Unlock()

	if !ok {
		return
	}

	c.metrics.RecordMongoDBOperation(start.collection, start.name, success, time.Since(start.at))
}

type poolMonitor struct {
	metrics *metrics.Metrics

	mu    sync.Mutex
	count int
}

// NewPoolMonitor returns a Monitor that tracks the number of open
// connections in the driver pool.
func NewPoolMonitor(m *metrics.Metrics) Monitor {
	return &poolMonitor{metrics: m}
}

func (p *poolMonitor) apply(opts *options.ClientOptions) {
	opts.SetPoolMonitor(&event.PoolMonitor{
		Event: func(evt *event.PoolEvent) {
			p.mu.Lock()
			defer p.mu.Unlock()

			switch evt.Type {
			case event.ConnectionCreated:
				p.count++
			case event.ConnectionClosed:
				p.count--
			default:
				return
			}
			p.metrics.SetMongoDBConnections(p.count)
		},
	})
}
