package kafka

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"github.com/his-platform/inventory-service/pkg/logging"
	"github.com/his-platform/inventory-service/pkg/metrics"
)

// BreakerProducer wraps Producer with a circuit breaker so a broker outage
// fails fast instead of stalling request handlers on publish timeouts.
type BreakerProducer struct {
	producer *Producer
	breaker  *gobreaker.CircuitBreaker
	metrics  *metrics.Metrics
	logger   *logging.Logger
}

// NewBreakerProducer creates a circuit breaker protected Kafka producer.
func NewBreakerProducer(producer *Producer, m *metrics.Metrics, logger *logging.Logger) *BreakerProducer {
	settings := gobreaker.Settings{
		Name:        "kafka-producer",
		MaxRequests: 5,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 10 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Kafka producer circuit breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	}

	return &BreakerProducer{
		producer: producer,
		breaker:  gobreaker.NewCircuitBreaker(settings),
		metrics:  m,
		logger:   logger,
	}
}

// PublishEvent publishes an envelope through the circuit breaker and records
// the outcome.
func (p *BreakerProducer) PublishEvent(ctx context.Context, topic string, event *Envelope) error {
	start := time.Now()
	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, p.producer.PublishEvent(ctx, topic, event)
	})
	duration := time.Since(start)

	if p.metrics != nil {
		p.metrics.RecordKafkaPublish(topic, event.Type, err == nil, duration)
	}
	p.logger.KafkaPublish(ctx, topic, event.Type, err == nil, duration)

	return err
}

// Close closes the underlying producer
func (p *BreakerProducer) Close() error {
	return p.producer.Close()
}
