package kafka

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetWriter_ReusesWriterPerTopic(t *testing.T) {
	p := NewProducer(DefaultConfig())
	defer p.Close()

	first := p.getWriter(Topics.ItemEvents)
	require.NotNil(t, first)
	assert.Same(t, first, p.getWriter(Topics.ItemEvents))
	assert.NotSame(t, first, p.getWriter(Topics.StockEvents))
}

func TestGetWriter_ConcurrentAccess(t *testing.T) {
	p := NewProducer(DefaultConfig())
	defer p.Close()

	topics := []string{Topics.ItemEvents, Topics.StockEvents, Topics.AlertEvents}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(topic string) {
			defer wg.Done()
			assert.NotNil(t, p.getWriter(topic))
		}(topics[i%len(topics)])
	}
	wg.Wait()

	p.mu.RLock()
	defer p.mu.RUnlock()
	assert.Len(t, p.writers, len(topics))
}
