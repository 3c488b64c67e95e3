// Package broadcast delivers alert batches from the seeder to live alert streams.
package broadcast

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/mr1hm/tamis/internal/models"
)

// Batch is the alert feed computed after one reseed.
type Batch struct {
	Alerts     []models.Alert `json:"alerts"`
	SeededAt   time.Time      `json:"seededAt"`
	AlertCount int            `json:"alertCount"`
}

// Broadcaster fans alert batches out to open alert streams, one batch per
// reseed.
type Broadcaster struct {
	subscribers map[uint64]chan Batch
	nextID      atomic.Uint64
	mu          sync.RWMutex
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[uint64]chan Batch),
	}
}

// Subscribe registers a stream. The channel is closed by Unsubscribe or Close.
func (b *Broadcaster) Subscribe() (uint64, <-chan Batch) {
	id := b.nextID.Add(1)
	ch := make(chan Batch, 8)

	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()

	return id, ch
}

// Unsubscribe is safe to call after Close.
func (b *Broadcaster) Unsubscribe(id uint64) {
	b.mu.Lock()
	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

// Publish never blocks; a subscriber with a full buffer misses the batch.
func (b *Broadcaster) Publish(alerts []models.Alert, seededAt time.Time) {
	batch := Batch{
		Alerts:     alerts,
		SeededAt:   seededAt,
		AlertCount: len(alerts),
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- batch:
		default:
		}
	}
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes all subscriber channels, ending open streams.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
}
