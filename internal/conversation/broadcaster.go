// ABOUTME: In-memory fan-out of conversation snapshots to registered consumers.
// ABOUTME: Non-blocking publish; slow subscribers miss intermediate snapshots, never block the engine.

package conversation

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// subscriberBufferSize is the channel buffer for each subscriber.
const subscriberBufferSize = 64

// Broadcaster delivers snapshots to all subscribers of one conversation.
// Publish never blocks: a subscriber whose buffer is full skips that
// snapshot and catches up on the next one, since every snapshot carries the
// full state.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[string]chan Snapshot
	logger      *slog.Logger
}

// NewBroadcaster creates a broadcaster. Pass nil logger for the default.
func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{
		subscribers: make(map[string]chan Snapshot),
		logger:      logger.With("component", "broadcaster"),
	}
}

// Subscribe registers a snapshot consumer. Returns the channel and a
// subscription id; the subscription is cleaned up when ctx is cancelled.
func (b *Broadcaster) Subscribe(ctx context.Context) (<-chan Snapshot, string) {
	subID := uuid.New().String()
	ch := make(chan Snapshot, subscriberBufferSize)

	b.mu.Lock()
	b.subscribers[subID] = ch
	b.mu.Unlock()

	b.logger.Debug("subscriber added", "sub_id", subID)

	go func() {
		<-ctx.Done()
		b.Unsubscribe(subID)
	}()

	return ch, subID
}

// Unsubscribe removes and closes a subscription. Safe to call twice.
func (b *Broadcaster) Unsubscribe(subID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[subID]; ok {
		close(ch)
		delete(b.subscribers, subID)
		b.logger.Debug("subscriber removed", "sub_id", subID)
	}
}

// Publish sends a snapshot to every subscriber without blocking.
func (b *Broadcaster) Publish(snap Snapshot) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for subID, ch := range b.subscribers {
		select {
		case ch <- snap:
		default:
			b.logger.Debug("subscriber buffer full, skipping snapshot", "sub_id", subID)
		}
	}
}
