package documents

import (
	"context"
	"sync"
)

// ChangeType labels a repository mutation.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// ChangeEvent describes a committed mutation. Record is a copy and safe to
// retain.
type ChangeEvent struct {
	Type   ChangeType
	Record *DocumentRecord
}

const subscriberBuffer = 8

// broadcaster fans change events out to subscribers. Slow subscribers miss
// events instead of blocking writers.
type broadcaster struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan ChangeEvent
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: map[int]chan ChangeEvent{}}
}

func (b *broadcaster) subscribe(ctx context.Context) <-chan ChangeEvent {
	if ctx == nil {
		ctx = context.Background()
	}
	ch := make(chan ChangeEvent, subscriberBuffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
		close(ch)
	}()
	return ch
}

func (b *broadcaster) publish(kind ChangeType, record *DocumentRecord) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- ChangeEvent{Type: kind, Record: record.clone()}:
		default:
		}
	}
}
