// Package bus implements the progress bus: a single-producer,
// many-consumer broadcast of CycleProgress snapshots. Modeled on the
// non-blocking fan-out used for market-data distribution elsewhere in this
// kind of system — a slow subscriber's channel is simply skipped rather
// than allowed to block the producer, trading a dropped intermediate
// snapshot for eventual consistency with the latest one.
package bus

import (
	"sync"

	"stockengine/internal/model"
)

// Bus broadcasts CycleProgress snapshots to dynamically joining and
// leaving subscribers.
type Bus struct {
	mu      sync.RWMutex
	subs    map[int]chan model.CycleProgress
	nextID  int
	bufSize int

	latestMu sync.RWMutex
	latest   model.CycleProgress
	hasLatest bool
}

// New creates a Bus whose per-subscriber channel holds bufSize pending
// snapshots before newer ones start being dropped for that subscriber.
func New(bufSize int) *Bus {
	if bufSize < 1 {
		bufSize = 1
	}
	return &Bus{
		subs:    make(map[int]chan model.CycleProgress),
		bufSize: bufSize,
	}
}

// Publish broadcasts a snapshot to every current subscriber. It never
// blocks: a subscriber whose buffer is full simply misses this snapshot.
func (b *Bus) Publish(p model.CycleProgress) {
	b.latestMu.Lock()
	b.latest = p
	b.hasLatest = true
	b.latestMu.Unlock()

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- p:
		default:
			// Subscriber is behind; drop this intermediate snapshot. It
			// remains eventually consistent with the next Publish it
			// does manage to receive.
		}
	}
}

// Snapshot returns the most recently published CycleProgress, or the zero
// value if none has been published yet.
func (b *Bus) Snapshot() model.CycleProgress {
	b.latestMu.RLock()
	defer b.latestMu.RUnlock()
	return b.latest
}

// Subscription is a live subscriber handle. Calling Unsubscribe is the
// caller's responsibility once it stops reading from C.
type Subscription struct {
	C      <-chan model.CycleProgress
	cancel func()
}

// Unsubscribe removes this subscriber and closes its channel.
func (s *Subscription) Unsubscribe() { s.cancel() }

// Subscribe joins the bus. The new subscriber immediately receives the
// latest snapshot (if any) buffered as its first value, then every
// subsequent change.
func (b *Bus) Subscribe() *Subscription {
	ch := make(chan model.CycleProgress, b.bufSize)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	if snap := b.Snapshot(); b.hasSnapshot() {
		select {
		case ch <- snap:
		default:
		}
	}

	cancel := func() {
		b.mu.Lock()
		if existing, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(existing)
		}
		b.mu.Unlock()
	}
	return &Subscription{C: ch, cancel: cancel}
}

func (b *Bus) hasSnapshot() bool {
	b.latestMu.RLock()
	defer b.latestMu.RUnlock()
	return b.hasLatest
}
