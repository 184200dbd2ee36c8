package cart

import "sync"

// EventType enumerates refresh signals. A typed enum instead of string
// event names so a typo cannot silently drop notifications.
type EventType string

const (
	// EventMutated fires after this process changes a cart.
	EventMutated EventType = "mutated"
	// EventReloaded fires when a cart changed underneath us in storage.
	EventReloaded EventType = "reloaded"
)

// Event tells subscribers which cart to re-read. It carries no delta:
// readers fetch full state, so coalesced bursts lose nothing.
type Event struct {
	Type EventType `json:"type"`
	Key  string    `json:"key"`
}

// Bus fans events out to subscribers. Sends never block: a subscriber
// with a full buffer misses intermediate signals, which is fine because
// the next one it does see triggers a full re-read.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

func NewBus() *Bus {
	return &Bus{subs: map[int]chan Event{}}
}

const subBuffer = 8

// Subscribe registers a reader. The returned cancel must be called when
// the reader goes away; it closes the channel.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++

	ch := make(chan Event, subBuffer)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if ch, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
