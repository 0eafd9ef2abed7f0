package rotation

import (
	"sync"
	"time"

	"github.com/genricoloni/framed/internal/domain"
)

// EventType names a rotation event
type EventType string

const (
	EventStarted EventType = "started"
	EventStopped EventType = "stopped"
	EventShown   EventType = "shown"
)

// Event is published whenever the slideshow changes state or artwork
type Event struct {
	Type    EventType       `json:"type"`
	Artwork *domain.Artwork `json:"artwork,omitempty"`
	Trigger string          `json:"trigger,omitempty"`
	At      time.Time       `json:"at"`
}

const subscriberBuffer = 16

// broadcaster fans events out to subscribers. Slow subscribers lose events
// rather than blocking the publisher.
type broadcaster struct {
	mu   sync.Mutex
	next int
	subs map[int]chan Event
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[int]chan Event)}
}

func (b *broadcaster) subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

func (b *broadcaster) publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (b *broadcaster) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
